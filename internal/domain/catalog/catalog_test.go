package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_Shape(t *testing.T) {
	c := Default()

	require.Equal(t, 5, c.Len())

	ids := make([]string, 0, c.Len())
	for _, p := range c.All() {
		ids = append(ids, p.ID)
		assert.Len(t, p.Skills, 8, p.ID)

		seen := make(map[string]bool)
		for _, s := range p.Skills {
			assert.False(t, seen[s.Name], "duplicate skill %q in %s", s.Name, p.ID)
			seen[s.Name] = true
			assert.True(t, s.Level.IsValid(), "%s/%s", p.ID, s.Name)
			assert.NotEmpty(t, s.Resources)
		}
	}

	assert.Equal(t, []string{WebDeveloper, DataScientist, MobileDeveloper, DevOpsEngineer, UIUXDesigner}, ids)
}

func TestCatalog_Lookup(t *testing.T) {
	c := Default()

	web, ok := c.Get(WebDeveloper)
	require.True(t, ok)
	assert.Equal(t, "Web Developer", web.Title)
	assert.Equal(t, "HTML", web.Skills[0].Name)

	n, ok := c.SkillCount(WebDeveloper)
	assert.True(t, ok)
	assert.Equal(t, 8, n)

	_, ok = c.Get("astronaut")
	assert.False(t, ok)
	_, ok = c.SkillCount("astronaut")
	assert.False(t, ok)

	assert.True(t, c.HasSkill(WebDeveloper, "React"))
	assert.False(t, c.HasSkill(WebDeveloper, "Kubernetes"))
	assert.False(t, c.HasSkill("astronaut", "React"))
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := Default()

	web, _ := c.Get(WebDeveloper)
	web.Title = "changed"
	web.Skills[0].Name = "changed"
	web.Skills[0].Resources[0] = "changed"

	again, _ := c.Get(WebDeveloper)
	assert.Equal(t, "Web Developer", again.Title)
	assert.Equal(t, "HTML", again.Skills[0].Name)
	assert.Equal(t, "MDN Web Docs", again.Skills[0].Resources[0])
}

func TestNew_IgnoresDuplicateIDs(t *testing.T) {
	c := New([]CareerPath{
		{ID: "a", Title: "first"},
		{ID: "a", Title: "second"},
		{ID: "b", Title: "third"},
	})

	assert.Equal(t, 2, c.Len())
	a, _ := c.Get("a")
	assert.Equal(t, "first", a.Title)
}
