package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCatalogCmd_ListsAllPaths(t *testing.T) {
	out, err := execute(t, "catalog")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[2], "web_developer")
	assert.Contains(t, lines[2], "Web Developer")
	assert.True(t, strings.HasSuffix(lines[2], "8"))
	assert.Contains(t, out, "ui_ux_designer")
}

func TestCatalogCmd_CareerRoadmap(t *testing.T) {
	out, err := execute(t, "catalog", "--career", "devops_engineer")
	require.NoError(t, err)

	assert.Contains(t, out, "DevOps Engineer")
	assert.Contains(t, out, "Docker & Containers")
	assert.Contains(t, out, "Intermediate")
}

func TestCatalogCmd_UnknownCareer(t *testing.T) {
	_, err := execute(t, "catalog", "--career", "astronaut")
	assert.ErrorContains(t, err, `unknown career path "astronaut"`)
}

func TestRenderTable_Alignment(t *testing.T) {
	out := RenderTable([]string{"A", "Long header"}, [][]string{{"wide cell", "x"}, {"y"}}, false)

	assert.Equal(t, ""+
		"A          Long header\n"+
		"─────────  ───────────\n"+
		"wide cell  x\n"+
		"y          \n", out)
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Empty(t, RenderTable(nil, nil, false))
}
