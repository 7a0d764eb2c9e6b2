package progress

import (
	"testing"

	"github.com/careerpath-hub/career-path-builder/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats_SingleSkill(t *testing.T) {
	ap := AccountProgress{
		catalog.WebDeveloper: {"HTML": true},
	}

	st := ComputeStats(catalog.Default(), ap)

	assert.Equal(t, 8, st.TotalSkills)
	assert.Equal(t, 1, st.CompletedSkills)
	assert.Equal(t, 12, st.Percent)
	require.Len(t, st.Careers, 1)
	assert.Equal(t, "Web Developer", st.Careers[0].Title)
}

func TestComputeStats_UnknownCareerIsExcluded(t *testing.T) {
	ap := AccountProgress{
		"astronaut":           {"Orbital Mechanics": true, "Spacewalk": true},
		catalog.DataScientist: {"Python Basics": true, "Deep Learning": false},
	}

	var st Stats
	assert.NotPanics(t, func() { st = ComputeStats(catalog.Default(), ap) })

	assert.Equal(t, 8, st.TotalSkills)
	assert.Equal(t, 1, st.CompletedSkills)
	require.Len(t, st.Careers, 1)
	assert.Equal(t, catalog.DataScientist, st.Careers[0].CareerID)
}

func TestComputeStats_CountsFlagsForRemovedSkills(t *testing.T) {
	ap := AccountProgress{
		catalog.WebDeveloper: {"HTML": true, "Legacy Skill": true},
		"gone_career":        {"X": true},
	}

	st := ComputeStats(catalog.Default(), ap)

	assert.Equal(t, 8, st.TotalSkills)
	assert.Equal(t, 2, st.CompletedSkills)
	assert.Equal(t, 25, st.Percent)
	require.Len(t, st.Careers, 1)
	assert.Equal(t, 1, st.Careers[0].Completed, "per-career figures only count catalog skills")
	assert.Equal(t, 12, st.Careers[0].Percent)
}

func TestComputeStats_FalseFlagsAreNotCounted(t *testing.T) {
	ap := AccountProgress{
		catalog.WebDeveloper: {"HTML": true, "CSS": false, "Legacy Skill": false},
	}

	st := ComputeStats(catalog.Default(), ap)

	assert.Equal(t, 1, st.CompletedSkills)
}

func TestComputeStats_Empty(t *testing.T) {
	st := ComputeStats(catalog.Default(), nil)

	assert.Zero(t, st.TotalSkills)
	assert.Zero(t, st.CompletedSkills)
	assert.Zero(t, st.Percent)
	assert.Empty(t, st.Careers)
}

func TestRecord_SetAndForAccount(t *testing.T) {
	r := make(Record)

	r.Set("1", catalog.WebDeveloper, "HTML", true)
	r.Set("1", catalog.WebDeveloper, "HTML", false)
	r.Set("1", catalog.WebDeveloper, "CSS", true)

	ap := r.ForAccount("1")
	assert.Equal(t, CareerProgress{"HTML": false, "CSS": true}, ap[catalog.WebDeveloper])
	assert.Equal(t, 1, ap[catalog.WebDeveloper].CompletedCount())

	ap[catalog.WebDeveloper]["HTML"] = true
	assert.False(t, r["1"][catalog.WebDeveloper]["HTML"], "ForAccount must return a copy")

	empty := r.ForAccount("2")
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
