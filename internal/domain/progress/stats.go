package progress

import "github.com/careerpath-hub/career-path-builder/internal/domain/catalog"

// CareerStats summarizes one career path for one account.
type CareerStats struct {
	CareerID  string
	Title     string
	Completed int
	Total     int
	Percent   int
}

// Stats are the aggregate completion figures shown on the profile page.
type Stats struct {
	TotalSkills     int
	CompletedSkills int
	Percent         int

	// Careers lists every career the account has touched that still exists
	// in the catalog, in catalog order.
	Careers []CareerStats
}

// ComputeStats aggregates an account's progress against the catalog.
//
// Only careers present in the progress count, and a career id missing from
// the catalog is skipped entirely. For a known career every true flag is
// counted, including skill names the catalog no longer lists, so
// CompletedSkills and Percent can exceed the catalog totals. The per-career
// entries in Careers only count catalog skills.
func ComputeStats(cat *catalog.Catalog, ap AccountProgress) Stats {
	var st Stats
	for _, path := range cat.All() {
		skills, touched := ap[path.ID]
		if !touched {
			continue
		}
		st.TotalSkills += path.SkillCount()
		st.CompletedSkills += skills.CompletedCount()
		st.Careers = append(st.Careers, Summarize(path, skills))
	}
	st.Percent = percent(st.CompletedSkills, st.TotalSkills)
	return st
}

// Summarize counts completed catalog skills of a single path.
func Summarize(path catalog.CareerPath, skills CareerProgress) CareerStats {
	cs := CareerStats{
		CareerID: path.ID,
		Title:    path.Title,
		Total:    path.SkillCount(),
	}
	for _, s := range path.Skills {
		if skills[s.Name] {
			cs.Completed++
		}
	}
	cs.Percent = percent(cs.Completed, cs.Total)
	return cs
}

func percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return done * 100 / total
}
