// Package analytics aggregates a candidate pool into dashboard figures.
package analytics

import (
	"sort"

	"github.com/spigell/skillmatch/internal/matching"
)

const (
	// AtRiskBelow is the well-being score under which a candidate counts as
	// at risk of burnout.
	AtRiskBelow = 7
	// TopSkillsLimit caps Summary.TopSkills.
	TopSkillsLimit = 5

	preferenceOnsite = "ONSITE"
)

// Preference is one slice of the work preference distribution.
type Preference struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// SkillCount is how many candidates list a skill.
type SkillCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Summary struct {
	TotalCandidates      int          `json:"totalCandidates"`
	AverageEmployability int          `json:"averageEmployability"`
	AtRisk               int          `json:"atRisk"`
	FlexibleShare        int          `json:"flexibleShare"`
	WorkPreferences      []Preference `json:"workPreferences"`
	TopSkills            []SkillCount `json:"topSkills"`
}

var preferences = []struct {
	key   string
	slice Preference
}{
	{key: "REMOTE", slice: Preference{Name: "Remote", Color: "#38bdf8"}},
	{key: "HYBRID", slice: Preference{Name: "Hybrid", Color: "#ec4899"}},
	{key: preferenceOnsite, slice: Preference{Name: "Onsite", Color: "#f97316"}},
}

// Summarize computes the pool figures. Averages and shares are rounded half
// up. An empty pool gives zero figures and empty lists.
func Summarize(candidates []matching.Candidate) Summary {
	summary := Summary{
		TotalCandidates: len(candidates),
		WorkPreferences: make([]Preference, 0, len(preferences)),
		TopSkills:       make([]SkillCount, 0, TopSkillsLimit),
	}
	if len(candidates) == 0 {
		return summary
	}

	var employability, flexible int
	byPreference := make(map[string]int, len(preferences))
	bySkill := make(map[string]int)

	for _, c := range candidates {
		employability += min(max(c.EmployabilityScore, 0), 100)
		if c.WellBeingScore != nil && *c.WellBeingScore < AtRiskBelow {
			summary.AtRisk++
		}
		// a candidate without a stated preference counts as flexible
		if c.WorkPreference != preferenceOnsite {
			flexible++
		}
		byPreference[c.WorkPreference]++
		for name := range c.Skills {
			bySkill[name]++
		}
	}

	summary.AverageEmployability = roundDiv(employability, len(candidates))
	summary.FlexibleShare = roundDiv(100*flexible, len(candidates))

	for _, p := range preferences {
		if n := byPreference[p.key]; n > 0 {
			slice := p.slice
			slice.Value = n
			summary.WorkPreferences = append(summary.WorkPreferences, slice)
		}
	}

	for name, count := range bySkill {
		summary.TopSkills = append(summary.TopSkills, SkillCount{Name: name, Count: count})
	}
	sort.Slice(summary.TopSkills, func(i, j int) bool {
		a, b := summary.TopSkills[i], summary.TopSkills[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})
	if len(summary.TopSkills) > TopSkillsLimit {
		summary.TopSkills = summary.TopSkills[:TopSkillsLimit]
	}

	return summary
}

func roundDiv(num, den int) int {
	return (2*num + den) / (2 * den)
}
