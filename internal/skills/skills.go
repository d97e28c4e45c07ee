// Package skills compares candidate and job skill vectors.
package skills

import (
	"sort"
)

// FullMark is the upper bound of a skill level.
const FullMark = 100

const (
	highGapThreshold   = 30
	mediumGapThreshold = 15
)

// Vector maps a skill name to a proficiency level in [0,100].
// Names are case-sensitive. An absent skill has level 0.
type Vector map[string]int

// Level returns the level of the skill or 0 if it is absent.
func (v Vector) Level(skill string) int {
	if v == nil {
		return 0
	}
	return v[skill]
}

// Names returns the skill names sorted lexically.
func (v Vector) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Union returns the names of the candidate skills followed by the names
// present only in the job vector. Both parts are sorted lexically.
func Union(candidate, job Vector) []string {
	names := candidate.Names()
	for _, name := range job.Names() {
		if _, ok := candidate[name]; ok {
			continue
		}
		names = append(names, name)
	}
	return names
}

type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// SeverityFor classifies a gap. Zero and negative gaps are Low.
func SeverityFor(gap int) Severity {
	switch {
	case gap > highGapThreshold:
		return SeverityHigh
	case gap > mediumGapThreshold:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Gap is the comparison of one skill.
type Gap struct {
	Skill          string   `json:"skill"`
	CandidateScore int      `json:"candidateScore"`
	TargetScore    int      `json:"targetScore"`
	Gap            int      `json:"gap"`
	Severity       Severity `json:"severity"`
}

// ChartPoint is a single axis of the candidate vs required radar chart.
type ChartPoint struct {
	Subject        string `json:"subject"`
	CandidateScore int    `json:"candidateScore"`
	RequiredScore  int    `json:"requiredScore"`
	FullMark       int    `json:"fullMark"`
}

type Analysis struct {
	PerSkill     []Gap        `json:"perSkill"`
	CriticalGaps []Gap        `json:"criticalGaps"`
	Chart        []ChartPoint `json:"chart"`
}

// Analyze compares the candidate vector with the job's required vector over
// the union of both key sets.
func Analyze(candidate, job Vector) Analysis {
	names := Union(candidate, job)

	analysis := Analysis{
		PerSkill:     make([]Gap, 0, len(names)),
		CriticalGaps: make([]Gap, 0),
		Chart:        make([]ChartPoint, 0, len(names)),
	}

	for _, name := range names {
		have := candidate.Level(name)
		want := job.Level(name)
		diff := want - have

		analysis.Chart = append(analysis.Chart, ChartPoint{
			Subject:        name,
			CandidateScore: have,
			RequiredScore:  want,
			FullMark:       FullMark,
		})

		analysis.PerSkill = append(analysis.PerSkill, Gap{
			Skill:          name,
			CandidateScore: have,
			TargetScore:    want,
			Gap:            max(diff, 0),
			Severity:       SeverityFor(diff),
		})
	}

	for _, gap := range analysis.PerSkill {
		if gap.TargetScore > gap.CandidateScore {
			analysis.CriticalGaps = append(analysis.CriticalGaps, gap)
		}
	}

	sort.SliceStable(analysis.CriticalGaps, func(i, j int) bool {
		return analysis.CriticalGaps[i].Gap > analysis.CriticalGaps[j].Gap
	})

	return analysis
}

// HasHighSeverity reports whether any critical gap is High.
func (a Analysis) HasHighSeverity() bool {
	for _, gap := range a.CriticalGaps {
		if gap.Severity == SeverityHigh {
			return true
		}
	}
	return false
}
