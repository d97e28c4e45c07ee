package employability

import (
	"regexp"
	"time"
)

// Candidate identifies who a report is about.
type Candidate struct {
	ID   string
	Name string
}

// Report is the exported audit artifact. Field names are part of the export
// contract.
type Report struct {
	CandidateID   string         `json:"candidateId"`
	CandidateName string         `json:"candidateName"`
	GeneratedAt   string         `json:"generatedAt"`
	FinalScore    int            `json:"finalScore"`
	Grade         string         `json:"grade"`
	Label         string         `json:"label"`
	Breakdown     []Contribution `json:"breakdown"`
}

// Contribution is score*weight, not normalized.
type Contribution struct {
	Factor       string `json:"factor"`
	Weight       int    `json:"weight"`
	Score        int    `json:"score"`
	Contribution int    `json:"contribution"`
}

// isoMillis matches the ISO-8601 form produced by JavaScript's toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func GenerateReport(candidate Candidate, factors []Factor, finalScore int, now time.Time) Report {
	grade := GradeFor(finalScore)

	breakdown := make([]Contribution, 0, len(factors))
	for _, f := range factors {
		breakdown = append(breakdown, Contribution{
			Factor:       f.Name,
			Weight:       f.Weight,
			Score:        f.Score,
			Contribution: f.Score * f.Weight,
		})
	}

	return Report{
		CandidateID:   candidate.ID,
		CandidateName: candidate.Name,
		GeneratedAt:   now.UTC().Format(isoMillis),
		FinalScore:    finalScore,
		Grade:         grade.Letter,
		Label:         grade.Label,
		Breakdown:     breakdown,
	}
}

var whitespace = regexp.MustCompile(`\s+`)

// ReportFileName is the download name used for an exported report.
func ReportFileName(candidateName string) string {
	return "Employability_Report_" + whitespace.ReplaceAllString(candidateName, "_") + ".json"
}
