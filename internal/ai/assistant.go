package ai

import (
	"context"
)

// CVData is the structured résumé extracted from a spoken introduction.
type CVData struct {
	FullName   string       `json:"fullName"`
	Summary    string       `json:"summary"`
	Skills     []string     `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  string       `json:"education"`
}

type Experience struct {
	Role     string `json:"role"`
	Company  string `json:"company"`
	Duration string `json:"duration"`
}

type MatchRequest struct {
	CandidateName   string
	JobTitle        string
	CandidateSkills []string
	JobSkills       []string
}

type ChatContext struct {
	CandidateName      string
	Role               string
	EmployabilityScore int
	WorkPreference     string
}

type CVExtractor interface {
	ExtractCV(ctx context.Context, transcript string) (*CVData, error)
}

type MatchAnalyst interface {
	AnalyzeMatch(ctx context.Context, req MatchRequest) (string, error)
}

type ChatResponder interface {
	Chat(ctx context.Context, message string, chat ChatContext) (string, error)
}
