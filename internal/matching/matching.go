// Package matching scores how well candidates fit a job and ranks them.
package matching

import (
	"fmt"
	"strings"

	"github.com/spigell/skillmatch/internal/skills"
)

// LocationMatch is constant until a real location signal exists.
const LocationMatch = 100

// Sub-score weights of the overall score, in tenths.
const (
	skillWeight      = 6
	roleWeight       = 2
	experienceWeight = 2
	weightScale      = skillWeight + roleWeight + experienceWeight
)

const (
	// neutralRoleFit is used when the job title has no tokens.
	neutralRoleFit      = 50
	roleFitThreshold    = 80
	experienceThreshold = 70
	maxSuggestedSkills  = 2
)

type Candidate struct {
	ID                 string         `json:"id" yaml:"id" validate:"required"`
	Name               string         `json:"name" yaml:"name" validate:"required"`
	Role               string         `json:"role" yaml:"role"`
	Skills             skills.Vector  `json:"skills" yaml:"skills" validate:"dive,keys,required,endkeys,gte=0,lte=100"`
	EmployabilityScore int            `json:"employabilityScore" yaml:"employability-score" validate:"gte=0,lte=100"`
	WorkPreference     string         `json:"workPreference,omitempty" yaml:"work-preference" validate:"omitempty,oneof=REMOTE HYBRID ONSITE"`
	Performance        map[string]int `json:"performance,omitempty" yaml:"performance" validate:"dive,keys,required,endkeys,gte=0,lte=100"`
	// WellBeingScore is 0-10, low means burnout risk. Nil means not assessed.
	WellBeingScore *int `json:"wellBeingScore,omitempty" yaml:"well-being-score" validate:"omitempty,gte=0,lte=10"`
}

type Job struct {
	ID             string        `json:"id" yaml:"id"`
	Title          string        `json:"title" yaml:"title"`
	Department     string        `json:"department,omitempty" yaml:"department"`
	Location       string        `json:"location,omitempty" yaml:"location"`
	RequiredSkills skills.Vector `json:"requiredSkills" yaml:"required-skills" validate:"dive,keys,required,endkeys,gte=0,lte=100"`
}

type Details struct {
	SkillMatch      int `json:"skillMatch"`
	ExperienceMatch int `json:"experienceMatch"`
	LocationMatch   int `json:"locationMatch"`
	RoleFit         int `json:"roleFit"`
}

type Analysis struct {
	OverallScore int      `json:"overallScore"`
	Details      Details  `json:"details"`
	Suggestions  []string `json:"suggestions"`
}

// Match computes the affinity between candidate and job. It never fails;
// missing data falls back to 0 or the neutral constants.
func Match(candidate Candidate, job Job) Analysis {
	details := Details{
		SkillMatch:      SkillMatch(candidate.Skills, job.RequiredSkills),
		ExperienceMatch: clampScore(candidate.EmployabilityScore),
		LocationMatch:   LocationMatch,
		RoleFit:         RoleFit(candidate.Role, job.Title),
	}

	return Analysis{
		OverallScore: overall(details),
		Details:      details,
		Suggestions:  suggestions(candidate, job, details),
	}
}

// SkillMatch is the share of required levels the candidate covers. Levels
// above the requirement earn nothing extra.
func SkillMatch(candidate, required skills.Vector) int {
	var earned, total int
	for skill, want := range required {
		if want <= 0 {
			continue
		}
		earned += min(max(candidate.Level(skill), 0), want)
		total += want
	}

	if total == 0 {
		return 0
	}

	return roundDiv(100*earned, total)
}

// RoleFit is the share of job title tokens found in the candidate's role.
// Tokens are lowercase and whitespace separated, without stemming.
func RoleFit(role, title string) int {
	titleTokens := tokenSet(title)
	if len(titleTokens) == 0 {
		return neutralRoleFit
	}

	roleTokens := tokenSet(role)
	common := 0
	for token := range titleTokens {
		if _, ok := roleTokens[token]; ok {
			common++
		}
	}

	return roundDiv(100*common, len(titleTokens))
}

// MissingSkills returns required skills the candidate is below, in lexical
// order.
func MissingSkills(candidate, required skills.Vector) []string {
	missing := make([]string, 0)
	for _, skill := range required.Names() {
		if candidate.Level(skill) < required[skill] {
			missing = append(missing, skill)
		}
	}
	return missing
}

func overall(d Details) int {
	sum := skillWeight*d.SkillMatch + roleWeight*d.RoleFit + experienceWeight*d.ExperienceMatch
	return roundDiv(max(sum, 0), weightScale)
}

func suggestions(candidate Candidate, job Job, d Details) []string {
	result := make([]string, 0, 3)

	if missing := MissingSkills(candidate.Skills, job.RequiredSkills); len(missing) > 0 {
		if len(missing) > maxSuggestedSkills {
			missing = missing[:maxSuggestedSkills]
		}
		result = append(result, fmt.Sprintf("Upskill in %s to meet the role requirements", strings.Join(missing, " and ")))
	}

	if d.RoleFit < roleFitThreshold {
		result = append(result, fmt.Sprintf("Consider a role transition from %q to %q", candidate.Role, job.Title))
	}

	if d.ExperienceMatch < experienceThreshold {
		result = append(result, "Improve the employability score to strengthen the overall profile")
	}

	return result
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func clampScore(v int) int {
	return min(max(v, 0), 100)
}

// roundDiv rounds num/den half up for non-negative num and positive den.
func roundDiv(num, den int) int {
	return (2*num + den) / (2 * den)
}
