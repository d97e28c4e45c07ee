// Package employability aggregates weighted performance factors into a single
// employability score and grade.
package employability

const (
	MinValue = 0
	MaxValue = 100
)

// Factor is one weighted metric. Score is computed elsewhere and is never
// edited by the user; Weight is.
type Factor struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Weight int    `json:"weight"`
	Score  int    `json:"score"`
	Color  string `json:"color"`
}

var defaultFactors = []Factor{
	{ID: "recent_placements", Name: "Recent Placements", Weight: 30, Score: 85, Color: "#0d9488"},
	{ID: "interviews", Name: "Interviews Held", Weight: 15, Score: 90, Color: "#14b8a6"},
	{ID: "market_demand", Name: "Market Demand", Weight: 10, Score: 70, Color: "#2dd4bf"},
	{ID: "search_visibility", Name: "Search Visibility", Weight: 10, Score: 60, Color: "#5eead4"},
	{ID: "client_feedback", Name: "Client Feedback", Weight: 8, Score: 95, Color: "#99f6e4"},
	{ID: "shortlist", Name: "Shortlist Presence", Weight: 5, Score: 80, Color: "#ccfbf1"},
}

// DefaultFactors returns a fresh copy of the compiled-in factor set.
func DefaultFactors() []Factor {
	return clone(defaultFactors)
}

// Find returns the factor with the given ID.
func Find(factors []Factor, id string) (Factor, bool) {
	for _, f := range factors {
		if f.ID == id {
			return f, true
		}
	}
	return Factor{}, false
}

// MergeOverrides returns a new list where each factor's weight is replaced by
// overrides[factor.ID] when present and in range. Unknown IDs are ignored.
func MergeOverrides(defaults []Factor, overrides map[string]int) []Factor {
	merged := clone(defaults)
	for i := range merged {
		weight, ok := overrides[merged[i].ID]
		if !ok || !inRange(weight) {
			continue
		}
		merged[i].Weight = weight
	}
	return merged
}

// WithWeight returns a copy of factors with the weight of id replaced.
func WithWeight(factors []Factor, id string, weight int) []Factor {
	return MergeOverrides(factors, map[string]int{id: weight})
}

// WithScores returns a copy of factors with scores taken from scores where
// present. Values are clamped to [0,100].
func WithScores(factors []Factor, scores map[string]int) []Factor {
	updated := clone(factors)
	for i := range updated {
		if score, ok := scores[updated[i].ID]; ok {
			updated[i].Score = clamp(score)
		}
	}
	return updated
}

// WeightsOf extracts the persisted override form of factors.
func WeightsOf(factors []Factor) map[string]int {
	weights := make(map[string]int, len(factors))
	for _, f := range factors {
		weights[f.ID] = f.Weight
	}
	return weights
}

func clone(factors []Factor) []Factor {
	return append([]Factor(nil), factors...)
}

func inRange(v int) bool {
	return v >= MinValue && v <= MaxValue
}

func clamp(v int) int {
	return min(max(v, MinValue), MaxValue)
}
