package matching

import (
	"slices"
	"sort"
)

// Result is one ranked candidate.
type Result struct {
	Candidate Candidate  `json:"candidate"`
	Analysis  Analysis   `json:"analysis"`
	AI        *Narrative `json:"ai,omitempty"`
}

// Narrative is the optional AI summary attached after ranking.
type Narrative struct {
	Text   string `json:"text,omitempty"`
	Origin string `json:"origin,omitempty"`
	Error  string `json:"error,omitempty"`
}

type Ranking struct {
	Job   Job       `json:"job"`
	Items []*Result `json:"items"`
}

// Rank matches every candidate against job and sorts by overall score,
// highest first. Equal scores keep the input order.
func Rank(candidates []Candidate, job Job) *Ranking {
	items := make([]*Result, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, &Result{Candidate: c, Analysis: Match(c, job)})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Analysis.OverallScore > items[j].Analysis.OverallScore
	})

	return &Ranking{Job: job, Items: items}
}

func (r *Ranking) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Items)
}

func (r *Ranking) IDs() []string {
	ids := make([]string, 0, r.Len())
	if r == nil {
		return ids
	}
	for _, item := range r.Items {
		ids = append(ids, item.Candidate.ID)
	}
	return ids
}

func (r *Ranking) FindByID(id string) *Result {
	if r == nil {
		return nil
	}
	for _, item := range r.Items {
		if item.Candidate.ID == id {
			return item
		}
	}
	return nil
}

// Keep retains the results for which keep returns true and returns the
// IDs of the dropped ones. Order is preserved. A nil ranking drops nothing.
func (r *Ranking) Keep(keep func(*Result) bool) []string {
	dropped := make([]string, 0)
	if r == nil {
		return dropped
	}
	kept := r.Items[:0]
	for _, item := range r.Items {
		if keep(item) {
			kept = append(kept, item)
			continue
		}
		dropped = append(dropped, item.Candidate.ID)
	}
	r.Items = kept
	return dropped
}

// Exclude drops the candidates with the given IDs.
func (r *Ranking) Exclude(ids []string) []string {
	return r.Keep(func(item *Result) bool {
		return !slices.Contains(ids, item.Candidate.ID)
	})
}
