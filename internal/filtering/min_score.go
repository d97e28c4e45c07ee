package filtering

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/matching"
)

type minScoreFilter struct {
	enabled bool
	reason  string
	minimum int
	logger  *zap.Logger
}

// NewMinScore creates a filter that drops results whose overall score is
// below minimum. A non-positive minimum disables the step.
func NewMinScore(minimum int, logger *zap.Logger) Filter {
	f := &minScoreFilter{enabled: true, minimum: minimum, logger: logger}
	if minimum <= 0 {
		f.Disable("minimum score is not set")
	}
	return f
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *minScoreFilter) IsEnabled() bool { return f.enabled }

func (f *minScoreFilter) Validate() error { return nil }

func (f *minScoreFilter) Apply(_ context.Context, r *matching.Ranking) (*matching.Ranking, Step, error) {
	initial := r.Len()
	dropped := r.Keep(func(item *matching.Result) bool {
		return item.Analysis.OverallScore >= f.minimum
	})

	if f.logger != nil && len(dropped) > 0 {
		f.logger.Info("excluding candidates below the minimum score",
			zap.Int("minimum_score", f.minimum),
			zap.Strings("excluded_candidates", dropped),
			zap.Int("candidates_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{"minimum_score": strconv.Itoa(f.minimum)},
	}
}
