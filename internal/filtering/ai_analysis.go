package filtering

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/matching"
)

// Analyzer produces the narrative attached to a ranked candidate.
type Analyzer interface {
	AnalyzeMatch(ctx context.Context, req ai.MatchRequest) (string, ai.Origin)
}

type AIAnalysisConfig struct {
	Enabled     bool
	Provider    string
	Model       string
	TopN        int
	Concurrency int
}

type AIAnalysisDeps struct {
	Analyzer Analyzer
	Logger   *zap.Logger
}

type aiAnalysisFilter struct {
	enabled bool
	reason  string
	config  *AIAnalysisConfig
	deps    *AIAnalysisDeps
}

// NewAIAnalysis creates the step that attaches AI narratives to the top
// results. It never drops candidates.
func NewAIAnalysis(cfg *AIAnalysisConfig, deps *AIAnalysisDeps) Filter {
	f := &aiAnalysisFilter{config: cfg, deps: deps}
	if cfg != nil {
		f.enabled = cfg.Enabled
	}
	if !f.enabled {
		f.reason = "ai is disabled in the config"
	}
	return f
}

func (f *aiAnalysisFilter) Name() string { return "ai_analysis" }

func (f *aiAnalysisFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *aiAnalysisFilter) IsEnabled() bool { return f.enabled }

func (f *aiAnalysisFilter) Validate() error {
	if f.deps == nil || f.deps.Analyzer == nil {
		return errors.New("deps are not initialized: filter is not usable")
	}
	if f.config == nil || f.config.TopN <= 0 {
		return errors.New("top-n must be positive when ai analysis is enabled")
	}
	return nil
}

func (f *aiAnalysisFilter) Apply(ctx context.Context, r *matching.Ranking) (*matching.Ranking, Step, error) {
	initial := r.Len()
	log := logger.With(f.deps.Logger)

	top := min(f.config.TopN, r.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(f.config.Concurrency, 1))

	for _, item := range r.Items[:top] {
		g.Go(func() error {
			log := logger.WithMatchFields(log, item.Candidate.ID, r.Job.ID)

			if err := gctx.Err(); err != nil {
				item.AI = &matching.Narrative{Error: err.Error()}
				return nil
			}

			text, origin := f.deps.Analyzer.AnalyzeMatch(gctx, MatchRequest(item, r.Job))
			item.AI = &matching.Narrative{Text: text, Origin: string(origin)}
			if origin == ai.OriginFallback {
				item.AI.Error = "ai analysis is unavailable"
				log.Warn("AI analysis fell back")
				return nil
			}

			log.Debug("AI analysis attached", zap.String("origin", string(origin)))
			return nil
		})
	}

	// goroutines never return errors; failures are kept on the results
	_ = g.Wait()

	log.Info("AI analysis completed",
		zap.Int("analyzed_candidates", top),
		zap.Int("ranked_candidates", initial),
	)

	return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
}

func (f *aiAnalysisFilter) Status() Status {
	details := map[string]string{}
	if f.config != nil {
		details["top_n"] = strconv.Itoa(f.config.TopN)
		details["concurrency"] = strconv.Itoa(f.config.Concurrency)
		if f.config.Provider != "" {
			details["provider"] = f.config.Provider
		}
		if f.config.Model != "" {
			details["model"] = f.config.Model
		}
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

// MatchRequest builds the AI request for a ranked result. Skill names are
// sorted so equal inputs share a cache key.
func MatchRequest(item *matching.Result, job matching.Job) ai.MatchRequest {
	return ai.MatchRequest{
		CandidateName:   item.Candidate.Name,
		JobTitle:        job.Title,
		CandidateSkills: item.Candidate.Skills.Names(),
		JobSkills:       job.RequiredSkills.Names(),
	}
}
