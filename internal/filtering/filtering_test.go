package filtering

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/matching"
)

func testRanking(scores ...int) *matching.Ranking {
	r := &matching.Ranking{
		Job: matching.Job{ID: "j1", Title: "Engineer", RequiredSkills: map[string]int{"Go": 80, "SQL": 60}},
	}
	for i, score := range scores {
		id := string(rune('a' + i))
		r.Items = append(r.Items, &matching.Result{
			Candidate: matching.Candidate{ID: id, Name: "Candidate " + id, Skills: map[string]int{"Go": score}},
			Analysis:  matching.Analysis{OverallScore: score},
		})
	}
	return r
}

type recordingAnalyzer struct {
	mu       sync.Mutex
	requests []ai.MatchRequest
	origin   ai.Origin
}

func (a *recordingAnalyzer) AnalyzeMatch(_ context.Context, req ai.MatchRequest) (string, ai.Origin) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = append(a.requests, req)
	return "summary for " + req.CandidateName, a.origin
}

func TestMinScoreKeepsOrder(t *testing.T) {
	t.Parallel()

	r := testRanking(90, 40, 75, 60, 75)
	next, step, err := NewMinScore(60, zap.NewNop()).Apply(context.Background(), r)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c", "d", "e"}, next.IDs())
	assert.Equal(t, Step{Initial: 5, Dropped: 1, Left: 4}, step)
}

func TestMinScoreDisabledWhenUnset(t *testing.T) {
	t.Parallel()

	f := NewMinScore(0, nil)
	assert.False(t, f.IsEnabled())

	status := Describe([]Filter{f})[0]
	assert.Equal(t, "min_score", status.Name)
	assert.NotEmpty(t, status.Reason)
}

func TestExcludeFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "excluded.json")
	shortlist := ToExcluded(&matching.Ranking{
		Job:   matching.Job{ID: "j1"},
		Items: []*matching.Result{{Candidate: matching.Candidate{ID: "b", Name: "B"}}, {Candidate: matching.Candidate{ID: "d", Name: "D"}}},
	}, "shortlisted", time.Date(2025, 11, 26, 10, 0, 0, 0, time.UTC))
	require.NoError(t, shortlist.ToFile(path))

	r := testRanking(90, 80, 70, 60)
	next, step, err := NewExcludeFile(path, zap.NewNop()).Apply(context.Background(), r)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c"}, next.IDs())
	assert.Equal(t, Step{Initial: 4, Dropped: 2, Left: 2}, step)
}

func TestExcludeFileMissingOrEmpty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	r := testRanking(90, 80)
	_, step, err := NewExcludeFile(filepath.Join(dir, "missing.json"), nil).Apply(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, 0, step.Dropped)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, step, err = NewExcludeFile(empty, nil).Apply(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, 0, step.Dropped)

	_, step, err = NewExcludeFile("", nil).Apply(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, Step{Initial: 2, Left: 2}, step)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0o644))
	_, _, err = NewExcludeFile(broken, nil).Apply(context.Background(), r)
	assert.Error(t, err)
}

func TestExcludedAppendSkipsKnownIDs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "excluded.json")
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	first := ToExcluded(testRanking(90, 80), "round 1", now)
	require.NoError(t, first.ToFile(path))

	loaded, err := LoadExcluded(path)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "j1", loaded.Items[0].JobID)
	assert.True(t, now.Equal(loaded.Items[0].ExcludedAt))

	added := loaded.Append(ToExcluded(testRanking(90, 80, 70), "round 2", now))
	assert.Equal(t, 1, added)
	require.NoError(t, loaded.ToFile(path))

	reloaded, err := LoadExcluded(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, reloaded.IDs())
}

func TestAIAnalysisAnnotatesTopN(t *testing.T) {
	t.Parallel()

	analyzer := &recordingAnalyzer{origin: ai.OriginAI}
	f := NewAIAnalysis(&AIAnalysisConfig{Enabled: true, TopN: 2, Concurrency: 2}, &AIAnalysisDeps{Analyzer: analyzer})
	require.NoError(t, f.Validate())

	r := testRanking(90, 80, 70)
	next, step, err := f.Apply(context.Background(), r)
	require.NoError(t, err)

	assert.Equal(t, Step{Initial: 3, Dropped: 0, Left: 3}, step)
	assert.Equal(t, []string{"a", "b", "c"}, next.IDs())

	require.NotNil(t, next.Items[0].AI)
	assert.Equal(t, "summary for Candidate a", next.Items[0].AI.Text)
	assert.Equal(t, "ai", next.Items[0].AI.Origin)
	assert.Empty(t, next.Items[0].AI.Error)
	require.NotNil(t, next.Items[1].AI)
	assert.Nil(t, next.Items[2].AI)

	require.Len(t, analyzer.requests, 2)
	for _, req := range analyzer.requests {
		assert.Equal(t, "Engineer", req.JobTitle)
		assert.Equal(t, []string{"Go", "SQL"}, req.JobSkills)
	}
}

func TestAIAnalysisRecordsFallback(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	analyzer := &recordingAnalyzer{origin: ai.OriginFallback}
	f := NewAIAnalysis(&AIAnalysisConfig{Enabled: true, TopN: 5}, &AIAnalysisDeps{Analyzer: analyzer, Logger: zap.New(core)})

	next, step, err := f.Apply(context.Background(), testRanking(50))
	require.NoError(t, err)

	assert.Equal(t, 0, step.Dropped)
	require.NotNil(t, next.Items[0].AI)
	assert.Equal(t, "fallback", next.Items[0].AI.Origin)
	assert.NotEmpty(t, next.Items[0].AI.Error)
	assert.Equal(t, 1, logs.FilterMessage("AI analysis fell back").Len())
}

func TestAIAnalysisValidate(t *testing.T) {
	t.Parallel()

	disabled := NewAIAnalysis(&AIAnalysisConfig{Enabled: false}, nil)
	assert.False(t, disabled.IsEnabled())

	noDeps := NewAIAnalysis(&AIAnalysisConfig{Enabled: true, TopN: 1}, &AIAnalysisDeps{})
	assert.Error(t, noDeps.Validate())

	noTop := NewAIAnalysis(&AIAnalysisConfig{Enabled: true}, &AIAnalysisDeps{Analyzer: &recordingAnalyzer{}})
	assert.Error(t, noTop.Validate())
}

func TestRun(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	analyzer := &recordingAnalyzer{origin: ai.OriginCache}
	steps := []Filter{
		NewMinScore(60, logger),
		NewExcludeFile("", logger),
		NewAIAnalysis(&AIAnalysisConfig{Enabled: true, TopN: 1, Concurrency: 1}, &AIAnalysisDeps{Analyzer: analyzer, Logger: logger}),
	}

	r, err := Run(context.Background(), logger, steps, testRanking(95, 30, 65))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c"}, r.IDs())
	require.NotNil(t, r.Items[0].AI)
	assert.Nil(t, r.Items[1].AI)
	assert.Equal(t, 3, logs.FilterMessage("filter step").Len())

	DisableByName(steps, "ai_analysis", "disabled by test")
	statuses := Describe(steps)
	require.Len(t, statuses, 3)
	assert.False(t, statuses[2].Enabled)
	assert.Equal(t, "disabled by test", statuses[2].Reason)
	assert.Equal(t, "1", statuses[2].Details["top_n"])
}

func TestRunStopsOnInvalidStep(t *testing.T) {
	t.Parallel()

	steps := []Filter{NewAIAnalysis(&AIAnalysisConfig{Enabled: true, TopN: 1}, &AIAnalysisDeps{})}
	_, err := Run(context.Background(), nil, steps, testRanking(10))
	require.ErrorContains(t, err, "ai_analysis")
}
