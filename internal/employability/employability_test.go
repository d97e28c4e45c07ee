package employability

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/skillmatch/internal/storage"
)

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		factors []Factor
		expect  int
	}{
		{name: "empty", factors: nil, expect: 0},
		{name: "zero weights", factors: []Factor{{Weight: 0, Score: 90}, {Weight: 0, Score: 10}}, expect: 0},
		{
			name:    "even split",
			factors: []Factor{{Weight: 50, Score: 100}, {Weight: 50, Score: 0}},
			expect:  50,
		},
		{
			name:    "half rounds up",
			factors: []Factor{{Weight: 1, Score: 80}, {Weight: 1, Score: 81}},
			expect:  81,
		},
		{
			name:    "below half rounds down",
			factors: []Factor{{Weight: 2, Score: 80}, {Weight: 1, Score: 81}},
			expect:  80,
		},
		{
			name:    "out of range values are clamped",
			factors: []Factor{{Weight: -10, Score: 100}, {Weight: 10, Score: 150}},
			expect:  100,
		},
		{name: "defaults", factors: DefaultFactors(), expect: 82},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, Score(tt.factors))
		})
	}
}

func TestGradeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score  int
		letter string
		label  string
	}{
		{score: 100, letter: "A", label: "Top Talent"},
		{score: 90, letter: "A", label: "Top Talent"},
		{score: 89, letter: "B", label: "Highly Employable"},
		{score: 80, letter: "B", label: "Highly Employable"},
		{score: 79, letter: "C", label: "Employable"},
		{score: 70, letter: "C", label: "Employable"},
		{score: 69, letter: "D", label: "Needs Improvement"},
		{score: 60, letter: "D", label: "Needs Improvement"},
		{score: 59, letter: "E", label: "At Risk"},
		{score: 0, letter: "E", label: "At Risk"},
	}

	for _, tt := range tests {
		grade := GradeFor(tt.score)
		assert.Equal(t, tt.letter, grade.Letter, "score %d", tt.score)
		assert.Equal(t, tt.label, grade.Label, "score %d", tt.score)
	}
}

func TestMergeOverrides(t *testing.T) {
	t.Parallel()

	defaults := DefaultFactors()
	merged := MergeOverrides(defaults, map[string]int{
		"interviews":    40,
		"shortlist":     101,
		"market_demand": -1,
		"removed":       10,
	})

	require.Len(t, merged, len(defaults))

	interviews, ok := Find(merged, "interviews")
	require.True(t, ok)
	assert.Equal(t, 40, interviews.Weight)

	shortlist, _ := Find(merged, "shortlist")
	assert.Equal(t, 5, shortlist.Weight)

	demand, _ := Find(merged, "market_demand")
	assert.Equal(t, 10, demand.Weight)

	original, _ := Find(defaults, "interviews")
	assert.Equal(t, 15, original.Weight, "defaults must not be mutated")
	assert.Equal(t, 15, DefaultFactors()[1].Weight)
}

func TestWithWeightAndScores(t *testing.T) {
	t.Parallel()

	factors := WithWeight(DefaultFactors(), "recent_placements", 0)
	f, _ := Find(factors, "recent_placements")
	assert.Equal(t, 0, f.Weight)
	assert.Equal(t, 85, f.Score)

	factors = WithScores(factors, map[string]int{"recent_placements": 120, "interviews": 10})
	f, _ = Find(factors, "recent_placements")
	assert.Equal(t, 100, f.Score)
	f, _ = Find(factors, "interviews")
	assert.Equal(t, 10, f.Score)
	assert.Equal(t, 15, f.Weight)
}

func TestWeightsRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	weights := NewWeights(storage.NewMemory(), zap.NewNop())

	assert.Equal(t, DefaultFactors(), weights.Load(ctx))

	edited := WithWeight(weights.Load(ctx), "client_feedback", 35)
	require.NoError(t, weights.Save(ctx, edited))

	first := weights.Load(ctx)
	require.NoError(t, weights.Save(ctx, first))
	second := weights.Load(ctx)

	assert.Equal(t, first, second)
	f, _ := Find(second, "client_feedback")
	assert.Equal(t, 35, f.Weight)
}

func TestWeightsPersistedFormat(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := storage.NewMemory()
	weights := NewWeights(store, nil)

	require.NoError(t, weights.Save(ctx, DefaultFactors()))

	raw, err := store.Get(ctx, StorageKey)
	require.NoError(t, err)

	var stored map[string]int
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, map[string]int{
		"recent_placements": 30,
		"interviews":        15,
		"market_demand":     10,
		"search_visibility": 10,
		"client_feedback":   8,
		"shortlist":         5,
	}, stored)
}

func TestWeightsPartialOverrides(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := storage.NewMemory()
	require.NoError(t, store.Set(ctx, StorageKey, []byte(`{"shortlist": 50, "legacy_factor": 99}`)))

	factors := NewWeights(store, nil).Load(ctx)
	require.Len(t, factors, len(DefaultFactors()))

	f, _ := Find(factors, "shortlist")
	assert.Equal(t, 50, f.Weight)
	f, _ = Find(factors, "interviews")
	assert.Equal(t, 15, f.Weight)
}

func TestWeightsMalformed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := storage.NewMemory()
	require.NoError(t, store.Set(ctx, StorageKey, []byte(`{"shortlist": "many"`)))

	core, observed := observer.New(zapcore.WarnLevel)
	factors := NewWeights(store, zap.New(core)).Load(ctx)

	assert.Equal(t, DefaultFactors(), factors)
	assert.Equal(t, 1, observed.FilterMessage("failed to load scoring weights").Len())
}

type failingStore struct {
	storage.Store
}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (failingStore) Delete(context.Context, string) error {
	return errors.New("disk on fire")
}

func TestWeightsStoreErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	weights := NewWeights(failingStore{}, nil)

	assert.Equal(t, DefaultFactors(), weights.Load(ctx))

	factors, err := weights.Reset(ctx)
	require.Error(t, err)
	assert.Equal(t, DefaultFactors(), factors)
}

func TestWeightsReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := storage.NewMemory()
	weights := NewWeights(store, nil)

	require.NoError(t, weights.Save(ctx, WithWeight(DefaultFactors(), "interviews", 70)))

	factors, err := weights.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultFactors(), factors)

	_, err = store.Get(ctx, StorageKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, DefaultFactors(), weights.Load(ctx))
}

func TestGenerateReport(t *testing.T) {
	t.Parallel()

	factors := []Factor{
		{ID: "a", Name: "Recent Placements", Weight: 30, Score: 85},
		{ID: "b", Name: "Interviews Held", Weight: 15, Score: 90},
	}
	now := time.Date(2025, 11, 26, 10, 30, 0, 123_000_000, time.FixedZone("CET", 3600))

	report := GenerateReport(Candidate{ID: "rp1", Name: "Riccardo Pinna"}, factors, 87, now)

	data, err := json.Marshal(report)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"candidateId": "rp1",
		"candidateName": "Riccardo Pinna",
		"generatedAt": "2025-11-26T09:30:00.123Z",
		"finalScore": 87,
		"grade": "B",
		"label": "Highly Employable",
		"breakdown": [
			{"factor": "Recent Placements", "weight": 30, "score": 85, "contribution": 2550},
			{"factor": "Interviews Held", "weight": 15, "score": 90, "contribution": 1350}
		]
	}`, string(data))
}

func TestReportFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Employability_Report_Riccardo_Pinna.json", ReportFileName("Riccardo Pinna"))
	assert.Equal(t, "Employability_Report_Sara_Baccelli.json", ReportFileName("Sara  \tBaccelli"))
}
