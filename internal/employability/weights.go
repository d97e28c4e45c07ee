package employability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/storage"
)

// StorageKey is where weight overrides are persisted.
const StorageKey = "skillmatch_scoring_weights"

// Weights loads and persists user weight overrides on top of a default factor
// set.
type Weights struct {
	store    storage.Store
	logger   *zap.Logger
	defaults []Factor
}

func NewWeights(store storage.Store, logger *zap.Logger) *Weights {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Weights{
		store:    store,
		logger:   logger,
		defaults: DefaultFactors(),
	}
}

// Defaults returns a copy of the factor set overrides are merged onto.
func (w *Weights) Defaults() []Factor {
	return clone(w.defaults)
}

// Load merges persisted overrides onto the defaults. Missing or malformed
// data yields the defaults.
func (w *Weights) Load(ctx context.Context) []Factor {
	raw, err := w.store.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return w.Defaults()
	}
	if err != nil {
		w.logger.Warn("failed to load scoring weights", zap.Error(err))
		return w.Defaults()
	}

	var overrides map[string]int
	if err := json.Unmarshal(raw, &overrides); err != nil {
		w.logger.Warn("failed to load scoring weights", zap.Error(err))
		return w.Defaults()
	}

	return MergeOverrides(w.defaults, overrides)
}

// Save persists the weights of factors keyed by factor ID.
func (w *Weights) Save(ctx context.Context, factors []Factor) error {
	data, err := json.Marshal(WeightsOf(factors))
	if err != nil {
		return fmt.Errorf("encode scoring weights: %w", err)
	}

	if err := w.store.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("save scoring weights: %w", err)
	}

	w.logger.Debug("scoring weights saved", zap.Int("factors", len(factors)))
	return nil
}

// Reset removes persisted overrides and returns the defaults.
func (w *Weights) Reset(ctx context.Context) ([]Factor, error) {
	if err := w.store.Delete(ctx, StorageKey); err != nil {
		return w.Defaults(), fmt.Errorf("reset scoring weights: %w", err)
	}
	return w.Defaults(), nil
}
