package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/ai/gemini"
	"github.com/spigell/skillmatch/internal/cache"
	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/profiles"
	"github.com/spigell/skillmatch/internal/secrets"
	"github.com/spigell/skillmatch/internal/storage"
)

// runtime holds what every command needs: logger, config and persistence.
type runtime struct {
	logger *zap.Logger
	config *Config
	store  storage.Store
	cache  *cache.Cache
}

func setup(ctx context.Context) (*runtime, error) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	store, err := storage.Open(ctx, storage.Config{
		Driver:      config.Storage.Driver,
		Path:        config.Storage.Path,
		DatabaseURL: config.Storage.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("opening a %s storage: %w", config.Storage.Driver, err)
	}

	return &runtime{
		logger: logger,
		config: config,
		store:  store,
		cache:  cache.New(store, logger),
	}, nil
}

func (r *runtime) close() {
	if err := r.store.Close(); err != nil {
		r.logger.Warn("closing the storage", zap.Error(err))
	}
	_ = r.logger.Sync()
}

// aiService returns the AI boundary. When ai is disabled or the provider can
// not be built, the service answers with demo data.
func (r *runtime) aiService(ctx context.Context) *ai.Service {
	deps := ai.ServiceDeps{
		Cache:  r.cache,
		TTL:    r.config.Cache.TTL,
		Logger: r.logger,
	}

	if !r.config.AI.Enabled {
		r.logger.Info("ai is disabled, using demo responses")
		return ai.NewService(deps)
	}

	extractor, analyst, err := newGeminiProviders(ctx, r.config.AI, r.logger)
	if err != nil {
		r.logger.Warn("ai provider is unavailable, using demo responses", zap.Error(err))
		return ai.NewService(deps)
	}

	deps.Extractor = extractor
	deps.Analyst = analyst
	deps.Chat = analyst
	return ai.NewService(deps)
}

func newGeminiProviders(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*gemini.CVExtractor, *gemini.Analyst, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.Provider {
		return nil, nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
		Env:   "GOOGLE_API_KEY",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w (set GEMINI_API_KEY, GEMINI_API_KEY_FILE or ai.gemini.api-key-file)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, log)
	if err != nil {
		return nil, nil, err
	}

	providerLogger := logger.WithCommonFields(log, gemini.Provider, generator.Model())

	return gemini.NewCVExtractor(generator, providerLogger, cfg.Gemini.MaxLogLength),
		gemini.NewAnalyst(generator, providerLogger, cfg.Gemini.MaxLogLength),
		nil
}

// loadPool reads the profiles file or falls back to the demo pool.
func loadPool(path string, log *zap.Logger) (*profiles.Pool, error) {
	if strings.TrimSpace(path) == "" {
		log.Info("no profiles file given, using the demo pool")
		return profiles.Demo(), nil
	}

	pool, err := profiles.Load(path)
	if err != nil {
		return nil, err
	}

	log.Debug("profiles loaded",
		zap.String("path", path),
		zap.String("job", pool.Job.Title),
		zap.Int("candidates", len(pool.Candidates)),
	)
	return pool, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
