package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/skillmatch/internal/cache"
	"github.com/spigell/skillmatch/internal/storage"
)

const (
	app = "skillmatch"
)

type Config struct {
	Storage *StorageConfig `mapstructure:"storage" validate:"required"`
	Cache   *CacheConfig   `mapstructure:"cache" validate:"required"`
	Ranking *RankingConfig `mapstructure:"ranking" validate:"required"`
	AI      *AIConfig      `mapstructure:"ai" validate:"required"`
}

type StorageConfig struct {
	Driver      string `mapstructure:"driver" validate:"oneof=file memory postgres"`
	Path        string `mapstructure:"path"`
	DatabaseURL string `mapstructure:"database-url" json:"-" validate:"required_if=Driver postgres"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

type RankingConfig struct {
	MinimumScore int    `mapstructure:"minimum-score" validate:"gte=0,lte=100"`
	ExcludeFile  string `mapstructure:"exclude-file"`
}

type AIConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Provider    string        `mapstructure:"provider" validate:"omitempty,oneof=gemini"`
	TopN        int           `mapstructure:"top-n" validate:"gte=0"`
	Concurrency int           `mapstructure:"concurrency" validate:"gte=0"`
	Gemini      *GeminiConfig `mapstructure:"gemini" validate:"required"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key" json:"-"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries" validate:"gte=0"`
	MaxLogLength int    `mapstructure:"max-log-length" validate:"gte=0"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skillmatch scores candidates against jobs: skill gaps, employability and ranking",
		// runtime errors are not usage errors
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range map[string]string{
		"ai.gemini.api-key":      "GEMINI_API_KEY",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"storage.database-url":   "SKILLMATCH_DATABASE_URL",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skillmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("storage.driver", storage.DriverFile)
	viper.SetDefault("storage.path", storage.DefaultPath)
	viper.SetDefault("cache.ttl", cache.DefaultTTL)
	viper.SetDefault("ranking.minimum-score", 0)
	viper.SetDefault("ranking.exclude-file", "")
	viper.SetDefault("ai.enabled", false)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.top-n", 3)
	viper.SetDefault("ai.concurrency", 2)
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.max-retries", 2)
	viper.SetDefault("ai.gemini.max-log-length", 200)
}

func initConfig() {
	// .env is optional; variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Without an explicit --config every setting has a default.
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		return nil, errors.New("config is empty")
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}
