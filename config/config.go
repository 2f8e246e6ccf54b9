package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"ethical-pricing/pricing"
)

// Config holds all application configuration loaded from the environment.
type Config struct {
	DatasetSource string `mapstructure:"dataset_source"`
	DatasetPath   string `mapstructure:"dataset_path"`

	HistoryBackend string `mapstructure:"history_backend"`
	HistoryPath    string `mapstructure:"history_path"`

	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     string `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"`
	PostgresDB       string `mapstructure:"postgres_db"`
	PostgresSSLMode  string `mapstructure:"postgres_sslmode"`
	MaxRetries       int    `mapstructure:"max_retries"`

	ForestTrees          int     `mapstructure:"forest_trees"`
	ForestMaxDepth       int     `mapstructure:"forest_max_depth"`
	ForestMinSamplesLeaf int     `mapstructure:"forest_min_samples_leaf"`
	ForestSeed           int64   `mapstructure:"forest_seed"`
	ForestWorkers        int     `mapstructure:"forest_workers"`
	TestFraction         float64 `mapstructure:"test_fraction"`

	LogLevel string `mapstructure:"log_level"`
}

var keys = []string{
	"dataset_source", "dataset_path", "history_backend", "history_path",
	"postgres_host", "postgres_port", "postgres_user", "postgres_password",
	"postgres_db", "postgres_sslmode", "max_retries",
	"forest_trees", "forest_max_depth", "forest_min_samples_leaf",
	"forest_seed", "forest_workers", "test_fraction", "log_level",
}

// Load reads envFile (".env" when empty) into the process environment, then
// resolves every key from the environment with built-in defaults. A missing
// env file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	for _, k := range keys {
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", k, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	d := pricing.DefaultForestOptions()

	v.SetDefault("dataset_source", "csv")
	v.SetDefault("dataset_path", "./data/ethical_pricing_dataset.csv")
	v.SetDefault("history_backend", "csv")
	v.SetDefault("history_path", "./output/history.csv")

	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", "5432")
	v.SetDefault("postgres_user", "pricing")
	v.SetDefault("postgres_password", "pricing123")
	v.SetDefault("postgres_db", "pricing_db")
	v.SetDefault("postgres_sslmode", "disable")
	v.SetDefault("max_retries", 5)

	v.SetDefault("forest_trees", d.Trees)
	v.SetDefault("forest_max_depth", d.MaxDepth)
	v.SetDefault("forest_min_samples_leaf", d.MinSamplesLeaf)
	v.SetDefault("forest_seed", d.Seed)
	v.SetDefault("forest_workers", d.Workers)
	v.SetDefault("test_fraction", 0.2)

	v.SetDefault("log_level", "info")
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.DatasetSource {
	case "csv", "postgres":
	default:
		return fmt.Errorf("config: DATASET_SOURCE must be csv or postgres, got %q", c.DatasetSource)
	}
	switch c.HistoryBackend {
	case "none", "csv", "postgres":
	default:
		return fmt.Errorf("config: HISTORY_BACKEND must be none, csv or postgres, got %q", c.HistoryBackend)
	}
	if c.ForestTrees < 1 {
		return fmt.Errorf("config: FOREST_TREES must be positive, got %d", c.ForestTrees)
	}
	return nil
}

// NeedsPostgres reports whether any configured backend is PostgreSQL.
func (c *Config) NeedsPostgres() bool {
	return c.DatasetSource == "postgres" || c.HistoryBackend == "postgres"
}

// ForestOptions returns the model settings.
func (c *Config) ForestOptions() pricing.ForestOptions {
	return pricing.ForestOptions{
		Trees:          c.ForestTrees,
		MaxDepth:       c.ForestMaxDepth,
		MinSamplesLeaf: c.ForestMinSamplesLeaf,
		Seed:           c.ForestSeed,
		Workers:        c.ForestWorkers,
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}
