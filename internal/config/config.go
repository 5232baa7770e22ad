// Package config loads zleads settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/zarlcorp/zleads/internal/export"
	"github.com/zarlcorp/zleads/internal/lead"
)

const historyFile = "history.db"

// Config holds every tunable of a run.
type Config struct {
	Rows        int64         `env:"ZLEADS_ROWS" envDefault:"1000000"`
	Output      string        `env:"ZLEADS_OUTPUT" envDefault:"leads_10000.csv"`
	Format      export.Format `env:"ZLEADS_FORMAT" envDefault:"csv"`
	Seed        uint64        `env:"ZLEADS_SEED"`
	EmailDomain string        `env:"ZLEADS_EMAIL_DOMAIN" envDefault:"email.com"`
	MaxTags     int           `env:"ZLEADS_MAX_TAGS" envDefault:"5"`
	PoolsFile   string        `env:"ZLEADS_POOLS"`
	ValidCPF    bool          `env:"ZLEADS_VALID_CPF"`
	RealDDD     bool          `env:"ZLEADS_REAL_DDD"`
	DataDir     string        `env:"ZLEADS_DATA_DIR"`
	LogLevel    slog.Level    `env:"ZLEADS_LOG_LEVEL" envDefault:"info"`
}

// Load reads the given .env files (or ./.env when none are named), then
// parses the environment. Variables already set win over file values.
// Missing .env files are not an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = DataDir()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings a run cannot honor.
func (c Config) Validate() error {
	if c.Rows < 0 {
		return fmt.Errorf("invalid config: rows must not be negative, got %d", c.Rows)
	}
	if _, err := export.ParseFormat(string(c.Format)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Format == export.FormatXLSX && c.Rows > export.MaxXLSXRows {
		return fmt.Errorf("invalid config: xlsx holds at most %d rows, got %d", export.MaxXLSXRows, c.Rows)
	}
	if c.MaxTags < 0 || c.MaxTags > lead.DefaultMaxTags {
		return fmt.Errorf("invalid config: max tags must be 0..%d, got %d", lead.DefaultMaxTags, c.MaxTags)
	}
	if c.Output == "" {
		return errors.New("invalid config: output path is required")
	}
	return nil
}

// Pools returns the configured pools: the YAML file when set, otherwise
// the built-in ones.
func (c Config) Pools() (lead.Pools, error) {
	if c.PoolsFile == "" {
		return lead.DefaultPools(), nil
	}
	return lead.LoadPools(c.PoolsFile)
}

// GeneratorOptions maps the config onto generator options.
func (c Config) GeneratorOptions() []lead.Option {
	opts := []lead.Option{
		lead.WithEmailDomain(c.EmailDomain),
		lead.WithMaxTags(c.MaxTags),
	}
	if c.ValidCPF {
		opts = append(opts, lead.WithValidCPF())
	}
	if c.RealDDD {
		opts = append(opts, lead.WithRealDDD())
	}
	return opts
}

// NewGenerator builds a generator from the config seeded with seed.
func (c Config) NewGenerator(seed uint64) (*lead.Generator, error) {
	pools, err := c.Pools()
	if err != nil {
		return nil, err
	}
	return lead.New(lead.NewRand(seed), pools, c.GeneratorOptions()...)
}

// HistoryPath returns the run history database path.
func (c Config) HistoryPath() string {
	return filepath.Join(c.DataDir, historyFile)
}

// DataDir returns the default data directory for zleads.
func DataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return d + "/zleads"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zleads"
	}
	return home + "/.local/share/zleads"
}
