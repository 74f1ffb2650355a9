package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the server configuration. Values come from a YAML file
// and/or environment variables; environment variables win.
type Config struct {
	Port           string   `yaml:"port" env:"PORT" env-default:"8001"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-default:"http://localhost:3000"`

	// Workers bounds batch-processing concurrency.
	Workers int `yaml:"workers" env:"WORKERS" env-default:"4"`

	// MaxCorrelationColumns caps the pairwise-correlation pass on very
	// wide datasets; the profile reports truncation when it applies.
	MaxCorrelationColumns int `yaml:"max_correlation_columns" env:"MAX_CORRELATION_COLUMNS" env-default:"25"`

	// AnalysisTimeout is the per-dataset time budget. Exceeding it
	// produces a partial, truncated report.
	AnalysisTimeout time.Duration `yaml:"analysis_timeout" env:"ANALYSIS_TIMEOUT" env-default:"30s"`

	// Verbose switches logging to debug level. Diagnostic only, never
	// changes analysis results.
	Verbose bool `yaml:"verbose" env:"VERBOSE" env-default:"false"`
}

// Load reads configuration from the optional YAML path, then the
// environment.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, err
			}
			return &cfg, nil
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
