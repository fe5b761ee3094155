package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/portfolio/aggregate"
	"gopkg.in/yaml.v3"
)

// Config represents the complete portfolio analysis configuration
type Config struct {
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Log      LogConfig      `json:"log" yaml:"log"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`
	Report   ReportConfig   `json:"report" yaml:"report"`
}

// JournalConfig locates the SQLite store of imported backtests
type JournalConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// LogConfig controls the CLI logger
type LogConfig struct {
	Level string `json:"level" yaml:"level"` // debug|info|warn|error
	JSON  bool   `json:"json" yaml:"json"`
}

// AnalysisConfig contains summarizer parameters
type AnalysisConfig struct {
	Exclude           []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	MaxConcurrentBots int      `json:"max_concurrent_bots" yaml:"max_concurrent_bots"`
	LimitSweep        int      `json:"limit_sweep" yaml:"limit_sweep"` // explore caps 1..N
}

// ReportConfig contains optional output files
type ReportConfig struct {
	EquityCSV string `json:"equity_csv,omitempty" yaml:"equity_csv,omitempty"`
	DailyCSV  string `json:"daily_csv,omitempty" yaml:"daily_csv,omitempty"`
	OrgPath   string `json:"org_path,omitempty" yaml:"org_path,omitempty"`
}

// Options converts the analysis section into summarizer options.
func (a AnalysisConfig) Options() aggregate.Options {
	opts := aggregate.Options{MaxConcurrentBots: a.MaxConcurrentBots}
	if len(a.Exclude) > 0 {
		opts.Excluded = make(map[string]bool, len(a.Exclude))
		for _, id := range a.Exclude {
			opts.Excluded[strings.TrimSpace(id)] = true
		}
	}
	return opts
}

// LoadFromFile loads configuration from a file, trying YAML first and then
// JSON whatever the extension. Missing fields keep their Default values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Analysis.MaxConcurrentBots < 0 {
		return fmt.Errorf("analysis.max_concurrent_bots must not be negative")
	}
	if c.Analysis.LimitSweep < 0 || c.Analysis.LimitSweep > 1000 {
		return fmt.Errorf("analysis.limit_sweep must be between 0 and 1000")
	}
	return nil
}

// ParseLevel maps a config log level onto zerolog.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("log.level must be debug, info, warn or error (got %q)", level)
	}
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Journal: JournalConfig{
			DBPath: "./portfolio.sqlite",
		},
		Log: LogConfig{
			Level: "info",
		},
		Analysis: AnalysisConfig{
			LimitSweep: 10,
		},
	}
}
