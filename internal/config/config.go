package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is built once at process start and passed by reference into each
// component. Nothing in here is mutated after Load returns.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Scan   ScanConfig   `mapstructure:"scan"`
	Score  ScoreConfig  `mapstructure:"score"`
	VulnDB VulnDBConfig `mapstructure:"vulndb"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// ScannerKey authenticates API callers. An empty key means the server
	// is unconfigured and every request is rejected (fail closed).
	ScannerKey    string `mapstructure:"scanner_key"`
	AllowedOrigin string `mapstructure:"allowed_origin"`
	DefaultOrigin string `mapstructure:"default_origin"`
}

type ScanConfig struct {
	MaxConcurrency    int           `mapstructure:"max_concurrency"`
	RequestBudget     int64         `mapstructure:"request_budget"`
	BatchSize         int           `mapstructure:"batch_size"`
	ProbeTimeout      time.Duration `mapstructure:"probe_timeout"`
	PageTimeout       time.Duration `mapstructure:"page_timeout"`
	BaselineTimeout   time.Duration `mapstructure:"baseline_timeout"`
	BaselineTolerance float64       `mapstructure:"baseline_tolerance"`
	SecretsEntropyMin float64       `mapstructure:"secrets_entropy_min"`
	MaxScriptFetches  int           `mapstructure:"max_script_fetches"`
	CrossDomain       bool          `mapstructure:"cross_domain"`
	// AllowInternalTargets disables the SSRF guard's private-host
	// rejection. Off by default; only for scanning your own staging
	// hosts.
	AllowInternalTargets bool `mapstructure:"allow_internal_targets"`
}

type ScoreConfig struct {
	CriticalDeduction int `mapstructure:"critical_deduction"`
	HighDeduction     int `mapstructure:"high_deduction"`
	MediumDeduction   int `mapstructure:"medium_deduction"`
	LowDeduction      int `mapstructure:"low_deduction"`
	CategoryCap       int `mapstructure:"category_cap"`
}

type VulnDBConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RatePerSec float64       `mapstructure:"rate_per_sec"`
	MaxPerTech int           `mapstructure:"max_per_tech"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8480")
	v.SetDefault("server.scanner_key", "")
	v.SetDefault("server.allowed_origin", "")
	v.SetDefault("server.default_origin", "https://posture.example")

	v.SetDefault("scan.max_concurrency", 6)
	v.SetDefault("scan.request_budget", 300)
	v.SetDefault("scan.batch_size", 10)
	v.SetDefault("scan.probe_timeout", 6*time.Second)
	v.SetDefault("scan.page_timeout", 10*time.Second)
	v.SetDefault("scan.baseline_timeout", 8*time.Second)
	v.SetDefault("scan.baseline_tolerance", 0.05)
	v.SetDefault("scan.secrets_entropy_min", 4.0)
	v.SetDefault("scan.max_script_fetches", 5)
	v.SetDefault("scan.cross_domain", false)
	v.SetDefault("scan.allow_internal_targets", false)

	v.SetDefault("score.critical_deduction", 25)
	v.SetDefault("score.high_deduction", 15)
	v.SetDefault("score.medium_deduction", 8)
	v.SetDefault("score.low_deduction", 3)
	v.SetDefault("score.category_cap", 40)

	v.SetDefault("vulndb.enabled", true)
	v.SetDefault("vulndb.base_url", "https://api.osv.dev")
	v.SetDefault("vulndb.timeout", 10*time.Second)
	v.SetDefault("vulndb.rate_per_sec", 1.0)
	v.SetDefault("vulndb.max_per_tech", 5)
}

// Load reads an optional "posture.yaml" from the working directory plus
// POSTURE_* environment variables. A missing config file is not an error;
// defaults apply.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("posture")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("POSTURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in configuration without touching the
// filesystem or environment. Used by the CLI path and tests.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// Unmarshal over literal defaults cannot fail.
	_ = v.Unmarshal(cfg)
	return cfg
}
