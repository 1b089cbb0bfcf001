package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
// It captures the HTTP surface, the signals provider, storage and run tuning.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Signals   SignalsConfig   `yaml:"signals"`
	Storage   StorageConfig   `yaml:"storage"`
	Recommend RecommendConfig `yaml:"recommend"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Warm      WarmConfig      `yaml:"warm"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

type SignalsConfig struct {
	// Base URL of the normalized signals API. Empty means fixtures only.
	BaseURL string `yaml:"baseURL"`
	// If empty, read from env SIGNALS_API_KEY
	APIKey        string        `yaml:"apiKey"`
	Timeout       time.Duration `yaml:"timeout"`
	RPS           float64       `yaml:"rps"`
	Burst         int           `yaml:"burst"`
	MaxAttempts   int           `yaml:"maxAttempts"`
	BaseBackoffMs int           `yaml:"baseBackoffMs"`
	// Offline fixture file (JSON or YAML) used when BaseURL is empty
	FixturesPath string        `yaml:"fixturesPath"`
	Breaker      BreakerConfig `yaml:"breaker"`
}

type BreakerConfig struct {
	// Consecutive failures before the circuit opens
	MaxFailures uint32        `yaml:"maxFailures"`
	OpenFor     time.Duration `yaml:"openFor"`
}

type StorageConfig struct {
	DBPath   string        `yaml:"dbPath"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

type RecommendConfig struct {
	// Max concurrent signal fetches per run
	Concurrency  int `yaml:"concurrency"`
	DefaultLimit int `yaml:"defaultLimit"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type WarmConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080", ReadTimeout: 10 * time.Second, WriteTimeout: 30 * time.Second},
		Signals: SignalsConfig{
			Timeout:       15 * time.Second,
			RPS:           5,
			Burst:         10,
			MaxAttempts:   3,
			BaseBackoffMs: 300,
			Breaker:       BreakerConfig{MaxFailures: 5, OpenFor: 30 * time.Second},
		},
		Storage:   StorageConfig{DBPath: "./vecindario.db", CacheTTL: 6 * time.Hour},
		Recommend: RecommendConfig{Concurrency: 8, DefaultLimit: 0},
		Log:       LogConfig{Level: "info", Format: "json"},
		Metrics:   MetricsConfig{Addr: ""},
		Warm:      WarmConfig{Interval: time.Hour},
	}
}

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	if c.Signals.APIKey == "" {
		c.Signals.APIKey = os.Getenv("SIGNALS_API_KEY")
	}
	if c.Signals.BaseURL == "" {
		c.Signals.BaseURL = os.Getenv("SIGNALS_BASE_URL")
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = os.Getenv("METRICS_ADDR")
	}
	if v := os.Getenv("VECINDARIO_DB"); v != "" {
		c.Storage.DBPath = v
	}
}

// Load reads YAML config from path on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
