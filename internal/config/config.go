package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/validationly/signalscan/internal/source"
)

// ServerConfig tunes the HTTP API.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RedisConfig points the cache at a Redis instance.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CacheConfig selects and tunes the fetch cache backend.
type CacheConfig struct {
	Backend    string      `yaml:"backend"` // memory or redis
	MaxEntries int         `yaml:"max_entries"`
	Redis      RedisConfig `yaml:"redis"`
}

// ScanConfig tunes the orchestrator.
type ScanConfig struct {
	MaxItemsPerSource int           `yaml:"max_items_per_source"`
	PerSourceTimeout  time.Duration `yaml:"per_source_timeout"`
}

// TextGenConfig configures the optional text-generation collaborator. The
// API key comes from the environment, never from the file.
type TextGenConfig struct {
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	APIKeyEnv   string  `yaml:"api_key_env"`
}

// Config is the root configuration.
type Config struct {
	Server  ServerConfig                       `yaml:"server"`
	Cache   CacheConfig                        `yaml:"cache"`
	Scan    ScanConfig                         `yaml:"scan"`
	Sources map[source.ID]source.AdapterConfig `yaml:"sources"`
	TextGen TextGenConfig                      `yaml:"textgen"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			MaxEntries: 1024,
			Redis:      RedisConfig{Addr: "localhost:6379"},
		},
		Scan: ScanConfig{
			MaxItemsPerSource: 50,
			PerSourceTimeout:  15 * time.Second,
		},
		Sources: map[source.ID]source.AdapterConfig{},
		TextGen: TextGenConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			MaxTokens:   600,
			APIKeyEnv:   "OPENAI_API_KEY",
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config YAML: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	for id := range c.Sources {
		if !source.Known(id) {
			return fmt.Errorf("unknown source %q in config", id)
		}
	}
	if c.Scan.MaxItemsPerSource <= 0 {
		return fmt.Errorf("max_items_per_source must be positive")
	}
	return nil
}

// SourceConfig returns the adapter config for id, falling back to zero
// values the adapters fill with their own defaults.
func (c Config) SourceConfig(id source.ID) source.AdapterConfig {
	return c.Sources[id]
}
