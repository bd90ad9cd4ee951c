package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the storefront configuration, corresponding to marketchoice.yml.
type Config struct {
	Addr         string        `yaml:"addr" koanf:"addr"`
	BaseURL      string        `yaml:"base_url" koanf:"base_url"`
	DatabaseURL  string        `yaml:"database_url" koanf:"database_url"`
	TemplatesDir string        `yaml:"templates_dir" koanf:"templates_dir"`
	PublicDir    string        `yaml:"public_dir" koanf:"public_dir"`
	ContentDir   string        `yaml:"content_dir" koanf:"content_dir"`
	PageSize     int           `yaml:"page_size" koanf:"page_size"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" koanf:"fetch_timeout"`
	LoadRetries  int           `yaml:"load_retries" koanf:"load_retries"`
	Dev          bool          `yaml:"dev" koanf:"dev"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Addr:         ":8080",
		BaseURL:      "https://marketchoice.github.io/",
		TemplatesDir: "templates",
		PublicDir:    "public",
		ContentDir:   "content",
		PageSize:     12,
		FetchTimeout: 5 * time.Second,
		LoadRetries:  3,
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (MARKETCHOICE_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// MARKETCHOICE_DATABASE_URL -> database_url, etc.
	if err := k.Load(env.Provider("MARKETCHOICE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "MARKETCHOICE_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Cloud Run style port override.
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}

	return cfg, nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be positive")
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("fetch_timeout must be non-negative")
	}
	if c.LoadRetries < 0 {
		return fmt.Errorf("load_retries must be non-negative")
	}
	return nil
}
