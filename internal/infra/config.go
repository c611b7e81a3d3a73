package infra

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds every console setting. Loaded from yaml, then sensitive or
// deployment-specific values are overridden from the environment.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Backend struct {
		BaseURL           string `yaml:"base_url"`
		RequestTimeoutSec int    `yaml:"request_timeout_sec"`
	} `yaml:"backend"`

	Console struct {
		ListenAddr         string `yaml:"listen_addr"`
		RefreshIntervalSec int    `yaml:"refresh_interval_sec"`
		PageSize           int    `yaml:"page_size"`         // paginated list views
		DefaultPageSize    int    `yaml:"default_page_size"` // everything else
		TrendDays          int    `yaml:"trend_days"`
	} `yaml:"console"`

	Storage struct {
		DataDir string `yaml:"data_dir"`
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file, applies environment
// overrides, and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Backend.RequestTimeoutSec <= 0 {
		cfg.Backend.RequestTimeoutSec = 10
	}
	if cfg.Console.ListenAddr == "" {
		cfg.Console.ListenAddr = "localhost:8808"
	}
	if cfg.Console.RefreshIntervalSec <= 0 {
		cfg.Console.RefreshIntervalSec = 60
	}
	if cfg.Console.PageSize <= 0 {
		cfg.Console.PageSize = 50
	}
	if cfg.Console.DefaultPageSize <= 0 {
		cfg.Console.DefaultPageSize = 20
	}
	if cfg.Console.TrendDays <= 0 {
		cfg.Console.TrendDays = 7
	}
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("invalid backend base URL: %s", c.Backend.BaseURL)
	}
	if c.Console.PageSize > 100 {
		return fmt.Errorf("page size must not exceed 100")
	}
	return nil
}

// overrideWithEnv overwrites settings from environment variables when set.
func overrideWithEnv(cfg *Config) {
	if url := os.Getenv("ADMIN_BACKEND_URL"); url != "" {
		cfg.Backend.BaseURL = url
	}
	if addr := os.Getenv("ADMIN_CONSOLE_ADDR"); addr != "" {
		cfg.Console.ListenAddr = addr
	}
	if dir := os.Getenv("ADMIN_DATA_DIR"); dir != "" {
		cfg.Storage.DataDir = dir
	}
	if level := os.Getenv("ADMIN_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}
