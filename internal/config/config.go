package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 2333
	defaultEnv        = "development"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int      `yaml:"port"`
	DSN            string   `yaml:"dsn"` // MySQL DSN
	RedisURL       string   `yaml:"redis_url"`
	Env            string   `yaml:"env"` // "development" | "production"
	JWTSecret      string   `yaml:"jwt_secret"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	Timezone       string   `yaml:"timezone"`
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), defaultEnv) || c.Env == ""
}

// Load reads the YAML config file, applies environment overrides and
// defaults, and validates required fields.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	if path == "" {
		path = DefaultConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Config file is optional, env vars may carry everything.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required (config file or FB_DSN)")
	}
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("redis_url is required (config file or FB_REDIS_URL)")
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("FB_DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("FB_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("FB_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("FB_ENV"); v != "" {
		cfg.Env = v
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		cfg.Port = defaultPort
	}
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = defaultEnv
	}
	if strings.TrimSpace(cfg.Timezone) == "" {
		cfg.Timezone = "UTC"
	}
}
