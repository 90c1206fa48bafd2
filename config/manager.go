package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	defaultConfigPath = "zbxmaint.yaml"
	envPrefix         = "ZBXMAINT_"
)

// Load reads the YAML file at path when it exists, then the environment.
// An empty path falls back to ZBXMAINT_CONFIG and then zbxmaint.yaml.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}
	cfgPath := resolveConfigPath(path)
	if st, err := os.Stat(cfgPath); err == nil && !st.IsDir() {
		if err := cleanenv.ReadConfig(cfgPath, cfg); err != nil {
			return nil, err
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	applyEnvAliases(cfg)
	normalizeConfig(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveConfigPath(path string) string {
	if p := strings.TrimSpace(path); p != "" {
		return p
	}
	if p := getEnv(envPrefix + "CONFIG"); p != "" {
		return p
	}
	return defaultConfigPath
}

// applyEnvAliases honours the variable names other Zabbix tooling uses.
func applyEnvAliases(cfg *AppConfig) {
	if v := getEnv("ZABBIX_URL"); v != "" && cfg.API.URL == "" {
		cfg.API.URL = v
	}
	if v := getEnv("ZABBIX_API_TOKEN", "ZABBIX_TOKEN"); v != "" && cfg.API.Token == "" {
		cfg.API.Token = v
	}
}

func normalizeConfig(cfg *AppConfig) {
	cfg.API.URL = strings.TrimSpace(cfg.API.URL)
	cfg.API.Token = strings.TrimSpace(cfg.API.Token)
	cfg.Timezone = strings.TrimSpace(cfg.Timezone)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = 30 * time.Second
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = time.Minute
	}
	if cfg.Cache.MaxEntries <= 0 {
		cfg.Cache.MaxEntries = 256
	}
}

// Location resolves the configured time zone.
func (c *AppConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// SlogLevel maps the configured log level onto slog.
func (c *AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
