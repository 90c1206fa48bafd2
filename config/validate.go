package config

import (
	"fmt"
	"net/url"
	"time"
)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}

func Validate(cfg *AppConfig) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	if !logLevels[cfg.LogLevel] {
		return fmt.Errorf("unsupported log_level: %s", cfg.LogLevel)
	}
	if cfg.API.URL != "" {
		u, err := url.Parse(cfg.API.URL)
		if err != nil {
			return fmt.Errorf("invalid api.url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("api.url must be http or https, got %q", cfg.API.URL)
		}
		if cfg.API.Token == "" {
			return fmt.Errorf("api.token must be set when api.url is set")
		}
	}
	return nil
}
