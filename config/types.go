package config

import "time"

type AppConfig struct {
	API      APIConfig   `yaml:"api"`
	Timezone string      `yaml:"timezone" env:"ZBXMAINT_TIMEZONE" env-default:"UTC"`
	LogLevel string      `yaml:"log_level" env:"ZBXMAINT_LOG_LEVEL" env-default:"info"`
	Cache    CacheConfig `yaml:"cache"`
}

type APIConfig struct {
	URL     string        `yaml:"url" env:"ZBXMAINT_API_URL"`
	Token   string        `yaml:"token" env:"ZBXMAINT_API_TOKEN"`
	Timeout time.Duration `yaml:"timeout" env:"ZBXMAINT_API_TIMEOUT" env-default:"30s"`
}

// CacheConfig is opt-out: a false bool cannot be told apart from an unset one.
type CacheConfig struct {
	Disabled   bool          `yaml:"disabled" env:"ZBXMAINT_CACHE_DISABLED"`
	TTL        time.Duration `yaml:"ttl" env:"ZBXMAINT_CACHE_TTL" env-default:"1m"`
	MaxEntries int           `yaml:"max_entries" env:"ZBXMAINT_CACHE_MAX_ENTRIES" env-default:"256"`
}

// HasAPI reports whether enough is configured to talk to the monitoring API.
func (c *AppConfig) HasAPI() bool {
	if c == nil {
		return false
	}
	return c.API.URL != ""
}
