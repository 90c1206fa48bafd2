package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cyp0633/zbxmaint/config"
	"github.com/cyp0633/zbxmaint/internal/timeofday"
	"github.com/cyp0633/zbxmaint/schedule"
	"github.com/cyp0633/zbxmaint/zabbix"
)

// Context carries what every command needs. Client is created on first use
// so that offline commands work without API settings.
type Context struct {
	Config   *config.AppConfig
	Logger   *slog.Logger
	Engine   *schedule.Engine
	Location *time.Location
	Now      func() time.Time
	Out      io.Writer
	Client   zabbix.Client
}

// NewContext wires a Context from configuration.
func NewContext(cfg *config.AppConfig, logger *slog.Logger, out io.Writer) (*Context, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}
	engineCfg := schedule.EngineConfig{
		CacheEnabled: !cfg.Cache.Disabled,
		CacheConfig: schedule.CacheConfig{
			TTL:        cfg.Cache.TTL,
			MaxEntries: cfg.Cache.MaxEntries,
		},
		Location: loc,
		Logger:   logger,
	}
	return &Context{
		Config:   cfg,
		Logger:   logger,
		Engine:   schedule.NewEngineWithConfig(engineCfg),
		Location: loc,
		Now:      time.Now,
		Out:      out,
	}, nil
}

// API returns the monitoring API client, creating it from configuration.
func (c *Context) API() (zabbix.Client, error) {
	if c.Client != nil {
		return c.Client, nil
	}
	if !c.Config.HasAPI() {
		return nil, errors.New("no API configured: set api.url and api.token or ZBXMAINT_API_URL and ZBXMAINT_API_TOKEN")
	}
	client, err := zabbix.New(c.Config.API.URL, c.Config.API.Token, c.Config.API.Timeout, c.Logger)
	if err != nil {
		return nil, err
	}
	c.Client = client
	return client, nil
}

// Offset is the zone offset used to move start times between UTC and local
// time. It is taken at the current instant.
func (c *Context) Offset() int {
	return timeofday.OffsetAt(c.Location, c.Now())
}

// Close releases the engine cache.
func (c *Context) Close() {
	if c.Engine != nil {
		c.Engine.Close()
	}
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}
