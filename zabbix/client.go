// Package zabbix stores maintenance records through the monitoring API's
// JSON-RPC interface.
package zabbix

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cyp0633/zbxmaint/internal/httpclient"
	"github.com/cyp0633/zbxmaint/schedule"
)

// ErrNotFound is returned when no maintenance has the requested id.
var ErrNotFound = errors.New("maintenance not found")

// Client defines the maintenance operations of the monitoring API.
type Client interface {
	Maintenances() MaintenanceQuery
	LoadRule(ctx context.Context, id string) (schedule.WireMaintenance, error)
	ListRules(ctx context.Context) ([]schedule.WireMaintenance, error)
	SaveRule(ctx context.Context, m schedule.WireMaintenance) (id string, err error)
	DeleteRule(ctx context.Context, ids ...string) error
	APIVersion(ctx context.Context) (string, error)
}

type client struct {
	rpc httpclient.HttpClientWrapper
}

// NewClient creates a client on top of an existing JSON-RPC wrapper.
func NewClient(rpc httpclient.HttpClientWrapper) Client {
	return &client{rpc: rpc}
}

// New creates a client for the frontend at endpoint, authenticating with an
// API token.
func New(endpoint, token string, timeout time.Duration, logger *slog.Logger) (Client, error) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse API URL: %w", err)
	}
	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: httpclient.NewTokenAuthTransport(token, nil, logger),
	}
	rpc, err := httpclient.NewHttpClientWrapper(httpClient, *base, logger)
	if err != nil {
		return nil, err
	}
	return NewClient(rpc), nil
}

// APIVersion reports the version of the API, which requires no token.
func (c *client) APIVersion(ctx context.Context) (string, error) {
	var version string
	if err := c.rpc.DoRPC(ctx, "apiinfo.version", []string{}, &version); err != nil {
		return "", fmt.Errorf("failed to get API version: %w", err)
	}
	return version, nil
}
