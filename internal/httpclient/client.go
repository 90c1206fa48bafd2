package httpclient

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
)

// endpointPath is the JSON-RPC endpoint below the frontend root.
const endpointPath = "api_jsonrpc.php"

// HttpClientWrapper wraps http.Client with JSON-RPC 2.0 functionality
type HttpClientWrapper interface {
	// DoRPC calls method with params and decodes the result member of the
	// response into result. A JSON-RPC error object is returned as *RPCError.
	DoRPC(ctx context.Context, method string, params any, result any) error
}

type httpClientWrapper struct {
	client   *http.Client
	endpoint url.URL
	logger   *slog.Logger
	lastID   atomic.Int64
}

// resolveEndpoint points baseURL at the JSON-RPC endpoint. A URL that already
// names a .php script is used as is; otherwise the endpoint is resolved below
// the given path.
func resolveEndpoint(baseURL url.URL) (url.URL, error) {
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return url.URL{}, fmt.Errorf("unsupported URL scheme %q", baseURL.Scheme)
	}
	if baseURL.Host == "" {
		return url.URL{}, fmt.Errorf("URL %q has no host", baseURL.String())
	}
	if strings.HasSuffix(baseURL.Path, ".php") {
		return baseURL, nil
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}
	ref, err := url.Parse(endpointPath)
	if err != nil {
		return url.URL{}, fmt.Errorf("failed to parse endpoint path: %w", err)
	}
	return *baseURL.ResolveReference(ref), nil
}

// NewHttpClientWrapper creates a new client wrapper. Authentication is left
// to client's transport, see TokenAuthTransport.
func NewHttpClientWrapper(client *http.Client, baseURL url.URL, logger *slog.Logger) (HttpClientWrapper, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	endpoint, err := resolveEndpoint(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	return &httpClientWrapper{client: client, endpoint: endpoint, logger: logger}, nil
}
