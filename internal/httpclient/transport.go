package httpclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// noAuthMethods are rejected by the API when credentials are supplied.
var noAuthMethods = map[string]bool{
	"apiinfo.version": true,
}

type noAuthKey struct{}

// WithoutAuth marks requests made with ctx as anonymous: TokenAuthTransport
// sends them without an Authorization header.
func WithoutAuth(ctx context.Context) context.Context {
	return context.WithValue(ctx, noAuthKey{}, true)
}

func isAnonymous(ctx context.Context) bool {
	v, _ := ctx.Value(noAuthKey{}).(bool)
	return v
}

// TokenAuthTransport implements http.RoundTripper and adds a bearer API
// token to outgoing requests.
type TokenAuthTransport struct {
	Token     string
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// NewTokenAuthTransport creates a new TokenAuthTransport with the given
// token and optional underlying transport. If transport is nil,
// http.DefaultTransport will be used.
func NewTokenAuthTransport(token string, transport http.RoundTripper, logger *slog.Logger) *TokenAuthTransport {
	if transport == nil {
		transport = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &TokenAuthTransport{
		Token:     token,
		Transport: transport,
		Logger:    logger,
	}
}

// RoundTrip implements the http.RoundTripper interface. It adds the token to
// a clone of the request and delegates to the underlying transport. Headers
// are never logged since they carry the token.
func (t *TokenAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqBody := ""
	if req.Body != nil {
		bodyBytes, err := io.ReadAll(req.Body)
		if err == nil {
			reqBody = string(bodyBytes)
			req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}
	}

	t.Logger.Debug("outgoing request",
		"method", req.Method,
		"url", req.URL.String(),
		"body", reqBody)

	if t.Transport == nil {
		return nil, errors.New("transport cannot be nil")
	}

	out := req
	if !isAnonymous(req.Context()) {
		if t.Token == "" {
			return nil, errors.New("API token cannot be empty")
		}
		out = req.Clone(req.Context())
		out.Header.Set("Authorization", "Bearer "+t.Token)
	}
	resp, err := t.Transport.RoundTrip(out)

	if err == nil && resp != nil {
		respBody := ""
		if resp.Body != nil {
			bodyBytes, err := io.ReadAll(resp.Body)
			if err == nil {
				respBody = string(bodyBytes)
				resp.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			}
		}

		t.Logger.Debug("incoming response",
			"status", resp.Status,
			"body", respBody)
	}

	return resp, err
}
