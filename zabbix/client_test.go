package zabbix

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/zabbix/api_jsonrpc.php", r.URL.Path)

		var req struct {
			Method string `json:"method"`
			ID     int64  `json:"id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var result json.RawMessage
		switch req.Method {
		case "apiinfo.version":
			assert.Empty(t, r.Header.Get("Authorization"))
			result = json.RawMessage(`"7.0.5"`)
		case "maintenance.get":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			result = json.RawMessage(getResult)
		default:
			t.Errorf("unexpected method %s", req.Method)
		}
		json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "result": result, "id": req.ID})
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := New(server.URL+"/zabbix/", "tok", 5*time.Second, logger)
	require.NoError(t, err)

	version, err := c.APIVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "7.0.5", version)

	rules, err := c.ListRules(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "Sunday patching", rules[0].Name)
}

func TestNew_InvalidURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := New("zabbix.example.com", "tok", time.Second, logger)
	assert.Error(t, err)

	_, err = New("https://zabbix.example.com", "tok", time.Second, nil)
	assert.Error(t, err, "logger is required")
}
