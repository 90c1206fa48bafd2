package zabbix

import (
	"context"
	"encoding/json"
	"fmt"
)

// rpcCall records one DoRPC invocation, with params as the JSON they would
// have been sent as.
type rpcCall struct {
	method string
	params json.RawMessage
}

// mockRPC answers DoRPC with canned JSON results keyed by method.
type mockRPC struct {
	results map[string]string
	errs    map[string]error
	calls   []rpcCall
}

func (m *mockRPC) DoRPC(ctx context.Context, method string, params any, result any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	m.calls = append(m.calls, rpcCall{method: method, params: raw})

	if err := m.errs[method]; err != nil {
		return err
	}
	body, ok := m.results[method]
	if !ok {
		return fmt.Errorf("unexpected method %s", method)
	}
	if result == nil {
		return nil
	}
	return json.Unmarshal([]byte(body), result)
}
