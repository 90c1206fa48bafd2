package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const jsonRPCVersion = "2.0"

// maxErrorBody bounds how much of a non-JSON error body ends up in an error.
const maxErrorBody = 512

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int64  `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
	ID      int64           `json:"id"`
}

// RPCError is the error object of a JSON-RPC response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

func (e *RPCError) Error() string {
	if e.Data == "" {
		return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("rpc error %d: %s %s", e.Code, e.Message, e.Data)
}

// DoRPC executes a JSON-RPC call
func (c *httpClientWrapper) DoRPC(ctx context.Context, method string, params any, result any) error {
	id := c.lastID.Add(1)
	c.logger.Debug("starting RPC request",
		"method", method,
		"id", id,
		"params_type", fmt.Sprintf("%T", params))

	if params == nil {
		params = map[string]any{}
	}
	body, err := json.Marshal(rpcRequest{JSONRPC: jsonRPCVersion, Method: method, Params: params, ID: id})
	if err != nil {
		c.logger.Debug("failed to marshal params", "error", err)
		return fmt.Errorf("failed to marshal %s params: %w", method, err)
	}

	if noAuthMethods[method] {
		ctx = WithoutAuth(ctx)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json-rpc")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "error", err)
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	c.logger.Debug("received response", "status", resp.Status)

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Debug("unexpected status code",
			"status_code", resp.StatusCode,
			"status", resp.Status)
		return fmt.Errorf("unexpected status code: %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		c.logger.Debug("failed to decode response", "error", err)
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if rpcResp.Error != nil {
		c.logger.Debug("RPC returned error",
			"method", method,
			"code", rpcResp.Error.Code,
			"message", rpcResp.Error.Message)
		return rpcResp.Error
	}
	if rpcResp.ID != id {
		return fmt.Errorf("response id %d does not match request id %d", rpcResp.ID, id)
	}

	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}

	c.logger.Debug("RPC request complete", "method", method, "id", id)
	return nil
}
