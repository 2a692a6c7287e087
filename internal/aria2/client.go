package aria2

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// ConnectionError marks transport-level failures: the endpoint is
// unreachable, timed out, or answered with something that is not a
// JSON-RPC response. Errors a reachable daemon reports are *RPCError.
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("aria2 unreachable at %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Hint condenses Go's verbose dial errors into a one-line cause fit for
// a status log.
func (e *ConnectionError) Hint() string {
	var netErr net.Error
	if errors.As(e.Err, &netErr) && netErr.Timeout() {
		return "connection timed out"
	}

	msg := e.Err.Error()
	if strings.Contains(msg, "connection refused") {
		return "connection refused, daemon not listening"
	}
	if strings.Contains(msg, "network is unreachable") || strings.Contains(msg, "no route to host") {
		return "network is unreachable"
	}
	return msg
}

type Client struct {
	endpoint string
	secret   string
	http     *http.Client
	nextID   atomic.Int64
}

// Endpoint builds the control URL for a daemon listening on a local port.
func Endpoint(port int) string {
	return fmt.Sprintf("http://localhost:%d/jsonrpc", port)
}

// NewClient constructs a client; it performs no I/O, so it cannot fail.
// The first call against a dead endpoint reports *ConnectionError.
func NewClient(endpoint, secret string) *Client {
	return &Client{
		endpoint: endpoint,
		secret:   secret,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Call invokes one RPC method. The secret is injected as the leading
// "token:" parameter, which is how aria2 authenticates every call.
func (c *Client) Call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	full := make([]interface{}, 0, len(params)+1)
	if c.secret != "" {
		full = append(full, "token:"+c.secret)
	}
	full = append(full, params...)

	id := strconv.FormatInt(c.nextID.Add(1), 10)
	body, err := json.Marshal(request{JSONRPC: "2.0", ID: id, Method: method, Params: full})
	if err != nil {
		return nil, fmt.Errorf("encoding rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ConnectionError{Endpoint: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{Endpoint: c.endpoint, Err: err}
	}

	// aria2 answers auth and param errors with a non-200 status but a
	// well-formed JSON-RPC error body, so parse before checking status.
	var parsed response
	if err := json.Unmarshal(data, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &ConnectionError{Endpoint: c.endpoint, Err: fmt.Errorf("unexpected status %s", resp.Status)}
		}
		return nil, &ConnectionError{Endpoint: c.endpoint, Err: fmt.Errorf("invalid rpc response: %w", err)}
	}
	if parsed.Error != nil {
		return nil, parsed.Error
	}
	return parsed.Result, nil
}
