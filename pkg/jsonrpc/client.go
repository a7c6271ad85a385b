// Package jsonrpc provides a minimal single-shot JSON-RPC 2.0 client
// over HTTP(S) POST.
//
// The client exposes one generic Call; it does no batching, retries,
// pooling or logging. Typed method helpers belong to callers.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 10 << 20 // 10 MiB

// Client issues JSON-RPC 2.0 calls against a single endpoint. It is
// safe for concurrent use; each call owns its request and response
// buffers, and request IDs come from an atomic counter so concurrent
// in-flight calls never collide.
type Client struct {
	endpoint   string
	httpClient *http.Client
	nextID     atomic.Uint64
}

// NewClient creates a client for the given http(s) endpoint.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}

	s := applyOptions(opts)
	return &Client{
		endpoint:   endpoint,
		httpClient: s.httpClient,
	}, nil
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Call performs a single JSON-RPC 2.0 call and returns the raw result
// value. Every failure is a *Error; the kind distinguishes transport
// faults, undecodable bodies, protocol violations and remote errors.
// Cancellation and deadlines are taken from ctx in addition to the
// client's own timeout.
func (c *Client) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	if method == "" {
		return nil, protocolError("method is required", nil)
	}

	if params == nil {
		params = []any{}
	}
	rawParams, err := json.Marshal(params)
	if err != nil {
		return nil, protocolError("failed to encode params", err)
	}

	id := c.nextID.Add(1)
	body, err := json.Marshal(Request{
		JSONRPC: Version,
		Method:  method,
		Params:  rawParams,
		ID:      id,
	})
	if err != nil {
		return nil, protocolError("failed to encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, transportError("failed to build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, transportError("request failed", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, transportError("failed to read response body", err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, transportError(fmt.Sprintf("unexpected HTTP status %d", httpResp.StatusCode), nil)
	}

	var resp Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, decodeError("response body is not valid JSON", err)
	}

	if resp.JSONRPC != Version {
		return nil, protocolError(fmt.Sprintf("unexpected jsonrpc version %q", resp.JSONRPC), nil)
	}
	if resp.Error != nil && resp.Result != nil {
		return nil, protocolError("response contains both result and error", nil)
	}
	if resp.Error != nil {
		// A null id is allowed on error responses: servers reply with
		// one when the request id could not be read. The error object
		// still needs surfacing.
		if !isNullID(resp.ID) {
			if err := checkID(resp.ID, id); err != nil {
				return nil, protocolError(err.Error(), nil)
			}
		}
		return nil, remoteError(resp.Error)
	}
	if err := checkID(resp.ID, id); err != nil {
		return nil, protocolError(err.Error(), nil)
	}
	if resp.Result == nil {
		return nil, protocolError("response contains neither result nor error", nil)
	}

	return resp.Result, nil
}

func isNullID(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// checkID correlates a success response with the request that
// produced it.
func checkID(raw json.RawMessage, want uint64) error {
	var got uint64
	if err := json.Unmarshal(raw, &got); err != nil {
		return fmt.Errorf("unexpected response id %s", string(raw))
	}
	if got != want {
		return fmt.Errorf("response id %d does not match request id %d", got, want)
	}
	return nil
}
