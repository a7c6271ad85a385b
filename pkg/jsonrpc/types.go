package jsonrpc

import "encoding/json"

// JSON-RPC 2.0 wire types
// https://www.jsonrpc.org/specification

// Version is the protocol version sent with every request.
const Version = "2.0"

// Request represents a JSON-RPC 2.0 request. Requests are built per
// call and never reused.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      uint64          `json:"id"`
}

// Response represents a JSON-RPC 2.0 response. Exactly one of Result
// or Error is present in a well-formed response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// ErrorObject is the error member of a JSON-RPC 2.0 error response.
type ErrorObject struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Standard JSON-RPC error codes
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)
