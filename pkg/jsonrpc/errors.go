package jsonrpc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies a call failure.
type Kind int

const (
	// KindTransport covers network-level failures: DNS, TLS, refused
	// connections, timeouts, cancellations and non-2xx HTTP statuses.
	KindTransport Kind = iota + 1
	// KindDecode means the response body was not valid JSON.
	KindDecode
	// KindProtocol means the response was valid JSON but violated the
	// JSON-RPC 2.0 contract, or the request itself was malformed.
	KindProtocol
	// KindRemote means the server returned a JSON-RPC error object.
	KindRemote
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindProtocol:
		return "protocol"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Error is the single failure type returned by Call. Every failure is
// surfaced as an *Error; the client never returns sentinel values.
type Error struct {
	Kind    Kind
	Message string
	// Code and Data are populated for KindRemote only.
	Code int
	Data json.RawMessage
	// Err carries the underlying cause for transport and decode failures.
	Err error
}

func (e *Error) Error() string {
	if e.Kind == KindRemote {
		return fmt.Sprintf("jsonrpc: remote error %d: %s", e.Code, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("jsonrpc: %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("jsonrpc: %s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a jsonrpc *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var rpcErr *Error
	return errors.As(err, &rpcErr) && rpcErr.Kind == kind
}

func transportError(msg string, err error) *Error {
	return &Error{Kind: KindTransport, Message: msg, Err: err}
}

func decodeError(msg string, err error) *Error {
	return &Error{Kind: KindDecode, Message: msg, Err: err}
}

func protocolError(msg string, err error) *Error {
	return &Error{Kind: KindProtocol, Message: msg, Err: err}
}

func remoteError(obj *ErrorObject) *Error {
	return &Error{Kind: KindRemote, Message: obj.Message, Code: obj.Code, Data: obj.Data}
}
