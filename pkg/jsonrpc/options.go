package jsonrpc

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds a call when no custom HTTP client or timeout
// is supplied. A call must always have a deadline; an unbounded hang is
// treated as a defect, not a configuration choice.
const DefaultTimeout = 15 * time.Second

// Option configures client settings using the functional options pattern.
type Option func(*settings)

type settings struct {
	httpClient *http.Client
	timeout    time.Duration
}

// WithHTTPClient sets a custom HTTP client. The caller stays in charge
// of its transport and timeout settings.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.httpClient = c }
}

// WithTimeout sets the per-call timeout applied by the default HTTP
// client. Ignored when WithHTTPClient is also given.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

func applyOptions(opts []Option) settings {
	s := settings{
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: s.timeout}
	}
	return s
}
