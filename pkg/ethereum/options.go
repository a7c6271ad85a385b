package ethereum

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Option configures client settings using the functional options pattern.
type Option func(*settings)

type settings struct {
	logger     *zap.Logger
	network    string
	httpClient *http.Client
	timeout    time.Duration
}

// WithLogger sets a custom logger for the client.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithNetwork sets the network label used for logging and metrics.
func WithNetwork(id string) Option {
	return func(s *settings) { s.network = id }
}

// WithHTTPClient sets a custom HTTP client for the underlying JSON-RPC
// transport.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.httpClient = c }
}

// WithTimeout sets the per-call timeout of the underlying JSON-RPC
// transport. Ignored when WithHTTPClient is also given.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

func applyOptions(opts []Option) settings {
	s := settings{
		logger:  zap.NewNop(),
		network: "unknown",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}
