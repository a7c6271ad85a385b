package pricefeed

import (
	"net/http"
	"time"
)

const (
	defaultBaseURL   = "https://api.coingecko.com/api/v3"
	defaultTimeout   = 10 * time.Second
	defaultCacheTTL  = time.Minute
	defaultCacheSize = 64
)

// Option configures client settings using the functional options pattern.
type Option func(*settings)

type settings struct {
	baseURL    string
	httpClient *http.Client
	cacheTTL   time.Duration
	cacheSize  int
}

// WithBaseURL overrides the CoinGecko API base URL.
func WithBaseURL(u string) Option {
	return func(s *settings) { s.baseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.httpClient = c }
}

// WithCacheTTL sets how long fetched prices are served from cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *settings) { s.cacheTTL = ttl }
}

func applyOptions(opts []Option) settings {
	s := settings{
		baseURL:   defaultBaseURL,
		cacheTTL:  defaultCacheTTL,
		cacheSize: defaultCacheSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return s
}
