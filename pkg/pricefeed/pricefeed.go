// Package pricefeed fetches native token USD prices from the CoinGecko
// simple-price API.
package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"
)

// Client fetches USD prices with a short-lived cache in front, so one
// tracker tick across many networks hits CoinGecko once per coin. It is
// safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *expirable.LRU[string, decimal.Decimal]
}

// NewClient creates a price feed client.
func NewClient(opts ...Option) *Client {
	s := applyOptions(opts)
	return &Client{
		baseURL:    s.baseURL,
		httpClient: s.httpClient,
		cache:      expirable.NewLRU[string, decimal.Decimal](s.cacheSize, nil, s.cacheTTL),
	}
}

// USDPrice returns the current USD price of the given CoinGecko coin id.
// A coin missing from the response is an error, never a zero price.
func (c *Client) USDPrice(ctx context.Context, coinID string) (decimal.Decimal, error) {
	if coinID == "" {
		return decimal.Zero, fmt.Errorf("coin id is required")
	}

	if price, ok := c.cache.Get(coinID); ok {
		return price, nil
	}

	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", c.baseURL, url.QueryEscape(coinID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build price request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read price response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("price endpoint returned status %d", resp.StatusCode)
	}

	// Response shape: {"<coin>": {"usd": 1234.56}}
	var parsed map[string]map[string]decimal.Decimal
	if err := json.Unmarshal(body, &parsed); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode price response: %w", err)
	}

	price, ok := parsed[coinID]["usd"]
	if !ok {
		return decimal.Zero, fmt.Errorf("no USD price for coin %q in response", coinID)
	}

	c.cache.Add(coinID, price)
	return price, nil
}
