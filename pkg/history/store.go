// Package history persists gas price samples and serves them back for
// statistics, prediction and export.
package history

import (
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Sample is one observation of a network's gas market. Fee fields are
// gwei; TokenPriceUSD is the native token price at sampling time and
// is zero when the price lookup failed.
type Sample struct {
	Network       string          `json:"network"`
	BlockNumber   uint64          `json:"block_number"`
	BaseFee       float64         `json:"base_fee"`
	PriorityTip   float64         `json:"priority_tip"`
	MaxFee        float64         `json:"max_fee"`
	TokenPriceUSD decimal.Decimal `json:"token_price_usd"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Store persists samples. Implementations must be safe for concurrent
// use.
type Store interface {
	// Append stores one sample.
	Append(ctx context.Context, sample Sample) error
	// Recent returns up to limit samples for the network, newest first.
	Recent(ctx context.Context, network string, limit int) ([]Sample, error)
	// Since returns all samples for the network at or after the given
	// time, ascending by timestamp.
	Since(ctx context.Context, network string, since time.Time) ([]Sample, error)
	// Clear removes all samples for the network; an empty network
	// clears everything.
	Clear(ctx context.Context, network string) error
	// Close releases resources held by the store.
	Close() error
}

// Chronological returns a reversed copy of a newest-first listing,
// oldest first. The input slice is left untouched.
func Chronological(samples []Sample) []Sample {
	out := make([]Sample, len(samples))
	copy(out, samples)
	slices.Reverse(out)
	return out
}
