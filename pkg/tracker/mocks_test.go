package tracker

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chainsafe/ethgas/pkg/history"
)

type mockChainReader struct {
	LatestBaseFeeFunc func(ctx context.Context) (*big.Int, error)
	BlockNumberFunc   func(ctx context.Context) (uint64, error)
}

func (m *mockChainReader) LatestBaseFee(ctx context.Context) (*big.Int, error) {
	if m.LatestBaseFeeFunc != nil {
		return m.LatestBaseFeeFunc(ctx)
	}
	return big.NewInt(25_000_000_000), nil // 25 gwei
}

func (m *mockChainReader) BlockNumber(ctx context.Context) (uint64, error) {
	if m.BlockNumberFunc != nil {
		return m.BlockNumberFunc(ctx)
	}
	return 19000000, nil
}

type mockPriceSource struct {
	USDPriceFunc func(ctx context.Context, coinID string) (decimal.Decimal, error)
}

func (m *mockPriceSource) USDPrice(ctx context.Context, coinID string) (decimal.Decimal, error) {
	if m.USDPriceFunc != nil {
		return m.USDPriceFunc(ctx, coinID)
	}
	return decimal.NewFromInt(3200), nil
}

type mockStore struct {
	mu         sync.Mutex
	samples    []history.Sample
	AppendFunc func(ctx context.Context, sample history.Sample) error
}

func (m *mockStore) Append(ctx context.Context, sample history.Sample) error {
	m.mu.Lock()
	m.samples = append(m.samples, sample)
	m.mu.Unlock()
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, sample)
	}
	return nil
}

func (m *mockStore) Recent(context.Context, string, int) ([]history.Sample, error) {
	return nil, nil
}

func (m *mockStore) Since(context.Context, string, time.Time) ([]history.Sample, error) {
	return nil, nil
}

func (m *mockStore) Clear(context.Context, string) error { return nil }

func (m *mockStore) Close() error { return nil }

func (m *mockStore) stored() []history.Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]history.Sample, len(m.samples))
	copy(out, m.samples)
	return out
}
