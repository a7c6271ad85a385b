package tracker

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainsafe/ethgas/pkg/alerts"
	"github.com/chainsafe/ethgas/pkg/config"
	"github.com/chainsafe/ethgas/pkg/history"
)

func testConfig(networks ...string) *config.TrackerConfig {
	return &config.TrackerConfig{
		Networks:    networks,
		Interval:    50 * time.Millisecond,
		PriorityTip: 1.5,
	}
}

func newTestEngine(t *testing.T, cfg *config.TrackerConfig, readers map[string]ChainReader, price PriceSource, store *mockStore) *Engine {
	t.Helper()
	if readers == nil {
		readers = map[string]ChainReader{}
		for _, id := range cfg.Networks {
			readers[id] = &mockChainReader{}
		}
	}
	if price == nil {
		price = &mockPriceSource{}
	}
	engine, err := NewEngine(cfg, readers, price, store, nil, zap.NewNop())
	require.NoError(t, err)
	return engine
}

func TestNewEngineMissingReader(t *testing.T) {
	_, err := NewEngine(testConfig("ethereum", "polygon"),
		map[string]ChainReader{"ethereum": &mockChainReader{}},
		&mockPriceSource{}, &mockStore{}, nil, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "polygon")
}

func TestSnapshot(t *testing.T) {
	store := &mockStore{}
	engine := newTestEngine(t, testConfig("ethereum"), nil, nil, store)

	sample, err := engine.Snapshot(context.Background(), "ethereum")
	require.NoError(t, err)
	assert.Equal(t, "ethereum", sample.Network)
	assert.Equal(t, uint64(19000000), sample.BlockNumber)
	assert.InDelta(t, 25, sample.BaseFee, 1e-9)
	assert.InDelta(t, 1.5, sample.PriorityTip, 1e-9)
	assert.InDelta(t, 26.5, sample.MaxFee, 1e-9)
	assert.True(t, sample.TokenPriceUSD.Equal(decimal.NewFromInt(3200)))
	assert.False(t, sample.Timestamp.IsZero())
}

func TestSnapshotUnknownNetwork(t *testing.T) {
	engine := newTestEngine(t, testConfig("ethereum"), nil, nil, &mockStore{})
	_, err := engine.Snapshot(context.Background(), "nonsense")
	assert.Error(t, err)
}

func TestSnapshotPriceFailureDegrades(t *testing.T) {
	price := &mockPriceSource{
		USDPriceFunc: func(context.Context, string) (decimal.Decimal, error) {
			return decimal.Zero, errors.New("pricefeed down")
		},
	}
	engine := newTestEngine(t, testConfig("ethereum"), nil, price, &mockStore{})

	sample, err := engine.Snapshot(context.Background(), "ethereum")
	require.NoError(t, err)
	assert.True(t, sample.TokenPriceUSD.IsZero())
	assert.InDelta(t, 25, sample.BaseFee, 1e-9)
}

func TestSnapshotChainFailure(t *testing.T) {
	readers := map[string]ChainReader{
		"ethereum": &mockChainReader{
			LatestBaseFeeFunc: func(context.Context) (*big.Int, error) {
				return nil, errors.New("rpc unreachable")
			},
		},
	}
	engine := newTestEngine(t, testConfig("ethereum"), readers, nil, &mockStore{})

	_, err := engine.Snapshot(context.Background(), "ethereum")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rpc unreachable")
}

func TestEngineTickAppendsSamples(t *testing.T) {
	store := &mockStore{}
	engine := newTestEngine(t, testConfig("ethereum", "polygon"), nil, nil, store)

	engine.tick(context.Background())

	samples := store.stored()
	require.Len(t, samples, 2)
	seen := map[string]bool{}
	for _, sample := range samples {
		seen[sample.Network] = true
	}
	assert.True(t, seen["ethereum"])
	assert.True(t, seen["polygon"])
}

func TestEngineStartStop(t *testing.T) {
	store := &mockStore{}
	engine := newTestEngine(t, testConfig("ethereum"), nil, nil, store)

	require.NoError(t, engine.Start(context.Background()))
	// The first tick runs immediately; give the loop a moment.
	require.Eventually(t, func() bool {
		return len(store.stored()) >= 1
	}, 2*time.Second, 10*time.Millisecond)
	engine.Stop()

	count := len(store.stored())
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, count, len(store.stored()), "no samples after Stop")
}

type countingNotifier struct {
	mu    sync.Mutex
	count int
}

func (n *countingNotifier) Notify(context.Context, alerts.Firing) error {
	n.mu.Lock()
	n.count++
	n.mu.Unlock()
	return nil
}

func (n *countingNotifier) total() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}

func TestEngineObservesAlerts(t *testing.T) {
	notifier := &countingNotifier{}
	watcher := alerts.NewWatcher(alerts.WithNotifier(notifier))
	watcher.Add(alerts.Rule{Network: "ethereum", Threshold: 30})

	store := &mockStore{}
	readers := map[string]ChainReader{"ethereum": &mockChainReader{}}
	engine, err := NewEngine(testConfig("ethereum"), readers, &mockPriceSource{}, store, watcher, zap.NewNop())
	require.NoError(t, err)

	// 25 gwei is below the 30 gwei threshold, so the rule fires once
	// and latches across subsequent ticks.
	engine.tick(context.Background())
	require.Len(t, store.stored(), 1)
	assert.Equal(t, 1, notifier.total())

	engine.tick(context.Background())
	assert.Equal(t, 1, notifier.total())
}

func TestEngineStoreFailureDoesNotStopLoop(t *testing.T) {
	store := &mockStore{
		AppendFunc: func(context.Context, history.Sample) error {
			return errors.New("disk full")
		},
	}
	engine := newTestEngine(t, testConfig("ethereum"), nil, nil, store)

	// Must not panic; the error is logged.
	engine.tick(context.Background())
}
