// Package tracker runs the polling engine that samples gas prices
// across networks and feeds history, alerts and metrics.
package tracker

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/chainsafe/ethgas/internal/metrics"
	"github.com/chainsafe/ethgas/pkg/alerts"
	"github.com/chainsafe/ethgas/pkg/config"
	"github.com/chainsafe/ethgas/pkg/ethereum"
	"github.com/chainsafe/ethgas/pkg/history"
	"github.com/chainsafe/ethgas/pkg/networks"
)

// ChainReader defines the per-network chain interactions the engine
// needs.
type ChainReader interface {
	LatestBaseFee(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// PriceSource defines the token price lookup.
type PriceSource interface {
	USDPrice(ctx context.Context, coinID string) (decimal.Decimal, error)
}

// Engine orchestrates the gas sampling loop.
type Engine struct {
	cfg     *config.TrackerConfig
	readers map[string]ChainReader
	price   PriceSource
	store   history.Store
	watcher *alerts.Watcher
	logger  *zap.Logger

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewEngine creates a new tracker engine. The readers map is keyed by
// network id and must cover every configured network.
func NewEngine(
	cfg *config.TrackerConfig,
	readers map[string]ChainReader,
	price PriceSource,
	store history.Store,
	watcher *alerts.Watcher,
	logger *zap.Logger,
) (*Engine, error) {
	for _, id := range cfg.Networks {
		if _, ok := readers[id]; !ok {
			return nil, fmt.Errorf("no chain reader for network %s", id)
		}
	}
	return &Engine{
		cfg:     cfg,
		readers: readers,
		price:   price,
		store:   store,
		watcher: watcher,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}, nil
}

// Start starts the polling loop.
func (e *Engine) Start(ctx context.Context) error {
	e.logger.Info("Starting tracker engine",
		zap.Strings("networks", e.cfg.Networks),
		zap.Duration("interval", e.cfg.Interval))

	e.wg.Add(1)
	go e.run(ctx)

	e.logger.Info("Tracker engine started")
	return nil
}

// Stop stops the polling loop and waits for in-flight ticks.
func (e *Engine) Stop() {
	e.logger.Info("Stopping tracker engine")
	close(e.stopCh)
	e.wg.Wait()
	e.logger.Info("Tracker engine stopped")
}

func (e *Engine) run(ctx context.Context) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	// First sample without waiting for the interval.
	e.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.stopCh:
			return
		case <-ticker.C:
			e.tick(ctx)
		}
	}
}

// tick polls all configured networks concurrently.
func (e *Engine) tick(ctx context.Context) {
	var wg sync.WaitGroup
	for _, id := range e.cfg.Networks {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := e.poll(ctx, id); err != nil {
				e.logger.Error("Network poll failed",
					zap.String("network", id),
					zap.Error(err))
			}
		}(id)
	}
	wg.Wait()
	metrics.TrackerTicksTotal.Inc()
}

func (e *Engine) poll(ctx context.Context, networkID string) error {
	sample, err := e.Snapshot(ctx, networkID)
	if err != nil {
		return err
	}

	if err := e.store.Append(ctx, sample); err != nil {
		return fmt.Errorf("appending sample: %w", err)
	}
	metrics.SamplesAppendedTotal.WithLabelValues(networkID).Inc()

	if e.watcher != nil {
		e.watcher.Observe(ctx, sample)
	}

	e.logger.Debug("Sampled network",
		zap.String("network", networkID),
		zap.Uint64("block", sample.BlockNumber),
		zap.Float64("base_fee_gwei", sample.BaseFee))
	return nil
}

// Snapshot fetches a single sample for one network. The token price is
// best effort: a pricefeed failure logs a warning and leaves the price
// at zero rather than failing the sample.
func (e *Engine) Snapshot(ctx context.Context, networkID string) (history.Sample, error) {
	net, err := networks.Get(networkID)
	if err != nil {
		return history.Sample{}, err
	}
	reader, ok := e.readers[networkID]
	if !ok {
		return history.Sample{}, fmt.Errorf("no chain reader for network %s", networkID)
	}

	baseFeeWei, err := reader.LatestBaseFee(ctx)
	if err != nil {
		return history.Sample{}, fmt.Errorf("fetching base fee for %s: %w", networkID, err)
	}
	blockNumber, err := reader.BlockNumber(ctx)
	if err != nil {
		return history.Sample{}, fmt.Errorf("fetching block number for %s: %w", networkID, err)
	}

	baseFee := ethereum.WeiToGwei(baseFeeWei)
	sample := history.Sample{
		Network:     networkID,
		BlockNumber: blockNumber,
		BaseFee:     baseFee,
		PriorityTip: e.cfg.PriorityTip,
		MaxFee:      baseFee + e.cfg.PriorityTip,
		Timestamp:   time.Now().UTC(),
	}

	price, err := e.price.USDPrice(ctx, net.CoinGeckoID)
	if err != nil {
		e.logger.Warn("Token price lookup failed",
			zap.String("network", networkID),
			zap.String("coin", net.CoinGeckoID),
			zap.Error(err))
	} else {
		sample.TokenPriceUSD = price
		metrics.TokenPriceUSD.WithLabelValues(net.CoinGeckoID).Set(price.InexactFloat64())
	}

	metrics.BaseFeeGwei.WithLabelValues(networkID).Set(sample.BaseFee)
	metrics.MaxFeeGwei.WithLabelValues(networkID).Set(sample.MaxFee)
	metrics.BlockNumber.WithLabelValues(networkID).Set(float64(blockNumber))

	return sample, nil
}
