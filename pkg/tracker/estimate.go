package tracker

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/chainsafe/ethgas/pkg/history"
	"github.com/chainsafe/ethgas/pkg/networks"
)

var gweiToNative = decimal.New(1, -9)

// Estimate is the projected cost of one transaction type at a given
// sample's fee level.
type Estimate struct {
	TxType     string          `json:"tx_type"`
	GasUnits   uint64          `json:"gas_units"`
	CostNative decimal.Decimal `json:"cost_native"`
	CostUSD    decimal.Decimal `json:"cost_usd"`
}

// EstimateCost projects the cost of a transaction type at the sample's
// max fee. CostUSD is zero when the sample carries no token price;
// callers can detect that with CostUSD.IsZero.
func EstimateCost(sample history.Sample, txType string) (Estimate, error) {
	tt, err := networks.TxTypeByID(txType)
	if err != nil {
		return Estimate{}, err
	}

	costNative := decimal.NewFromFloat(sample.MaxFee).
		Mul(gweiToNative).
		Mul(decimal.NewFromUint64(tt.GasUnits))

	return Estimate{
		TxType:     tt.ID,
		GasUnits:   tt.GasUnits,
		CostNative: costNative,
		CostUSD:    costNative.Mul(sample.TokenPriceUSD),
	}, nil
}

// Quote is one network's cost for a transaction type. Err is set when
// the network could not be sampled.
type Quote struct {
	NetworkID string         `json:"network_id"`
	Sample    history.Sample `json:"sample"`
	Estimate  Estimate       `json:"estimate"`
	Err       error          `json:"-"`
}

// Compare snapshots the given networks concurrently and ranks the
// successful quotes cheapest first by USD cost. Failed networks keep
// their error and sort last.
func (e *Engine) Compare(ctx context.Context, networkIDs []string, txType string) ([]Quote, error) {
	if _, err := networks.TxTypeByID(txType); err != nil {
		return nil, err
	}
	if len(networkIDs) == 0 {
		networkIDs = e.cfg.Networks
	}

	quotes := make([]Quote, len(networkIDs))
	var wg sync.WaitGroup
	for i, id := range networkIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			quotes[i] = e.quote(ctx, id, txType)
		}(i, id)
	}
	wg.Wait()

	sort.SliceStable(quotes, func(i, j int) bool {
		if (quotes[i].Err == nil) != (quotes[j].Err == nil) {
			return quotes[i].Err == nil
		}
		if quotes[i].Err != nil {
			return false
		}
		return quotes[i].Estimate.CostUSD.LessThan(quotes[j].Estimate.CostUSD)
	})
	return quotes, nil
}

func (e *Engine) quote(ctx context.Context, networkID, txType string) Quote {
	sample, err := e.Snapshot(ctx, networkID)
	if err != nil {
		return Quote{NetworkID: networkID, Err: err}
	}
	estimate, err := EstimateCost(sample, txType)
	if err != nil {
		return Quote{NetworkID: networkID, Err: err}
	}
	return Quote{NetworkID: networkID, Sample: sample, Estimate: estimate}
}
