package tracker

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsafe/ethgas/pkg/history"
)

func TestEstimateCost(t *testing.T) {
	sample := history.Sample{
		Network:       "ethereum",
		MaxFee:        50, // gwei
		TokenPriceUSD: decimal.NewFromInt(3000),
	}

	est, err := EstimateCost(sample, "simple")
	require.NoError(t, err)
	assert.Equal(t, "simple", est.TxType)
	assert.Equal(t, uint64(21000), est.GasUnits)
	// 50 gwei * 1e-9 * 21000 = 0.00105 ETH
	assert.True(t, est.CostNative.Equal(decimal.RequireFromString("0.00105")), est.CostNative.String())
	// 0.00105 * 3000 = 3.15 USD
	assert.True(t, est.CostUSD.Equal(decimal.RequireFromString("3.15")), est.CostUSD.String())
}

func TestEstimateCostZeroPrice(t *testing.T) {
	sample := history.Sample{Network: "ethereum", MaxFee: 50}

	est, err := EstimateCost(sample, "erc20")
	require.NoError(t, err)
	assert.False(t, est.CostNative.IsZero())
	assert.True(t, est.CostUSD.IsZero())
}

func TestEstimateCostUnknownTxType(t *testing.T) {
	_, err := EstimateCost(history.Sample{}, "teleport")
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	// Ethereum: 100 gwei at $3000; polygon: 80 gwei at $0.70 (far cheaper in USD).
	readers := map[string]ChainReader{
		"ethereum": &mockChainReader{
			LatestBaseFeeFunc: func(context.Context) (*big.Int, error) {
				return big.NewInt(100_000_000_000), nil
			},
		},
		"polygon": &mockChainReader{
			LatestBaseFeeFunc: func(context.Context) (*big.Int, error) {
				return big.NewInt(80_000_000_000), nil
			},
		},
	}
	price := &mockPriceSource{
		USDPriceFunc: func(_ context.Context, coinID string) (decimal.Decimal, error) {
			if coinID == "matic-network" {
				return decimal.RequireFromString("0.70"), nil
			}
			return decimal.NewFromInt(3000), nil
		},
	}
	engine := newTestEngine(t, testConfig("ethereum", "polygon"), readers, price, &mockStore{})

	quotes, err := engine.Compare(context.Background(), []string{"ethereum", "polygon"}, "simple")
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "polygon", quotes[0].NetworkID)
	assert.Equal(t, "ethereum", quotes[1].NetworkID)
	assert.True(t, quotes[0].Estimate.CostUSD.LessThan(quotes[1].Estimate.CostUSD))
}

func TestCompareFailedNetworkSortsLast(t *testing.T) {
	readers := map[string]ChainReader{
		"ethereum": &mockChainReader{},
		"polygon": &mockChainReader{
			LatestBaseFeeFunc: func(context.Context) (*big.Int, error) {
				return nil, errors.New("rpc down")
			},
		},
	}
	engine := newTestEngine(t, testConfig("ethereum", "polygon"), readers, nil, &mockStore{})

	quotes, err := engine.Compare(context.Background(), nil, "simple")
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "ethereum", quotes[0].NetworkID)
	assert.NoError(t, quotes[0].Err)
	assert.Equal(t, "polygon", quotes[1].NetworkID)
	assert.Error(t, quotes[1].Err)
}

func TestCompareUnknownTxType(t *testing.T) {
	engine := newTestEngine(t, testConfig("ethereum"), nil, nil, &mockStore{})
	_, err := engine.Compare(context.Background(), nil, "teleport")
	assert.Error(t, err)
}
