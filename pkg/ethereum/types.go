package ethereum

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// FeeHistory is the decoded result of eth_feeHistory.
//
// BaseFeePerGas has one more entry than the requested block count: the
// last element is the base fee of the upcoming block.
type FeeHistory struct {
	OldestBlock   uint64
	BaseFeePerGas []*big.Int
	GasUsedRatio  []float64
	Reward        [][]*big.Int
}

// feeHistoryResult is the wire shape of the eth_feeHistory result.
type feeHistoryResult struct {
	OldestBlock   hexutil.Uint64   `json:"oldestBlock"`
	BaseFeePerGas []*hexutil.Big   `json:"baseFeePerGas"`
	GasUsedRatio  []float64        `json:"gasUsedRatio"`
	Reward        [][]*hexutil.Big `json:"reward,omitempty"`
}

func (r *feeHistoryResult) decode() *FeeHistory {
	fh := &FeeHistory{
		OldestBlock:  uint64(r.OldestBlock),
		GasUsedRatio: r.GasUsedRatio,
	}
	fh.BaseFeePerGas = make([]*big.Int, len(r.BaseFeePerGas))
	for i, fee := range r.BaseFeePerGas {
		fh.BaseFeePerGas[i] = (*big.Int)(fee)
	}
	if r.Reward != nil {
		fh.Reward = make([][]*big.Int, len(r.Reward))
		for i, tiers := range r.Reward {
			fh.Reward[i] = make([]*big.Int, len(tiers))
			for j, tier := range tiers {
				fh.Reward[i][j] = (*big.Int)(tier)
			}
		}
	}
	return fh
}
