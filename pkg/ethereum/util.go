package ethereum

import "math/big"

var gweiPerWei = big.NewFloat(1e9)

// WeiToGwei converts a wei amount to gwei as a float64.
func WeiToGwei(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	gwei, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), gweiPerWei).Float64()
	return gwei
}

// GweiToWei converts a gwei amount to wei, truncating sub-wei precision.
func GweiToWei(gwei float64) *big.Int {
	wei, _ := new(big.Float).Mul(big.NewFloat(gwei), gweiPerWei).Int(nil)
	return wei
}
