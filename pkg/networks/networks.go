// Package networks holds the static registry of supported EVM networks
// and the transaction gas table used for cost estimates.
package networks

import (
	"fmt"
	"net/url"
)

// Network describes a supported EVM network.
type Network struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	RPCURL      string `json:"rpc_url"`
	ChainID     uint64 `json:"chain_id"`
	CoinGeckoID string `json:"coingecko_id"`
	Explorer    string `json:"explorer"`
}

// Registry order is stable; List and IDs follow it.
var registry = []Network{
	{ID: "ethereum", Name: "Ethereum Mainnet", RPCURL: "https://eth.llamarpc.com", ChainID: 1, CoinGeckoID: "ethereum", Explorer: "https://etherscan.io"},
	{ID: "polygon", Name: "Polygon PoS", RPCURL: "https://polygon-rpc.com", ChainID: 137, CoinGeckoID: "matic-network", Explorer: "https://polygonscan.com"},
	{ID: "arbitrum", Name: "Arbitrum One", RPCURL: "https://arb1.arbitrum.io/rpc", ChainID: 42161, CoinGeckoID: "ethereum", Explorer: "https://arbiscan.io"},
	{ID: "optimism", Name: "OP Mainnet", RPCURL: "https://mainnet.optimism.io", ChainID: 10, CoinGeckoID: "ethereum", Explorer: "https://optimistic.etherscan.io"},
	{ID: "bsc", Name: "BNB Smart Chain", RPCURL: "https://bsc-dataseed.binance.org", ChainID: 56, CoinGeckoID: "binancecoin", Explorer: "https://bscscan.com"},
	{ID: "base", Name: "Base", RPCURL: "https://mainnet.base.org", ChainID: 8453, CoinGeckoID: "ethereum", Explorer: "https://basescan.org"},
	{ID: "zksync", Name: "zkSync Era", RPCURL: "https://mainnet.era.zksync.io", ChainID: 324, CoinGeckoID: "ethereum", Explorer: "https://explorer.zksync.io"},
	{ID: "avalanche", Name: "Avalanche C-Chain", RPCURL: "https://api.avax.network/ext/bc/C/rpc", ChainID: 43114, CoinGeckoID: "avalanche-2", Explorer: "https://snowtrace.io"},
}

var byID = func() map[string]Network {
	m := make(map[string]Network, len(registry))
	for _, n := range registry {
		m[n.ID] = n
	}
	return m
}()

// Get returns the network with the given id.
func Get(id string) (Network, error) {
	n, ok := byID[id]
	if !ok {
		return Network{}, fmt.Errorf("unknown network %q", id)
	}
	return n, nil
}

// List returns all registered networks in stable order.
func List() []Network {
	out := make([]Network, len(registry))
	copy(out, registry)
	return out
}

// IDs returns the ids of all registered networks in stable order.
func IDs() []string {
	ids := make([]string, len(registry))
	for i, n := range registry {
		ids[i] = n.ID
	}
	return ids
}

// WithRPCURL returns a copy of the network with its RPC endpoint
// replaced. The override must be an absolute http(s) URL.
func (n Network) WithRPCURL(rpcURL string) (Network, error) {
	u, err := url.Parse(rpcURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Network{}, fmt.Errorf("invalid RPC URL override %q for network %s", rpcURL, n.ID)
	}
	n.RPCURL = rpcURL
	return n, nil
}

// TxType describes a transaction shape used for gas cost estimates.
type TxType struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	GasUnits uint64 `json:"gas_units"`
}

var txTypes = []TxType{
	{ID: "simple", Name: "Simple transfer", GasUnits: 21000},
	{ID: "erc20", Name: "ERC-20 transfer", GasUnits: 65000},
	{ID: "swap", Name: "DEX swap", GasUnits: 150000},
	{ID: "nft_mint", Name: "NFT mint", GasUnits: 100000},
	{ID: "nft_transfer", Name: "NFT transfer", GasUnits: 85000},
}

var txTypeByID = func() map[string]TxType {
	m := make(map[string]TxType, len(txTypes))
	for _, tt := range txTypes {
		m[tt.ID] = tt
	}
	return m
}()

// TxTypeByID returns the transaction type with the given id.
func TxTypeByID(id string) (TxType, error) {
	tt, ok := txTypeByID[id]
	if !ok {
		return TxType{}, fmt.Errorf("unknown transaction type %q", id)
	}
	return tt, nil
}

// TxTypes returns all known transaction types in stable order.
func TxTypes() []TxType {
	out := make([]TxType, len(txTypes))
	copy(out, txTypes)
	return out
}
