// Package ethereum provides a typed read-only Ethereum client layered
// on the generic JSON-RPC core.
package ethereum

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"github.com/chainsafe/ethgas/internal/metrics"
	"github.com/chainsafe/ethgas/pkg/jsonrpc"
)

// Client issues typed eth_* reads against a single network. It is safe
// for concurrent use.
type Client struct {
	rpc     *jsonrpc.Client
	network string
	logger  *zap.Logger
}

// NewClient creates a client for the given RPC endpoint.
func NewClient(rpcURL string, opts ...Option) (*Client, error) {
	s := applyOptions(opts)

	var rpcOpts []jsonrpc.Option
	if s.httpClient != nil {
		rpcOpts = append(rpcOpts, jsonrpc.WithHTTPClient(s.httpClient))
	} else if s.timeout > 0 {
		rpcOpts = append(rpcOpts, jsonrpc.WithTimeout(s.timeout))
	}

	rpc, err := jsonrpc.NewClient(rpcURL, rpcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create RPC client: %w", err)
	}

	return &Client{
		rpc:     rpc,
		network: s.network,
		logger:  s.logger,
	}, nil
}

// call wraps the generic RPC call with logging and request metrics.
func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	start := time.Now()
	result, err := c.rpc.Call(ctx, method, params)
	elapsed := time.Since(start)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.RPCRequestsTotal.WithLabelValues(c.network, method, outcome).Inc()
	metrics.RPCRequestDuration.WithLabelValues(c.network, method).Observe(elapsed.Seconds())

	if err != nil {
		c.logger.Debug("RPC call failed",
			zap.String("network", c.network),
			zap.String("method", method),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, err
	}
	return result, nil
}

// BlockNumber returns the current block height via eth_blockNumber.
// A height of zero with a nil error is a legitimate result; failures
// are always reported through the error.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	result, err := c.call(ctx, "eth_blockNumber", nil)
	if err != nil {
		return 0, fmt.Errorf("eth_blockNumber: %w", err)
	}

	var raw string
	if err := json.Unmarshal(result, &raw); err != nil {
		return 0, fmt.Errorf("eth_blockNumber: unexpected result %s: %w", string(result), err)
	}
	n, err := hexutil.DecodeUint64(raw)
	if err != nil {
		return 0, fmt.Errorf("eth_blockNumber: invalid quantity %q: %w", raw, err)
	}
	return n, nil
}

// ChainID returns the chain id via eth_chainId.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	return c.quantity(ctx, "eth_chainId")
}

// GasPrice returns the legacy gas price in wei via eth_gasPrice.
func (c *Client) GasPrice(ctx context.Context) (*big.Int, error) {
	return c.quantity(ctx, "eth_gasPrice")
}

func (c *Client) quantity(ctx context.Context, method string) (*big.Int, error) {
	result, err := c.call(ctx, method, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	var raw string
	if err := json.Unmarshal(result, &raw); err != nil {
		return nil, fmt.Errorf("%s: unexpected result %s: %w", method, string(result), err)
	}
	n, err := hexutil.DecodeBig(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid quantity %q: %w", method, raw, err)
	}
	return n, nil
}

// FeeHistory returns base fee and usage history via eth_feeHistory.
// newestBlock is a block tag ("latest") or hex block number; percentiles
// may be nil to skip reward tiers.
func (c *Client) FeeHistory(ctx context.Context, blockCount uint64, newestBlock string, percentiles []float64) (*FeeHistory, error) {
	if blockCount == 0 {
		return nil, fmt.Errorf("eth_feeHistory: block count must be positive")
	}
	if newestBlock == "" {
		newestBlock = "latest"
	}
	if percentiles == nil {
		percentiles = []float64{}
	}

	params := []any{hexutil.EncodeUint64(blockCount), newestBlock, percentiles}
	result, err := c.call(ctx, "eth_feeHistory", params)
	if err != nil {
		return nil, fmt.Errorf("eth_feeHistory: %w", err)
	}

	var wire feeHistoryResult
	if err := json.Unmarshal(result, &wire); err != nil {
		return nil, fmt.Errorf("eth_feeHistory: unexpected result: %w", err)
	}
	return wire.decode(), nil
}

// LatestBaseFee returns the base fee of the upcoming block in wei.
func (c *Client) LatestBaseFee(ctx context.Context) (*big.Int, error) {
	fh, err := c.FeeHistory(ctx, 1, "latest", nil)
	if err != nil {
		return nil, err
	}
	if len(fh.BaseFeePerGas) == 0 {
		return nil, fmt.Errorf("eth_feeHistory: empty baseFeePerGas")
	}
	fee := fh.BaseFeePerGas[len(fh.BaseFeePerGas)-1]
	if fee == nil {
		return nil, fmt.Errorf("eth_feeHistory: missing base fee entry")
	}
	return fee, nil
}
