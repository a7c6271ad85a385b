package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BaseFeeGwei tracks the latest sampled base fee per network
	BaseFeeGwei = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ethgas_base_fee_gwei",
			Help: "Latest sampled base fee in gwei",
		},
		[]string{"network"},
	)

	// MaxFeeGwei tracks the latest recommended max fee per network
	MaxFeeGwei = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ethgas_max_fee_gwei",
			Help: "Latest recommended max fee in gwei",
		},
		[]string{"network"},
	)

	// TokenPriceUSD tracks the latest native token price per coin
	TokenPriceUSD = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ethgas_token_price_usd",
			Help: "Latest native token price in USD",
		},
		[]string{"coin"},
	)

	// BlockNumber tracks the latest observed block number per network
	BlockNumber = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ethgas_block_number",
			Help: "Latest observed block number",
		},
		[]string{"network"},
	)

	// RPCRequestsTotal counts upstream RPC requests by network, method and outcome
	RPCRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ethgas_rpc_requests_total",
			Help: "Total number of upstream JSON-RPC requests",
		},
		[]string{"network", "method", "outcome"},
	)

	// RPCRequestDuration tracks upstream RPC request latency
	RPCRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ethgas_rpc_request_duration_seconds",
			Help:    "Upstream JSON-RPC request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"network", "method"},
	)

	// TrackerTicksTotal counts completed tracker poll cycles
	TrackerTicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ethgas_tracker_ticks_total",
			Help: "Total number of completed tracker poll cycles",
		},
	)

	// SamplesAppendedTotal counts samples written to history per network
	SamplesAppendedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ethgas_samples_appended_total",
			Help: "Total number of gas samples written to history",
		},
		[]string{"network"},
	)

	// AlertsFiredTotal counts alert rule firings per network
	AlertsFiredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ethgas_alerts_fired_total",
			Help: "Total number of alert rule firings",
		},
		[]string{"network"},
	)

	// WebhookDeliveriesTotal counts webhook deliveries by platform and outcome
	WebhookDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ethgas_webhook_deliveries_total",
			Help: "Total number of webhook delivery attempts",
		},
		[]string{"platform", "outcome"},
	)

	// HTTPRequestsTotal counts API requests by route and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ethgas_http_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"route", "status"},
	)
)
