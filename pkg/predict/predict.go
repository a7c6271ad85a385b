// Package predict produces short-horizon gas price forecasts from
// stored samples.
//
// All functions expect samples sorted ascending by timestamp and
// degrade to typed errors on short input instead of panicking.
package predict

import (
	"errors"
	"math"

	"github.com/chainsafe/ethgas/pkg/history"
)

// ErrInsufficientData is returned when a method needs more samples
// than are available.
var ErrInsufficientData = errors.New("not enough samples")

// Trend describes the short-term direction of the base fee.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
	TrendUnknown Trend = "unknown"
)

// Forecast is the output of one prediction method. Fee fields are gwei.
type Forecast struct {
	Method      string  `json:"method"`
	BaseFee     float64 `json:"base_fee"`
	PriorityTip float64 `json:"priority_tip"`
	MaxFee      float64 `json:"max_fee"`
	// Confidence is a 0-100 score derived from recent volatility
	// (or the regression fit for the linear method).
	Confidence float64 `json:"confidence"`
	Trend      Trend   `json:"trend"`
	SampleSize int     `json:"sample_size"`
	// Slope and R2 are populated by the linear method only.
	Slope float64 `json:"slope,omitempty"`
	R2    float64 `json:"r2,omitempty"`
}

// TrendOf compares the mean base fee of the two halves of the lookback
// window. Moves within a ±10% band count as stable; fewer than two
// samples give TrendUnknown.
func TrendOf(samples []history.Sample, lookback int) Trend {
	if lookback > 0 && len(samples) > lookback {
		samples = samples[len(samples)-lookback:]
	}
	if len(samples) < 2 {
		return TrendUnknown
	}

	mid := len(samples) / 2
	older := meanBaseFee(samples[:mid])
	newer := meanBaseFee(samples[mid:])
	if older == 0 {
		return TrendUnknown
	}

	change := (newer - older) / older
	switch {
	case change > 0.1:
		return TrendRising
	case change < -0.1:
		return TrendFalling
	default:
		return TrendStable
	}
}

// MovingAverage predicts the next base fee as the mean of the last 10
// samples. Needs at least 3.
func MovingAverage(samples []history.Sample) (*Forecast, error) {
	if len(samples) < 3 {
		return nil, ErrInsufficientData
	}

	window := tail(samples, 10)
	predicted := meanBaseFee(window)
	return buildForecast("moving_average", predicted, samples, confidence(window)), nil
}

// Exponential predicts the next base fee with an exponential moving
// average (α = 0.3) over the full series. Needs at least 3 samples.
func Exponential(samples []history.Sample) (*Forecast, error) {
	if len(samples) < 3 {
		return nil, ErrInsufficientData
	}

	const alpha = 0.3
	ema := samples[0].BaseFee
	for _, sample := range samples[1:] {
		ema = alpha*sample.BaseFee + (1-alpha)*ema
	}
	return buildForecast("exponential", ema, samples, confidence(tail(samples, 10))), nil
}

// Linear fits a least-squares line through the last 20 samples and
// extrapolates one step ahead. Needs at least 5 samples.
func Linear(samples []history.Sample) (*Forecast, error) {
	if len(samples) < 5 {
		return nil, ErrInsufficientData
	}

	window := tail(samples, 20)
	n := float64(len(window))

	var sumX, sumY, sumXY, sumXX float64
	for i, sample := range window {
		x := float64(i)
		sumX += x
		sumY += sample.BaseFee
		sumXY += x * sample.BaseFee
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return nil, ErrInsufficientData
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	// Predict the next point; fees cannot go negative.
	predicted := slope*n + intercept
	if predicted < 0 {
		predicted = 0
	}

	r2 := rSquared(window, slope, intercept)
	f := buildForecast("linear", predicted, samples, clamp(r2*100, 0, 100))
	f.Slope = slope
	f.R2 = r2
	return f, nil
}

func buildForecast(method string, baseFee float64, samples []history.Sample, conf float64) *Forecast {
	tip := samples[len(samples)-1].PriorityTip
	return &Forecast{
		Method:      method,
		BaseFee:     baseFee,
		PriorityTip: tip,
		MaxFee:      baseFee + tip,
		Confidence:  conf,
		Trend:       TrendOf(samples, 20),
		SampleSize:  len(samples),
	}
}

// confidence maps the window's coefficient of variation onto 0-100:
// a flat series scores 100, a series whose stdev equals its mean
// scores 0.
func confidence(samples []history.Sample) float64 {
	if len(samples) < 2 {
		return 0
	}
	mean := meanBaseFee(samples)
	if mean == 0 {
		return 0
	}

	var variance float64
	for _, sample := range samples {
		d := sample.BaseFee - mean
		variance += d * d
	}
	variance /= float64(len(samples))
	return clamp(100-math.Sqrt(variance)/mean*100, 0, 100)
}

func rSquared(samples []history.Sample, slope, intercept float64) float64 {
	mean := meanBaseFee(samples)
	var ssRes, ssTot float64
	for i, sample := range samples {
		fit := slope*float64(i) + intercept
		ssRes += (sample.BaseFee - fit) * (sample.BaseFee - fit)
		ssTot += (sample.BaseFee - mean) * (sample.BaseFee - mean)
	}
	if ssTot == 0 {
		return 1
	}
	return 1 - ssRes/ssTot
}

func meanBaseFee(samples []history.Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, sample := range samples {
		sum += sample.BaseFee
	}
	return sum / float64(len(samples))
}

func tail(samples []history.Sample, n int) []history.Sample {
	if len(samples) > n {
		return samples[len(samples)-n:]
	}
	return samples
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
