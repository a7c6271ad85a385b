// Package stats computes historical aggregates and gas price
// recommendations from stored samples.
package stats

import (
	"fmt"
	"time"

	"github.com/chainsafe/ethgas/pkg/history"
)

// Aggregate summarizes one fee series.
type Aggregate struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// Summary aggregates a window of samples.
type Summary struct {
	Count   int       `json:"count"`
	BaseFee Aggregate `json:"base_fee"`
	MaxFee  Aggregate `json:"max_fee"`
}

// Compute aggregates the given samples. The second return value is
// false when there are no samples to aggregate.
func Compute(samples []history.Sample) (*Summary, bool) {
	if len(samples) == 0 {
		return nil, false
	}

	s := &Summary{
		Count:   len(samples),
		BaseFee: Aggregate{Min: samples[0].BaseFee, Max: samples[0].BaseFee},
		MaxFee:  Aggregate{Min: samples[0].MaxFee, Max: samples[0].MaxFee},
	}
	var baseSum, maxSum float64
	for _, sample := range samples {
		baseSum += sample.BaseFee
		maxSum += sample.MaxFee
		if sample.BaseFee < s.BaseFee.Min {
			s.BaseFee.Min = sample.BaseFee
		}
		if sample.BaseFee > s.BaseFee.Max {
			s.BaseFee.Max = sample.BaseFee
		}
		if sample.MaxFee < s.MaxFee.Min {
			s.MaxFee.Min = sample.MaxFee
		}
		if sample.MaxFee > s.MaxFee.Max {
			s.MaxFee.Max = sample.MaxFee
		}
	}
	s.BaseFee.Avg = baseSum / float64(len(samples))
	s.MaxFee.Avg = maxSum / float64(len(samples))
	return s, true
}

// Window drops samples older than now minus d.
func Window(samples []history.Sample, d time.Duration) []history.Sample {
	cutoff := time.Now().Add(-d)
	out := make([]history.Sample, 0, len(samples))
	for _, sample := range samples {
		if !sample.Timestamp.Before(cutoff) {
			out = append(out, sample)
		}
	}
	return out
}

// Level grades the current base fee against the historical window.
type Level string

const (
	LevelExcellent    Level = "excellent"
	LevelGood         Level = "good"
	LevelModerate     Level = "moderate"
	LevelHigh         Level = "high"
	LevelInsufficient Level = "insufficient_data"
)

// Recommendation grades the current base fee.
type Recommendation struct {
	Level   Level   `json:"level"`
	Message string  `json:"message"`
	BaseFee float64 `json:"base_fee"`
}

// Recommend grades currentBaseFee (gwei) against the summary. A nil
// summary yields LevelInsufficient rather than a guess.
func Recommend(currentBaseFee float64, summary *Summary) Recommendation {
	rec := Recommendation{BaseFee: currentBaseFee}
	if summary == nil || summary.Count == 0 {
		rec.Level = LevelInsufficient
		rec.Message = "not enough history to grade the current fee"
		return rec
	}

	switch {
	case currentBaseFee <= summary.BaseFee.Min*1.1:
		rec.Level = LevelExcellent
		rec.Message = "near historical minimum, great time to transact"
	case currentBaseFee <= summary.BaseFee.Avg*0.8:
		rec.Level = LevelGood
		rec.Message = "well below average"
	case currentBaseFee <= summary.BaseFee.Avg*1.2:
		rec.Level = LevelModerate
		rec.Message = "around average"
	default:
		rec.Level = LevelHigh
		rec.Message = fmt.Sprintf("above average (%.2f gwei), consider waiting", summary.BaseFee.Avg)
	}
	return rec
}
