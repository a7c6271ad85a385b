package predict

import (
	"time"

	"github.com/chainsafe/ethgas/pkg/history"
)

// HourStat is the average base fee observed during one hour of the day.
type HourStat struct {
	Hour       int     `json:"hour"`
	AvgBaseFee float64 `json:"avg_base_fee"`
	Samples    int     `json:"samples"`
}

// Window reports the cheapest and priciest hours of the day seen in
// the sample set.
type Window struct {
	Cheapest           HourStat `json:"cheapest"`
	Priciest           HourStat `json:"priciest"`
	HoursUntilCheapest int      `json:"hours_until_cheapest"`
}

// BestWindow buckets samples by hour of day and picks the cheapest and
// priciest hours. HoursUntilCheapest counts from the current wall clock.
func BestWindow(samples []history.Sample) (*Window, error) {
	return bestWindowAt(samples, time.Now())
}

func bestWindowAt(samples []history.Sample, now time.Time) (*Window, error) {
	if len(samples) == 0 {
		return nil, ErrInsufficientData
	}

	var sums [24]float64
	var counts [24]int
	for _, sample := range samples {
		h := sample.Timestamp.Hour()
		sums[h] += sample.BaseFee
		counts[h]++
	}

	cheapest := HourStat{Hour: -1}
	priciest := HourStat{Hour: -1}
	for h := 0; h < 24; h++ {
		if counts[h] == 0 {
			continue
		}
		avg := sums[h] / float64(counts[h])
		if cheapest.Hour < 0 || avg < cheapest.AvgBaseFee {
			cheapest = HourStat{Hour: h, AvgBaseFee: avg, Samples: counts[h]}
		}
		if priciest.Hour < 0 || avg > priciest.AvgBaseFee {
			priciest = HourStat{Hour: h, AvgBaseFee: avg, Samples: counts[h]}
		}
	}

	until := cheapest.Hour - now.Hour()
	if until < 0 {
		until += 24
	}

	return &Window{
		Cheapest:           cheapest,
		Priciest:           priciest,
		HoursUntilCheapest: until,
	}, nil
}
