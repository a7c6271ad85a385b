// Package graph renders gas history as plain-text charts for the
// terminal.
package graph

import (
	"fmt"
	"strings"

	"github.com/chainsafe/ethgas/pkg/history"
)

// Eight block characters from lowest to highest.
var sparks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as one line of block characters scaled
// between the series minimum and maximum. Series longer than width are
// downsampled by averaging equal buckets; a flat series renders at the
// lowest level.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}
	if width > 0 && len(values) > width {
		values = downsample(values, width)
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	var b strings.Builder
	for _, v := range values {
		i := 0
		if hi > lo {
			i = int((v - lo) / (hi - lo) * float64(len(sparks)-1))
		}
		b.WriteRune(sparks[i])
	}
	return b.String()
}

func downsample(values []float64, buckets int) []float64 {
	out := make([]float64, buckets)
	for i := range out {
		from := i * len(values) / buckets
		to := (i + 1) * len(values) / buckets
		var sum float64
		for _, v := range values[from:to] {
			sum += v
		}
		out[i] = sum / float64(to-from)
	}
	return out
}

// BarChart renders samples as horizontal base fee bars labeled with
// timestamp and fee. Samples are expected oldest first; only the
// newest maxBars are drawn, scaled to maxWidth characters.
func BarChart(samples []history.Sample, maxWidth, maxBars int) string {
	if len(samples) == 0 {
		return "no data"
	}
	if maxWidth <= 0 {
		maxWidth = 60
	}
	if maxBars > 0 && len(samples) > maxBars {
		samples = samples[len(samples)-maxBars:]
	}

	maxFee := samples[0].BaseFee
	for _, s := range samples[1:] {
		if s.BaseFee > maxFee {
			maxFee = s.BaseFee
		}
	}

	var b strings.Builder
	for _, s := range samples {
		width := 0
		if maxFee > 0 {
			width = int(s.BaseFee / maxFee * float64(maxWidth))
		}
		fmt.Fprintf(&b, "%s │ %s %.1f\n",
			s.Timestamp.UTC().Format("2006-01-02 15:04"),
			strings.Repeat("█", width),
			s.BaseFee)
	}
	return strings.TrimRight(b.String(), "\n")
}
