package graph

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsafe/ethgas/pkg/history"
)

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{name: "empty", values: nil, want: ""},
		{name: "single", values: []float64{42}, want: "▁"},
		{name: "flat", values: []float64{5, 5, 5}, want: "▁▁▁"},
		{name: "full ramp", values: []float64{1, 2, 3, 4, 5, 6, 7, 8}, want: "▁▂▃▄▅▆▇█"},
		{name: "two levels", values: []float64{10, 20}, want: "▁█"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sparkline(tt.values, 50))
		})
	}
}

func TestSparklineDownsamples(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i)
	}

	line := Sparkline(values, 50)
	assert.Equal(t, 50, utf8.RuneCountInString(line))

	// A rising series keeps its shape after bucketing.
	runes := []rune(line)
	assert.Equal(t, '▁', runes[0])
	assert.Equal(t, '█', runes[len(runes)-1])
}

func TestBarChart(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	samples := []history.Sample{
		{Network: "ethereum", BaseFee: 10, Timestamp: base},
		{Network: "ethereum", BaseFee: 20, Timestamp: base.Add(time.Minute)},
	}

	chart := BarChart(samples, 10, 20)
	lines := strings.Split(chart, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2026-03-01 12:00 │ █████ 10.0", lines[0])
	assert.Equal(t, "2026-03-01 12:01 │ ██████████ 20.0", lines[1])
}

func TestBarChartKeepsNewestBars(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var samples []history.Sample
	for i := 0; i < 5; i++ {
		samples = append(samples, history.Sample{
			Network:   "ethereum",
			BaseFee:   float64(10 + i),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}

	chart := BarChart(samples, 10, 2)
	lines := strings.Split(chart, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "12:03")
	assert.Contains(t, lines[1], "12:04")
}

func TestBarChartEmpty(t *testing.T) {
	assert.Equal(t, "no data", BarChart(nil, 60, 20))
}
