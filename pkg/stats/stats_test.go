package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsafe/ethgas/pkg/history"
)

func samplesWithBaseFees(fees ...float64) []history.Sample {
	out := make([]history.Sample, len(fees))
	for i, fee := range fees {
		out[i] = history.Sample{
			Network:   "ethereum",
			BaseFee:   fee,
			MaxFee:    fee + 1.5,
			Timestamp: time.Now().Add(time.Duration(i) * time.Minute),
		}
	}
	return out
}

func TestComputeEmpty(t *testing.T) {
	summary, ok := Compute(nil)
	assert.False(t, ok)
	assert.Nil(t, summary)
}

func TestCompute(t *testing.T) {
	summary, ok := Compute(samplesWithBaseFees(10, 20, 30))
	require.True(t, ok)

	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, float64(10), summary.BaseFee.Min)
	assert.Equal(t, float64(30), summary.BaseFee.Max)
	assert.Equal(t, float64(20), summary.BaseFee.Avg)
	assert.Equal(t, 11.5, summary.MaxFee.Min)
	assert.Equal(t, 31.5, summary.MaxFee.Max)
	assert.InDelta(t, 21.5, summary.MaxFee.Avg, 1e-9)
}

func TestComputeSingleSample(t *testing.T) {
	summary, ok := Compute(samplesWithBaseFees(42))
	require.True(t, ok)
	assert.Equal(t, float64(42), summary.BaseFee.Min)
	assert.Equal(t, float64(42), summary.BaseFee.Max)
	assert.Equal(t, float64(42), summary.BaseFee.Avg)
}

func TestWindow(t *testing.T) {
	now := time.Now()
	samples := []history.Sample{
		{BaseFee: 1, Timestamp: now.Add(-3 * time.Hour)},
		{BaseFee: 2, Timestamp: now.Add(-90 * time.Minute)},
		{BaseFee: 3, Timestamp: now.Add(-5 * time.Minute)},
	}

	recent := Window(samples, 2*time.Hour)
	require.Len(t, recent, 2)
	assert.Equal(t, float64(2), recent[0].BaseFee)
	assert.Equal(t, float64(3), recent[1].BaseFee)

	assert.Empty(t, Window(samples, time.Minute))
}

func TestRecommend(t *testing.T) {
	summary, ok := Compute(samplesWithBaseFees(10, 20, 30)) // min 10, avg 20
	require.True(t, ok)

	tests := []struct {
		name    string
		current float64
		want    Level
	}{
		{name: "near minimum", current: 10.5, want: LevelExcellent},
		{name: "at minimum boundary", current: 11, want: LevelExcellent},
		{name: "well below average", current: 15, want: LevelGood},
		{name: "around average", current: 22, want: LevelModerate},
		{name: "at moderate boundary", current: 24, want: LevelModerate},
		{name: "above average", current: 35, want: LevelHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Recommend(tt.current, summary)
			assert.Equal(t, tt.want, rec.Level)
			assert.Equal(t, tt.current, rec.BaseFee)
			assert.NotEmpty(t, rec.Message)
		})
	}
}

func TestRecommendInsufficientData(t *testing.T) {
	rec := Recommend(12, nil)
	assert.Equal(t, LevelInsufficient, rec.Level)

	empty := &Summary{}
	rec = Recommend(12, empty)
	assert.Equal(t, LevelInsufficient, rec.Level)
}
