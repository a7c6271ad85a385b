package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsafe/ethgas/pkg/history"
)

func exportSamples() []history.Sample {
	return []history.Sample{
		{
			Network:       "ethereum",
			BlockNumber:   19000000,
			BaseFee:       25.5,
			PriorityTip:   1.5,
			MaxFee:        27,
			TokenPriceUSD: decimal.NewFromFloat(3200.50),
			Timestamp:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			Network:       "polygon",
			BlockNumber:   55000000,
			BaseFee:       80,
			PriorityTip:   30,
			MaxFee:        110,
			TokenPriceUSD: decimal.NewFromFloat(0.72),
			Timestamp:     time.Date(2026, 3, 1, 12, 0, 15, 0, time.UTC),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportSamples()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t,
		[]string{"timestamp", "network", "block_number", "base_fee", "priority_tip", "max_fee", "token_price_usd"},
		records[0])
	assert.Equal(t,
		[]string{"2026-03-01T12:00:00Z", "ethereum", "19000000", "25.5", "1.5", "27", "3200.5"},
		records[1])
	assert.Equal(t, "polygon", records[2][1])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, exportSamples()))

	assert.True(t, strings.HasPrefix(buf.String(), "[\n"))

	var decoded []history.Sample
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "ethereum", decoded[0].Network)
	assert.True(t, decoded[0].TokenPriceUSD.Equal(decimal.NewFromFloat(3200.50)))
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}
