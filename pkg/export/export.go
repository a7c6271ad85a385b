// Package export writes history samples as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/chainsafe/ethgas/pkg/history"
)

// WriteCSV writes the samples as CSV with a fixed header row and
// RFC3339 timestamps.
func WriteCSV(w io.Writer, samples []history.Sample) error {
	cw := csv.NewWriter(w)
	header := []string{"timestamp", "network", "block_number", "base_fee", "priority_tip", "max_fee", "token_price_usd"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, sample := range samples {
		record := []string{
			sample.Timestamp.UTC().Format(time.RFC3339),
			sample.Network,
			strconv.FormatUint(sample.BlockNumber, 10),
			strconv.FormatFloat(sample.BaseFee, 'f', -1, 64),
			strconv.FormatFloat(sample.PriorityTip, 'f', -1, 64),
			strconv.FormatFloat(sample.MaxFee, 'f', -1, 64),
			sample.TokenPriceUSD.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the samples as an indented JSON array.
func WriteJSON(w io.Writer, samples []history.Sample) error {
	if samples == nil {
		samples = []history.Sample{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(samples); err != nil {
		return fmt.Errorf("encoding samples: %w", err)
	}
	return nil
}
