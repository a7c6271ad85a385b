package history

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// SampleDao is the bun model backing the postgres store. Exported so
// migrations can create the schema from it.
type SampleDao struct {
	bun.BaseModel `bun:"table:gas_samples,alias:gs"`

	ID            int64           `bun:"id,pk,autoincrement" json:"id"`
	Network       string          `bun:"network,notnull" json:"network"`
	BlockNumber   int64           `bun:"block_number,notnull" json:"block_number"`
	BaseFee       float64         `bun:"base_fee,notnull" json:"base_fee"`
	PriorityTip   float64         `bun:"priority_tip,notnull" json:"priority_tip"`
	MaxFee        float64         `bun:"max_fee,notnull" json:"max_fee"`
	TokenPriceUSD decimal.Decimal `bun:"token_price_usd,type:numeric" json:"token_price_usd"`
	Timestamp     time.Time       `bun:"timestamp,notnull,default:current_timestamp" json:"timestamp"`
}

func toSampleDao(s Sample) *SampleDao {
	return &SampleDao{
		Network:       s.Network,
		BlockNumber:   int64(s.BlockNumber),
		BaseFee:       s.BaseFee,
		PriorityTip:   s.PriorityTip,
		MaxFee:        s.MaxFee,
		TokenPriceUSD: s.TokenPriceUSD,
		Timestamp:     s.Timestamp,
	}
}

func toSample(dao *SampleDao) Sample {
	return Sample{
		Network:       dao.Network,
		BlockNumber:   uint64(dao.BlockNumber),
		BaseFee:       dao.BaseFee,
		PriorityTip:   dao.PriorityTip,
		MaxFee:        dao.MaxFee,
		TokenPriceUSD: dao.TokenPriceUSD,
		Timestamp:     dao.Timestamp,
	}
}
