package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is one cycle's view of a symbol: last traded (mid) price and the
// percent change versus the previous daily close. Quotes are ephemeral, a new
// set is produced each poll cycle.
type Quote struct {
	Symbol         string          `json:"symbol"`
	Price          decimal.Decimal `json:"price"`
	DailyChangePct decimal.Decimal `json:"daily_change_pct"`
	Volume         int64           `json:"volume"`
	Timestamp      time.Time       `json:"timestamp"`
}
