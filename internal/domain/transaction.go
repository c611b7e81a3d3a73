package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeType is the side of a completed trade.
type TradeType string

const (
	TradeBuy  TradeType = "buy"
	TradeSell TradeType = "sell"
)

// Transaction is an immutable completed trade record. The console never
// mutates these; they feed the history view and the aggregations.
type Transaction struct {
	ID        string          `json:"id"`
	User      UserRef         `json:"user"`
	Type      TradeType       `json:"type"`
	Amount    decimal.Decimal `json:"amount"` // USDT quantity
	Price     decimal.Decimal `json:"price"`  // INR per USDT
	Total     decimal.Decimal `json:"total"`  // INR notional
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}
