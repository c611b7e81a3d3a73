package domain

import "github.com/shopspring/decimal"

// Settings is the platform-wide configuration singleton: trading rates and
// the payment rails users are shown. Read and replaced wholesale.
type Settings struct {
	BuyPrice    decimal.Decimal `json:"buyPrice" validate:"required"`
	SellPrice   decimal.Decimal `json:"sellPrice" validate:"required"`
	UPIID       string          `json:"upiId" validate:"required"`
	BankAccount string          `json:"bankAccount" validate:"required,min=6"`
	BankIFSC    string          `json:"bankIFSC" validate:"required,len=11"`
	BankName    string          `json:"bankName" validate:"required"`
	USDTAddress string          `json:"usdtAddress" validate:"required,min=20"`
}

// Sane reports whether the rate pair is coherent enough to publish.
// Buy must be at or above sell or the platform trades at a loss.
func (s *Settings) Sane() bool {
	if !s.BuyPrice.IsPositive() || !s.SellPrice.IsPositive() {
		return false
	}
	return s.BuyPrice.GreaterThanOrEqual(s.SellPrice)
}
