package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Wallets holds a user's balances. INR is a decimal currency amount,
// USDT a 6-decimal token amount. Overwritten wholesale by wallet edits.
type Wallets struct {
	INR  decimal.Decimal `json:"inr"`
	USDT decimal.Decimal `json:"usdt"`
}

// User is the backend-owned identity the console reads through.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Wallets        Wallets   `json:"wallets"`
	KYCStatus      Status    `json:"kycStatus"`
	TradingEnabled bool      `json:"tradingEnabled"`
	Region         string    `json:"region,omitempty"`
	IPAddress      string    `json:"ipAddress,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// MatchesSearch reports whether the user matches a free-text search term
// over name, email, or ID. An empty term matches everyone.
func (u *User) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	return containsFold(u.Name, term) ||
		containsFold(u.Email, term) ||
		containsFold(u.ID, term)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
