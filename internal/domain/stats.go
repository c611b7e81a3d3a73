package domain

import "github.com/shopspring/decimal"

// Stats is the backend's dashboard aggregate snapshot.
type Stats struct {
	TotalUsers         int             `json:"totalUsers"`
	TotalTransactions  int             `json:"totalTransactions"`
	PendingDeposits    int             `json:"pendingDeposits"`
	PendingWithdrawals int             `json:"pendingWithdrawals"`
	TotalVolume        decimal.Decimal `json:"totalVolume"`
}
