package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction says which way funds move for a FundRequest.
type Direction string

const (
	DirectionDeposit    Direction = "deposit"
	DirectionWithdrawal Direction = "withdrawal"
)

// Currency is the settlement currency of a fund movement.
type Currency string

const (
	CurrencyINR  Currency = "inr"
	CurrencyUSDT Currency = "usdt"
)

// RecordKind is the explicit variant tag for a FundRequest. It is assigned
// exactly once when the record is normalized off the wire; downstream code
// switches on the tag and never re-derives it from optional fields.
type RecordKind string

const (
	KindPlainTransfer RecordKind = "plain"
	KindTradeRequest  RecordKind = "trade"
)

// Status is the lifecycle stage of an admin-reviewed record.
// Pending admits exactly one further transition; terminal states admit none.
type Status string

const (
	StatusNone      Status = "none"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// UserRef is the owning-user projection the backend embeds in list items.
type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TradeDetails is present when a fund request represents a buy/sell
// conversion rather than a plain transfer.
type TradeDetails struct {
	USDTAmount decimal.Decimal `json:"usdtAmount"`
	INRAmount  decimal.Decimal `json:"inrAmount"`
	Rate       decimal.Decimal `json:"rate"`
}

// FundRequest is a pending-or-resolved deposit or withdrawal. The console
// holds read-through copies; the backend is the authority on status.
type FundRequest struct {
	ID            string          `json:"id"`
	User          UserRef         `json:"user"`
	Direction     Direction       `json:"direction"`
	Currency      Currency        `json:"currency"`
	Amount        decimal.Decimal `json:"amount"`
	Chain         string          `json:"chain,omitempty"` // TRC-20, BEP-20, ... for USDT
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	TransactionRef string         `json:"transactionRef,omitempty"`
	Status        Status          `json:"status"`
	Kind          RecordKind      `json:"kind"`
	Trade         *TradeDetails   `json:"trade,omitempty"`
	AdminNotes    string          `json:"adminNotes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	ResolvedAt    *time.Time      `json:"resolvedAt,omitempty"`
}

// ClassifyKind derives the variant tag for a fund request fetched off the
// wire. Trade details or a fiat currency mark a trade request; everything
// else is a plain on-chain transfer.
func ClassifyKind(currency Currency, trade *TradeDetails) RecordKind {
	if trade != nil || currency == CurrencyINR {
		return KindTradeRequest
	}
	return KindPlainTransfer
}

// Resolvable reports whether the console may offer a resolution action.
func (r *FundRequest) Resolvable() bool {
	return r.Status == StatusPending
}

// ActionLabel returns the operator-facing label for the approve action.
// Display only; legal transitions never depend on the kind.
func (r *FundRequest) ActionLabel() string {
	if r.Kind == KindTradeRequest {
		if r.Direction == DirectionDeposit {
			return "Credit USDT"
		}
		return "Pay Out INR"
	}
	return "Approve"
}

// legalTargets maps a resource to its admissible terminal statuses.
// Fund requests complete or reject; KYC approves or rejects.
var fundTargets = map[Status]bool{
	StatusCompleted: true,
	StatusRejected:  true,
}

var kycTargets = map[Status]bool{
	StatusApproved: true,
	StatusRejected: true,
}

// ValidFundTarget reports whether target is a legal terminal status for a
// deposit or withdrawal.
func ValidFundTarget(target Status) bool { return fundTargets[target] }

// ValidKYCTarget reports whether target is a legal terminal status for a
// KYC record.
func ValidKYCTarget(target Status) bool { return kycTargets[target] }
