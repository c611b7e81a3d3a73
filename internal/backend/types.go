package backend

import (
	"encoding/json"
	"time"

	"admin_go/internal/domain"

	"github.com/shopspring/decimal"
)

// Page is one fetched page of a backend collection plus the hasNext flag
// from its pagination metadata.
type Page[T any] struct {
	Items   []T
	HasNext bool
}

// The backend speaks the storage layer's field names (_id, userId, ...).
// Everything below is the wire shape; normalization into domain types
// happens exactly once, here.

type wireUserRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

func (w wireUserRef) toDomain() domain.UserRef {
	return domain.UserRef{ID: w.ID, Name: w.Name}
}

type wireUser struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Wallets struct {
		INR  decimal.Decimal `json:"inr"`
		USDT decimal.Decimal `json:"usdt"`
	} `json:"wallets"`
	KYCStatus      string `json:"kycStatus"`
	TradingEnabled bool   `json:"tradingEnabled"`
	Location       *struct {
		State string `json:"state"`
	} `json:"location"`
	IPAddress string    `json:"ipAddress"`
	CreatedAt time.Time `json:"createdAt"`
}

func (w wireUser) toDomain() domain.User {
	u := domain.User{
		ID:             w.ID,
		Name:           w.Name,
		Email:          w.Email,
		Wallets:        domain.Wallets{INR: w.Wallets.INR, USDT: w.Wallets.USDT},
		KYCStatus:      domain.Status(w.KYCStatus),
		TradingEnabled: w.TradingEnabled,
		IPAddress:      w.IPAddress,
		CreatedAt:      w.CreatedAt,
	}
	if u.KYCStatus == "" {
		u.KYCStatus = domain.StatusNone
	}
	if w.Location != nil {
		u.Region = w.Location.State
	}
	return u
}

type wireTradeDetails struct {
	USDTAmount decimal.Decimal `json:"usdtAmount"`
	INRAmount  decimal.Decimal `json:"inrAmount"`
	Rate       decimal.Decimal `json:"rate"`
}

type wireFundRequest struct {
	ID             string            `json:"_id"`
	User           wireUserRef       `json:"userId"`
	Type           string            `json:"type"` // "inr" or "usdt"
	Amount         decimal.Decimal   `json:"amount"`
	Chain          string            `json:"chain"`
	PaymentMethod  string            `json:"paymentMethod"`
	TransactionRef string            `json:"transactionId"`
	Status         string            `json:"status"`
	BuyDetails     *wireTradeDetails `json:"buyDetails"`
	SellDetails    *wireTradeDetails `json:"sellDetails"`
	AdminNotes     string            `json:"adminNotes"`
	CreatedAt      time.Time         `json:"createdAt"`
	ResolvedAt     *time.Time        `json:"resolvedAt"`
}

// toDomain normalizes a wire record and assigns the variant tag once.
func (w wireFundRequest) toDomain(dir domain.Direction) domain.FundRequest {
	details := w.BuyDetails
	if details == nil {
		details = w.SellDetails
	}

	var trade *domain.TradeDetails
	if details != nil {
		trade = &domain.TradeDetails{
			USDTAmount: details.USDTAmount,
			INRAmount:  details.INRAmount,
			Rate:       details.Rate,
		}
	}

	currency := domain.Currency(w.Type)
	return domain.FundRequest{
		ID:             w.ID,
		User:           w.User.toDomain(),
		Direction:      dir,
		Currency:       currency,
		Amount:         w.Amount,
		Chain:          w.Chain,
		PaymentMethod:  w.PaymentMethod,
		TransactionRef: w.TransactionRef,
		Status:         domain.Status(w.Status),
		Kind:           domain.ClassifyKind(currency, trade),
		Trade:          trade,
		AdminNotes:     w.AdminNotes,
		CreatedAt:      w.CreatedAt,
		ResolvedAt:     w.ResolvedAt,
	}
}

type wireTransaction struct {
	ID        string          `json:"_id"`
	User      wireUserRef     `json:"userId"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (w wireTransaction) toDomain() domain.Transaction {
	return domain.Transaction{
		ID:        w.ID,
		User:      w.User.toDomain(),
		Type:      domain.TradeType(w.Type),
		Amount:    w.Amount,
		Price:     w.Price,
		Total:     w.Total,
		Status:    domain.Status(w.Status),
		CreatedAt: w.CreatedAt,
	}
}

type wireKYCDocument struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type wireKYCRecord struct {
	ID          string            `json:"_id"`
	User        wireUserRef       `json:"userId"`
	PAN         string            `json:"pan"`
	Aadhaar     string            `json:"aadhaarNumber"`
	DateOfBirth string            `json:"dateOfBirth"`
	Address     string            `json:"address"`
	City        string            `json:"city"`
	State       string            `json:"state"`
	PinCode     string            `json:"pinCode"`
	Documents   []wireKYCDocument `json:"documents"`
	Status      string            `json:"status"`
	AdminNotes  string            `json:"adminNotes"`
	CreatedAt   time.Time         `json:"createdAt"`
	ReviewedAt  *time.Time        `json:"reviewedAt"`
}

func (w wireKYCRecord) toDomain() domain.KYCRecord {
	docs := make([]domain.KYCDocument, 0, len(w.Documents))
	for _, d := range w.Documents {
		docs = append(docs, domain.KYCDocument{Label: d.Label, URL: d.URL})
	}
	return domain.KYCRecord{
		ID:          w.ID,
		User:        w.User.toDomain(),
		PAN:         w.PAN,
		Aadhaar:     w.Aadhaar,
		DateOfBirth: w.DateOfBirth,
		Address:     w.Address,
		City:        w.City,
		State:       w.State,
		PinCode:     w.PinCode,
		Documents:   docs,
		Status:      domain.Status(w.Status),
		AdminNotes:  w.AdminNotes,
		SubmittedAt: w.CreatedAt,
		ReviewedAt:  w.ReviewedAt,
	}
}

type wirePagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasNext bool `json:"hasNext"`
}

// listPayload splits a list response into its raw items and the hasNext
// flag. The backend answers either a bare array or an envelope like
// {"deposits": [...], "pagination": {"hasNext": true}} keyed by resource.
func listPayload(raw []byte, key string) (json.RawMessage, bool, error) {
	trimmed := firstNonSpace(raw)
	if trimmed == '[' {
		return raw, false, nil
	}

	var envelope struct {
		Pagination *wirePagination `json:"pagination"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, false, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false, err
	}

	items, ok := fields[key]
	if !ok {
		items = json.RawMessage("[]")
	}

	hasNext := envelope.Pagination != nil && envelope.Pagination.HasNext
	return items, hasNext, nil
}

func firstNonSpace(raw []byte) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}
