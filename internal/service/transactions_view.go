package service

import (
	"context"
	"sync"
	"time"

	"admin_go/internal/backend"
	"admin_go/internal/domain"
	"admin_go/internal/infra"

	"github.com/shopspring/decimal"
)

// TransactionSummary is the header row above the transaction table.
type TransactionSummary struct {
	Count  int             `json:"count"`
	Volume decimal.Decimal `json:"volume"`
	Buys   int             `json:"buys"`
	Sells  int             `json:"sells"`
}

// TransactionsView drives the trading history panel. Read only: the
// console never mutates transactions.
type TransactionsView struct {
	pager *Pager[domain.Transaction]

	mu    sync.RWMutex
	dates DateRange
}

func NewTransactionsView(api *backend.Client, cfg *infra.Config) *TransactionsView {
	return &TransactionsView{
		pager: NewPager(func(ctx context.Context, page, limit int) (backend.Page[domain.Transaction], error) {
			return api.ListTransactions(ctx, page, limit)
		}, cfg.Console.DefaultPageSize),
	}
}

func (v *TransactionsView) Refresh(ctx context.Context) error { return v.pager.Refresh(ctx) }

// LoadMore appends the next page. Refused while the date filter is
// narrowing the view.
func (v *TransactionsView) LoadMore(ctx context.Context) error {
	if v.filterActive() {
		return &domain.PreconditionError{
			Resource: "transactions",
			Reason:   "clear the active filter before loading more",
		}
	}
	return v.pager.LoadMore(ctx)
}

func (v *TransactionsView) SetDateRange(r DateRange) {
	v.mu.Lock()
	v.dates = r
	v.mu.Unlock()
}

func (v *TransactionsView) filterActive() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.dates.IsActive()
}

func (v *TransactionsView) Visible() []domain.Transaction {
	v.mu.RLock()
	dates := v.dates
	v.mu.RUnlock()
	return FilterByDate(v.pager.Items(), func(t domain.Transaction) time.Time {
		return t.CreatedAt
	}, dates)
}

func (v *TransactionsView) CanLoadMore() bool {
	return v.pager.CanLoadMore(v.filterActive())
}

// Summary recomputes the header figures over the visible rows, so the
// numbers always match what the table shows.
func (v *TransactionsView) Summary() TransactionSummary {
	sum := TransactionSummary{Volume: decimal.Zero}
	for _, tx := range v.Visible() {
		sum.Count++
		sum.Volume = sum.Volume.Add(tx.Total)
		switch tx.Type {
		case domain.TradeBuy:
			sum.Buys++
		case domain.TradeSell:
			sum.Sells++
		}
	}
	return sum
}
