package service

import (
	"context"
	"log/slog"
	"sync"

	"admin_go/internal/backend"
	"admin_go/internal/domain"
	"admin_go/internal/infra"

	"github.com/shopspring/decimal"
)

// UsersView drives the user management panel: a paged canonical list
// with a search box and a date filter layered on top as views. Handler
// goroutines share one instance, so the filter fields are guarded.
type UsersView struct {
	api    *backend.Client
	pager  *Pager[domain.User]
	logger *slog.Logger

	mu     sync.RWMutex
	search string
	dates  DateRange
}

func NewUsersView(api *backend.Client, cfg *infra.Config, logger *slog.Logger) *UsersView {
	return &UsersView{
		api: api,
		pager: NewPager(func(ctx context.Context, page, limit int) (backend.Page[domain.User], error) {
			return api.ListUsers(ctx, page, limit)
		}, cfg.Console.PageSize),
		logger: logger.With("module", "users_view"),
	}
}

// Refresh reloads page one of the canonical list. Filters are untouched
// and reapply to the new data.
func (v *UsersView) Refresh(ctx context.Context) error {
	return v.pager.Refresh(ctx)
}

// LoadMore appends the next page. Refused while a filter is narrowing
// the view: filters only ever apply to already-fetched pages.
func (v *UsersView) LoadMore(ctx context.Context) error {
	if v.filterActive() {
		return &domain.PreconditionError{
			Resource: "users",
			Reason:   "clear the active filter before loading more",
		}
	}
	return v.pager.LoadMore(ctx)
}

// SetSearch narrows the visible list. Pure view change, no fetch.
func (v *UsersView) SetSearch(term string) {
	v.mu.Lock()
	v.search = term
	v.mu.Unlock()
}

// SetDateRange narrows the visible list by registration date.
func (v *UsersView) SetDateRange(r DateRange) {
	v.mu.Lock()
	v.dates = r
	v.mu.Unlock()
}

func (v *UsersView) filterActive() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.search != "" || v.dates.IsActive()
}

// Visible recomputes the filtered view from the canonical list.
func (v *UsersView) Visible() []domain.User {
	v.mu.RLock()
	term, dates := v.search, v.dates
	v.mu.RUnlock()
	return FilterUsers(v.pager.Items(), term, dates)
}

// CanLoadMore reports whether the load-more control should be offered.
func (v *UsersView) CanLoadMore() bool {
	return v.pager.CanLoadMore(v.filterActive())
}

// AdjustWallet overwrites one user's wallet balances with absolute
// values, then refetches so the list reflects the backend's state
// rather than an optimistic local edit.
func (v *UsersView) AdjustWallet(ctx context.Context, userID string, inr, usdt decimal.Decimal) error {
	if inr.IsNegative() || usdt.IsNegative() {
		return &domain.PreconditionError{
			Resource: "user",
			ID:       userID,
			Reason:   "wallet balances cannot be negative",
		}
	}
	if err := v.api.UpdateUserWallet(ctx, userID, domain.Wallets{INR: inr, USDT: usdt}); err != nil {
		return err
	}
	v.logger.Info("wallet adjusted", "user", userID,
		"inr", inr.String(), "usdt", usdt.String())
	return v.pager.Refresh(ctx)
}
