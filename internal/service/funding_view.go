package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"admin_go/internal/backend"
	"admin_go/internal/domain"
	"admin_go/internal/infra"
)

// FundingView drives the deposit or withdrawal approval panel. One
// instance per direction; both share the same shape since the only
// differences are the fetch endpoint and the resolve endpoint.
type FundingView struct {
	direction domain.Direction
	api       *backend.Client
	pager     *Pager[domain.FundRequest]
	approvals *Approvals
	logger    *slog.Logger

	mu        sync.RWMutex
	dates     DateRange
	tradeOnly bool
}

func NewFundingView(api *backend.Client, cfg *infra.Config, dir domain.Direction, approvals *Approvals, logger *slog.Logger) *FundingView {
	fetch := api.ListDeposits
	if dir == domain.DirectionWithdrawal {
		fetch = api.ListWithdrawals
	}
	return &FundingView{
		direction: dir,
		api:       api,
		pager: NewPager(func(ctx context.Context, page, limit int) (backend.Page[domain.FundRequest], error) {
			return fetch(ctx, page, limit)
		}, cfg.Console.PageSize),
		approvals: approvals,
		logger:    logger.With("module", "funding_view", "direction", string(dir)),
	}
}

func (v *FundingView) Refresh(ctx context.Context) error { return v.pager.Refresh(ctx) }

// LoadMore appends the next page. Refused while a filter is narrowing
// the view: filters only ever apply to already-fetched pages.
func (v *FundingView) LoadMore(ctx context.Context) error {
	if v.filterActive() {
		return &domain.PreconditionError{
			Resource: string(v.direction),
			Reason:   "clear the active filter before loading more",
		}
	}
	return v.pager.LoadMore(ctx)
}

// SetDateRange narrows the visible list by creation date.
func (v *FundingView) SetDateRange(r DateRange) {
	v.mu.Lock()
	v.dates = r
	v.mu.Unlock()
}

// SetTradeOnly toggles the trade-request-only view. The canonical list
// keeps every record; this only narrows what is shown.
func (v *FundingView) SetTradeOnly(on bool) {
	v.mu.Lock()
	v.tradeOnly = on
	v.mu.Unlock()
}

func (v *FundingView) filterActive() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.dates.IsActive() || v.tradeOnly
}

// Visible recomputes the filtered view from the canonical list.
func (v *FundingView) Visible() []domain.FundRequest {
	v.mu.RLock()
	dates, tradeOnly := v.dates, v.tradeOnly
	v.mu.RUnlock()

	items := FilterByDate(v.pager.Items(), func(r domain.FundRequest) time.Time {
		return r.CreatedAt
	}, dates)
	if !tradeOnly {
		return items
	}
	out := make([]domain.FundRequest, 0, len(items))
	for _, r := range items {
		if r.Kind == domain.KindTradeRequest {
			out = append(out, r)
		}
	}
	return out
}

func (v *FundingView) CanLoadMore() bool {
	return v.pager.CanLoadMore(v.filterActive())
}

// PendingCount counts unresolved records in the canonical list.
func (v *FundingView) PendingCount() int {
	n := 0
	for _, r := range v.pager.Items() {
		if r.Status == domain.StatusPending {
			n++
		}
	}
	return n
}

// Resolve completes or rejects one pending request, then refetches the
// list so the resolved record shows its backend-confirmed state.
func (v *FundingView) Resolve(ctx context.Context, req domain.FundRequest, target domain.Status, notes string) error {
	resolver := v.api.ResolveDeposit
	if v.direction == domain.DirectionWithdrawal {
		resolver = v.api.ResolveWithdrawal
	}
	res := Resolution{
		Resource: string(v.direction),
		ID:       req.ID,
		Current:  req.Status,
		Target:   target,
		Notes:    notes,
	}
	err := v.approvals.Resolve(ctx, res, func(ctx context.Context, id string, status domain.Status, notes string) error {
		return resolver(ctx, id, status, notes)
	}, v.pager.Refresh)
	if err != nil {
		return err
	}
	v.logger.Info("request resolved", "id", req.ID, "target", string(target))
	return nil
}

// Resolving reports whether a resolution for this record is in flight,
// used to disable the approve and reject controls.
func (v *FundingView) Resolving(id string) bool {
	return v.approvals.InFlight(string(v.direction), id)
}
