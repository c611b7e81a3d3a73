package service

import (
	"context"
	"sync"

	"admin_go/internal/backend"
	"admin_go/internal/domain"
)

// FetchFunc fetches one page of a backend collection.
type FetchFunc[T any] func(ctx context.Context, page, limit int) (backend.Page[T], error)

// Pager incrementally loads a backend-paginated collection. Page 1
// replaces the local collection; later pages append in backend order with
// no dedup. The caller drives paging; the pager never re-requests a page
// on its own.
type Pager[T any] struct {
	mu       sync.Mutex
	fetch    FetchFunc[T]
	limit    int
	items    []T
	page     int
	hasNext  bool
	inFlight bool
}

// NewPager creates a pager requesting limit items per page.
func NewPager[T any](fetch FetchFunc[T], limit int) *Pager[T] {
	return &Pager[T]{fetch: fetch, limit: limit}
}

// Refresh loads page 1, replacing the local collection. A failed fetch
// leaves the collection untouched.
func (p *Pager[T]) Refresh(ctx context.Context) error {
	return p.load(ctx, 1)
}

// LoadMore appends the next page. It refuses while a request is
// outstanding and is a no-op when the backend reported no further pages.
func (p *Pager[T]) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return domain.ErrPageRequestInFlight
	}
	if !p.hasNext {
		p.mu.Unlock()
		return nil
	}
	next := p.page + 1
	p.mu.Unlock()

	return p.load(ctx, next)
}

func (p *Pager[T]) load(ctx context.Context, page int) error {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return domain.ErrPageRequestInFlight
	}
	p.inFlight = true
	p.mu.Unlock()

	result, err := p.fetch(ctx, page, p.limit)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false
	if err != nil {
		return err
	}

	if page == 1 {
		p.items = result.Items
	} else {
		p.items = append(p.items, result.Items...)
	}
	p.page = page
	p.hasNext = result.HasNext
	return nil
}

// Items returns a copy of the accumulated collection.
func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// HasNext reports whether the backend has more pages.
func (p *Pager[T]) HasNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasNext
}

// Loading reports whether a page request is outstanding.
func (p *Pager[T]) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// CanLoadMore decides whether the load-more affordance is offered. It is
// disabled while a request is in flight and suppressed entirely while a
// local filter is active: filters only ever narrow already-fetched pages.
func (p *Pager[T]) CanLoadMore(filterActive bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasNext && !p.inFlight && !filterActive
}
