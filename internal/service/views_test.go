package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"admin_go/internal/backend"
	"admin_go/internal/domain"
	"admin_go/internal/infra"
)

// newViewBackend serves canned list envelopes and counts list fetches.
func newViewBackend(t *testing.T, fetches *atomic.Int64) *backend.Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		switch r.URL.Path {
		case "/users":
			w.Write([]byte(`{
				"users": [
					{"_id":"u1","name":"Ravi Kumar","email":"ravi@example.com","wallets":{"inr":1000,"usdt":50},"createdAt":"2026-03-02T09:00:00Z"},
					{"_id":"u2","name":"Anita Shah","email":"anita@example.com","wallets":{"inr":500,"usdt":10},"createdAt":"2026-03-08T14:00:00Z"}
				],
				"pagination": {"page":1,"limit":50,"hasNext":true}
			}`))
		case "/deposits", "/withdrawals":
			w.Write([]byte(`{
				"` + r.URL.Path[1:] + `": [
					{"_id":"d1","userId":{"_id":"u1","name":"Ravi"},"type":"usdt","amount":100,"status":"pending","createdAt":"2026-03-02T09:00:00Z"}
				],
				"pagination": {"page":1,"limit":50,"hasNext":true}
			}`))
		case "/transactions":
			w.Write([]byte(`{
				"transactions": [
					{"_id":"t1","userId":{"_id":"u1","name":"Ravi"},"type":"buy","amount":10,"price":92,"total":920,"status":"completed","createdAt":"2026-03-02T09:00:00Z"}
				],
				"pagination": {"page":1,"limit":20,"hasNext":true}
			}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	cfg := &infra.Config{}
	cfg.Backend.BaseURL = server.URL
	cfg.Backend.RequestTimeoutSec = 5

	return backend.NewClient(cfg, func() string { return "" })
}

func viewConfig() *infra.Config {
	cfg := &infra.Config{}
	cfg.Console.PageSize = 50
	cfg.Console.DefaultPageSize = 20
	cfg.Console.TrendDays = 7
	return cfg
}

func TestUsersView_ConcurrentFilterAndRead(t *testing.T) {
	var fetches atomic.Int64
	v := NewUsersView(newViewBackend(t, &fetches), viewConfig(), slog.Default())
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	// Filters are set from one request goroutine while another renders:
	// this must stay race-free.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if n%2 == 0 {
					v.SetSearch("ravi")
					v.SetDateRange(DateRange{Start: day(2026, 3, 1, 0)})
				} else {
					_ = v.Visible()
					_ = v.CanLoadMore()
				}
			}
		}(i)
	}
	wg.Wait()

	v.SetSearch("ravi")
	got := v.Visible()
	if len(got) != 1 || got[0].ID != "u1" {
		t.Fatalf("filtered view = %v, want [u1]", got)
	}
}

func TestUsersView_LoadMoreRefusedWhileFiltered(t *testing.T) {
	var fetches atomic.Int64
	v := NewUsersView(newViewBackend(t, &fetches), viewConfig(), slog.Default())
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	v.SetSearch("ravi")
	before := fetches.Load()
	err := v.LoadMore(context.Background())
	var pe *domain.PreconditionError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want PreconditionError", err)
	}
	if fetches.Load() != before {
		t.Fatal("refused load-more must not reach the backend")
	}

	// Clearing the filter re-enables paging.
	v.SetSearch("")
	if err := v.LoadMore(context.Background()); err != nil {
		t.Fatalf("load more after clearing filter: %v", err)
	}
}

func TestFundingView_LoadMoreRefusedWhileFiltered(t *testing.T) {
	var fetches atomic.Int64
	v := NewFundingView(newViewBackend(t, &fetches), viewConfig(), domain.DirectionDeposit, NewApprovals(), slog.Default())
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	v.SetTradeOnly(true)
	var pe *domain.PreconditionError
	if err := v.LoadMore(context.Background()); !errors.As(err, &pe) {
		t.Fatalf("trade-only filter: got %v, want PreconditionError", err)
	}

	v.SetTradeOnly(false)
	v.SetDateRange(DateRange{End: day(2026, 3, 31, 0)})
	if err := v.LoadMore(context.Background()); !errors.As(err, &pe) {
		t.Fatalf("date filter: got %v, want PreconditionError", err)
	}
}

func TestTransactionsView_LoadMoreRefusedWhileFiltered(t *testing.T) {
	var fetches atomic.Int64
	v := NewTransactionsView(newViewBackend(t, &fetches), viewConfig())
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	v.SetDateRange(DateRange{Start: day(2026, 3, 1, 0)})
	var pe *domain.PreconditionError
	if err := v.LoadMore(context.Background()); !errors.As(err, &pe) {
		t.Fatalf("got %v, want PreconditionError", err)
	}
	if v.CanLoadMore() {
		t.Fatal("load-more affordance must stay off while filtered")
	}
}
