package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"admin_go/internal/backend"
	"admin_go/internal/domain"
	"admin_go/internal/infra"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// feeRate is the flat platform fee used for the derived profit figure.
// Display estimate only, not a ledger.
var feeRate = decimal.NewFromFloat(0.01)

// ipRegions maps /16 IP prefixes to Indian states for users who
// registered without explicit location data.
var ipRegions = map[string]string{
	"103.21": "Maharashtra", "103.22": "Maharashtra", "117.192": "Maharashtra",
	"103.25": "Karnataka", "117.193": "Karnataka", "103.26": "Karnataka",
	"103.27": "Delhi", "117.194": "Delhi", "103.28": "Delhi",
	"103.29": "Tamil Nadu", "117.195": "Tamil Nadu", "103.30": "Tamil Nadu",
	"103.31": "Telangana", "117.196": "Telangana",
	"103.32": "Maharashtra", "117.197": "Maharashtra",
	"103.33": "Gujarat", "117.198": "Gujarat",
	"103.34": "West Bengal", "117.199": "West Bengal",
}

// topRegions is how many regions the geo panel keeps.
const topRegions = 5

// RegionStat is one row of the geo distribution panel.
type RegionStat struct {
	Region string          `json:"region"`
	Users  int             `json:"users"`
	Volume decimal.Decimal `json:"volume"`
}

// DayStat is one bucket of the day-bucketed volume trend.
type DayStat struct {
	Date         time.Time       `json:"date"`
	Transactions int             `json:"transactions"`
	Volume       decimal.Decimal `json:"volume"`
}

// Aggregates are the derived summary numbers for the analytics panels.
// Pure projections of in-memory collections; recomputed wholesale every
// refresh cycle, never cached across fetches.
type Aggregates struct {
	TotalVolume        decimal.Decimal `json:"totalVolume"`
	Profit             decimal.Decimal `json:"profit"`
	BuyCount           int             `json:"buyCount"`
	SellCount          int             `json:"sellCount"`
	TransactionCount   int             `json:"transactionCount"`
	PendingDeposits    int             `json:"pendingDeposits"`
	PendingWithdrawals int             `json:"pendingWithdrawals"`
	Hourly             [24]int         `json:"hourly"`
	Regions            []RegionStat    `json:"regions"`
	Trend              []DayStat       `json:"trend"`
	GeneratedAt        time.Time       `json:"generatedAt"`
}

// BuildAggregates computes every panel from already-fetched collections.
// It cannot fail on valid in-memory input and never mutates its inputs.
func BuildAggregates(users []domain.User, txs []domain.Transaction, funds []domain.FundRequest, trendDays int, now time.Time) Aggregates {
	agg := Aggregates{
		TotalVolume: decimal.Zero,
		Profit:      decimal.Zero,
		GeneratedAt: now,
	}

	for _, tx := range txs {
		agg.TotalVolume = agg.TotalVolume.Add(tx.Total)
		agg.Hourly[tx.CreatedAt.Hour()]++
		switch tx.Type {
		case domain.TradeBuy:
			agg.BuyCount++
		case domain.TradeSell:
			agg.SellCount++
		}
	}
	agg.TransactionCount = len(txs)
	agg.Profit = agg.TotalVolume.Mul(feeRate)

	for _, f := range funds {
		if f.Status != domain.StatusPending {
			continue
		}
		if f.Direction == domain.DirectionDeposit {
			agg.PendingDeposits++
		} else {
			agg.PendingWithdrawals++
		}
	}

	agg.Regions = EstimateRegionVolume(users, agg.TotalVolume)
	agg.Trend = VolumeTrend(txs, trendDays, now)
	return agg
}

// ResolveRegion picks a user's region: explicit stored region first, then
// the static IP-prefix table, then a catch-all bucket.
func ResolveRegion(u domain.User) string {
	if u.Region != "" {
		return u.Region
	}
	if u.IPAddress == "" {
		return "Unknown"
	}
	parts := strings.SplitN(u.IPAddress, ".", 3)
	if len(parts) >= 2 {
		if region, ok := ipRegions[parts[0]+"."+parts[1]]; ok {
			return region
		}
	}
	return "Other States"
}

// EstimateRegionVolume groups users by resolved region and allocates the
// total transaction volume proportionally to each region's share of the
// user count, ranked by estimated volume, top 5 kept. The allocation is a
// proportional estimate, not per-transaction attribution; the shares sum
// to the total volume.
func EstimateRegionVolume(users []domain.User, totalVolume decimal.Decimal) []RegionStat {
	if len(users) == 0 {
		return []RegionStat{}
	}

	counts := make(map[string]int)
	for _, u := range users {
		counts[ResolveRegion(u)]++
	}

	total := decimal.NewFromInt(int64(len(users)))
	stats := make([]RegionStat, 0, len(counts))
	for region, n := range counts {
		share := decimal.NewFromInt(int64(n)).Div(total)
		stats = append(stats, RegionStat{
			Region: region,
			Users:  n,
			Volume: totalVolume.Mul(share),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if !stats[i].Volume.Equal(stats[j].Volume) {
			return stats[i].Volume.GreaterThan(stats[j].Volume)
		}
		return stats[i].Region < stats[j].Region
	})

	if len(stats) > topRegions {
		stats = stats[:topRegions]
	}
	return stats
}

// VolumeTrend buckets transactions by calendar day over the trailing
// days window, oldest first. Same-day match on creation date, not a
// rolling 24h window.
func VolumeTrend(txs []domain.Transaction, days int, now time.Time) []DayStat {
	trend := make([]DayStat, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		stat := DayStat{Date: dayStart(day), Volume: decimal.Zero}
		for _, tx := range txs {
			if sameDay(tx.CreatedAt.In(day.Location()), day) {
				stat.Transactions++
				stat.Volume = stat.Volume.Add(tx.Total)
			}
		}
		trend = append(trend, stat)
	}
	return trend
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// Analytics owns the batch-and-join refresh cycle: users, transactions,
// deposits, and withdrawals are fetched together and aggregation runs
// only when all four arrive. A partial failure aborts the cycle and the
// previous aggregates stay visible.
type Analytics struct {
	mu        sync.RWMutex
	api       *backend.Client
	pageSize  int
	trendDays int
	current   *Aggregates
}

// NewAnalytics creates the analytics service.
func NewAnalytics(api *backend.Client, cfg *infra.Config) *Analytics {
	return &Analytics{
		api:       api,
		pageSize:  cfg.Console.PageSize,
		trendDays: cfg.Console.TrendDays,
	}
}

// RefreshCycle fetches all inputs concurrently and recomputes the
// aggregates. Any fetch failure aborts the whole cycle.
func (a *Analytics) RefreshCycle(ctx context.Context) error {
	var (
		users       []domain.User
		txs         []domain.Transaction
		deposits    []domain.FundRequest
		withdrawals []domain.FundRequest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := a.api.ListUsers(gctx, 1, a.pageSize)
		users = page.Items
		return err
	})
	g.Go(func() error {
		page, err := a.api.ListTransactions(gctx, 1, a.pageSize)
		txs = page.Items
		return err
	})
	g.Go(func() error {
		page, err := a.api.ListDeposits(gctx, 1, a.pageSize)
		deposits = page.Items
		return err
	})
	g.Go(func() error {
		page, err := a.api.ListWithdrawals(gctx, 1, a.pageSize)
		withdrawals = page.Items
		return err
	})

	if err := g.Wait(); err != nil {
		// Previous aggregates stay visible; the failure is transient.
		return err
	}

	agg := BuildAggregates(users, txs, append(deposits, withdrawals...), a.trendDays, time.Now())

	a.mu.Lock()
	a.current = &agg
	a.mu.Unlock()

	infra.GlobalMetrics.RecordRefreshCycle()
	return nil
}

// Current returns the last successfully computed aggregates, nil before
// the first completed cycle.
func (a *Analytics) Current() *Aggregates {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}
