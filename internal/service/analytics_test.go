package service

import (
	"testing"
	"time"

	"admin_go/internal/domain"

	"github.com/shopspring/decimal"
)

func tx(total int64, at time.Time, typ domain.TradeType) domain.Transaction {
	return domain.Transaction{
		Type:      typ,
		Total:     decimal.NewFromInt(total),
		CreatedAt: at,
	}
}

func TestBuildAggregates(t *testing.T) {
	now := time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{
		tx(1000, now.Add(-2*time.Hour), domain.TradeBuy),
		tx(500, now.AddDate(0, 0, -1), domain.TradeSell),
		tx(2500, now.AddDate(0, 0, -3), domain.TradeBuy),
	}
	funds := []domain.FundRequest{
		{Direction: domain.DirectionDeposit, Status: domain.StatusPending},
		{Direction: domain.DirectionDeposit, Status: domain.StatusCompleted},
		{Direction: domain.DirectionWithdrawal, Status: domain.StatusPending},
		{Direction: domain.DirectionWithdrawal, Status: domain.StatusPending},
	}

	agg := BuildAggregates(nil, txs, funds, 7, now)

	if !agg.TotalVolume.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("total volume = %s, want 4000", agg.TotalVolume)
	}
	if !agg.Profit.Equal(decimal.NewFromInt(40)) {
		t.Errorf("profit = %s, want 40 (1%% of volume)", agg.Profit)
	}
	if agg.BuyCount != 2 || agg.SellCount != 1 {
		t.Errorf("buys=%d sells=%d, want 2 and 1", agg.BuyCount, agg.SellCount)
	}
	if agg.PendingDeposits != 1 || agg.PendingWithdrawals != 2 {
		t.Errorf("pending: deposits=%d withdrawals=%d, want 1 and 2", agg.PendingDeposits, agg.PendingWithdrawals)
	}

	bucketed := 0
	for _, n := range agg.Hourly {
		bucketed += n
	}
	if bucketed != len(txs) {
		t.Errorf("hourly buckets sum to %d, want %d", bucketed, len(txs))
	}

	if len(agg.Trend) != 7 {
		t.Fatalf("trend has %d days, want 7", len(agg.Trend))
	}
	trendTx := 0
	for _, d := range agg.Trend {
		trendTx += d.Transactions
	}
	if trendTx != 3 {
		t.Errorf("trend covers %d transactions, want 3", trendTx)
	}
	last := agg.Trend[len(agg.Trend)-1]
	if !sameDay(last.Date, now) {
		t.Errorf("trend must end on the current day, got %v", last.Date)
	}
	if last.Transactions != 1 || !last.Volume.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("today: %d tx volume %s, want 1 tx volume 1000", last.Transactions, last.Volume)
	}
}

func TestBuildAggregates_Empty(t *testing.T) {
	agg := BuildAggregates(nil, nil, nil, 7, time.Now())
	if !agg.TotalVolume.IsZero() || !agg.Profit.IsZero() {
		t.Errorf("empty input: volume=%s profit=%s, want zero", agg.TotalVolume, agg.Profit)
	}
	if len(agg.Regions) != 0 {
		t.Errorf("empty input should yield no regions, got %d", len(agg.Regions))
	}
	if len(agg.Trend) != 7 {
		t.Errorf("trend must still cover the window, got %d days", len(agg.Trend))
	}
}

func TestResolveRegion(t *testing.T) {
	tests := []struct {
		name string
		user domain.User
		want string
	}{
		{"explicit region wins", domain.User{Region: "Kerala", IPAddress: "103.21.5.9"}, "Kerala"},
		{"known prefix", domain.User{IPAddress: "103.27.14.2"}, "Delhi"},
		{"known long prefix", domain.User{IPAddress: "117.198.0.1"}, "Gujarat"},
		{"unknown prefix", domain.User{IPAddress: "8.8.8.8"}, "Other States"},
		{"no ip at all", domain.User{}, "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveRegion(tt.user); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEstimateRegionVolume(t *testing.T) {
	users := []domain.User{
		{Region: "Delhi"}, {Region: "Delhi"}, {Region: "Delhi"},
		{Region: "Kerala"},
		{IPAddress: "103.29.1.1"}, // Tamil Nadu
		{},                        // Unknown
	}
	total := decimal.NewFromInt(6000)
	stats := EstimateRegionVolume(users, total)

	if len(stats) != 4 {
		t.Fatalf("got %d regions, want 4", len(stats))
	}
	if stats[0].Region != "Delhi" || stats[0].Users != 3 {
		t.Errorf("top region = %s (%d users), want Delhi with 3", stats[0].Region, stats[0].Users)
	}
	if !stats[0].Volume.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("Delhi volume = %s, want 3000 (half the users)", stats[0].Volume)
	}

	sum := decimal.Zero
	for _, s := range stats {
		sum = sum.Add(s.Volume)
	}
	if !sum.Sub(total).Abs().LessThan(decimal.NewFromFloat(0.01)) {
		t.Errorf("region volumes sum to %s, want %s", sum, total)
	}
}

func TestEstimateRegionVolume_TopFive(t *testing.T) {
	regions := []string{"Delhi", "Kerala", "Goa", "Punjab", "Assam", "Bihar", "Odisha"}
	users := make([]domain.User, 0, len(regions))
	for _, r := range regions {
		users = append(users, domain.User{Region: r})
	}
	stats := EstimateRegionVolume(users, decimal.NewFromInt(700))
	if len(stats) != 5 {
		t.Fatalf("got %d regions, want top 5 only", len(stats))
	}
}
