package app

import (
	"context"
	"log/slog"
	"time"

	"admin_go/internal/backend"
	"admin_go/internal/console"
	"admin_go/internal/domain"
	"admin_go/internal/infra"
	"admin_go/internal/infra/storage"
	"admin_go/internal/service"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.Config
	Logger  *slog.Logger
	Storage *storage.Storage
	Session *service.Session
	API     *backend.Client
	Docs    *infra.DocStore

	Analytics *service.Analytics
	Console   *console.Server
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, DB, backend client)
func (b *Bootstrap) Initialize() error {
	slog.Info("🚀 Bootstrapping Admin Console...")

	// 1. Load Config
	cfg, err := infra.LoadConfig("configs/config.yaml")
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)
	b.Logger = logger

	// 3. Initialize Storage (session token, settings snapshot)
	store, err := storage.NewStorage(cfg.Storage.DataDir)
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("✅ Local state store initialized")

	// 4. Session (restores a persisted token if one exists)
	b.Session = service.NewSession(store, logger)

	// 5. Backend API client, authenticated through the session
	b.API = backend.NewClient(cfg, b.Session.Token)
	slog.Info("✅ Backend client ready", slog.String("base_url", cfg.Backend.BaseURL))

	// 6. KYC document store
	docs, err := infra.NewDocStore(cfg.Storage.DataDir, b.Session.Token)
	if err != nil {
		return err
	}
	b.Docs = docs
	slog.Info("✅ Document store ready")

	return nil
}

// BuildConsole wires the service layer and the web console on top of the
// initialized infrastructure.
func (b *Bootstrap) BuildConsole() *console.Server {
	approvals := service.NewApprovals()
	b.Analytics = service.NewAnalytics(b.API, b.Config)

	deps := console.Deps{
		API:         b.API,
		Session:     b.Session,
		Users:       service.NewUsersView(b.API, b.Config, b.Logger),
		Deposits:    service.NewFundingView(b.API, b.Config, domain.DirectionDeposit, approvals, b.Logger),
		Withdrawals: service.NewFundingView(b.API, b.Config, domain.DirectionWithdrawal, approvals, b.Logger),
		Txs:         service.NewTransactionsView(b.API, b.Config),
		KYC:         service.NewKYCView(b.API, b.Docs, approvals, b.Logger),
		Analytics:   b.Analytics,
		Settings:    service.NewSettingsService(b.API, b.Storage, b.Logger),
	}
	b.Console = console.NewServer(b.Config, deps, b.Logger)
	return b.Console
}

// RunRefresher periodically recomputes analytics and pushes fresh stats
// to connected console tabs. Cycles are skipped while logged out; a
// failed cycle keeps the previous aggregates and retries next tick.
func (b *Bootstrap) RunRefresher(ctx context.Context) {
	interval := time.Duration(b.Config.Console.RefreshIntervalSec) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	cycle := func() {
		if !b.Session.Authenticated() {
			return
		}

		cycleCtx, cancel := context.WithTimeout(ctx, interval)
		err := b.Analytics.RefreshCycle(cycleCtx)
		cancel()
		if err != nil {
			slog.Warn("Refresh cycle failed", slog.Any("error", err))
			return
		}

		if err := b.Storage.MarkRefreshed(time.Now()); err != nil {
			slog.Warn("Could not record refresh time", slog.Any("error", err))
		}

		if stats, err := b.API.GetStats(ctx); err == nil {
			b.Console.Live().Broadcast(stats)
		}
	}

	slog.Info("🔄 Background refresher started", slog.Duration("interval", interval))
	cycle() // immediate first fetch, then on the interval

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cycle()
		}
	}
}
