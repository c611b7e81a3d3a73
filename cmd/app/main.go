package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"admin_go/internal/app"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Optional .env for local overrides (backend URL, data dir)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Could not load .env", slog.Any("error", err))
	}

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Wire services and the web console
	server := bootstrap.BuildConsole()

	// 5. Background analytics refresher + live stats push
	go bootstrap.RunRefresher(ctx)

	slog.InfoContext(ctx, "✨ Admin Console operational. Press Ctrl+C to exit.",
		slog.String("addr", bootstrap.Config.Console.ListenAddr))

	if err := server.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("❌ Console server failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")
}
