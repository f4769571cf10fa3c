package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auction_go/internal/app"
	"auction_go/internal/domain"
	"auction_go/internal/event"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize("configs/config.yaml"); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// Pre-warm the journal event pools before traffic arrives
	event.Warmup()

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Gateway (settlement announcements over websocket)
	var gatewaySrv *http.Server
	if bootstrap.Hub != nil {
		mux := http.NewServeMux()
		mux.Handle("/ws/batches", bootstrap.Hub)
		gatewaySrv = &http.Server{
			Addr:    bootstrap.Config.Gateway.ListenAddr,
			Handler: mux,
		}
		go func() {
			slog.Info("✅ Gateway started", slog.String("addr", gatewaySrv.Addr))
			if err := gatewaySrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Gateway server failed", slog.Any("error", err))
			}
		}()
	}

	// 5. Settlement driver. Phases are computed lazily from elapsed time,
	// so the engine needs no timers; this loop just keeps settlement from
	// waiting for the next external call.
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := bootstrap.Engine.SettleBatch(); err != nil {
					var phaseErr *domain.PhaseError
					if errors.As(err, &phaseErr) {
						continue // not due yet
					}
					slog.Error("Settlement failed", slog.Any("error", err))
				}
			}
		}
	}()
	slog.InfoContext(ctx, "✅ Settlement driver started")

	slog.InfoContext(ctx, "✨ Batch auction fully operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")
	if gatewaySrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		gatewaySrv.Shutdown(shutdownCtx)
		bootstrap.Hub.Shutdown()
	}
}
