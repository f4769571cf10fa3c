package app

import (
	"encoding/hex"
	"log/slog"
	"time"

	"auction_go/internal/domain"
	"auction_go/internal/engine"
	"auction_go/internal/infra"
	"auction_go/internal/infra/gateway"
	"auction_go/internal/infra/storage"
	"auction_go/internal/service"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.Config
	Storage *storage.Storage
	Engine  *engine.Auction
	Audit   *service.AuditService
	Hub     *gateway.Hub
	Logger  *slog.Logger
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (Config, Logger, DB, Engine)
func (b *Bootstrap) Initialize(configPath string) error {
	slog.Info("🚀 Bootstrapping Batch Auction...")

	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)
	b.Logger = logger

	// 3. Initialize Storage (DB)
	store, err := storage.NewStorage(cfg.Storage.Path)
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("✅ Database initialized")

	// 4. Audit cache + gateway hub hang off the settlement boundary
	b.Audit = service.NewAuditService()
	if cfg.Gateway.Enabled {
		b.Hub = gateway.NewHub(logger, infra.GlobalMetrics)
	}

	// 5. Auction engine
	b.Engine = engine.NewAuction(engine.Config{
		MinDeposit:   cfg.Engine.MinDeposit,
		SlashRateBps: cfg.Engine.SlashRateBps,
		CommitWindow: time.Duration(cfg.Engine.CommitWindowSec) * time.Second,
		RevealWindow: time.Duration(cfg.Engine.RevealWindowSec) * time.Second,
	}, store, infra.GlobalMetrics, b.onSettle)
	slog.Info("✅ Auction engine ready",
		slog.Int("commit_window_sec", cfg.Engine.CommitWindowSec),
		slog.Int("reveal_window_sec", cfg.Engine.RevealWindowSec))

	return nil
}

// settlementAnnouncement is the wire shape pushed to gateway clients.
type settlementAnnouncement struct {
	BatchID           uint64 `json:"batch_id"`
	Seed              string `json:"seed"`
	TotalPriorityBids string `json:"total_priority_bids"`
	PriorityCount     int    `json:"priority_count"`
	ExecutionOrder    []int  `json:"execution_order"`
}

// onSettle is the settlement boundary: record for audit, then announce.
// Runs outside the engine lock.
func (b *Bootstrap) onSettle(exec *domain.ExecutionOrder) {
	b.Audit.Record(exec)
	if b.Hub != nil {
		b.Hub.Broadcast(settlementAnnouncement{
			BatchID:           exec.BatchID,
			Seed:              hex.EncodeToString(exec.Seed[:]),
			TotalPriorityBids: exec.TotalPriorityBids.String(),
			PriorityCount:     exec.PriorityCount,
			ExecutionOrder:    exec.Indices,
		})
	}
}
