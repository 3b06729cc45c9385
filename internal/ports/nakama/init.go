package nakama

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"blackjack/internal/app"
	"blackjack/internal/config"
	"blackjack/internal/random"
	"blackjack/internal/telemetry"
)

const serviceName = "blackjack"

// InitModule wires RPCs and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	environ, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	path := config.DefaultPath
	if p := environ[config.PathKey]; p != "" {
		path = p
	}
	cfg, err := config.Load(path, environ)
	if err != nil {
		logger.Error("InitModule: Invalid blackjack config: %v", err)
		return err
	}

	shutdownTelemetry, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		logger.Warn("InitModule: Tracing disabled, setup failed: %v", err)
	}

	src, err := random.NewFromEntropy()
	if err != nil {
		return fmt.Errorf("seed card source: %w", err)
	}
	registry := app.NewRegistry(src)

	pub := &publisher{now: time.Now}
	if cfg.RealtimeFeed {
		pub.feeds = newFeedDirectory(nk)
	}
	if cfg.WalletSync {
		pub.economy = NewNakamaEconomyAdapter(nk, cfg.WalletCurrency)
	}
	if cfg.EmitEvents {
		pub.events = NewNakamaEventAdapter(nk)
	}

	svc := app.NewService(registry, src, cfg.Rules())
	pub.exists = matchExists(svc)

	handlers := &rpcHandlers{
		svc:    svc,
		tokens: app.NewSeatTokens(cfg.SeatTokenSecret, cfg.SeatTokenTTL),
		pub:    pub,
	}
	if err := registerRPCs(initializer, handlers); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameFeed, NewFeedMatch); err != nil {
		return err
	}

	if err := initializer.RegisterShutdown(func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) {
		logger.Info("Blackjack module shutting down, dropping %d matches.", registry.Len())
		registry.Clear()
		if pub.feeds != nil {
			pub.feeds.Reset()
		}
		if err := shutdownTelemetry(ctx); err != nil {
			logger.Warn("Shutdown: Failed to flush traces: %v", err)
		}
	}); err != nil {
		return err
	}

	logger.WithFields(map[string]interface{}{
		"settlement":   cfg.Rules().Settlement.String(),
		"feed":         cfg.RealtimeFeed,
		"wallet_sync":  cfg.WalletSync,
		"emit_events":  cfg.EmitEvents,
		"seat_tokens":  handlers.tokens.Enabled(),
		"dealer_stand": cfg.DealerStandsOn,
	}).Info("Blackjack Go module loaded.")
	return nil
}

func registerRPCs(initializer runtime.Initializer, handlers *rpcHandlers) error {
	for id, fn := range handlers.routes() {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return fmt.Errorf("register rpc %s: %w", id, err)
		}
	}
	return nil
}

func matchExists(svc *app.Service) func(ctx context.Context, matchID string) bool {
	return func(ctx context.Context, matchID string) bool {
		_, ok := svc.GetMatch(ctx, matchID)
		return ok
	}
}
