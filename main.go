package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"appraisells-auction/internal/activity"
	bidding "appraisells-auction/internal/biddingService"
	"appraisells-auction/internal/config"
	"appraisells-auction/internal/gateway"
	"appraisells-auction/internal/locker"
	"appraisells-auction/internal/metrics"
	"appraisells-auction/internal/payment"
	"appraisells-auction/internal/repository"
	"appraisells-auction/internal/server"
	"appraisells-auction/internal/settlement"
	"appraisells-auction/internal/subscription"
	"appraisells-auction/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg := config.MustLoad()
	utils.SetLevel(cfg.App.LogLevel)
	if !cfg.App.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		utils.Fatal("failed to open store", map[string]any{"driver": cfg.Store.Driver, "error": err.Error()})
	}

	locks, closeLocks, err := newLocker(ctx, cfg.Redis)
	if err != nil {
		_ = store.Close()
		utils.Fatal("failed to connect to redis", map[string]any{"error": err.Error()})
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	recorder := activity.NewAsyncRecorder(store, store, activity.Options{Metrics: m})
	auction := cfg.Auction.Auction()

	biddingSvc := bidding.NewBiddingService(bidding.Deps{
		Bids:     store,
		Auction:  auction,
		Locks:    locks,
		Activity: recorder,
		Metrics:  m,
	})
	settlementSvc := settlement.NewService(settlement.Deps{
		Store:         store,
		Auction:       auction,
		PaymentWindow: cfg.Payments.PaymentWindow,
		Metrics:       m,
	})
	subscriptionSvc := subscription.NewService(subscription.Deps{
		Store:    store,
		Locks:    locks,
		Duration: cfg.Payments.SubscriptionDuration,
	})
	paymentSvc := payment.NewService(payment.Deps{
		Store:         store,
		Gateway:       gateway.NewPiClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.Timeout),
		Subscriptions: subscriptionSvc,
		Locks:         locks,
		Activity:      recorder,
		Metrics:       m,
	})

	if cfg.Gateway.APIKey == "" {
		utils.Warn("PI_API_KEY is not set, payment approvals will be rejected by the gateway", nil)
	}

	router := server.SetupRouter(server.RouterDeps{
		Bidding:           biddingSvc,
		Settlement:        settlementSvc,
		Payments:          paymentSvc,
		Subscriptions:     subscriptionSvc,
		AuctionID:         auction.ID,
		Store:             store,
		GatewayConfigured: cfg.Gateway.APIKey != "",
		Metrics:           m,
		Gatherer:          prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      server.WithCORS(router, cfg.Server.AllowedOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		utils.Info("starting auction server", map[string]any{
			"addr":       srv.Addr,
			"auction_id": auction.ID,
			"store":      cfg.Store.Driver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("server stopped", map[string]any{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	utils.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("http shutdown failed", map[string]any{"error": err.Error()})
	}
	if err := recorder.Close(shutdownCtx); err != nil {
		utils.Error("activity recorder did not drain", map[string]any{"error": err.Error()})
	}
	closeLocks()
	if err := store.Close(); err != nil {
		utils.Error("store close failed", map[string]any{"error": err.Error()})
	}
	utils.Info("server stopped", nil)
}

// openStore returns the configured durable store, or the in-memory one
func openStore(ctx context.Context, cfg config.StoreConfig) (repository.Store, error) {
	switch cfg.Driver {
	case "memory":
		utils.Warn("using in-memory store, data is lost on restart", nil)
		return repository.NewMemoryRepo(), nil
	case "sqlite":
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
		return repository.OpenSQL(ctx, "sqlite", cfg.SQLiteDSN(), repository.SQLOptions{})
	default:
		return repository.OpenSQL(ctx, cfg.Driver, cfg.MySQLDSN(), repository.SQLOptions{
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
	}
}

// newLocker uses Redis when configured so several instances share locks
func newLocker(ctx context.Context, cfg config.RedisConfig) (locker.Locker, func(), error) {
	if cfg.URL == "" {
		return locker.NewKeyedMutex(), func() {}, nil
	}
	client, err := locker.DialRedis(ctx, cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	utils.Info("using redis locks", map[string]any{"ttl": cfg.LockTTL.String()})
	return locker.NewRedisLocker(client, cfg.LockTTL), func() { _ = client.Close() }, nil
}
