package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Baaaki/vwap/internal/broker"
	"github.com/Baaaki/vwap/internal/config"
	"github.com/Baaaki/vwap/internal/database"
	"github.com/Baaaki/vwap/internal/handler"
	"github.com/Baaaki/vwap/internal/repository"
	"github.com/Baaaki/vwap/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DatabaseURL, cfg.Debug)
	if err != nil {
		logger.Log.Fatal("Failed to connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Migration failed", zap.Error(err))
	}
	store := repository.NewStore(db)

	// Swap events go to Redis when configured; otherwise they are dropped.
	var publisher broker.SwapEventPublisher = broker.NoopPublisher{}
	if cfg.RedisURL != "" {
		redisBroker, err := broker.NewRedisSwapBroker(ctx, cfg.RedisURL)
		if err != nil {
			logger.Log.Fatal("Failed to initialize Redis broker", zap.Error(err))
		}
		publisher = redisBroker
		go logSwapEvents(ctx, redisBroker)
	} else {
		logger.Log.Warn("REDIS_URL not set, swap events will not be published")
	}
	defer publisher.Close()

	router := handler.NewRouter(cfg, handler.NewHealthHandler(store))

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Starting Vwap - Vegan Recipe Swap",
			zap.String("addr", cfg.ServerAddr),
			zap.String("environment", cfg.Environment),
			zap.Bool("debug", cfg.Debug),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// logSwapEvents follows the swap event channel until ctx is cancelled.
func logSwapEvents(ctx context.Context, b *broker.RedisSwapBroker) {
	events, err := b.Subscribe(ctx)
	if err != nil {
		logger.Log.Error("Failed to subscribe to swap events", zap.Error(err))
		return
	}
	logger.Log.Info("Swap event listener started", zap.String("channel", broker.SwapEventsChannel))

	for event := range events {
		logger.Log.Info("Swap event",
			zap.String("event_id", event.EventID),
			zap.String("type", event.Type),
			zap.Uint("swap_id", event.SwapID),
			zap.String("status", string(event.Status)),
		)
	}
}
