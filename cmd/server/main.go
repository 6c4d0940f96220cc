package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	marketsvc "main/internal/application/service/market"
	tradingsvc "main/internal/application/service/trading"
	"main/internal/config"
	market "main/internal/domain/entity/market"
	interfaces "main/internal/domain/interfaces"
	"main/internal/infrastructure/history"
	"main/internal/infrastructure/pin"
	"main/internal/infrastructure/recorder"
	"main/internal/infrastructure/sessions"
	infrahttp "main/internal/interfaces/http"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	catalog := market.DefaultCatalog()
	if cfg.Wallet.CatalogPath != "" {
		catalog, err = market.LoadCatalog(cfg.Wallet.CatalogPath)
		if err != nil {
			logger.Fatalf("failed to load catalog: %v", err)
		}
	}

	var historyRepo interfaces.HistoryRepository
	switch {
	case cfg.Postgres.DSN != "":
		historyRepo, err = history.NewPostgresRepository(ctx, cfg.Postgres.DSN)
		if err != nil {
			logger.Fatalf("failed to init postgres history store: %v", err)
		}
		defer historyRepo.Close()
	case cfg.SQLite.Path != "":
		historyRepo, err = history.NewSQLiteRepository(cfg.SQLite.Path)
		if err != nil {
			logger.Fatalf("failed to init sqlite history store: %v", err)
		}
		defer historyRepo.Close()
	default:
		logger.Info("no history store configured, serving synthetic data only")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	pinStore, err := pin.NewStore(cfg.Wallet.PIN)
	if err != nil {
		logger.Fatalf("invalid WALLET_PIN: %v", err)
	}

	sessionTTL := time.Duration(cfg.Session.TTLSeconds) * time.Second
	var sessionStore interfaces.SessionStore
	if redisClient != nil {
		sessionStore = sessions.NewRedisStore(redisClient, sessionTTL)
	} else {
		sessionStore = sessions.NewMemoryStore(sessionTTL)
	}

	marketService := marketsvc.NewService(catalog, historyRepo)
	tradingService := tradingsvc.NewService(catalog, pinStore)

	if cfg.Wallet.RecordDailyCloses && historyRepo != nil {
		rec := recorder.New(marketService, historyRepo, logger)
		if err := rec.Start(); err != nil {
			logger.Fatalf("failed to start close recorder: %v", err)
		}
		defer rec.Stop()
	}

	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	handler := infrahttp.NewHandler(marketService, tradingService, sessionStore, redisClient, cacheTTL, sessionTTL, logger)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr(),
		Handler: handler,
	}

	go func() {
		logger.Infof("HTTP server listening on %s", cfg.HTTP.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("http server shutdown: %v", err)
	}
}
