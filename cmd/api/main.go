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

	"github.com/redis/go-redis/v9"

	"github.com/baharkarakas/campus-closet/internal/api"
	"github.com/baharkarakas/campus-closet/internal/auth"
	"github.com/baharkarakas/campus-closet/internal/config"
	"github.com/baharkarakas/campus-closet/internal/db"
	"github.com/baharkarakas/campus-closet/internal/logger"
	"github.com/baharkarakas/campus-closet/internal/metrics"
	"github.com/baharkarakas/campus-closet/internal/realtime"
	"github.com/baharkarakas/campus-closet/internal/repository/postgres"
	"github.com/baharkarakas/campus-closet/internal/services"
	"github.com/baharkarakas/campus-closet/internal/worker"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Migrate {
		if err := db.RunMigrations(ctx, pool); err != nil {
			return err
		}
	}

	var pub services.Publisher = realtime.Nop{}
	if cfg.RedisAddr != "" {
		rdb, err := realtime.NewRedisClient(ctx, realtime.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return err
		}
		defer closeRedis(rdb)
		pub = realtime.NewRedisPublisher(rdb)
		log.Info("realtime notifications enabled", "redis", cfg.RedisAddr)
	}

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(cfg.WorkerCount)
	defer wp.Stop()

	tokens := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTIssuer, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	metrics.Init()
	r := api.NewRouter(api.RouterDeps{
		Cfg:           cfg,
		Tokens:        tokens,
		Interactions:  services.NewInteractionService(repos.Store, repos.UoW, pub, wp),
		Catalog:       services.NewCatalogService(repos.Store),
		Notifications: services.NewNotificationService(repos.Store.Notifications()),
		Users:         services.NewUserService(repos.Store.Users(), tokens),
		Cart:          services.NewCartService(repos.Store, repos.UoW, pub, wp),
		Buyer:         services.NewBuyerService(repos.Store),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env, "auth_required", cfg.AuthRequired)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// deferred: worker pool drains, then redis and the db pool close
	return srv.Shutdown(shutdownCtx)
}

func closeRedis(c *redis.Client) {
	if err := c.Close(); err != nil {
		slog.Warn("redis close", "err", err)
	}
}
