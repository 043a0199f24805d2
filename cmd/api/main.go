package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/M1hasMAD/account-service/internal/api"
	"github.com/M1hasMAD/account-service/internal/config"
	"github.com/M1hasMAD/account-service/internal/db"
	"github.com/M1hasMAD/account-service/internal/logger"
	"github.com/M1hasMAD/account-service/internal/metrics"
	"github.com/M1hasMAD/account-service/internal/notify"
	"github.com/M1hasMAD/account-service/internal/repository/postgres"
	"github.com/M1hasMAD/account-service/internal/services"
	"github.com/M1hasMAD/account-service/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Migrate {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(cfg.WorkerCount)
	defer wp.Stop()

	events := notify.New(wp, log)
	accountSvc := services.NewAccountService(repos.Accounts, events)
	balanceSvc := services.NewBalanceService(repos.Balances, accountSvc, events)

	metrics.Init()
	r := api.NewRouter(cfg, accountSvc, balanceSvc)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
