package main

import (
	"context"
	"os/signal"
	"syscall"

	"fxagg-service/internal/bootstrap"
	"fxagg-service/internal/config"
	"fxagg-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	log := logx.L()
	cfg := config.Load()
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, closeDB, err := bootstrap.BuildDB(ctx, cfg)
	if err != nil {
		log.Fatal("bootstrap db", zap.Error(err))
	}
	defer closeDB()

	services, closeLock, err := bootstrap.BuildDayLock(cfg)
	if err != nil {
		log.Fatal("bootstrap day lock", zap.Error(err))
	}
	defer closeLock()

	w := bootstrap.BuildRefreshWorker(cfg, bootstrap.BuildRepos(db), services, bootstrap.BuildFetcher(cfg))
	w.Start(ctx)
	log.Info("worker stopped")
}
