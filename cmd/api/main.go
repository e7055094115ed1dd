package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fxagg-service/internal/bootstrap"
	"fxagg-service/internal/config"
	infraconfig "fxagg-service/internal/infrastructure/config"
	httpserver "fxagg-service/internal/infrastructure/http"
	"fxagg-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	ctx := context.Background()
	logger := logx.L()
	cfg := config.Load()
	addr := ":" + cfg.Port

	db, closeDB, err := bootstrap.BuildDB(ctx, cfg)
	if err != nil {
		logger.Fatal("bootstrap db", zap.Error(err))
	}
	defer closeDB()

	services, closeLock, err := bootstrap.BuildDayLock(cfg)
	if err != nil {
		logger.Fatal("bootstrap day lock", zap.Error(err))
	}
	defer closeLock()

	fetch := bootstrap.BuildFetcher(cfg)
	svc := bootstrap.BuildService(cfg, bootstrap.BuildRepos(db), services, fetch)
	srv := httpserver.NewServer(svc, httpserver.WithPing(db.Ping))
	mux := httpserver.NewRouter(srv)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("server started", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, shCancel := context.WithTimeout(context.Background(), infraconfig.DefaultShutdownTimeout)
	defer shCancel()
	_ = server.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
