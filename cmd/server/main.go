package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/bloggerplatform/internal/bootstrap"
	"anoa.com/bloggerplatform/internal/config"
	"anoa.com/bloggerplatform/internal/server"
	"anoa.com/bloggerplatform/pkg/log"
	"github.com/gin-gonic/gin"
)

func main() {
	l := log.L()
	cfg, err := config.Load()
	if err != nil {
		l.Fatal().Err(err).Msg("failed to load config")
	}

	log.Init(log.Config{
		Level:       cfg.LogLevel,
		Pretty:      cfg.IsDevelopment(),
		ServiceName: "bloggerplatform",
	})
	l = log.L()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := bootstrap.OpenDatabase(cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to open database")
	}

	if cfg.IsDevelopment() {
		if err := bootstrap.SeedDemo(db); err != nil {
			l.Fatal().Err(err).Msg("failed to seed demo data")
		}
	}

	redisClient, err := bootstrap.OpenRedis(context.Background(), cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to open redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.NewServer(cfg, db, redisClient).Handler(),
	}

	go func() {
		l.Info().Str("addr", srv.Addr).Str("lock_backend", cfg.LockBackend).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("server exited with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	l.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.Error().Err(err).Msg("server forced to shutdown")
	}
	l.Info().Msg("server exited")
}
