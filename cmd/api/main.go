package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/astra29104/Travelbolt/internal/api"
	"github.com/astra29104/Travelbolt/internal/booking"
	"github.com/astra29104/Travelbolt/internal/catalog"
	"github.com/astra29104/Travelbolt/internal/config"
	"github.com/astra29104/Travelbolt/internal/store"
	"github.com/gin-gonic/gin"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	client, err := store.Open(cfg.StoreURL, cfg.StoreKey)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	if err := store.Prepare(client, cfg.MigrationsDir); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	gin.SetMode(gin.ReleaseMode)
	cat := catalog.New(client)
	h := api.NewHandler(cat, booking.NewService(cat))

	server := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("API server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("API server shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("API server exited gracefully.")
}
