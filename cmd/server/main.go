package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/astra29104/Travelbolt/internal/auth"
	"github.com/astra29104/Travelbolt/internal/booking"
	"github.com/astra29104/Travelbolt/internal/catalog"
	"github.com/astra29104/Travelbolt/internal/config"
	"github.com/astra29104/Travelbolt/internal/handlers"
	"github.com/astra29104/Travelbolt/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

func main() {
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Open the store
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

	cat := catalog.New(client)
	bookingService := booking.NewService(cat)
	accounts := auth.NewAccounts(cat.Users)

	// 3. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	sessionStore.Options.MaxAge = int((7 * 24 * time.Hour).Seconds())
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 4. Init Templates
	templates := handlers.NewTemplateCache()
	if err := templates.Load(nil); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	// 5. Routes
	router := handlers.NewRouter(handlers.App{
		Catalog:        cat,
		Booking:        bookingService,
		Accounts:       accounts,
		SessionStore:   sessionStore,
		Templates:      templates,
		LoginLimiter:   handlers.NewRateLimiter(2 * time.Second),
		BookingLimiter: handlers.NewRateLimiter(2 * time.Second),
	})

	// 6. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Chain: Logger -> Security Headers -> CSRF -> Router
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			CSRF(router),
		),
	)

	// 7. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port, "hosted_store", cfg.Hosted())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
