package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ida-management/backoffice/internal/domain"
	"github.com/ida-management/backoffice/internal/handlers"
	"github.com/ida-management/backoffice/internal/notifications"
	"github.com/ida-management/backoffice/internal/platform/auth"
	"github.com/ida-management/backoffice/internal/platform/config"
	"github.com/ida-management/backoffice/internal/platform/observability"
	"github.com/ida-management/backoffice/internal/repositories/memory"
	"github.com/ida-management/backoffice/internal/services"
)

func main() {
	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("backoffice")

	cfg, err := config.Load()
	if err != nil {
		var validation *config.ValidationError
		if errors.As(err, &validation) {
			logger.Fatal("invalid configuration", zap.Strings("fields", validation.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	registry := memory.NewRegistry()
	if cfg.Seed.Enabled {
		registry.Seed(time.Now())
		logger.Info("seeded demo data")
	}

	notifier := notifications.NewRetryingSender(
		notifications.NewLogSender(logger.Named("notifications")),
		cfg.Notifications.Attempts,
		cfg.Notifications.Backoff,
		logger.Named("notifications"),
	)

	orderService, err := services.NewOrderService(services.OrderServiceDeps{
		Orders:   registry.Orders(),
		Notifier: notifier,
		Logger:   logger.Named("orders"),
	})
	if err != nil {
		logger.Fatal("failed to initialise order service", zap.Error(err))
	}

	affiliateService, err := services.NewAffiliateService(services.AffiliateServiceDeps{
		Affiliates: registry.Affiliates(),
		Orders:     registry.Orders(),
		Logger:     logger.Named("affiliates"),
	})
	if err != nil {
		logger.Fatal("failed to initialise affiliate service", zap.Error(err))
	}

	discountService, err := services.NewDiscountService(services.DiscountServiceDeps{
		Discounts: registry.Discounts(),
		Logger:    logger.Named("discounts"),
	})
	if err != nil {
		logger.Fatal("failed to initialise discount service", zap.Error(err))
	}

	productService, err := services.NewProductService(services.ProductServiceDeps{
		Products: registry.Products(),
		Logger:   logger.Named("products"),
	})
	if err != nil {
		logger.Fatal("failed to initialise product service", zap.Error(err))
	}

	staffService, err := services.NewStaffService(services.StaffServiceDeps{
		Staff:  registry.Staff(),
		Logger: logger.Named("staff"),
	})
	if err != nil {
		logger.Fatal("failed to initialise staff service", zap.Error(err))
	}

	authenticator := buildAuthenticator(logger.Named("auth"), cfg)

	// The authenticator runs before the request logger so the completion log
	// carries the acting staff email.
	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(),
		observability.RecoveryMiddleware(logger.Named("http")),
		authenticator.Middleware(),
		observability.RequestLoggerMiddleware(),
	}

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithOrderRoutes(handlers.NewOrderHandlers(orderService).Register),
		handlers.WithAffiliateRoutes(handlers.NewAffiliateHandlers(affiliateService).Register),
		handlers.WithDiscountRoutes(handlers.NewDiscountHandlers(discountService).Register),
		handlers.WithProductRoutes(handlers.NewProductHandlers(productService).Register),
		handlers.WithStaffRoutes(handlers.NewStaffHandlers(staffService).Register),
		handlers.WithStaffMiddlewares(auth.RequireRole(domain.StaffRoleAdmin)),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("ida back office listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// buildAuthenticator returns a JWT authenticator, or a local-mode fallback that
// stamps every request with an admin identity when auth is disabled.
func buildAuthenticator(logger *zap.Logger, cfg config.Config) *auth.Authenticator {
	if !cfg.Auth.Enabled {
		logger.Warn("authentication disabled; all requests act as the local admin")
		return auth.NewAuthenticator(nil, auth.WithDisabled(auth.Identity{
			Subject: "local-admin",
			Name:    "Local Admin",
			Email:   "admin@localhost",
			Role:    domain.StaffRoleAdmin,
		}))
	}
	return auth.NewAuthenticator([]byte(cfg.Auth.Secret), auth.WithIssuer(cfg.Auth.Issuer))
}
