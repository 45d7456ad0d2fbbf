// Package main is the entrypoint for the parishlaunch API server: the backend
// for the public landing page, the admin dashboard, and campaign email delivery.
//
// @title ParishLaunch API
// @version 1.0
// @description Landing page, waitlist, and email campaign backend.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
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

	"parishlaunch/config"
	_ "parishlaunch/docs"
	"parishlaunch/internal/adapters/auth"
	"parishlaunch/internal/adapters/email"
	deliveryhttp "parishlaunch/internal/delivery/http"
	"parishlaunch/internal/delivery/http/controllers"
	"parishlaunch/internal/delivery/http/middleware"
	"parishlaunch/internal/repository/postgres"
	"parishlaunch/internal/services"
)

func main() {
	logger := config.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	db, err := postgres.Open(cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.ApplyMigrations(cfg.DBUrl, cfg.MigrationsPath); err != nil {
		return err
	}

	// Adapters
	hasher := auth.NewBcryptHasher(0)
	issuer, verifier := auth.NewJWTAuth(cfg.JWTSecret)
	mailer, err := email.NewMailer(cfg.Mailer)
	if err != nil {
		return err
	}
	if mailer == nil {
		logger.Warn("email provider not configured, campaign sends will be rejected")
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	waitlistRepo := postgres.NewWaitlistRepository(db)
	settingRepo := postgres.NewSiteSettingRepository(db)
	linkRepo := postgres.NewSocialLinkRepository(db)
	parishRepo := postgres.NewParishRepository(db)
	templateRepo := postgres.NewEmailTemplateRepository(db)
	campaignRepo := postgres.NewEmailCampaignRepository(db)
	logRepo := postgres.NewEmailLogRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, hasher, issuer, cfg.TokenExpiry)
	waitlistService := services.NewWaitlistService(waitlistRepo)
	siteService := services.NewSiteService(settingRepo, linkRepo, parishRepo)
	mailingService := services.NewMailingService(templateRepo, campaignRepo, logRepo, waitlistRepo, mailer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return err
		}
	}

	mux := deliveryhttp.NewRouter(deliveryhttp.RouterConfig{
		Verifier:          verifier,
		Auth:              controllers.NewAuthController(logger, authService),
		Waitlist:          controllers.NewWaitlistController(logger, waitlistService),
		Site:              controllers.NewSiteController(logger, siteService),
		Template:          controllers.NewTemplateController(logger, mailingService),
		Campaign:          controllers.NewCampaignController(logger, mailingService),
		EmailLog:          controllers.NewEmailLogController(logger, mailingService),
		WaitlistRateRPS:   cfg.WaitlistRateRPS,
		WaitlistRateBurst: cfg.WaitlistRateBurst,
	})

	handler := middleware.CORS(cfg.AllowedOrigins, mux)
	handler = middleware.LoggingMiddleware(logger, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
