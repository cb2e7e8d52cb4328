package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blueoakrealty/website-backend/internal/api/router"
	appconfig "github.com/blueoakrealty/website-backend/internal/config"
	"github.com/blueoakrealty/website-backend/internal/crm"
	"github.com/blueoakrealty/website-backend/internal/http/handlers"
	"github.com/blueoakrealty/website-backend/internal/notify"
	"github.com/blueoakrealty/website-backend/internal/observability/metrics"
	"github.com/blueoakrealty/website-backend/internal/pipeline"
	"github.com/blueoakrealty/website-backend/internal/sheets"
	"github.com/blueoakrealty/website-backend/pkg/logging"
)

func main() {
	// Local development reads a .env file; deployed environments set real
	// environment variables.
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting brokerage website backend",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	leadMetrics := metrics.NewLeadMetrics(nil)

	// Each channel is decided once here: configured clients deliver,
	// missing credentials wire a disabled stand-in that reports
	// not-configured without touching the network.
	crmChannel := pipeline.Disabled(pipeline.ChannelCRM, "follow up boss not configured")
	if client := crm.NewClient(cfg.FollowUpBoss.APIKey, logger); client != nil {
		crmChannel = client
	} else {
		logger.Warn("FUB_API_KEY missing, CRM channel disabled")
	}

	sheetsChannel := pipeline.Disabled(pipeline.ChannelSheets, "google sheets not configured")
	if appender := sheets.NewAppender(
		cfg.Sheets.ServiceAccountEmail,
		cfg.Sheets.PrivateKey,
		cfg.Sheets.SpreadsheetID,
		logger,
	); appender != nil {
		sheetsChannel = appender
	} else {
		logger.Warn("google sheets credentials missing, audit log channel disabled")
	}

	emailChannel := pipeline.Disabled(pipeline.ChannelEmail, "sendgrid not configured")
	sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.Email.SendGridAPIKey,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}, logger)
	if mailer := notify.NewLeadMailer(sender, cfg.Email.NotificationEmail, logger); mailer != nil {
		emailChannel = mailer
	} else {
		logger.Warn("SENDGRID_API_KEY missing, email channel disabled")
	}

	pipe := pipeline.New(crmChannel, sheetsChannel, emailChannel, leadMetrics, logger)
	leadsHandler := handlers.NewLeadsHandler(pipe, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
