package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"

	"quantent_web_api/config"
	"quantent_web_api/handlers"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()
	config.ConfigureLogging(cfg)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
		}); err != nil {
			logrus.WithError(err).Warn("Sentry initialization failed, continuing without error reporting")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	if cfg.EmailTestMode {
		logrus.Warn("EMAIL_TEST_MODE is on, contact emails are logged and not delivered")
	}

	srv := newServer(cfg, handlers.NewHandlers(cfg, nil))
	defer srv.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":        cfg.ServerPort,
			"environment": cfg.Environment,
		}).Info("Server starting")
		if err := srv.echo.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.echo.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}
}
