package handlers

import (
	"context"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"quantent_web_api/config"
	"quantent_web_api/models"
	"quantent_web_api/services"
)

// TurnstileVerifier checks a bot challenge token for a client IP.
type TurnstileVerifier func(ctx context.Context, token, secretKey, ip string) (bool, error)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	cfg             *config.Config
	newMailer       services.MailerFactory
	verifyTurnstile TurnstileVerifier
}

// NewHandlers creates a new Handlers instance. A nil newMailer uses services.NewMailer.
func NewHandlers(cfg *config.Config, newMailer services.MailerFactory) *Handlers {
	if newMailer == nil {
		newMailer = services.NewMailer
	}
	return &Handlers{
		cfg:             cfg,
		newMailer:       newMailer,
		verifyTurnstile: services.VerifyTurnstileToken,
	}
}

// WithTurnstileVerifier swaps the Turnstile client, mostly for tests.
func (h *Handlers) WithTurnstileVerifier(v TurnstileVerifier) *Handlers {
	h.verifyTurnstile = v
	return h
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// passesTurnstile runs the bot challenge when a secret key is configured.
func (h *Handlers) passesTurnstile(c echo.Context, token models.FormValue, log *logrus.Entry) bool {
	if h.cfg.TurnstileSecretKey == "" {
		return true
	}

	ok, err := h.verifyTurnstile(c.Request().Context(), token.Text(), h.cfg.TurnstileSecretKey, c.RealIP())
	if err != nil {
		log.WithError(err).Info("Turnstile verification failed")
		return false
	}
	return ok
}

func requestLogger(c echo.Context, form string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"form":       form,
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		"ip":         c.RealIP(),
	})
}

// reportError forwards unexpected server-side failures to Sentry (a no-op without a DSN).
func reportError(c echo.Context, form string, err error) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("form", form)
		scope.SetTag("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
		scope.SetRequest(c.Request())
		sentry.CaptureException(err)
	})
}
