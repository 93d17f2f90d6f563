package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	h, _ := newTestHandlers(unconfigured())
	_, c, rec := setupEcho(http.MethodGet, "/health", nil)

	require.NoError(t, h.HealthCheck(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeResponse(t, rec)["status"])
}

func TestTestEmailHandler(t *testing.T) {
	t.Run("Sends to the contact inbox", func(t *testing.T) {
		h, mailer := newTestHandlers(mailConfig())
		_, c, rec := setupEcho(http.MethodGet, "/dev/email/test", nil)

		require.NoError(t, h.TestEmailHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, mailer.calls())
		assert.Equal(t, []string{"sales@quant-ent.com"}, mailer.sent[0].To)
		assert.Contains(t, mailer.sent[0].TextBody, "Host: smtp.example.com")
	})

	t.Run("Transport error is returned", func(t *testing.T) {
		h, mailer := newTestHandlers(mailConfig())
		mailer.err = errSMTPDown
		_, c, rec := setupEcho(http.MethodGet, "/dev/email/test", nil)

		require.NoError(t, h.TestEmailHandler(c))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, decodeResponse(t, rec)["details"], "connection refused")
	})

	t.Run("Not configured", func(t *testing.T) {
		h, mailer := newTestHandlers(unconfigured())
		_, c, rec := setupEcho(http.MethodGet, "/dev/email/test", nil)

		require.NoError(t, h.TestEmailHandler(c))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Zero(t, mailer.calls())
	})

	t.Run("Forbidden in production", func(t *testing.T) {
		cfg := mailConfig()
		cfg.Environment = "production"
		h, mailer := newTestHandlers(cfg)
		_, c, _ := setupEcho(http.MethodGet, "/dev/email/test", nil)

		err := h.TestEmailHandler(c)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, err.(*echo.HTTPError).Code)
		assert.Zero(t, mailer.calls())
	})
}
