package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"quantent_web_api/services"
)

// TestEmailHandler sends a test email through the configured transport (non-production only)
func (h *Handlers) TestEmailHandler(c echo.Context) error {
	if h.cfg.IsProduction() {
		return echo.NewHTTPError(http.StatusForbidden, "This endpoint is not available in production")
	}

	settings, err := services.ResolveMailSettings(h.cfg)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, msgNotConfigured)
	}

	email := &services.Email{
		From:    settings.From,
		To:      []string{settings.To},
		Subject: "Quant Ent website - Test Email",
		HTMLBody: fmt.Sprintf(
			"<p>Your email configuration is working.</p><ul><li>Provider: %s</li><li>Host: %s</li><li>Port: %d</li></ul>",
			settings.Provider, settings.Host, settings.Port,
		),
		TextBody: fmt.Sprintf(
			"Your email configuration is working.\n\n- Provider: %s\n- Host: %s\n- Port: %d\n",
			settings.Provider, settings.Host, settings.Port,
		),
	}

	// Synchronous so the caller sees transport errors
	if err := h.newMailer(settings).Send(c.Request().Context(), email); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Failed to send test email",
			"details": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":   "Test email sent successfully",
		"recipient": settings.To,
		"provider":  settings.Provider,
	})
}
