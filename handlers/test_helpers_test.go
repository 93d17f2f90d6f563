package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"quantent_web_api/config"
	"quantent_web_api/services"
)

// stubMailer records every email instead of delivering it.
type stubMailer struct {
	mu       sync.Mutex
	sent     []*services.Email
	settings []services.MailSettings
	err      error
}

func (m *stubMailer) factory(settings services.MailSettings) services.Mailer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = append(m.settings, settings)
	return m
}

func (m *stubMailer) Send(_ context.Context, email *services.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return m.err
}

func (m *stubMailer) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

var errSMTPDown = errors.New("dial tcp: connection refused")

func mailConfig() *config.Config {
	return &config.Config{
		Environment:   "test",
		AllowedHosts:  config.DefaultAllowedHosts,
		EmailProvider: config.EmailProviderSMTP,
		SMTPHost:      "smtp.example.com",
		SMTPPort:      "587",
		SMTPUser:      "mailer@quant-ent.com",
		SMTPPass:      "secret",
		ContactTo:     "sales@quant-ent.com",
		ContactFrom:   "website@quant-ent.com",
	}
}

func newTestHandlers(cfg *config.Config) (*Handlers, *stubMailer) {
	mailer := &stubMailer{}
	return NewHandlers(cfg, mailer.factory), mailer
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return e, c, rec
}

func postJSON(t *testing.T, handler echo.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	_, c, rec := setupEcho(http.MethodPost, path, strings.NewReader(body))
	require.NoError(t, handler(c))
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func unconfigured() *config.Config {
	return &config.Config{Environment: "test"}
}
