package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"quantent_web_api/config"
	"quantent_web_api/handlers"
	"quantent_web_api/middleware"
)

const maxBodySize = "64K"

// server bundles the echo instance with the limiters that own background goroutines.
type server struct {
	echo     *echo.Echo
	limiters []*middleware.RateLimiter
}

func (s *server) close() {
	for _, rl := range s.limiters {
		rl.Stop()
	}
}

func newServer(cfg *config.Config, h *handlers.Handlers) *server {
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout
	e.IPExtractor = ipExtractor(cfg.TrustedProxies)
	e.HTTPErrorHandler = jsonErrorHandler

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: corsOrigins(cfg.AllowedHosts),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	s := &server{echo: e}

	// Monitoring
	e.GET("/health", h.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Form endpoints
	api := e.Group("/api")
	api.Use(middleware.NoCache())
	api.Use(middleware.AllowedOrigin(cfg))
	api.Use(echomiddleware.BodyLimit(maxBodySize))
	{
		api.POST("/contact", h.HandleContact, s.rateLimit(cfg, cfg.ContactRateLimit)...)
		api.POST("/newsletter", h.HandleNewsletter, s.rateLimit(cfg, cfg.NewsletterRateLimit)...)
	}

	// Non-production routes
	if !cfg.IsProduction() {
		dev := e.Group("/dev")
		dev.Use(middleware.NoCache())
		dev.Use(middleware.AllowedOrigin(cfg))
		{
			dev.GET("/email/test", h.TestEmailHandler)
		}
	}

	return s
}

// rateLimit returns the per-route limiter middleware, or nothing when limiting is disabled.
func (s *server) rateLimit(cfg *config.Config, requests int) []echo.MiddlewareFunc {
	if cfg.RateLimitDisabled {
		return nil
	}
	rl := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Requests: requests,
		Window:   cfg.RateLimitWindow,
	})
	s.limiters = append(s.limiters, rl)
	return []echo.MiddlewareFunc{rl.Middleware()}
}

// ipExtractor reads the client IP from X-Forwarded-For only when the request
// comes through one of the trusted proxies. Without any, the socket address is used.
func ipExtractor(trusted []string) echo.IPExtractor {
	var options []echo.TrustOption
	for _, entry := range trusted {
		network, err := parseTrustedProxy(entry)
		if err != nil {
			logrus.WithError(err).Warn("Ignoring TRUSTED_PROXIES entry")
			continue
		}
		options = append(options, echo.TrustIPRange(network))
	}
	if len(options) == 0 {
		return echo.ExtractIPDirect()
	}

	options = append(options,
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	)
	return echo.ExtractIPFromXFFHeader(options...)
}

// parseTrustedProxy accepts a CIDR or a single IP address.
func parseTrustedProxy(entry string) (*net.IPNet, error) {
	if strings.Contains(entry, "/") {
		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("parse trusted proxy %q: %w", entry, err)
		}
		return network, nil
	}

	ip := net.ParseIP(entry)
	if ip == nil {
		return nil, fmt.Errorf("parse trusted proxy %q: not an IP address", entry)
	}
	bits := 8 * net.IPv6len
	if v4 := ip.To4(); v4 != nil {
		ip, bits = v4, 8*net.IPv4len
	}
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}, nil
}

// jsonErrorHandler renders echo errors (404, 405, 413, panics) with the same
// {"error": "..."} body the form handlers use.
func jsonErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		logrus.WithError(err).Error("Unhandled request error")
		he = echo.NewHTTPError(http.StatusInternalServerError)
	}

	message := http.StatusText(he.Code)
	if m, ok := he.Message.(string); ok && m != "" {
		message = m
	}

	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		middleware.SetNoCacheHeaders(c.Response().Header())
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(he.Code)
	} else {
		err = c.JSON(he.Code, map[string]string{"error": message})
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to write error response")
	}
}

// corsOrigins turns allowed hosts into browser origins. Local hosts are served over plain HTTP.
func corsOrigins(hosts []string) []string {
	origins := make([]string, 0, len(hosts))
	for _, host := range hosts {
		host = strings.ToLower(strings.TrimSpace(host))
		if host == "" {
			continue
		}
		if host == "localhost" || strings.HasPrefix(host, "localhost:") || strings.HasPrefix(host, "127.0.0.1") {
			origins = append(origins, "http://"+host)
			continue
		}
		origins = append(origins, "https://"+host)
	}
	return origins
}

func requestLogger() echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			entry := logrus.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"ip":         v.RemoteIP,
				"request_id": v.RequestID,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("Request failed")
				return nil
			}
			entry.Info("Request handled")
			return nil
		},
	})
}
