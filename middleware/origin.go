package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"quantent_web_api/config"
)

const forbiddenOriginMessage = "Forbidden request origin."

// OriginDebug echoes the headers the origin decision was based on.
// It is only sent outside production.
type OriginDebug struct {
	Origin      string `json:"origin"`
	Host        string `json:"host"`
	Referer     string `json:"referer"`
	Environment string `json:"environment"`
}

type forbiddenOriginResponse struct {
	Error string       `json:"error"`
	Debug *OriginDebug `json:"debug,omitempty"`
}

// hostSet is an exact-match allow-list of URL hosts (hostname plus optional port).
type hostSet map[string]struct{}

func newHostSet(hosts []string) hostSet {
	set := make(hostSet, len(hosts))
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			set[h] = struct{}{}
		}
	}
	return set
}

func (s hostSet) has(host string) bool {
	if host == "" {
		return false
	}
	_, ok := s[host]
	return ok
}

// permits applies the Origin, then Host, then Referer precedence.
// When Origin is present it alone decides.
func (s hostSet) permits(r *http.Request) bool {
	if origin := strings.TrimSpace(r.Header.Get("Origin")); origin != "" {
		return s.has(urlHost(origin))
	}
	if s.has(strings.ToLower(strings.TrimSpace(r.Host))) {
		return true
	}
	if referer := strings.TrimSpace(r.Header.Get("Referer")); referer != "" {
		return s.has(urlHost(referer))
	}
	return false
}

// urlHost extracts the host[:port] of an absolute URL the way browsers report it:
// lowercased, with the scheme's default port dropped. Anything unparsable yields "".
func urlHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}

	host := strings.ToLower(u.Host)
	switch {
	case u.Scheme == "https" && strings.HasSuffix(host, ":443"):
		host = strings.TrimSuffix(host, ":443")
	case u.Scheme == "http" && strings.HasSuffix(host, ":80"):
		host = strings.TrimSuffix(host, ":80")
	}
	return host
}

// CheckOrigin reports whether the request appears to come from one of allowedHosts.
func CheckOrigin(r *http.Request, allowedHosts []string) bool {
	return newHostSet(allowedHosts).permits(r)
}

// AllowedOrigin rejects requests whose Origin/Host/Referer is not on the configured allow-list.
func AllowedOrigin(cfg *config.Config) echo.MiddlewareFunc {
	allowed := newHostSet(cfg.AllowedHosts)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if allowed.permits(req) {
				return next(c)
			}

			debug := &OriginDebug{
				Origin:      req.Header.Get("Origin"),
				Host:        req.Host,
				Referer:     req.Header.Get("Referer"),
				Environment: cfg.Environment,
			}

			logrus.WithFields(logrus.Fields{
				"path":    req.URL.Path,
				"origin":  debug.Origin,
				"host":    debug.Host,
				"referer": debug.Referer,
				"ip":      c.RealIP(),
			}).Warn("Rejected request from disallowed origin")

			body := forbiddenOriginResponse{Error: forbiddenOriginMessage}
			if !cfg.IsProduction() {
				body.Debug = debug
			}
			return c.JSON(http.StatusForbidden, body)
		}
	}
}
