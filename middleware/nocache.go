package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// NoCache marks every response as uncacheable, including ones produced by later middleware.
func NoCache() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			SetNoCacheHeaders(c.Response().Header())
			return next(c)
		}
	}
}

// SetNoCacheHeaders writes the headers NoCache adds, for responses built outside the middleware chain.
func SetNoCacheHeaders(h http.Header) {
	h.Set("Cache-Control", "no-store")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}
