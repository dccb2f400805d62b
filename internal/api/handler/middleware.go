package handler

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"trezzy/internal/pkg/errorx"
)

// AuthnAdmin guards operator endpoints with a shared X-Api-Key.
func AuthnAdmin(apiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("X-Api-Key")
			if apiKey == "" || subtle.ConstantTimeCompare([]byte(header), []byte(apiKey)) != 1 {
				return RestAbort(c, nil, errorx.Wrap(errors.New("unauthorized"), errorx.Authn))
			}

			return next(c)
		}
	}
}

// RequestTimeout bounds every downstream call made while serving a request.
func RequestTimeout(d time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if d <= 0 {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), d)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
