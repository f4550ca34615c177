// app/echoServer/middleware.go
package echoServer

import (
	"log/slog"
	"time"

	"bookstore/util/jwt"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func RegisterMiddlewares(e *echo.Echo) {

	e.Use(middleware.Recover())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))

	e.Use(Slog())
}

func Slog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			lat := time.Since(start).Milliseconds()

			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			slog.Info("http",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", lat,
				"req_id", rid,
				"ip", c.RealIP(),
				"ua", c.Request().UserAgent(),
			)
			return err
		}
	}
}

// OptionalJWT tries the Authorization header and, when it carries a valid
// token, puts user_id and role on the context. Anonymous requests pass
// through untouched, so catalog handlers can serve both.
func OptionalJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := jwt.ParseAuth(c.Request().Header.Get("Authorization"), secret)
			if err == nil {
				if idf, ok := claims["sub"].(float64); ok {
					c.Set("user_id", int64(idf))
				}
				if role, ok := claims["role"].(string); ok {
					c.Set("role", role)
				}
			}
			return next(c)
		}
	}
}
