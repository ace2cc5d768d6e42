package server

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/motoloc/motocrm/internal/auth"
)

const ctxUserID = "user_id"

// userID returns the authenticated user of the request
func userID(c echo.Context) string {
	id, _ := c.Get(ctxUserID).(string)
	return id
}

// requireAuth verifies the bearer token of the Authorization header
func requireAuth(svc auth.Service) echo.MiddlewareFunc {
	return authenticate(svc, false)
}

// requireStreamAuth also accepts a token query parameter, since
// EventSource clients cannot set headers
func requireStreamAuth(svc auth.Service) echo.MiddlewareFunc {
	return authenticate(svc, true)
}

func authenticate(svc auth.Service, allowQuery bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := requestToken(c, allowQuery)
			if err != nil {
				return err
			}
			id, err := svc.Verify(c.Request().Context(), token)
			if err != nil {
				return err
			}
			c.Set(ctxUserID, id)
			return next(c)
		}
	}
}

func requestToken(c echo.Context, allowQuery bool) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" && allowQuery {
		if q := c.QueryParam("token"); q != "" {
			return q, nil
		}
	}
	return auth.BearerToken(header)
}

// requestLogger emits one slog line per request
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", redactedURI(c.Request().URL)),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if id := userID(c); id != "" {
				attrs = append(attrs, slog.String("user_id", id))
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				if v.Status >= 500 {
					level = slog.LevelError
				}
			}
			s.logger.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	})
}

// redactedURI renders the request path and query with the token parameter
// masked
func redactedURI(u *url.URL) string {
	q := u.Query()
	if q.Has("token") {
		q.Set("token", "REDACTED")
	}
	if len(q) == 0 {
		return u.Path
	}
	return u.Path + "?" + q.Encode()
}
