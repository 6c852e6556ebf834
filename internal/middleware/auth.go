package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/film-catalogue/internal/model"
	"github.com/iliyamo/film-catalogue/internal/utils"
)

// HeaderAuthorization carries the session token.  The value is the bare
// token; there is no scheme prefix.
const HeaderAuthorization = "X-Authorization"

const userContextKey = "user"

// SessionResolver looks up the user owning a live session token hash.  The
// user repository satisfies this.
type SessionResolver interface {
	GetBySessionToken(ctx context.Context, tokenHash string) (model.User, error)
}

// Session returns middleware that resolves the X-Authorization header into
// the calling user.  A token is live only when its signature verifies AND its
// hash matches the one stored on the user row, so logout revokes it
// immediately.  Absent or invalid tokens leave the request anonymous; routes
// that need an identity wrap their handlers in RequireSession.  A lookup
// failure other than "no such session" is a storage fault, not a bad token,
// and answers 500 rather than letting the request fall through anonymously.
func Session(secret string, users SessionResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(HeaderAuthorization))
			if raw == "" {
				return next(c)
			}
			uid, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return next(c)
			}
			u, err := users.GetBySessionToken(c.Request().Context(), utils.HashSessionToken(raw))
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return next(c)
				}
				log.Error().Err(err).Msg("session lookup failed")
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
			}
			if u.ID != uid {
				return next(c)
			}
			WithUser(c, u)
			return next(c)
		}
	}
}

// WithUser attaches an authenticated user to the request context.  Session
// calls this after resolving a token; handler tests call it directly.
func WithUser(c echo.Context, u model.User) {
	c.Set(userContextKey, u)
}

// RequireSession rejects anonymous requests with 401.  Apply after Session on
// every mutating route.
func RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := CurrentUser(c); !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return next(c)
	}
}

// CurrentUser returns the authenticated user stored by Session, if any.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(userContextKey).(model.User)
	return u, ok
}
