package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/film-catalogue/internal/middleware"
	"github.com/iliyamo/film-catalogue/internal/model"
	"github.com/iliyamo/film-catalogue/internal/policy"
)

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// sessionUser returns the authenticated caller as the pointer the policy
// gates expect, nil when the request is anonymous.
func sessionUser(c echo.Context) *model.User {
	if u, ok := middleware.CurrentUser(c); ok {
		return &u
	}
	return nil
}

// dateTimeLayouts are the accepted client formats for release dates, most
// specific first.
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// parseDateTime parses a client-supplied datetime string.
func parseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// gateError maps a policy decision to its HTTP response.
func gateError(c echo.Context, err error) error {
	if errors.Is(err, policy.ErrUnauthenticated) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
}

// internalError logs full detail for operators and returns an opaque 500 to
// the client.
func internalError(c echo.Context, log zerolog.Logger, err error, msg string) error {
	log.Error().Err(err).Str("path", c.Path()).Msg(msg)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}
