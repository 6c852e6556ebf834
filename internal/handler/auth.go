package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/film-catalogue/internal/config"
	"github.com/iliyamo/film-catalogue/internal/middleware"
	"github.com/iliyamo/film-catalogue/internal/repository"
	"github.com/iliyamo/film-catalogue/internal/utils"
)

// AuthHandler bundles dependencies for register/login/logout endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
	Log   zerolog.Logger
}

func NewAuthHandler(cfg config.Config, users UserStore, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Log: log}
}

// ----- DTOs -----

type registerReq struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// validEmail is a structural sanity check, not full address validation.
func validEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1
}

// Register creates a user.  A duplicate email is a rule violation, not a
// malformed request, so it reports 403.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FirstName == "" || req.LastName == "" || !validEmail(req.Email) || len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid information"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return internalError(c, h.Log, err, "hash password failed")
	}
	uid, err := h.Users.Create(ctx, req.FirstName, req.LastName, req.Email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "email already in use"})
		}
		return internalError(c, h.Log, err, "create user failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"userId": uid})
}

// Login verifies credentials and issues a session token.  The stored token
// hash replaces any previous one, so at most one session is live per user.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(req.Email) || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid information"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "incorrect email/password"})
		}
		return internalError(c, h.Log, err, "load user failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "incorrect email/password"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.SessionSecret, u.ID, time.Duration(h.Cfg.SessionTTLHrs)*time.Hour)
	if err != nil {
		return internalError(c, h.Log, err, "issue session token failed")
	}
	hash := utils.HashSessionToken(tok.Raw)
	if err := h.Users.SetSessionToken(ctx, u.ID, &hash); err != nil {
		return internalError(c, h.Log, err, "store session token failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"userId": u.ID, "token": tok.Raw})
}

// Logout clears the caller's stored session token hash, revoking the token.
func (h *AuthHandler) Logout(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Users.SetSessionToken(c.Request().Context(), u.ID, nil); err != nil {
		return internalError(c, h.Log, err, "clear session token failed")
	}
	return c.JSON(http.StatusOK, echo.Map{})
}
