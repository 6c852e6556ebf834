package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/film-catalogue/internal/config"
	"github.com/iliyamo/film-catalogue/internal/middleware"
	"github.com/iliyamo/film-catalogue/internal/model"
	"github.com/iliyamo/film-catalogue/internal/policy"
	"github.com/iliyamo/film-catalogue/internal/repository"
	"github.com/iliyamo/film-catalogue/internal/utils"
)

// UserHandler serves profile view/update and the profile image endpoints.
type UserHandler struct {
	Cfg    config.Config
	Users  UserStore
	Images ImageStore
	Log    zerolog.Logger
}

func NewUserHandler(cfg config.Config, users UserStore, images ImageStore, log zerolog.Logger) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users, Images: images, Log: log}
}

type userUpdateReq struct {
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	Email           *string `json:"email"`
	Password        *string `json:"password"`
	CurrentPassword *string `json:"currentPassword"`
}

// View returns a user's public profile.  The email field is included only
// when the caller is viewing their own profile.
func (h *UserHandler) View(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	target, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no user with specified id"})
		}
		return internalError(c, h.Log, err, "load user failed")
	}

	if caller, ok := middleware.CurrentUser(c); ok && caller.ID == target.ID {
		return c.JSON(http.StatusOK, echo.Map{
			"firstName": target.FirstName,
			"lastName":  target.LastName,
			"email":     target.Email,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"firstName": target.FirstName,
		"lastName":  target.LastName,
	})
}

// Update patches the caller's own profile.  Changing the password requires
// the current password to re-verify and the new password to differ.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req userUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email != nil && !validEmail(strings.ToLower(strings.TrimSpace(*req.Email))) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}
	if req.FirstName != nil && *req.FirstName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "firstName cannot be empty"})
	}
	if req.LastName != nil && *req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lastName cannot be empty"})
	}
	if req.Password != nil {
		if len(*req.Password) < 6 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "password too short"})
		}
		if req.CurrentPassword == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "currentPassword required"})
		}
	}

	ctx := c.Request().Context()
	caller := sessionUser(c)

	target, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no user with specified id"})
		}
		return internalError(c, h.Log, err, "load user failed")
	}

	changingPassword := req.Password != nil
	currentPasswordOK := true
	samePassword := false
	if changingPassword && caller != nil {
		currentPasswordOK = utils.VerifyPassword(caller.PasswordHash, *req.CurrentPassword)
		samePassword = *req.Password == *req.CurrentPassword
	}
	emailTaken := false
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &email
		if email != target.Email {
			emailTaken, err = h.Users.EmailInUse(ctx, email)
			if err != nil {
				return internalError(c, h.Log, err, "check email failed")
			}
		}
	}

	if err := policy.UpdateUser(caller, target, changingPassword, currentPasswordOK, samePassword, emailTaken); err != nil {
		return gateError(c, err)
	}

	upd := model.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if changingPassword {
		hash, err := utils.HashPassword(*req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return internalError(c, h.Log, err, "hash password failed")
		}
		upd.PasswordHash = &hash
	}
	if err := h.Users.Update(ctx, id, upd); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "email already in use"})
		}
		return internalError(c, h.Log, err, "update user failed")
	}
	return c.JSON(http.StatusOK, echo.Map{})
}
