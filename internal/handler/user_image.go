package handler

import (
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/film-catalogue/internal/policy"
	"github.com/iliyamo/film-catalogue/internal/storage"
)

// GetImage serves a user's profile image bytes with the content type derived
// from the stored filename.
func (h *UserHandler) GetImage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no user with specified id"})
		}
		return internalError(c, h.Log, err, "load user failed")
	}
	if u.ImageFilename == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user has no image"})
	}
	data, err := h.Images.Read(*u.ImageFilename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
		}
		return internalError(c, h.Log, err, "read image failed")
	}
	return c.Blob(http.StatusOK, storage.ContentTypeForFilename(*u.ImageFilename), data)
}

// SetImage stores a user's profile image.  The content-type check runs
// before any auth or existence check so an unsupported upload is rejected
// without touching state.  Responds 201 on first upload, 200 on replace.
func (h *UserHandler) SetImage(c echo.Context) error {
	ext, ok := storage.ExtensionForContentType(c.Request().Header.Get(echo.HeaderContentType))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid image type"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	caller := sessionUser(c)
	if caller == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	target, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no user with specified id"})
		}
		return internalError(c, h.Log, err, "load user failed")
	}
	if err := policy.SetUserImage(caller, target); err != nil {
		return gateError(c, err)
	}

	data, err := io.ReadAll(c.Request().Body)
	if err != nil || len(data) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "empty image body"})
	}

	hadImage := target.ImageFilename != nil
	filename := storage.UserImageName(target.ID, ext)
	if err := h.Images.Save(filename, data); err != nil {
		return internalError(c, h.Log, err, "save image failed")
	}
	if hadImage && *target.ImageFilename != filename {
		if err := h.Images.Remove(*target.ImageFilename); err != nil {
			h.Log.Warn().Err(err).Uint64("user_id", target.ID).Msg("remove old user image failed")
		}
	}
	if err := h.Users.SetImage(c.Request().Context(), target.ID, &filename); err != nil {
		return internalError(c, h.Log, err, "record image failed")
	}
	if hadImage {
		return c.JSON(http.StatusOK, echo.Map{})
	}
	return c.JSON(http.StatusCreated, echo.Map{})
}

// DeleteImage removes a user's profile image.
func (h *UserHandler) DeleteImage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	caller := sessionUser(c)

	target, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no user with specified id"})
		}
		return internalError(c, h.Log, err, "load user failed")
	}
	if target.ImageFilename == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user has no image"})
	}
	if err := policy.SetUserImage(caller, target); err != nil {
		return gateError(c, err)
	}

	if err := h.Images.Remove(*target.ImageFilename); err != nil {
		return internalError(c, h.Log, err, "remove image failed")
	}
	if err := h.Users.SetImage(c.Request().Context(), target.ID, nil); err != nil {
		return internalError(c, h.Log, err, "clear image failed")
	}
	return c.JSON(http.StatusOK, echo.Map{})
}
