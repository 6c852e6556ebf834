package handler

import (
	"database/sql"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/film-catalogue/internal/policy"
	"github.com/iliyamo/film-catalogue/internal/storage"
)

// GetImage handles GET /v1/films/:id/image.
func (h *FilmHandler) GetImage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	film, err := h.Films.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no film with id"})
		}
		return internalError(c, h.Log, err, "load film failed")
	}
	if film.ImageFilename == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "film has no image"})
	}
	data, err := h.Images.Read(*film.ImageFilename)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "film has no image"})
	}
	return c.Blob(http.StatusOK, storage.ContentTypeForFilename(*film.ImageFilename), data)
}

// SetImage handles PUT /v1/films/:id/image.  An unsupported content type is
// rejected before the session or the film is looked at.
func (h *FilmHandler) SetImage(c echo.Context) error {
	ext, ok := storage.ExtensionForContentType(c.Request().Header.Get(echo.HeaderContentType))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported image content type"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	caller := sessionUser(c)
	if caller == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := c.Request().Context()
	film, err := h.Films.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no film with id"})
		}
		return internalError(c, h.Log, err, "load film failed")
	}
	if err := policy.SetFilmImage(caller, film); err != nil {
		return gateError(c, err)
	}

	data, err := io.ReadAll(c.Request().Body)
	if err != nil || len(data) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "empty image body"})
	}

	hadImage := film.ImageFilename != nil
	name := storage.FilmImageName(id, ext)
	if err := h.Images.Save(name, data); err != nil {
		return internalError(c, h.Log, err, "save film image failed")
	}
	if hadImage && *film.ImageFilename != name {
		if err := h.Images.Remove(*film.ImageFilename); err != nil {
			h.Log.Warn().Err(err).Uint64("film_id", id).Msg("remove old film image failed")
		}
	}
	if err := h.Films.SetImage(ctx, id, &name); err != nil {
		return internalError(c, h.Log, err, "store film image name failed")
	}
	if hadImage {
		return c.JSON(http.StatusOK, echo.Map{})
	}
	return c.JSON(http.StatusCreated, echo.Map{})
}
