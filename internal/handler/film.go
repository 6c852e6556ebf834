package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/film-catalogue/internal/model"
	"github.com/iliyamo/film-catalogue/internal/policy"
	"github.com/iliyamo/film-catalogue/internal/repository"
)

// FilmHandler serves film browse and mutation endpoints.
type FilmHandler struct {
	Films   FilmStore
	Genres  GenreStore
	Reviews ReviewStore
	Images  ImageStore
	Log     zerolog.Logger
}

func NewFilmHandler(films FilmStore, genres GenreStore, reviews ReviewStore, images ImageStore, log zerolog.Logger) *FilmHandler {
	return &FilmHandler{Films: films, Genres: genres, Reviews: reviews, Images: images, Log: log}
}

type filmCreateReq struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	GenreID     uint64  `json:"genreId"`
	ReleaseDate *string `json:"releaseDate"`
	Runtime     *int    `json:"runtime"`
	AgeRating   *string `json:"ageRating"`
}

type filmUpdateReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	GenreID     *uint64 `json:"genreId"`
	ReleaseDate *string `json:"releaseDate"`
	Runtime     *int    `json:"runtime"`
	AgeRating   *string `json:"ageRating"`
}

// List handles GET /v1/films.  Every query parameter maps onto one fragment
// of a FilmQuery built fresh for this request.
func (h *FilmHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	q := repository.NewFilmQuery()

	if v := c.QueryParam("startIndex"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid startIndex"})
		}
		q.SetOffset(n)
	}
	if v := c.QueryParam("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid count"})
		}
		q.SetLimit(n)
	}
	if v := c.QueryParam("sortBy"); v != "" {
		q.SetSort(v)
	}
	if v := c.QueryParam("q"); v != "" {
		q.AddTextSearch(v)
	}
	if v := c.QueryParam("directorId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid directorId"})
		}
		q.AddEquality(repository.FieldDirectorID, id)
	}
	if v := c.QueryParam("reviewerId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reviewerId"})
		}
		q.AddReviewer(id)
	}
	if v := c.QueryParam("genreIds"); v != "" {
		ids := []any{}
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid genreIds"})
			}
			ok, err := h.Genres.Exists(ctx, id)
			if err != nil {
				return internalError(c, h.Log, err, "check genre failed")
			}
			if !ok {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown genre id"})
			}
			ids = append(ids, id)
		}
		q.AddMembership(repository.FieldGenreID, ids)
	}
	if v := c.QueryParam("ageRatings"); v != "" {
		ratings := []any{}
		for _, part := range strings.Split(v, ",") {
			ratings = append(ratings, strings.TrimSpace(part))
		}
		q.AddMembership(repository.FieldAgeRating, ratings)
	}

	films, count, err := h.Films.Search(ctx, q)
	if err != nil {
		return internalError(c, h.Log, err, "film search failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"films": films, "count": count})
}

// ListGenres handles GET /v1/films/genres.
func (h *FilmHandler) ListGenres(c echo.Context) error {
	genres, err := h.Genres.List(c.Request().Context())
	if err != nil {
		return internalError(c, h.Log, err, "list genres failed")
	}
	return c.JSON(http.StatusOK, genres)
}

// Detail handles GET /v1/films/:id.
func (h *FilmHandler) Detail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	d, err := h.Films.Detail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no film with id"})
		}
		return internalError(c, h.Log, err, "load film failed")
	}
	return c.JSON(http.StatusOK, d)
}

// Create handles POST /v1/films.  The release date defaults to now; the age
// rating defaults to TBC.  One INSERT writes the whole row.
func (h *FilmHandler) Create(c echo.Context) error {
	var req filmCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title == "" || req.Description == "" || req.GenreID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, description and genreId are required"})
	}

	var release *time.Time
	if req.ReleaseDate != nil {
		t, err := parseDateTime(*req.ReleaseDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid releaseDate"})
		}
		release = &t
	}

	ctx := c.Request().Context()
	caller := sessionUser(c)

	ok, err := h.Genres.Exists(ctx, req.GenreID)
	if err != nil {
		return internalError(c, h.Log, err, "check genre failed")
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown genre id"})
	}

	titleTaken, err := h.Films.TitleInUse(ctx, req.Title)
	if err != nil {
		return internalError(c, h.Log, err, "check title failed")
	}
	now := time.Now().UTC()
	if err := policy.CreateFilm(caller, titleTaken, release, now); err != nil {
		return gateError(c, err)
	}

	film := model.Film{
		Title:       req.Title,
		Description: req.Description,
		GenreID:     req.GenreID,
		DirectorID:  caller.ID,
		ReleaseDate: now,
		Runtime:     req.Runtime,
		AgeRating:   "TBC",
	}
	if release != nil {
		film.ReleaseDate = *release
	}
	if req.AgeRating != nil {
		film.AgeRating = *req.AgeRating
	}

	id, err := h.Films.Create(ctx, &film)
	if err != nil {
		if errors.Is(err, repository.ErrTitleExists) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "film title is already in use"})
		}
		return internalError(c, h.Log, err, "create film failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"filmId": id})
}

// Edit handles PATCH /v1/films/:id.  Only the director may edit, only while
// the film has no reviews, and release dates can only move between future
// values.
func (h *FilmHandler) Edit(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req filmUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title != nil && *req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title cannot be empty"})
	}
	if req.Description != nil && *req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "description cannot be empty"})
	}

	var newRelease *time.Time
	if req.ReleaseDate != nil {
		t, err := parseDateTime(*req.ReleaseDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid releaseDate"})
		}
		newRelease = &t
	}

	ctx := c.Request().Context()
	caller := sessionUser(c)

	film, err := h.Films.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no film with id"})
		}
		return internalError(c, h.Log, err, "load film failed")
	}

	if req.GenreID != nil {
		ok, err := h.Genres.Exists(ctx, *req.GenreID)
		if err != nil {
			return internalError(c, h.Log, err, "check genre failed")
		}
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown genre id"})
		}
	}

	reviewCount, err := h.Reviews.CountByFilm(ctx, id)
	if err != nil {
		return internalError(c, h.Log, err, "count reviews failed")
	}
	if err := policy.EditFilm(caller, film, newRelease, reviewCount, time.Now().UTC()); err != nil {
		return gateError(c, err)
	}

	upd := model.FilmUpdate{
		Title:       req.Title,
		Description: req.Description,
		GenreID:     req.GenreID,
		ReleaseDate: newRelease,
		Runtime:     req.Runtime,
		AgeRating:   req.AgeRating,
	}
	if err := h.Films.Update(ctx, id, upd); err != nil {
		if errors.Is(err, repository.ErrTitleExists) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "film title is already in use"})
		}
		return internalError(c, h.Log, err, "update film failed")
	}
	return c.JSON(http.StatusOK, echo.Map{})
}

// Delete handles DELETE /v1/films/:id.  Reviews cascade in the same
// transaction; the stored hero image is removed best-effort afterwards.
func (h *FilmHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	caller := sessionUser(c)

	film, err := h.Films.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no film with id"})
		}
		return internalError(c, h.Log, err, "load film failed")
	}
	if err := policy.DeleteFilm(caller, film); err != nil {
		return gateError(c, err)
	}

	if err := h.Films.Delete(ctx, id); err != nil {
		return internalError(c, h.Log, err, "delete film failed")
	}
	if film.ImageFilename != nil {
		if err := h.Images.Remove(*film.ImageFilename); err != nil {
			h.Log.Warn().Err(err).Uint64("film_id", id).Msg("remove film image failed")
		}
	}
	return c.JSON(http.StatusOK, echo.Map{})
}
