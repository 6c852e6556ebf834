package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/film-catalogue/internal/model"
	"github.com/iliyamo/film-catalogue/internal/policy"
	"github.com/iliyamo/film-catalogue/internal/queue"
	"github.com/iliyamo/film-catalogue/internal/repository"
)

// ReviewHandler serves per-film review endpoints.
type ReviewHandler struct {
	Films     FilmStore
	Reviews   ReviewStore
	Publisher ReviewEventPublisher
	Log       zerolog.Logger
}

func NewReviewHandler(films FilmStore, reviews ReviewStore, publisher ReviewEventPublisher, log zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{Films: films, Reviews: reviews, Publisher: publisher, Log: log}
}

type reviewCreateReq struct {
	Rating *int    `json:"rating"`
	Review *string `json:"review"`
}

// List handles GET /v1/films/:id/reviews.  A film with no reviews returns an
// empty array, not a 404.
func (h *ReviewHandler) List(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Films.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no film with id"})
		}
		return internalError(c, h.Log, err, "load film failed")
	}
	rows, err := h.Reviews.ListByFilm(ctx, id)
	if err != nil {
		return internalError(c, h.Log, err, "list reviews failed")
	}
	return c.JSON(http.StatusOK, rows)
}

// Create handles POST /v1/films/:id/reviews.
func (h *ReviewHandler) Create(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req reviewCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Rating == nil || *req.Rating < 1 || *req.Rating > 10 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 10"})
	}
	if req.Review == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "review is required"})
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

	already := false
	if caller != nil {
		already, err = h.Reviews.ExistsForUser(ctx, id, caller.ID)
		if err != nil {
			return internalError(c, h.Log, err, "check existing review failed")
		}
	}
	now := time.Now().UTC()
	if err := policy.CreateReview(caller, film, already, now); err != nil {
		return gateError(c, err)
	}

	rev := model.Review{FilmID: id, UserID: caller.ID, Rating: *req.Rating, Review: *req.Review, Timestamp: now}
	if err := h.Reviews.Create(ctx, &rev); err != nil {
		if errors.Is(err, repository.ErrAlreadyReviewed) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot review a film more than once"})
		}
		return internalError(c, h.Log, err, "create review failed")
	}

	if h.Publisher != nil {
		event := queue.ReviewCreatedEvent{
			FilmID:     id,
			FilmTitle:  film.Title,
			ReviewerID: caller.ID,
			DirectorID: film.DirectorID,
			Rating:     rev.Rating,
			CreatedAt:  now.Format(time.RFC3339),
		}
		if err := h.Publisher.PublishReviewCreated(ctx, event); err != nil {
			h.Log.Warn().Err(err).Uint64("film_id", id).Msg("publish review event failed")
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{})
}
