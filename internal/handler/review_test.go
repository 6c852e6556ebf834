package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/film-catalogue/internal/middleware"
	"github.com/iliyamo/film-catalogue/internal/model"
	"github.com/iliyamo/film-catalogue/internal/repository"
)

func releasedFilm(director uint64) map[uint64]model.Film {
	return map[uint64]model.Film{
		5: {ID: 5, Title: "Solaris", DirectorID: director, ReleaseDate: time.Now().UTC().Add(-24 * time.Hour)},
	}
}

func TestReviewListUnknownFilm(t *testing.T) {
	h := NewReviewHandler(&stubFilmStore{}, &stubReviewStore{}, nil, zerolog.Nop())

	c, rec := newContext(t, http.MethodGet, "/v1/films/5/reviews", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviewListEmptyIsOK(t *testing.T) {
	films := &stubFilmStore{films: releasedFilm(1)}
	h := NewReviewHandler(films, &stubReviewStore{rows: []repository.ReviewRow{}}, nil, zerolog.Nop())

	c, rec := newContext(t, http.MethodGet, "/v1/films/5/reviews", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.List(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestReviewCreatePublishesEvent(t *testing.T) {
	films := &stubFilmStore{films: releasedFilm(1)}
	reviews := &stubReviewStore{}
	publisher := &stubPublisher{}
	h := NewReviewHandler(films, reviews, publisher, zerolog.Nop())

	c, rec := newContext(t, http.MethodPost, "/v1/films/5/reviews",
		`{"rating":8,"review":"Slow but rewarding."}`)
	c.SetParamNames("id")
	c.SetParamValues("5")
	middleware.WithUser(c, model.User{ID: 2})
	require.NoError(t, h.Create(c))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 8, reviews.lastCreate.Rating)
	assert.Equal(t, uint64(2), reviews.lastCreate.UserID)

	require.Len(t, publisher.events, 1)
	ev := publisher.events[0]
	assert.Equal(t, uint64(5), ev.FilmID)
	assert.Equal(t, "Solaris", ev.FilmTitle)
	assert.Equal(t, uint64(2), ev.ReviewerID)
	assert.Equal(t, uint64(1), ev.DirectorID)
}

func TestReviewCreatePublishFailureIsIgnored(t *testing.T) {
	films := &stubFilmStore{films: releasedFilm(1)}
	publisher := &stubPublisher{err: assert.AnError}
	h := NewReviewHandler(films, &stubReviewStore{}, publisher, zerolog.Nop())

	c, rec := newContext(t, http.MethodPost, "/v1/films/5/reviews", `{"rating":8,"review":"Fine."}`)
	c.SetParamNames("id")
	c.SetParamValues("5")
	middleware.WithUser(c, model.User{ID: 2})
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestReviewCreateRatingBounds(t *testing.T) {
	h := NewReviewHandler(&stubFilmStore{films: releasedFilm(1)}, &stubReviewStore{}, nil, zerolog.Nop())

	for _, body := range []string{`{}`, `{"rating":0}`, `{"rating":11}`, `{"rating":8}`, `{"review":"Fine."}`} {
		c, rec := newContext(t, http.MethodPost, "/v1/films/5/reviews", body)
		c.SetParamNames("id")
		c.SetParamValues("5")
		middleware.WithUser(c, model.User{ID: 2})
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestReviewCreateDirectorDenied(t *testing.T) {
	h := NewReviewHandler(&stubFilmStore{films: releasedFilm(2)}, &stubReviewStore{}, nil, zerolog.Nop())

	c, rec := newContext(t, http.MethodPost, "/v1/films/5/reviews", `{"rating":8,"review":"Fine."}`)
	c.SetParamNames("id")
	c.SetParamValues("5")
	middleware.WithUser(c, model.User{ID: 2})
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReviewCreateUnreleasedFilm(t *testing.T) {
	films := &stubFilmStore{films: map[uint64]model.Film{
		5: {ID: 5, DirectorID: 1, ReleaseDate: time.Now().UTC().Add(24 * time.Hour)},
	}}
	h := NewReviewHandler(films, &stubReviewStore{}, nil, zerolog.Nop())

	c, rec := newContext(t, http.MethodPost, "/v1/films/5/reviews", `{"rating":8,"review":"Fine."}`)
	c.SetParamNames("id")
	c.SetParamValues("5")
	middleware.WithUser(c, model.User{ID: 2})
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReviewCreateSecondReviewDenied(t *testing.T) {
	h := NewReviewHandler(&stubFilmStore{films: releasedFilm(1)}, &stubReviewStore{exists: true}, nil, zerolog.Nop())

	c, rec := newContext(t, http.MethodPost, "/v1/films/5/reviews", `{"rating":8,"review":"Fine."}`)
	c.SetParamNames("id")
	c.SetParamValues("5")
	middleware.WithUser(c, model.User{ID: 2})
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
