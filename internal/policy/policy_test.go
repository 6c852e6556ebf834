package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/film-catalogue/internal/model"
)

var now = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func user(id uint64) *model.User { return &model.User{ID: id} }

func film(director uint64, release time.Time) model.Film {
	return model.Film{ID: 1, DirectorID: director, ReleaseDate: release}
}

func TestCreateFilm(t *testing.T) {
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name       string
		caller     *model.User
		titleTaken bool
		release    *time.Time
		wantErr    error
	}{
		{"anonymous", nil, false, nil, ErrUnauthenticated},
		{"title taken", user(1), true, nil, ErrForbidden},
		{"past release", user(1), false, &past, ErrForbidden},
		{"future release", user(1), false, &future, nil},
		{"default release", user(1), false, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CreateFilm(tt.caller, tt.titleTaken, tt.release, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestEditFilmRulesAreIndependent(t *testing.T) {
	future := now.Add(24 * time.Hour)
	later := now.Add(48 * time.Hour)
	past := now.Add(-24 * time.Hour)

	t.Run("non-director denied", func(t *testing.T) {
		err := EditFilm(user(2), film(1, future), nil, 0, now)
		assert.ErrorIs(t, err, ErrForbidden)
	})
	t.Run("reviewed film frozen", func(t *testing.T) {
		err := EditFilm(user(1), film(1, future), nil, 1, now)
		assert.ErrorIs(t, err, ErrForbidden)
	})
	t.Run("reviewed film frozen even without date change", func(t *testing.T) {
		err := EditFilm(user(1), film(1, past), nil, 3, now)
		assert.ErrorIs(t, err, ErrForbidden)
	})
	t.Run("released date cannot move", func(t *testing.T) {
		err := EditFilm(user(1), film(1, past), &later, 0, now)
		assert.ErrorIs(t, err, ErrForbidden)
	})
	t.Run("new date must be future", func(t *testing.T) {
		err := EditFilm(user(1), film(1, future), &past, 0, now)
		assert.ErrorIs(t, err, ErrForbidden)
	})
	t.Run("new date equal to now rejected", func(t *testing.T) {
		at := now
		err := EditFilm(user(1), film(1, future), &at, 0, now)
		assert.ErrorIs(t, err, ErrForbidden)
	})
	t.Run("past film editable when date untouched", func(t *testing.T) {
		assert.NoError(t, EditFilm(user(1), film(1, past), nil, 0, now))
	})
	t.Run("future date moves to another future date", func(t *testing.T) {
		assert.NoError(t, EditFilm(user(1), film(1, future), &later, 0, now))
	})
	t.Run("anonymous", func(t *testing.T) {
		assert.ErrorIs(t, EditFilm(nil, film(1, future), nil, 0, now), ErrUnauthenticated)
	})
}

func TestCreateReview(t *testing.T) {
	released := film(1, now.Add(-time.Hour))
	unreleased := film(1, now.Add(time.Hour))
	releasingNow := film(1, now)

	t.Run("director cannot self-review", func(t *testing.T) {
		assert.ErrorIs(t, CreateReview(user(1), released, false, now), ErrForbidden)
	})
	t.Run("unreleased film", func(t *testing.T) {
		assert.ErrorIs(t, CreateReview(user(2), unreleased, false, now), ErrForbidden)
	})
	t.Run("release date equal to now still counts as unreleased", func(t *testing.T) {
		assert.ErrorIs(t, CreateReview(user(2), releasingNow, false, now), ErrForbidden)
	})
	t.Run("second review denied", func(t *testing.T) {
		assert.ErrorIs(t, CreateReview(user(2), released, true, now), ErrForbidden)
	})
	t.Run("allowed", func(t *testing.T) {
		assert.NoError(t, CreateReview(user(2), released, false, now))
	})
	t.Run("anonymous", func(t *testing.T) {
		assert.ErrorIs(t, CreateReview(nil, released, false, now), ErrUnauthenticated)
	})
}

func TestDeleteFilm(t *testing.T) {
	f := film(1, now)
	assert.NoError(t, DeleteFilm(user(1), f))
	assert.ErrorIs(t, DeleteFilm(user(2), f), ErrForbidden)
	assert.ErrorIs(t, DeleteFilm(nil, f), ErrUnauthenticated)
}

func TestImageGates(t *testing.T) {
	f := film(3, now)
	assert.NoError(t, SetFilmImage(user(3), f))
	assert.ErrorIs(t, SetFilmImage(user(4), f), ErrForbidden)

	target := model.User{ID: 9}
	assert.NoError(t, SetUserImage(user(9), target))
	assert.ErrorIs(t, SetUserImage(user(8), target), ErrForbidden)
	assert.ErrorIs(t, SetUserImage(nil, target), ErrUnauthenticated)
}

func TestUpdateUser(t *testing.T) {
	self := model.User{ID: 5}
	other := model.User{ID: 6}

	t.Run("failed password re-verify is an identity error", func(t *testing.T) {
		err := UpdateUser(user(5), self, true, false, false, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
	t.Run("editing another profile", func(t *testing.T) {
		assert.ErrorIs(t, UpdateUser(user(5), other, false, false, false, false), ErrForbidden)
	})
	t.Run("email taken", func(t *testing.T) {
		assert.ErrorIs(t, UpdateUser(user(5), self, false, false, false, true), ErrForbidden)
	})
	t.Run("unchanged password", func(t *testing.T) {
		assert.ErrorIs(t, UpdateUser(user(5), self, true, true, true, false), ErrForbidden)
	})
	t.Run("allowed", func(t *testing.T) {
		assert.NoError(t, UpdateUser(user(5), self, true, true, false, false))
	})
}
