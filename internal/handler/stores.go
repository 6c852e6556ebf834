package handler

import (
	"context"

	"github.com/iliyamo/film-catalogue/internal/model"
	"github.com/iliyamo/film-catalogue/internal/queue"
	"github.com/iliyamo/film-catalogue/internal/repository"
)

// The store interfaces below describe exactly what the handlers consume.
// The concrete repositories satisfy them; tests substitute stubs.

// UserStore persists users and their sessions.
type UserStore interface {
	Create(ctx context.Context, firstName, lastName, email, passwordHash string) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	EmailInUse(ctx context.Context, email string) (bool, error)
	SetSessionToken(ctx context.Context, id uint64, tokenHash *string) error
	Update(ctx context.Context, id uint64, upd model.UserUpdate) error
	SetImage(ctx context.Context, id uint64, filename *string) error
}

// FilmStore persists films and runs listing queries.
type FilmStore interface {
	GetByID(ctx context.Context, id uint64) (model.Film, error)
	Detail(ctx context.Context, id uint64) (repository.FilmDetail, error)
	TitleInUse(ctx context.Context, title string) (bool, error)
	Create(ctx context.Context, f *model.Film) (uint64, error)
	Update(ctx context.Context, id uint64, upd model.FilmUpdate) error
	Delete(ctx context.Context, id uint64) error
	SetImage(ctx context.Context, id uint64, filename *string) error
	Search(ctx context.Context, q *repository.FilmQuery) ([]repository.FilmRow, int64, error)
}

// GenreStore reads genre reference data.
type GenreStore interface {
	List(ctx context.Context) ([]model.Genre, error)
	Exists(ctx context.Context, id uint64) (bool, error)
}

// ReviewStore persists film reviews.
type ReviewStore interface {
	ListByFilm(ctx context.Context, filmID uint64) ([]repository.ReviewRow, error)
	Create(ctx context.Context, rev *model.Review) error
	ExistsForUser(ctx context.Context, filmID, userID uint64) (bool, error)
	CountByFilm(ctx context.Context, filmID uint64) (int, error)
}

// ImageStore reads and writes image files.
type ImageStore interface {
	Save(filename string, data []byte) error
	Read(filename string) ([]byte, error)
	Remove(filename string) error
}

// ReviewEventPublisher emits review.created events; publishing failures are
// never surfaced to the client.
type ReviewEventPublisher interface {
	PublishReviewCreated(ctx context.Context, ev queue.ReviewCreatedEvent) error
}
