package handler

import (
	"context"
	"database/sql"

	"github.com/iliyamo/film-catalogue/internal/model"
	"github.com/iliyamo/film-catalogue/internal/queue"
	"github.com/iliyamo/film-catalogue/internal/repository"
)

// In-memory stubs satisfying the store interfaces.  Each records the calls a
// test needs to observe and returns canned data or errors.

type stubUserStore struct {
	users     map[uint64]model.User
	createID  uint64
	createErr error
	updateErr error

	lastUpdate    model.UserUpdate
	lastTokenHash *string
	tokenCleared  bool
	emailInUse    bool
}

func (s *stubUserStore) Create(ctx context.Context, firstName, lastName, email, passwordHash string) (uint64, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	return s.createID, nil
}

func (s *stubUserStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (s *stubUserStore) EmailInUse(ctx context.Context, email string) (bool, error) {
	return s.emailInUse, nil
}

func (s *stubUserStore) SetSessionToken(ctx context.Context, id uint64, tokenHash *string) error {
	s.lastTokenHash = tokenHash
	if tokenHash == nil {
		s.tokenCleared = true
	}
	return nil
}

func (s *stubUserStore) Update(ctx context.Context, id uint64, upd model.UserUpdate) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.lastUpdate = upd
	return nil
}

func (s *stubUserStore) SetImage(ctx context.Context, id uint64, filename *string) error {
	u, ok := s.users[id]
	if ok {
		u.ImageFilename = filename
		s.users[id] = u
	}
	return nil
}

type stubFilmStore struct {
	films     map[uint64]model.Film
	detail    repository.FilmDetail
	detailErr error

	titleTaken bool
	createID   uint64
	createErr  error
	updateErr  error

	lastCreate model.Film
	lastUpdate model.FilmUpdate
	deletedID  uint64
	imageName  *string

	searchRows  []repository.FilmRow
	searchCount int64
	lastQuery   *repository.FilmQuery
}

func (s *stubFilmStore) GetByID(ctx context.Context, id uint64) (model.Film, error) {
	f, ok := s.films[id]
	if !ok {
		return model.Film{}, sql.ErrNoRows
	}
	return f, nil
}

func (s *stubFilmStore) Detail(ctx context.Context, id uint64) (repository.FilmDetail, error) {
	if s.detailErr != nil {
		return repository.FilmDetail{}, s.detailErr
	}
	return s.detail, nil
}

func (s *stubFilmStore) TitleInUse(ctx context.Context, title string) (bool, error) {
	return s.titleTaken, nil
}

func (s *stubFilmStore) Create(ctx context.Context, f *model.Film) (uint64, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	s.lastCreate = *f
	return s.createID, nil
}

func (s *stubFilmStore) Update(ctx context.Context, id uint64, upd model.FilmUpdate) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.lastUpdate = upd
	return nil
}

func (s *stubFilmStore) Delete(ctx context.Context, id uint64) error {
	s.deletedID = id
	return nil
}

func (s *stubFilmStore) SetImage(ctx context.Context, id uint64, filename *string) error {
	s.imageName = filename
	return nil
}

func (s *stubFilmStore) Search(ctx context.Context, q *repository.FilmQuery) ([]repository.FilmRow, int64, error) {
	s.lastQuery = q
	return s.searchRows, s.searchCount, nil
}

type stubGenreStore struct {
	genres   []model.Genre
	existing map[uint64]bool
}

func (s *stubGenreStore) List(ctx context.Context) ([]model.Genre, error) {
	return s.genres, nil
}

func (s *stubGenreStore) Exists(ctx context.Context, id uint64) (bool, error) {
	return s.existing[id], nil
}

type stubReviewStore struct {
	rows      []repository.ReviewRow
	exists    bool
	count     int
	createErr error

	lastCreate model.Review
}

func (s *stubReviewStore) ListByFilm(ctx context.Context, filmID uint64) ([]repository.ReviewRow, error) {
	return s.rows, nil
}

func (s *stubReviewStore) Create(ctx context.Context, rev *model.Review) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.lastCreate = *rev
	return nil
}

func (s *stubReviewStore) ExistsForUser(ctx context.Context, filmID, userID uint64) (bool, error) {
	return s.exists, nil
}

func (s *stubReviewStore) CountByFilm(ctx context.Context, filmID uint64) (int, error) {
	return s.count, nil
}

type stubImageStore struct {
	files map[string][]byte
}

func newStubImageStore() *stubImageStore {
	return &stubImageStore{files: map[string][]byte{}}
}

func (s *stubImageStore) Save(filename string, data []byte) error {
	s.files[filename] = data
	return nil
}

func (s *stubImageStore) Read(filename string) ([]byte, error) {
	b, ok := s.files[filename]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return b, nil
}

func (s *stubImageStore) Remove(filename string) error {
	delete(s.files, filename)
	return nil
}

type stubPublisher struct {
	events []queue.ReviewCreatedEvent
	err    error
}

func (s *stubPublisher) PublishReviewCreated(ctx context.Context, ev queue.ReviewCreatedEvent) error {
	s.events = append(s.events, ev)
	return s.err
}
