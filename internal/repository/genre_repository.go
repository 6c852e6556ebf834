package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/film-catalogue/internal/model"
)

// GenreRepo reads the 'genre' reference table.  Genres are seed data; this
// service never writes them.
type GenreRepo struct{ DB *sql.DB }

func NewGenreRepo(db *sql.DB) *GenreRepo { return &GenreRepo{DB: db} }

// List returns all genres ordered by name.
func (r *GenreRepo) List(ctx context.Context) ([]model.Genre, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name FROM genre ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Genre{}
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Exists reports whether a genre id is present.
func (r *GenreRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM genre WHERE id=?", id).Scan(&n)
	return n > 0, err
}
