package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/film-catalogue/internal/model"
)

// FilmRepo provides persistence for the 'film' table.
type FilmRepo struct{ DB *sql.DB }

func NewFilmRepo(db *sql.DB) *FilmRepo { return &FilmRepo{DB: db} }

const filmColumns = "id, title, description, genre_id, director_id, release_date, runtime, age_rating, image_filename"

// GetByID fetches a film by id.
func (r *FilmRepo) GetByID(ctx context.Context, id uint64) (model.Film, error) {
	var f model.Film
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+filmColumns+" FROM film WHERE id=? LIMIT 1", id).Scan(
		&f.ID, &f.Title, &f.Description, &f.GenreID, &f.DirectorID,
		&f.ReleaseDate, &f.Runtime, &f.AgeRating, &f.ImageFilename)
	return f, err
}

// TitleInUse reports whether any film already uses the given title.
func (r *FilmRepo) TitleInUse(ctx context.Context, title string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM film WHERE title=?", title).Scan(&n)
	return n > 0, err
}

// Create inserts a fully-populated film in a single statement and returns its
// ID.  Writing every column at once means a failure cannot leave a film half
// initialized.
func (r *FilmRepo) Create(ctx context.Context, f *model.Film) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO film (title, description, genre_id, director_id, release_date, runtime, age_rating)
		 VALUES (?,?,?,?,?,?,?)`,
		f.Title, f.Description, f.GenreID, f.DirectorID, f.ReleaseDate, f.Runtime, f.AgeRating)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrTitleExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update applies the non-nil fields of upd to the film row in a single
// statement.  The director column is never part of the SET list.
func (r *FilmRepo) Update(ctx context.Context, id uint64, upd model.FilmUpdate) error {
	set := []string{}
	args := []any{}
	if upd.Title != nil {
		set = append(set, "title=?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		set = append(set, "description=?")
		args = append(args, *upd.Description)
	}
	if upd.GenreID != nil {
		set = append(set, "genre_id=?")
		args = append(args, *upd.GenreID)
	}
	if upd.ReleaseDate != nil {
		set = append(set, "release_date=?")
		args = append(args, *upd.ReleaseDate)
	}
	if upd.Runtime != nil {
		set = append(set, "runtime=?")
		args = append(args, *upd.Runtime)
	}
	if upd.AgeRating != nil {
		set = append(set, "age_rating=?")
		args = append(args, *upd.AgeRating)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE film SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
	if isDuplicateKey(err) {
		return ErrTitleExists
	}
	return err
}

// Delete removes a film and all of its reviews in one transaction so a
// failure part-way cannot orphan review rows.
func (r *FilmRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM film_review WHERE film_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM film WHERE id=?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// SetImage records the stored hero image filename for a film.
func (r *FilmRepo) SetImage(ctx context.Context, id uint64, filename *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE film SET image_filename=? WHERE id=?", filename, id)
	return err
}

// FilmDetail is the single-film view: the listing row plus description,
// runtime and the review count.
type FilmDetail struct {
	FilmID            uint64    `json:"filmId"`
	Title             string    `json:"title"`
	GenreID           uint64    `json:"genreId"`
	AgeRating         string    `json:"ageRating"`
	DirectorID        uint64    `json:"directorId"`
	DirectorFirstName string    `json:"directorFirstName"`
	DirectorLastName  string    `json:"directorLastName"`
	Rating            float64   `json:"rating"`
	ReleaseDate       time.Time `json:"releaseDate"`
	Description       string    `json:"description"`
	Runtime           *int      `json:"runtime"`
	NumReviews        int       `json:"numReviews"`
}

// Detail fetches one film joined with its director's name, average rating and
// review count.  sql.ErrNoRows is returned when the film does not exist.
func (r *FilmRepo) Detail(ctx context.Context, id uint64) (FilmDetail, error) {
	var d FilmDetail
	var avg sql.NullFloat64
	err := r.DB.QueryRowContext(ctx, `
		SELECT f.id, f.title, f.genre_id, f.age_rating, f.director_id,
		       d.first_name, d.last_name, f.release_date, f.description, f.runtime,
		       AVG(fr.rating), COUNT(fr.rating)
		FROM film f
		JOIN user d ON d.id = f.director_id
		LEFT JOIN film_review fr ON fr.film_id = f.id
		WHERE f.id = ?
		GROUP BY f.id, d.first_name, d.last_name`, id).Scan(
		&d.FilmID, &d.Title, &d.GenreID, &d.AgeRating, &d.DirectorID,
		&d.DirectorFirstName, &d.DirectorLastName, &d.ReleaseDate,
		&d.Description, &d.Runtime, &avg, &d.NumReviews)
	if err != nil {
		return FilmDetail{}, err
	}
	d.Rating = RoundRating(avg)
	return d, nil
}
