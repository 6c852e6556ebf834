package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/film-catalogue/internal/model"
)

// ReviewRepo provides persistence for the 'film_review' table.
type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// ReviewRow is one review joined with the reviewer's name, shaped for the
// JSON response.
type ReviewRow struct {
	ReviewerID        uint64    `json:"reviewerId"`
	Rating            int       `json:"rating"`
	Review            string    `json:"review"`
	ReviewerFirstName string    `json:"reviewerFirstName"`
	ReviewerLastName  string    `json:"reviewerLastName"`
	Timestamp         time.Time `json:"timestamp"`
}

// ListByFilm returns all reviews of a film, newest first.
func (r *ReviewRepo) ListByFilm(ctx context.Context, filmID uint64) ([]ReviewRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT fr.user_id, fr.rating, fr.review, u.first_name, u.last_name, fr.timestamp
		FROM film_review fr
		JOIN user u ON u.id = fr.user_id
		WHERE fr.film_id = ?
		ORDER BY fr.timestamp DESC, fr.id ASC`, filmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ReviewRow{}
	for rows.Next() {
		var row ReviewRow
		if err := rows.Scan(&row.ReviewerID, &row.Rating, &row.Review,
			&row.ReviewerFirstName, &row.ReviewerLastName, &row.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Create inserts a review.  The unique (film_id, user_id) index turns a
// concurrent duplicate into ErrAlreadyReviewed rather than a second row.
func (r *ReviewRepo) Create(ctx context.Context, rev *model.Review) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO film_review (film_id, user_id, rating, review, timestamp) VALUES (?,?,?,?,?)",
		rev.FilmID, rev.UserID, rev.Rating, rev.Review, rev.Timestamp)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrAlreadyReviewed
		}
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		rev.ID = uint64(id)
	}
	return nil
}

// ExistsForUser reports whether the user has already reviewed the film.
func (r *ReviewRepo) ExistsForUser(ctx context.Context, filmID, userID uint64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM film_review WHERE film_id=? AND user_id=?",
		filmID, userID).Scan(&n)
	return n > 0, err
}

// CountByFilm returns the number of reviews a film has.
func (r *ReviewRepo) CountByFilm(ctx context.Context, filmID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM film_review WHERE film_id=?", filmID).Scan(&n)
	return n, err
}
