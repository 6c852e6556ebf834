package model

import "time"

// Review represents a row in the `film_review` table.  A user may review a
// given film at most once, enforced both by a pre-check and by the unique
// (film_id, user_id) index.  Reviews are immutable once created.
type Review struct {
	ID        uint64    // film_review.id
	FilmID    uint64    // film_review.film_id
	UserID    uint64    // film_review.user_id
	Rating    int       // film_review.rating
	Review    string    // film_review.review
	Timestamp time.Time // film_review.timestamp
}
