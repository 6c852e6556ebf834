package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"
)

// FilmField enumerates the columns a listing may filter on.  Keeping this a
// closed set means caller-controlled input only ever selects from these
// fragments; values themselves are always bound as ? parameters.
type FilmField int

const (
	FieldGenreID FilmField = iota
	FieldDirectorID
	FieldAgeRating
)

func (f FilmField) column() string {
	switch f {
	case FieldGenreID:
		return "f.genre_id"
	case FieldDirectorID:
		return "f.director_id"
	default:
		return "f.age_rating"
	}
}

// Sort keys accepted by SetSort.  Anything else falls back to SortRatingDesc.
const (
	SortAlphabeticalAsc  = "ALPHABETICAL_ASC"
	SortAlphabeticalDesc = "ALPHABETICAL_DESC"
	SortReleasedAsc      = "RELEASED_ASC"
	SortReleasedDesc     = "RELEASED_DESC"
	SortRatingAsc        = "RATING_ASC"
	SortRatingDesc       = "RATING_DESC"
)

// FilmQuery accumulates the fragments of one film listing: conjunctive WHERE
// predicates, pagination and sort order.  A query belongs to a single request;
// build a fresh one with NewFilmQuery for every listing so concurrent requests
// never share state.
type FilmQuery struct {
	where        []string
	args         []any
	reviewerJoin bool
	orderBy      string
	limit        int
	offset       int
}

// NewFilmQuery returns an empty query: no filters, no limit, offset zero and
// the default release-date-ascending order.  Every ORDER BY variant carries a
// trailing f.id ASC so ties page deterministically.
func NewFilmQuery() *FilmQuery {
	return &FilmQuery{
		orderBy: "f.release_date ASC, f.id ASC",
		limit:   -1,
	}
}

// AddEquality ANDs an equality predicate on a filterable column.
func (q *FilmQuery) AddEquality(field FilmField, value any) {
	q.where = append(q.where, field.column()+" = ?")
	q.args = append(q.args, value)
}

// AddTextSearch ANDs a case-insensitive substring match against title or
// description.
func (q *FilmQuery) AddTextSearch(text string) {
	pat := "%" + strings.ToLower(text) + "%"
	q.where = append(q.where, "(LOWER(f.title) LIKE ? OR LOWER(f.description) LIKE ?)")
	q.args = append(q.args, pat, pat)
}

// AddMembership ANDs a predicate that the column equals any of the given
// values.  An empty set is ignored rather than producing invalid SQL.
func (q *FilmQuery) AddMembership(field FilmField, values []any) {
	if len(values) == 0 {
		return
	}
	placeholders := strings.Repeat("?,", len(values))
	q.where = append(q.where, field.column()+" IN ("+placeholders[:len(placeholders)-1]+")")
	q.args = append(q.args, values...)
}

// AddReviewer restricts the listing to films the given user has reviewed.
// This is the one filter that needs the reviews join.
func (q *FilmQuery) AddReviewer(userID uint64) {
	q.reviewerJoin = true
	q.where = append(q.where, "r.user_id = ?")
	q.args = append(q.args, userID)
}

// SetLimit caps the page size.  Without a call there is no limit.
func (q *FilmQuery) SetLimit(n int) { q.limit = n }

// SetOffset skips the first n matching films.  Without a call paging starts
// at zero.
func (q *FilmQuery) SetOffset(n int) { q.offset = n }

// SetSort selects the result order.  Unrecognized keys fall back to rating
// descending, matching the documented default for explicit sorts.
func (q *FilmQuery) SetSort(key string) {
	switch key {
	case SortAlphabeticalAsc:
		q.orderBy = "f.title ASC, f.id ASC"
	case SortAlphabeticalDesc:
		q.orderBy = "f.title DESC, f.id ASC"
	case SortReleasedAsc:
		q.orderBy = "f.release_date ASC, f.id ASC"
	case SortReleasedDesc:
		q.orderBy = "f.release_date DESC, f.id ASC"
	case SortRatingAsc:
		q.orderBy = "avg_rating ASC, f.id ASC"
	default:
		q.orderBy = "avg_rating DESC, f.id ASC"
	}
}

// body assembles the shared FROM/WHERE/GROUP BY core used by both the page
// query and the count query, so the two can never disagree on which films
// match.
func (q *FilmQuery) body() string {
	var b strings.Builder
	b.WriteString(`FROM film f
JOIN user d ON d.id = f.director_id`)
	if q.reviewerJoin {
		b.WriteString("\nJOIN film_review r ON r.film_id = f.id")
	}
	if len(q.where) > 0 {
		b.WriteString("\nWHERE " + strings.Join(q.where, " AND "))
	}
	b.WriteString("\nGROUP BY f.id, d.first_name, d.last_name")
	return b.String()
}

const filmSelectColumns = `f.id, f.title, f.genre_id, f.age_rating, f.director_id,
d.first_name, d.last_name, f.release_date,
(SELECT AVG(fr.rating) FROM film_review fr WHERE fr.film_id = f.id) AS avg_rating`

// selectSQL renders the page query with its bind arguments.
func (q *FilmQuery) selectSQL() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT " + filmSelectColumns + "\n")
	b.WriteString(q.body())
	b.WriteString("\nORDER BY " + q.orderBy)

	args := append([]any{}, q.args...)
	switch {
	case q.limit >= 0:
		b.WriteString("\nLIMIT ? OFFSET ?")
		args = append(args, q.limit, q.offset)
	case q.offset > 0:
		// MySQL requires a LIMIT before OFFSET; the documented idiom for
		// "no limit" is the maximum unsigned value.
		b.WriteString("\nLIMIT 18446744073709551615 OFFSET ?")
		args = append(args, q.offset)
	}
	return b.String(), args
}

// countSQL renders the total-count query.  It shares body() with selectSQL
// and ignores limit/offset, so pagination metadata always agrees with the
// page contents.
func (q *FilmQuery) countSQL() (string, []any) {
	sqlText := "SELECT COUNT(*) FROM (SELECT f.id\n" + q.body() + "\n) AS matched"
	return sqlText, append([]any{}, q.args...)
}

// FilmRow is one element of a listing page, shaped for the JSON response.
type FilmRow struct {
	FilmID            uint64    `json:"filmId"`
	Title             string    `json:"title"`
	GenreID           uint64    `json:"genreId"`
	AgeRating         string    `json:"ageRating"`
	DirectorID        uint64    `json:"directorId"`
	DirectorFirstName string    `json:"directorFirstName"`
	DirectorLastName  string    `json:"directorLastName"`
	Rating            float64   `json:"rating"`
	ReleaseDate       time.Time `json:"releaseDate"`
}

// Search executes the accumulated query and returns the result page together
// with the total number of matching films (ignoring limit/offset).
func (r *FilmRepo) Search(ctx context.Context, q *FilmQuery) ([]FilmRow, int64, error) {
	countText, countArgs := q.countSQL()
	var total int64
	if err := r.DB.QueryRowContext(ctx, countText, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageText, pageArgs := q.selectSQL()
	rows, err := r.DB.QueryContext(ctx, pageText, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []FilmRow{}
	for rows.Next() {
		var f FilmRow
		var avg sql.NullFloat64
		if err := rows.Scan(
			&f.FilmID, &f.Title, &f.GenreID, &f.AgeRating, &f.DirectorID,
			&f.DirectorFirstName, &f.DirectorLastName, &f.ReleaseDate, &avg,
		); err != nil {
			return nil, 0, err
		}
		f.Rating = RoundRating(avg)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// RoundRating converts a nullable rating average into the response value:
// rounded to at most two decimal places, zero when the film has no reviews.
// Trailing zeros drop out naturally when the float is serialized (4.50 -> 4.5,
// 4.00 -> 4).
func RoundRating(avg sql.NullFloat64) float64 {
	if !avg.Valid {
		return 0
	}
	return math.Round(avg.Float64*100) / 100
}

// String renders the page SQL for debug logging.
func (q *FilmQuery) String() string {
	text, args := q.selectSQL()
	return fmt.Sprintf("%s | args=%v", text, args)
}
