package model

import "time"

// Film represents a row in the `film` table.  The director is the user who
// created the film; director_id is immutable after creation.
//
// Fields:
//  ID            - primary key identifier.
//  Title         - unique film title.
//  Description   - synopsis text.
//  GenreID       - foreign key into the genre table.
//  DirectorID    - foreign key into the user table; set once at creation.
//  ReleaseDate   - when the film is (or will be) released.  A future value
//                  means the film is not yet released and cannot be reviewed.
//  Runtime       - running time in minutes, nil when unknown.
//  AgeRating     - age classification, defaults to "TBC".
//  ImageFilename - stored hero image filename, nil when no image is set.
type Film struct {
	ID            uint64    // film.id
	Title         string    // film.title
	Description   string    // film.description
	GenreID       uint64    // film.genre_id
	DirectorID    uint64    // film.director_id
	ReleaseDate   time.Time // film.release_date
	Runtime       *int      // film.runtime (nullable)
	AgeRating     string    // film.age_rating
	ImageFilename *string   // film.image_filename (nullable)
}

// FilmUpdate carries the fields a PATCH may change.  Nil pointers mean
// "leave unchanged".  The director can never be changed.
type FilmUpdate struct {
	Title       *string
	Description *string
	GenreID     *uint64
	ReleaseDate *time.Time
	Runtime     *int
	AgeRating   *string
}

// Genre is reference data from the `genre` table, read-only to this service.
type Genre struct {
	ID   uint64 `json:"genreId"`
	Name string `json:"name"`
}
