// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios without string
// matching on driver errors.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when an insert or update would claim an email
// address already registered to another user.
var ErrEmailExists = errors.New("email already exists")

// ErrTitleExists is returned when an insert or update would claim a film
// title already in use.
var ErrTitleExists = errors.New("film title already exists")

// ErrAlreadyReviewed is returned when a user attempts a second review of the
// same film.  The unique (film_id, user_id) index backs the application-level
// pre-check, so concurrent duplicate attempts still surface this error.
var ErrAlreadyReviewed = errors.New("film already reviewed by user")

// isDuplicateKey reports whether a MySQL error is a duplicate-entry
// violation (error 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
