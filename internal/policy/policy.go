// Package policy is the authorization and business-rule gate applied before
// every mutation.  Each function is a pure decision over the caller's
// identity and the current entity state: nil means allow, otherwise the error
// wraps one of the sentinel categories below and carries the specific reason.
//
// Checks run in a fixed order - identity, then ownership, then business
// rules - and handlers resolve target existence before calling in, because
// later rules read fields that only exist once the target is known.
package policy

import (
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/film-catalogue/internal/model"
)

// ErrUnauthenticated maps to 401: the caller has no valid session, or a
// required credential re-check failed.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrForbidden maps to 403: the session is valid but an ownership, temporal
// or uniqueness rule denies the operation.
var ErrForbidden = errors.New("forbidden")

func forbidden(reason string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, reason)
}

// CreateFilm gates film creation.  titleTaken is the result of the title
// uniqueness pre-check; release may be nil when the client left the release
// date to default to now.
func CreateFilm(caller *model.User, titleTaken bool, release *time.Time, now time.Time) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if titleTaken {
		return forbidden("film title is already in use")
	}
	if release != nil && release.Before(now) {
		return forbidden("cannot release a film in the past")
	}
	return nil
}

// EditFilm gates film edits.  The four rules are independently required:
// the caller directs the film, the film has no reviews yet, and - when the
// release date is being changed - the existing date has not already passed
// and the new date lies in the future.
func EditFilm(caller *model.User, film model.Film, newRelease *time.Time, reviewCount int, now time.Time) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if caller.ID != film.DirectorID {
		return forbidden("only the director may edit a film")
	}
	if reviewCount > 0 {
		return forbidden("cannot edit a film that has been reviewed")
	}
	if newRelease != nil {
		if film.ReleaseDate.Before(now) {
			return forbidden("release date has already passed")
		}
		if !newRelease.After(now) {
			return forbidden("new release date must be in the future")
		}
	}
	return nil
}

// DeleteFilm gates film deletion: director only.
func DeleteFilm(caller *model.User, film model.Film) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if caller.ID != film.DirectorID {
		return forbidden("only the director may delete a film")
	}
	return nil
}

// CreateReview gates review creation.  A film whose release date is now or
// later has not yet released and cannot be reviewed; directors can never
// review their own film; one review per user per film.
func CreateReview(caller *model.User, film model.Film, alreadyReviewed bool, now time.Time) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if caller.ID == film.DirectorID {
		return forbidden("cannot review your own film")
	}
	if !film.ReleaseDate.Before(now) {
		return forbidden("film has not yet released")
	}
	if alreadyReviewed {
		return forbidden("film already reviewed")
	}
	return nil
}

// SetFilmImage gates hero image changes: director only.  Content-type
// validation is structural and happens before this gate runs.
func SetFilmImage(caller *model.User, film model.Film) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if caller.ID != film.DirectorID {
		return forbidden("only the director may change the hero image")
	}
	return nil
}

// SetUserImage gates profile image changes and deletions: self only.
func SetUserImage(caller *model.User, target model.User) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if caller.ID != target.ID {
		return forbidden("cannot change another user's profile image")
	}
	return nil
}

// UpdateUser gates profile edits.  When the password is being changed the
// current password must re-verify (an identity failure, not an ownership
// one) and the new password must differ from the current one.  emailTaken is
// the uniqueness pre-check for a requested email change.
func UpdateUser(caller *model.User, target model.User, changingPassword, currentPasswordOK, samePassword, emailTaken bool) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if changingPassword && !currentPasswordOK {
		return fmt.Errorf("%w: current password does not verify", ErrUnauthenticated)
	}
	if caller.ID != target.ID {
		return forbidden("cannot edit another user's profile")
	}
	if emailTaken {
		return forbidden("email is already in use")
	}
	if changingPassword && samePassword {
		return forbidden("new password must differ from the current password")
	}
	return nil
}
