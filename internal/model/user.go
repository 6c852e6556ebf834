package model

import "time"

// User represents an application user record as stored in the `user` table.
// PasswordHash is never serialized; handlers define separate response types
// with appropriate JSON tags.
//
// Fields:
//  ID            - primary key identifier of the user.
//  FirstName     - given name.
//  LastName      - family name.
//  Email         - unique email address.
//  PasswordHash  - bcrypt hashed password.
//  SessionToken  - SHA-256 hex digest of the current session token, nil when
//                  the user is logged out.  At most one token is active per
//                  user; issuing a new one replaces the previous value.
//  ImageFilename - stored profile image filename, nil when no image is set.
type User struct {
	ID            uint64    // user.id
	FirstName     string    // user.first_name
	LastName      string    // user.last_name
	Email         string    // user.email
	PasswordHash  string    // user.password
	SessionToken  *string   // user.session_token (nullable)
	ImageFilename *string   // user.image_filename (nullable)
	CreatedAt     time.Time // user.created_at
}

// UserUpdate carries the profile fields a PATCH may change.  Nil pointers
// mean "leave unchanged".  PasswordHash, when set, must already be hashed.
type UserUpdate struct {
	FirstName    *string
	LastName     *string
	Email        *string
	PasswordHash *string
}
