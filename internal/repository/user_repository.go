package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/film-catalogue/internal/model"
)

const userColumns = "id, first_name, last_name, email, password, session_token, image_filename, created_at"

// UserRepo provides persistence for the 'user' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID.  The password must already be
// hashed.  Email uniqueness is backed by the table's unique index.
func (r *UserRepo) Create(ctx context.Context, firstName, lastName, email, passwordHash string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO user (first_name, last_name, email, password) VALUES (?,?,?,?)",
		firstName, lastName, email, passwordHash)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM user WHERE id=? LIMIT 1", id)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, "SELECT "+userColumns+" FROM user WHERE email=? LIMIT 1", email)
}

// GetBySessionToken fetches the user whose stored session token hash matches.
// sql.ErrNoRows means the presented token does not belong to any live session.
func (r *UserRepo) GetBySessionToken(ctx context.Context, tokenHash string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM user WHERE session_token=? LIMIT 1", tokenHash)
}

// EmailInUse reports whether an email is registered to any user.
func (r *UserRepo) EmailInUse(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM user WHERE email=?", email).Scan(&n)
	return n > 0, err
}

// SetSessionToken replaces the stored session token hash.  Passing nil clears
// the session (logout); storing a new hash invalidates any previous token,
// keeping at most one session active per user.
func (r *UserRepo) SetSessionToken(ctx context.Context, id uint64, tokenHash *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE user SET session_token=? WHERE id=?", tokenHash, id)
	return err
}

// Update applies the non-nil fields of upd to the user row in a single
// statement.  A no-op update returns nil without touching the database.
func (r *UserRepo) Update(ctx context.Context, id uint64, upd model.UserUpdate) error {
	set := []string{}
	args := []any{}
	if upd.FirstName != nil {
		set = append(set, "first_name=?")
		args = append(args, *upd.FirstName)
	}
	if upd.LastName != nil {
		set = append(set, "last_name=?")
		args = append(args, *upd.LastName)
	}
	if upd.Email != nil {
		set = append(set, "email=?")
		args = append(args, strings.ToLower(strings.TrimSpace(*upd.Email)))
	}
	if upd.PasswordHash != nil {
		set = append(set, "password=?")
		args = append(args, *upd.PasswordHash)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE user SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
	if isDuplicateKey(err) {
		return ErrEmailExists
	}
	return err
}

// SetImage records the stored image filename for a user.  Passing nil clears it.
func (r *UserRepo) SetImage(ctx context.Context, id uint64, filename *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE user SET image_filename=? WHERE id=?", filename, id)
	return err
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.SessionToken, &u.ImageFilename, &u.CreatedAt)
	return u, err
}
