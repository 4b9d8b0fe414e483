package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/emotion-detection-service/internal/auth"
	"github.com/iliyamo/emotion-detection-service/internal/model"
)

// UserRepo is the credential store. It owns the users table and answers
// exactly two questions: "create this account" and "do these credentials
// match". Password hashes never leave this package except inside the
// model.User row.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password and inserts the account. The UNIQUE index on
// username makes the existence check and the insert one atomic step: of
// two concurrent creates with the same name, exactly one succeeds and the
// other sees ErrUsernameExists (MySQL duplicate-key error 1062).
func (r *UserRepo) Create(ctx context.Context, username, password string, cost int) error {
	username = strings.TrimSpace(username)
	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (username, password_hash) VALUES (?,?)",
		username, hash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrUsernameExists
		}
		return err
	}
	return nil
}

// Verify reports whether an account exists for username and the supplied
// password matches its stored hash. An unknown username and a wrong
// password both come back as plain false so callers cannot tell them
// apart; the error return is reserved for storage failures.
func (r *UserRepo) Verify(ctx context.Context, username, password string) (bool, error) {
	u, err := r.getByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return auth.VerifyPassword(u.PasswordHash, password), nil
}

// getByUsername fetches a user row by its unique username.
func (r *UserRepo) getByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.TrimSpace(username)
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,created_at FROM users WHERE username=? LIMIT 1",
		username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	return u, err
}
