package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/evseev/postboard/internal/model"
)

// SessionRepo persists the single active session per user. Nothing in
// the schema enforces the one-row-per-user invariant; every writer
// must go through Replace (or delete before creating) to keep it.
// Expired rows are not swept; expiry is checked at validation time.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create inserts a session row and returns its id. An integrity
// conflict returns (0, nil) rather than an error: the caller decides
// what a failed creation means.
func (r *SessionRepo) Create(ctx context.Context, userID uint64, token string, expiresAt time.Time) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO user_sessions (user_id, access_token, expires_at) VALUES (?,?,?)",
		userID, token, expiresAt)
	if err != nil {
		if isDuplicate(err) {
			return 0, nil
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUser fetches the session row for a user, ErrNotFound when the
// user has none.
func (r *SessionRepo) GetByUser(ctx context.Context, userID uint64) (model.Session, error) {
	var s model.Session
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, access_token, expires_at, created_at FROM user_sessions WHERE user_id=? ORDER BY id LIMIT 1",
		userID).Scan(&s.ID, &s.UserID, &s.AccessToken, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, ErrNotFound
	}
	return s, err
}

// DeleteByUser removes all session rows for a user and returns how
// many were removed. Deleting when none exist is not an error.
func (r *SessionRepo) DeleteByUser(ctx context.Context, userID uint64) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM user_sessions WHERE user_id=?", userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Replace atomically supersedes a user's session: any existing row is
// deleted and the new one inserted inside a single transaction, so a
// crash mid-login can never leave two live sessions (it may leave
// zero, which fails safe).
func (r *SessionRepo) Replace(ctx context.Context, userID uint64, token string, expiresAt time.Time) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM user_sessions WHERE user_id=?", userID); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO user_sessions (user_id, access_token, expires_at) VALUES (?,?,?)",
		userID, token, expiresAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}
