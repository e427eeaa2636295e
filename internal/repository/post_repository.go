package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/evseev/postboard/internal/model"
)

// PostRepo persists posts. Every statement filters by user_id, so
// ownership scoping is absolute: asking for another user's post is
// indistinguishable from asking for one that does not exist.
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

const postColumns = "id, user_id, title, description, created_at"

// Create inserts a post for a user and returns its id.
func (r *PostRepo) Create(ctx context.Context, userID uint64, title string, description *string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (user_id, title, description) VALUES (?,?,?)",
		userID, title, description)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Get fetches one post owned by the user.
func (r *PostRepo) Get(ctx context.Context, userID, postID uint64) (model.Post, error) {
	var p model.Post
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id=? AND user_id=? LIMIT 1",
		postID, userID).Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, ErrNotFound
	}
	return p, err
}

// List returns a page of the user's posts ordered by id.
func (r *PostRepo) List(ctx context.Context, userID uint64, limit, offset int) ([]model.Post, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE user_id=? ORDER BY id LIMIT ? OFFSET ?",
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Post, 0, limit)
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Count returns the user's total number of posts.
func (r *PostRepo) Count(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(id) FROM posts WHERE user_id=?", userID).Scan(&n)
	return n, err
}

// Update rewrites title and description of the user's post. The
// caller establishes existence first; a zero-row update here is not
// distinguished.
func (r *PostRepo) Update(ctx context.Context, userID, postID uint64, title string, description *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE posts SET title=?, description=? WHERE id=? AND user_id=?",
		title, description, postID, userID)
	return err
}

// Delete removes the user's post and reports whether a row existed.
func (r *PostRepo) Delete(ctx context.Context, userID, postID uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM posts WHERE id=? AND user_id=?", postID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Search runs a whitelisted filter/order query over the user's posts
// (see filter.go) and returns the matching page plus the total count.
func (r *PostRepo) Search(ctx context.Context, userID uint64, q SearchQuery) ([]model.Post, int64, error) {
	cond, args, err := q.whereClause()
	if err != nil {
		return nil, 0, err
	}
	cond = "user_id=? AND " + cond
	args = append([]any{userID}, args...)

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(id) FROM posts WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order, err := q.orderClause()
	if err != nil {
		return nil, 0, err
	}
	limit, offset := q.page()
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE "+cond+order+" LIMIT ? OFFSET ?",
		argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Post, 0, limit)
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}
