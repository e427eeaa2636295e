package model

import "time"

// Post is a short note owned by a single user. All repository
// queries scope by UserID, so one user can never observe another
// user's posts.
type Post struct {
	ID          uint64    // posts.id
	UserID      uint64    // posts.user_id
	Title       string    // posts.title
	Description *string   // posts.description (nullable)
	CreatedAt   time.Time // posts.created_at
}
