package model

import "time"

// User represents an application user record as stored in the
// `users` table. The HashedPassword column holds a single opaque
// blob: a 32-byte random salt followed by the PBKDF2 digest of the
// password. The auth layer slices it identically on every
// verification; no other code inspects it.
//
// Fields:
//  ID             – primary key identifier of the user.
//  Email          – unique email address, stored exactly as given.
//  HashedPassword – salt||hash credential blob (see internal/auth).
//  IsActive       – whether the account may authenticate.
//  FirstName      – optional display name.
//  LastName       – optional display name.
//  CreatedAt      – timestamp of creation.
type User struct {
	ID             uint64    // users.id
	Email          string    // users.email
	HashedPassword []byte    // users.hashed_password (salt||hash)
	IsActive       bool      // users.is_active
	FirstName      *string   // users.first_name (nullable)
	LastName       *string   // users.last_name (nullable)
	CreatedAt      time.Time // users.created_at
}

// Session models the single row in `user_sessions` that makes a
// user's most recent login valid. There is at most one row per user
// at any time; the invariant is enforced by the session repository,
// not by a database constraint. The stored access token string must
// exactly equal the token a client presents for the session to count.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – owner of the session.
//  AccessToken – the signed access token issued at login.
//  ExpiresAt   – expiry of the access token; expired rows persist
//                until overwritten or deleted.
//  CreatedAt   – timestamp of creation.
type Session struct {
	ID          uint64    // user_sessions.id
	UserID      uint64    // user_sessions.user_id
	AccessToken string    // user_sessions.access_token
	ExpiresAt   time.Time // user_sessions.expires_at
	CreatedAt   time.Time // user_sessions.created_at
}
