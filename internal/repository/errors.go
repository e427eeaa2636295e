package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned by lookups that expect exactly one row.
// Handlers translate it to HTTP 404; the auth service treats it as an
// unauthenticated signal when it comes from session or user lookups.
var ErrNotFound = errors.New("not found")

// ErrEmailExists reports a unique-constraint violation on users.email.
var ErrEmailExists = errors.New("email already exists")

// isDuplicate reports whether err is a MySQL duplicate-entry error
// (code 1062). The driver exposes it only through the message text.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
