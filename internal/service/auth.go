// Package service implements the authentication flows on top of the
// token codec and the persistence layer: login, per-request token
// validation and logout.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evseev/postboard/internal/auth"
	"github.com/evseev/postboard/internal/model"
	"github.com/evseev/postboard/internal/repository"
)

// ErrInvalidCredentials is the only failure a login caller ever sees
// for a bad email or password. The two causes are not distinguished
// externally so the endpoint cannot be used to enumerate accounts;
// the wrapped message still names the cause for server-side logs.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUnauthenticated is the single failure signal of token
// validation, regardless of whether the token was malformed, expired,
// superseded or belongs to an inactive user.
var ErrUnauthenticated = errors.New("unauthenticated")

// UserStore is the slice of the user repository the service needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// SessionStore is the slice of the session repository the service
// needs. Replace must guarantee that after it returns the user has
// exactly one session row holding the given token.
type SessionStore interface {
	GetByUser(ctx context.Context, userID uint64) (model.Session, error)
	DeleteByUser(ctx context.Context, userID uint64) (int64, error)
	Replace(ctx context.Context, userID uint64, token string, expiresAt time.Time) (uint64, error)
}

// TokenPair is the access/refresh pair minted at login. The refresh
// token is returned but not yet redeemable anywhere; only the access
// token is persisted in the session.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// AuthResult is what a successful login yields.
type AuthResult struct {
	User   model.User
	Tokens TokenPair
}

// AuthService orchestrates credential verification, token issuance
// and session replacement. It owns no state beyond its collaborators;
// the clock is injectable so tests can pin time.
type AuthService struct {
	codec    *auth.TokenCodec
	users    UserStore
	sessions SessionStore
	now      func() time.Time
}

func NewAuthService(codec *auth.TokenCodec, users UserStore, sessions SessionStore) *AuthService {
	return &AuthService{
		codec:    codec,
		users:    users,
		sessions: sessions,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Login verifies the credentials, mints an access/refresh pair and
// replaces any existing session with one holding the new access
// token. The replacement is what enforces "at most one live session
// per user": after this returns, tokens from earlier logins no longer
// validate even though their signatures remain good.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthResult{}, fmt.Errorf("%w: unknown email", ErrInvalidCredentials)
		}
		return AuthResult{}, err
	}
	if !auth.VerifyPassword(u.HashedPassword, password) {
		return AuthResult{}, fmt.Errorf("%w: password mismatch", ErrInvalidCredentials)
	}

	when := s.now()
	accessClaims := s.codec.Issue(auth.TokenAccess, u.ID, u.Email, when)
	refreshClaims := s.codec.Issue(auth.TokenRefresh, u.ID, u.Email, when)

	accessToken, err := s.codec.Encode(accessClaims)
	if err != nil {
		return AuthResult{}, err
	}
	refreshToken, err := s.codec.EncodeRefresh(refreshClaims)
	if err != nil {
		return AuthResult{}, err
	}

	if _, err := s.sessions.Replace(ctx, u.ID, accessToken, accessClaims.ExpiresAt.Time); err != nil {
		return AuthResult{}, err
	}

	return AuthResult{
		User: u,
		Tokens: TokenPair{
			AccessToken:      accessToken,
			AccessExpiresAt:  accessClaims.ExpiresAt.Time,
			RefreshToken:     refreshToken,
			RefreshExpiresAt: refreshClaims.ExpiresAt.Time,
		},
	}, nil
}

// Validate turns a presented access token into the identity it
// belongs to, or ErrUnauthenticated. The token's signature being
// valid is necessary but not sufficient: the string must also equal
// the user's currently stored session token, which is how logout and
// re-login revoke tokens that would otherwise still verify.
func (s *AuthService) Validate(ctx context.Context, token string) (model.User, error) {
	email, expiresAt, err := s.codec.Decode(token)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: decode: %v", ErrUnauthenticated, err)
	}
	if email == "" || expiresAt.IsZero() {
		return model.User{}, fmt.Errorf("%w: required claims missing", ErrUnauthenticated)
	}
	if !expiresAt.After(s.now()) {
		return model.User{}, fmt.Errorf("%w: token expired", ErrUnauthenticated)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, fmt.Errorf("%w: unknown subject", ErrUnauthenticated)
		}
		return model.User{}, err
	}

	sess, err := s.sessions.GetByUser(ctx, u.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, fmt.Errorf("%w: no active session", ErrUnauthenticated)
		}
		return model.User{}, err
	}
	if sess.AccessToken != token {
		return model.User{}, fmt.Errorf("%w: session superseded", ErrUnauthenticated)
	}
	if !u.IsActive {
		return model.User{}, fmt.Errorf("%w: inactive user", ErrUnauthenticated)
	}
	return u, nil
}

// Logout deletes the user's session unconditionally. It is
// idempotent: logging out without a session is not an error.
func (s *AuthService) Logout(ctx context.Context, userID uint64) error {
	_, err := s.sessions.DeleteByUser(ctx, userID)
	return err
}
