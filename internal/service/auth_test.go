package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evseev/postboard/internal/auth"
	"github.com/evseev/postboard/internal/model"
	"github.com/evseev/postboard/internal/repository"
)

type fakeUsers struct {
	byEmail map[string]model.User
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

type fakeSessions struct {
	byUser map[uint64]model.Session
	nextID uint64
}

func (f *fakeSessions) GetByUser(_ context.Context, userID uint64) (model.Session, error) {
	s, ok := f.byUser[userID]
	if !ok {
		return model.Session{}, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessions) DeleteByUser(_ context.Context, userID uint64) (int64, error) {
	if _, ok := f.byUser[userID]; !ok {
		return 0, nil
	}
	delete(f.byUser, userID)
	return 1, nil
}

func (f *fakeSessions) Replace(_ context.Context, userID uint64, token string, expiresAt time.Time) (uint64, error) {
	delete(f.byUser, userID)
	f.nextID++
	f.byUser[userID] = model.Session{ID: f.nextID, UserID: userID, AccessToken: token, ExpiresAt: expiresAt}
	return f.nextID, nil
}

// newTestAuth builds a service over one registered active user with a
// controllable clock.
func newTestAuth(t *testing.T, email, password string) (*AuthService, *fakeSessions, *time.Time) {
	t.Helper()

	hash, salt, err := auth.GenerateHashedPair(password)
	require.NoError(t, err)

	users := &fakeUsers{byEmail: map[string]model.User{
		email: {ID: 1, Email: email, HashedPassword: auth.CredentialBlob(hash, salt), IsActive: true},
	}}
	sessions := &fakeSessions{byUser: map[uint64]model.Session{}}

	codec := auth.NewTokenCodec("test-secret", 30, 16, 1, 3)
	svc := NewAuthService(codec, users, sessions)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, sessions, &now
}

func TestLogin_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuth(t, "a@x.com", "pw1")
	ctx := context.Background()

	_, err1 := svc.Login(ctx, "nobody@x.com", "pw1")
	_, err2 := svc.Login(ctx, "a@x.com", "wrong")

	assert.ErrorIs(t, err1, ErrInvalidCredentials)
	assert.ErrorIs(t, err2, ErrInvalidCredentials)
}

func TestLogin_ThenValidateResolvesIdentity(t *testing.T) {
	t.Parallel()

	svc, sessions, _ := newTestAuth(t, "a@x.com", "pw1")
	ctx := context.Background()

	res, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", res.User.Email)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	assert.NotEmpty(t, res.Tokens.RefreshToken)
	assert.NotEqual(t, res.Tokens.AccessToken, res.Tokens.RefreshToken)

	// The stored session holds exactly the issued access token.
	sess, err := sessions.GetByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, res.Tokens.AccessToken, sess.AccessToken)
	assert.Equal(t, res.Tokens.AccessExpiresAt, sess.ExpiresAt)

	u, err := svc.Validate(ctx, res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), u.ID)
	assert.Equal(t, "a@x.com", u.Email)
}

func TestLogin_SecondLoginSupersedesFirst(t *testing.T) {
	t.Parallel()

	svc, _, now := newTestAuth(t, "a@x.com", "pw1")
	ctx := context.Background()

	first, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	// Advance the clock so the second token's claims differ.
	*now = now.Add(time.Minute)
	second, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	require.NotEqual(t, first.Tokens.AccessToken, second.Tokens.AccessToken)

	// T1 signature and expiry are still good, but the session was
	// replaced, so only T2 validates.
	_, err = svc.Validate(ctx, first.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	u, err := svc.Validate(ctx, second.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
}

func TestLogout_InvalidatesAndIsIdempotent(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuth(t, "a@x.com", "pw1")
	ctx := context.Background()

	res, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, 1))
	_, err = svc.Validate(ctx, res.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// Logging out again is not an error.
	require.NoError(t, svc.Logout(ctx, 1))
}

func TestValidate_ExpiredTokenRejectedDespiteMatchingSession(t *testing.T) {
	t.Parallel()

	svc, _, now := newTestAuth(t, "a@x.com", "pw1")
	ctx := context.Background()

	res, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	// The session row still matches, but the 30-minute TTL has passed.
	*now = now.Add(31 * time.Minute)
	_, err = svc.Validate(ctx, res.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestValidate_RefreshTokenDoesNotAuthenticate(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuth(t, "a@x.com", "pw1")
	ctx := context.Background()

	res, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	// The refresh token lacks the email claim and is not the stored
	// session token; it must not pass the gate.
	_, err = svc.Validate(ctx, res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestValidate_GarbageToken(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuth(t, "a@x.com", "pw1")
	_, err := svc.Validate(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestValidate_InactiveUser(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuth(t, "a@x.com", "pw1")
	ctx := context.Background()

	res, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	users := svc.users.(*fakeUsers)
	u := users.byEmail["a@x.com"]
	u.IsActive = false
	users.byEmail["a@x.com"] = u

	_, err = svc.Validate(ctx, res.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestScenario_FullSessionLifecycle(t *testing.T) {
	t.Parallel()

	svc, _, now := newTestAuth(t, "a@x.com", "pw1")
	ctx := context.Background()

	first, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	t1 := first.Tokens.AccessToken

	*now = now.Add(time.Minute)
	second, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	t2 := second.Tokens.AccessToken
	require.NotEqual(t, t1, t2)

	_, err = svc.Validate(ctx, t1)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	u, err := svc.Validate(ctx, t2)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)

	require.NoError(t, svc.Logout(ctx, u.ID))
	_, err = svc.Validate(ctx, t2)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
