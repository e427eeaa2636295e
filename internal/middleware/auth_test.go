package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evseev/postboard/internal/model"
)

type stubValidator struct {
	user model.User
	err  error
	got  string
}

func (s *stubValidator) Validate(_ context.Context, token string) (model.User, error) {
	s.got = token
	return s.user, s.err
}

func runGate(v TokenValidator, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := AccessGate(v)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)
	return rec, c
}

func TestAccessGate_MissingHeader(t *testing.T) {
	t.Parallel()

	rec, _ := runGate(&stubValidator{}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccessGate_NonBearerHeader(t *testing.T) {
	t.Parallel()

	rec, _ := runGate(&stubValidator{}, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccessGate_RejectionCollapsesTo401(t *testing.T) {
	t.Parallel()

	v := &stubValidator{err: errors.New("session superseded")}
	rec, _ := runGate(v, "Bearer some-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "some-token", v.got)
	// The rejection detail stays server-side.
	assert.NotContains(t, rec.Body.String(), "superseded")
}

func TestAccessGate_ResolvedIdentityInContext(t *testing.T) {
	t.Parallel()

	v := &stubValidator{user: model.User{ID: 42, Email: "a@x.com", IsActive: true}}
	rec, c := runGate(v, "Bearer good-token")
	require.Equal(t, http.StatusOK, rec.Code)

	u, ok := CurrentUser(c)
	require.True(t, ok)
	assert.Equal(t, uint64(42), u.ID)
	assert.Equal(t, "a@x.com", u.Email)
}

func TestCurrentUser_AbsentOutsideGate(t *testing.T) {
	t.Parallel()

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, ok := CurrentUser(c)
	assert.False(t, ok)
}
