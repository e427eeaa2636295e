package middleware

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// bodyRecorder tees the response body so a successful payload can be
// stored after the handler runs.
type bodyRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *bodyRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// ListCache caches successful GET responses in Redis for ttl. The key
// covers route, query string and the authenticated user, so one
// user's cached listing is never served to another. A nil client
// disables caching. Only 200 responses are stored; everything is
// served as JSON because that is all the API produces.
func ListCache(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	if rdb == nil || ttl <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			uid := uint64(0)
			if u, ok := CurrentUser(c); ok {
				uid = u.ID
			}
			sum := sha1.Sum([]byte(fmt.Sprintf("%d:%s:%s", uid, c.Path(), c.Request().URL.RawQuery)))
			key := fmt.Sprintf("cache:%x", sum)
			ctx := c.Request().Context()

			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, body)
			}

			rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if rec.status == http.StatusOK && rec.buf.Len() > 0 {
				_ = rdb.SetEx(ctx, key, rec.buf.Bytes(), ttl).Err()
			}
			return nil
		}
	}
}
