// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/evseev/postboard/internal/handler"
	"github.com/evseev/postboard/internal/middleware"
)

// Register mounts the full API surface on the provided Echo instance.
// Everything lives under /api/v1 except the health check. Protected
// groups run the access gate, which resolves the bearer token to an
// identity or rejects with 401. The Redis client may be nil; the
// limiter and cache then pass requests straight through.
func Register(e *echo.Echo, a *handler.AuthHandler, u *handler.UserHandler, p *handler.PostHandler, gate echo.MiddlewareFunc, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api/v1")

	// Unauthenticated auth operations. The limiter guards the
	// credential-guessing surface only.
	api.POST("/auth/login", a.Login, middleware.LoginRateLimit(rdb, 10, time.Minute))

	// Protected auth operations. The curent_user path keeps the
	// legacy client-facing spelling.
	authed := api.Group("/auth", gate)
	authed.PUT("/logout", a.Logout)
	authed.GET("/curent_user", a.CurrentUser)

	// User registration and lookup require no session.
	api.POST("/users", u.Register)
	api.GET("/users", u.List)
	api.GET("/users/:id", u.Get)

	// Posts are fully ownership-scoped behind the gate.
	posts := api.Group("/posts", gate)
	posts.POST("", p.Create)
	posts.GET("", p.List, middleware.ListCache(rdb, 30*time.Second))
	posts.GET("/search", p.Search)
	posts.GET("/:id", p.Get)
	posts.PATCH("/:id", p.Update)
	posts.DELETE("/:id", p.Delete)
}
