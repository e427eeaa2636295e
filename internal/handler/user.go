package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evseev/postboard/internal/auth"
	"github.com/evseev/postboard/internal/queue"
	"github.com/evseev/postboard/internal/repository"
)

// UserHandler bundles dependencies for registration and user lookup.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(u *repository.UserRepo) *UserHandler { return &UserHandler{Users: u} }

type registerReq struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type userResp struct {
	ID        uint64  `json:"id"`
	Email     string  `json:"email"`
	IsActive  bool    `json:"is_active"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// Register creates a user. The password is salted and hashed before
// it ever reaches the repository; the plain text is not retained. A
// user.registered event is published best-effort after creation.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	hash, salt, err := auth.GenerateHashedPair(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, auth.CredentialBlob(hash, salt), req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	ev := queue.UserRegisteredEvent{
		UserID:       uid,
		Email:        req.Email,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if req.FirstName != nil {
		ev.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		ev.LastName = *req.LastName
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pubCancel()
		_ = queue.PublishUserRegistered(pubCtx, ev)
	}()

	return c.JSON(http.StatusCreated, userResp{
		ID:        uid,
		Email:     req.Email,
		IsActive:  true,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
}

// Get returns one user by id, 404 when absent.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, userResp{
		ID:        u.ID,
		Email:     u.Email,
		IsActive:  u.IsActive,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	})
}

// List returns all users.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, userResp{
			ID:        u.ID,
			Email:     u.Email,
			IsActive:  u.IsActive,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}
