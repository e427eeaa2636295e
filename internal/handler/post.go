package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evseev/postboard/internal/middleware"
	"github.com/evseev/postboard/internal/model"
	"github.com/evseev/postboard/internal/repository"
)

// PostHandler bundles dependencies for the post CRUD endpoints. All
// routes here sit behind the access gate; the owning user comes from
// the request context, never from client input.
type PostHandler struct {
	Posts *repository.PostRepo
}

func NewPostHandler(p *repository.PostRepo) *PostHandler { return &PostHandler{Posts: p} }

type postReq struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type postResp struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toPostResp(p model.Post) postResp {
	return postResp{ID: p.ID, Title: p.Title, Description: p.Description, CreatedAt: p.CreatedAt}
}

// requestScope extracts the authenticated user and a bounded context.
func requestScope(c echo.Context) (model.User, context.Context, context.CancelFunc, bool) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return model.User{}, nil, nil, false
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	return u, ctx, cancel, true
}

// Create inserts a post owned by the current user.
func (h *PostHandler) Create(c echo.Context) error {
	u, ctx, cancel, ok := requestScope(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate token"})
	}
	defer cancel()

	var req postReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	id, err := h.Posts.Create(ctx, u.ID, req.Title, req.Description)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create post failed"})
	}
	p, err := h.Posts.Get(ctx, u.ID, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create post failed"})
	}
	return c.JSON(http.StatusCreated, toPostResp(p))
}

// Get fetches one of the current user's posts. Another user's post id
// yields the same 404 as a nonexistent one.
func (h *PostHandler) Get(c echo.Context) error {
	u, ctx, cancel, ok := requestScope(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate token"})
	}
	defer cancel()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}
	p, err := h.Posts.Get(ctx, u.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toPostResp(p))
}

// List returns a page of the current user's posts plus the total.
func (h *PostHandler) List(c echo.Context) error {
	u, ctx, cancel, ok := requestScope(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate token"})
	}
	defer cancel()

	limit := intQuery(c, "limit", 10)
	offset := intQuery(c, "offset", 0)

	posts, err := h.Posts.List(ctx, u.ID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	total, err := h.Posts.Count(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]postResp, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResp(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": out, "total": total})
}

// Update rewrites one of the current user's posts. Existence is
// checked first so a foreign post id is a 404 before any write.
func (h *PostHandler) Update(c echo.Context) error {
	u, ctx, cancel, ok := requestScope(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate token"})
	}
	defer cancel()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}
	var req postReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	if _, err := h.Posts.Get(ctx, u.ID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Posts.Update(ctx, u.ID, id, req.Title, req.Description); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update post failed"})
	}
	p, err := h.Posts.Get(ctx, u.ID, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toPostResp(p))
}

// Delete removes one of the current user's posts.
func (h *PostHandler) Delete(c echo.Context) error {
	u, ctx, cancel, ok := requestScope(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate token"})
	}
	defer cancel()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}
	deleted, err := h.Posts.Delete(ctx, u.ID, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete post failed"})
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
	}
	return c.NoContent(http.StatusOK)
}

// Search filters the current user's posts with the whitelisted
// expression interpreter. Repeated field/op/value query parameters
// form predicates; sort/dir pairs order the result.
func (h *PostHandler) Search(c echo.Context) error {
	u, ctx, cancel, ok := requestScope(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate token"})
	}
	defer cancel()

	params := c.QueryParams()
	q := repository.SearchQuery{
		Fields:     params["field"],
		Ops:        params["op"],
		Values:     params["value"],
		SortFields: params["sort"],
		SortDirs:   params["dir"],
		Page:       intQuery(c, "page", 1),
		PageSize:   intQuery(c, "page_size", 10),
	}

	posts, total, err := h.Posts.Search(ctx, u.ID, q)
	if err != nil {
		if errors.Is(err, repository.ErrBadFilter) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]postResp, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResp(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": out, "total": total})
}

// intQuery parses an integer query parameter with a default.
func intQuery(c echo.Context, name string, def int) int {
	s := c.QueryParam(name)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
