package blog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"agentzone/internal/httpx"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	svc         *Service
	logger      *zap.Logger
	latestLimit int
}

func NewHTTPHandler(svc *Service, logger *zap.Logger, latestLimit int) *HTTPHandler {
	return &HTTPHandler{svc: svc, logger: logger, latestLimit: latestLimit}
}

// ListLatest handles GET /v1/blog/posts
// @Summary Latest blog posts
// @Tags blog
// @Produce json
// @Param limit query int false "Number of posts" default(5)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Router /v1/blog/posts [get]
func (h *HTTPHandler) ListLatest(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > h.latestLimit*4 {
		limit = h.latestLimit
	}

	res, err := h.svc.ListLatest(r.Context(), limit)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			httpx.ClientClosed(w)
			return
		}
		h.logger.Warn("list latest posts", zap.Error(err))
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "Blog posts are temporarily unavailable", nil)
		return
	}

	var meta map[string]any
	if res.Stale {
		h.logger.Warn("serving stale blog posts", zap.Time("fetched_at", res.FetchedAt))
		meta = map[string]any{"stale": true, "fetched_at": res.FetchedAt}
	}
	posts := res.Value
	if posts == nil {
		posts = []Summary{}
	}
	httpx.JSONSuccess(w, r, posts, meta)
}

// Get handles GET /v1/blog/posts/{slug}
// @Summary Get a blog post by slug or id
// @Tags blog
// @Produce json
// @Param slug path string true "Post slug or id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /v1/blog/posts/{slug} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Blog post not found", nil)
		return
	}

	post, err := h.svc.Get(r.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Blog post not found", nil)
			return
		}
		h.logger.Error("get blog post", zap.String("slug", slug), zap.Error(err))
		httpx.Internal(w, r)
		return
	}

	httpx.JSONSuccess(w, r, struct {
		Post
		TagList  []string `json:"tag_list"`
		SEOTitle string   `json:"seo_title"`
	}{post, post.TagList(), post.SEOTitle()}, nil)
}
