package main

import (
	"context"
	"net/http"
	"time"

	"agentzone/internal/blog"
	"agentzone/internal/directory"
	"agentzone/internal/feed"
	"agentzone/internal/httpx"
	"agentzone/internal/submission"
	"agentzone/internal/tool"
	"agentzone/internal/trending"
)

type handlers struct {
	tools      *tool.HTTPHandler
	directory  *directory.HTTPHandler
	blog       *blog.HTTPHandler
	submission *submission.HTTPHandler
	trending   *trending.HTTPHandler
	feed       *feed.HTTPHandler
}

type routeOptions struct {
	JWTSecret      string
	AdminRole      string
	InternalSecret string
	// Ready reports whether the database answers.
	Ready   func(ctx context.Context) error
	Metrics http.Handler
}

func newRouter(h handlers, opts routeOptions) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if opts.Ready != nil {
			if err := opts.Ready(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics)
	}

	mux.HandleFunc("GET /v1/home", h.feed.Home)

	mux.HandleFunc("GET /v1/tools", h.directory.List)
	mux.HandleFunc("GET /v1/tools/trending", h.directory.Trending)
	mux.HandleFunc("GET /v1/tools/recent", h.directory.Recent)
	mux.HandleFunc("GET /v1/tools/{id}", h.tools.Get)

	mux.HandleFunc("GET /v1/categories", h.directory.Categories)
	mux.HandleFunc("GET /v1/categories/featured", h.directory.Featured)
	mux.HandleFunc("GET /v1/categories/{slug}/tools", h.directory.CategoryTools)

	mux.HandleFunc("GET /v1/blog/posts", h.blog.ListLatest)
	mux.HandleFunc("GET /v1/blog/posts/{slug}", h.blog.Get)

	mux.HandleFunc("POST /v1/submissions", h.submission.Submit)

	admin := httpx.AdminMiddleware(opts.JWTSecret, opts.AdminRole)
	mux.Handle("POST /v1/admin/tools", admin(http.HandlerFunc(h.submission.AdminCreate)))
	mux.Handle("POST /v1/admin/trending/refresh", admin(http.HandlerFunc(h.trending.AdminRefresh)))
	mux.Handle("GET /v1/admin/trending/status", admin(http.HandlerFunc(h.trending.Status)))

	internal := httpx.InternalSecretMiddleware(opts.InternalSecret)
	mux.Handle("POST /internal/jobs/refresh-trending", internal(http.HandlerFunc(h.trending.RefreshJob)))

	return mux
}
