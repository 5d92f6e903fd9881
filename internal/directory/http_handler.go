package directory

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"agentzone/internal/httpx"
	"agentzone/internal/ranking"
	"agentzone/internal/snapshot"
	"agentzone/internal/tool"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHTTPHandler(svc *Service, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, logger: logger}
}

// List handles GET /v1/tools
// @Summary List tools
// @Tags tools
// @Produce json
// @Param category query string false "Category label or slug"
// @Param order query string false "recent or score" default(recent)
// @Param limit query int false "Page size" default(20)
// @Param cursor query string false "Pagination cursor (order=recent)"
// @Param offset query int false "Offset (order=score)" default(0)
// @Param q query string false "Search term"
// @Param pricing query string false "Free, Paid or Freemium"
// @Param has_api query bool false "Only tools with an API"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Router /v1/tools [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	var details []httpx.ErrorDetail

	q := tool.Query{Order: tool.ParseOrder(params.Get("order"))}
	if v := params.Get("category"); v != "" {
		c, err := tool.ParseCategory(v)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "category", Message: "unknown category"})
		}
		q.Category = c
	}

	limits := h.svc.limits
	q.Limit = limits.PageSize
	if v := params.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			details = append(details, httpx.ErrorDetail{Field: "limit", Message: "must be a positive integer"})
		}
		q.Limit = min(n, limits.MaxPageSize)
	}

	if v := params.Get("cursor"); v != "" {
		cursor, err := tool.DecodeCursor(v)
		if err == nil {
			err = cursor.Validate()
		}
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "cursor", Message: "invalid cursor"})
		}
		q.Cursor = cursor
	}
	offset, ok := intParam(params.Get("offset"), 0)
	if !ok || offset < 0 {
		details = append(details, httpx.ErrorDetail{Field: "offset", Message: "must be a non-negative integer"})
	}

	crit := ranking.Criteria{Term: params.Get("q")}
	if v := params.Get("pricing"); v != "" {
		p, err := tool.ParsePricing(v)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "pricing", Message: "must be one of Free, Paid, Freemium"})
		}
		crit.Pricing = &p
	}
	if v := params.Get("has_api"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "has_api", Message: "must be a boolean"})
		}
		crit.HasAPI = &b
	}

	if len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_QUERY", "Invalid query parameters", details)
		return
	}

	if crit.IsZero() && q.Order == tool.OrderRecent {
		page, err := h.svc.List(r.Context(), q)
		if err != nil {
			h.fail(w, r, "list tools", err)
			return
		}
		meta := map[string]any{"limit": q.Limit}
		if next := tool.NextCursor(page, q.Limit); next != "" {
			meta["next_cursor"] = next
		}
		httpx.JSONSuccess(w, r, nonNil(page), meta)
		return
	}
	h.search(w, r, q, crit, offset)
}

// search filters a scan window instead of a single page so that matches past
// the first page are reachable. Score order has no keyset and pages by
// offset; recent order keeps the cursor, continuing after the last returned
// match or, when the window ran out first, after the last scanned row.
func (h *HTTPHandler) search(w http.ResponseWriter, r *http.Request, q tool.Query, crit ranking.Criteria, offset int) {
	size := q.Limit
	scan := q
	scan.Limit = h.svc.limits.ScanLimit
	if q.Order == tool.OrderScore {
		scan.Cursor = tool.CursorData{}
	}

	list, err := h.svc.List(r.Context(), scan)
	if err != nil {
		h.fail(w, r, "search tools", err)
		return
	}
	matched := ranking.Filter(list, crit)

	meta := map[string]any{"limit": size}
	if q.Order == tool.OrderScore {
		page := Paginate(matched, offset, size)
		meta["total"] = page.Total
		if page.NextOffset != nil {
			meta["next_offset"] = *page.NextOffset
		}
		httpx.JSONSuccess(w, r, page.Tools, meta)
		return
	}

	page := matched[:min(size, len(matched))]
	switch {
	case len(matched) > size:
		meta["next_cursor"] = tool.NextCursor(page, len(page))
	case len(list) == scan.Limit:
		meta["next_cursor"] = tool.NextCursor(list, len(list))
	}
	httpx.JSONSuccess(w, r, page, meta)
}

// Trending handles GET /v1/tools/trending
// @Summary Trending tools with highlight badges
// @Tags tools
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Router /v1/tools/trending [get]
func (h *HTTPHandler) Trending(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Trending(r.Context())
	if err != nil {
		h.fail(w, r, "trending tools", err)
		return
	}
	th := h.svc.Thresholds()
	meta := resultMeta(res)
	meta["agent_of_the_day_threshold"] = th.AgentOfTheDay
	meta["hot_trending_threshold"] = th.HotTrending
	httpx.JSONSuccess(w, r, res.Value, meta)
}

// Recent handles GET /v1/tools/recent
// @Summary Recently added tools
// @Tags tools
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Router /v1/tools/recent [get]
func (h *HTTPHandler) Recent(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Recent(r.Context())
	if err != nil {
		h.fail(w, r, "recent tools", err)
		return
	}
	httpx.JSONSuccess(w, r, nonNil(res.Value), resultMeta(res))
}

// Categories handles GET /v1/categories
// @Summary Categories with member counts
// @Tags categories
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Router /v1/categories [get]
func (h *HTTPHandler) Categories(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Categories(r.Context())
	if err != nil {
		h.fail(w, r, "category counts", err)
		return
	}
	httpx.JSONSuccess(w, r, res.Value, resultMeta(res))
}

// Featured handles GET /v1/categories/featured
// @Summary Largest categories with their first members
// @Tags categories
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Router /v1/categories/featured [get]
func (h *HTTPHandler) Featured(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Featured(r.Context())
	if err != nil {
		h.fail(w, r, "featured categories", err)
		return
	}
	httpx.JSONSuccess(w, r, nonNil(res.Value), resultMeta(res))
}

// CategoryTools handles GET /v1/categories/{slug}/tools
// @Summary Tools in a category
// @Tags categories
// @Produce json
// @Param slug path string true "Category slug"
// @Param filter query string false "all, free, paid, freemium or api" default(all)
// @Param q query string false "Search term"
// @Param offset query int false "Offset for load more" default(0)
// @Param limit query int false "Window size" default(6)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Router /v1/categories/{slug}/tools [get]
func (h *HTTPHandler) CategoryTools(w http.ResponseWriter, r *http.Request) {
	c, err := tool.ParseCategory(r.PathValue("slug"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
		return
	}

	params := r.URL.Query()
	var details []httpx.ErrorDetail
	f, err := ParseFilter(params.Get("filter"))
	if err != nil {
		allowed := make([]string, 0, len(Filters()))
		for _, v := range Filters() {
			allowed = append(allowed, string(v))
		}
		details = append(details, httpx.ErrorDetail{Field: "filter", Message: "must be one of " + strings.Join(allowed, ", ")})
	}
	offset, ok := intParam(params.Get("offset"), 0)
	if !ok || offset < 0 {
		details = append(details, httpx.ErrorDetail{Field: "offset", Message: "must be a non-negative integer"})
	}
	size, ok := intParam(params.Get("limit"), h.svc.limits.CategoryPageSize)
	if !ok || size <= 0 {
		details = append(details, httpx.ErrorDetail{Field: "limit", Message: "must be a positive integer"})
	}
	if len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_QUERY", "Invalid query parameters", details)
		return
	}

	res, err := h.svc.CategoryTools(r.Context(), c)
	if err != nil {
		h.fail(w, r, "category tools", err)
		return
	}

	matched := ranking.Filter(res.Value, f.Criteria(params.Get("q")))
	page := Paginate(matched, offset, min(size, h.svc.limits.MaxPageSize))

	meta := resultMeta(res)
	meta["category"] = c
	meta["filter"] = f
	httpx.JSONSuccess(w, r, page, meta)
}

func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		httpx.ClientClosed(w)
	case errors.Is(err, snapshot.ErrUnavailable):
		h.logger.Warn(op, zap.Error(err))
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "Directory data is temporarily unavailable", nil)
	default:
		h.logger.Error(op, zap.Error(err))
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "Directory data is temporarily unavailable", nil)
	}
}

func resultMeta[T any](res snapshot.Result[T]) map[string]any {
	meta := map[string]any{}
	if res.Stale {
		meta["stale"] = true
		meta["fetched_at"] = res.FetchedAt
	}
	return meta
}

func intParam(v string, def int) (int, bool) {
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	return n, err == nil
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
