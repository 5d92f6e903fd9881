package trending

import (
	"context"
	"errors"
	"net/http"

	"agentzone/internal/httpx"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHTTPHandler(svc *Service, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, logger: logger}
}

// RefreshJob handles POST /internal/jobs/refresh-trending
// @Summary Trigger trend score refresh
// @Description Recompute trend scores remotely. Concurrent triggers share one call.
// @Tags internal
// @Produce json
// @Param X-Internal-Secret header string true "Internal secret for authentication"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /internal/jobs/refresh-trending [post]
func (h *HTTPHandler) RefreshJob(w http.ResponseWriter, r *http.Request) {
	h.refresh(w, r, SourceCron)
}

// AdminRefresh handles POST /v1/admin/trending/refresh
// @Summary Trigger trend score refresh (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /v1/admin/trending/refresh [post]
func (h *HTTPHandler) AdminRefresh(w http.ResponseWriter, r *http.Request) {
	h.refresh(w, r, SourceAdmin)
}

func (h *HTTPHandler) refresh(w http.ResponseWriter, r *http.Request, source string) {
	out, err := h.svc.Trigger(r.Context(), source)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			httpx.ClientClosed(w)
			return
		}
		h.logger.Warn("refresh trigger", zap.String("source", source), zap.Error(err))
		httpx.JSONError(w, r, http.StatusBadGateway, "REFRESH_FAILED", "Trend refresh failed", nil)
		return
	}
	httpx.JSONSuccess(w, r, out, nil)
}

// Status handles GET /v1/admin/trending/status
// @Summary Trend refresh status
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/admin/trending/status [get]
func (h *HTTPHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Status(r.Context())
	if err != nil {
		h.logger.Error("refresh status", zap.Error(err))
		httpx.Internal(w, r)
		return
	}
	httpx.JSONSuccess(w, r, st, nil)
}
