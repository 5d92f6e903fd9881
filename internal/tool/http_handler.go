package tool

import (
	"errors"
	"net/http"

	"agentzone/internal/httpx"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	service *Service
	logger  *zap.Logger
}

func NewHTTPHandler(service *Service, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

// Get handles GET /v1/tools/{id}
// @Summary Get a tool
// @Tags tools
// @Produce json
// @Param id path string true "Tool ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/tools/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Tool not found", nil)
		return
	}

	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Tool not found", nil)
			return
		}
		h.logger.Error("get tool", zap.String("tool_id", id), zap.Error(err))
		httpx.Internal(w, r)
		return
	}
	httpx.JSONSuccess(w, r, t, nil)
}
