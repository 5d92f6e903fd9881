package feed

import (
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

// Home handles GET /v1/home
// @Summary Home page feed
// @Description Trending, recently added, featured categories and latest posts. Always 200; degraded sections are listed in meta.
// @Tags home
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/home [get]
func (h *HTTPHandler) Home(w http.ResponseWriter, r *http.Request) {
	home, rep := h.svc.Home(r.Context())
	meta := map[string]any{}
	if len(rep.Stale) > 0 {
		meta["stale_sections"] = rep.Stale
	}
	if len(rep.Unavailable) > 0 {
		meta["unavailable_sections"] = rep.Unavailable
	}
	httpx.JSONSuccess(w, r, home, meta)
}
