package submission

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"agentzone/internal/httpx"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	svc       *Service
	logger    *zap.Logger
	maxUpload int64
}

func NewHTTPHandler(svc *Service, logger *zap.Logger, maxUpload int64) *HTTPHandler {
	return &HTTPHandler{svc: svc, logger: logger, maxUpload: maxUpload}
}

// Submit handles POST /v1/submissions
// @Summary Submit a tool
// @Tags submissions
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Tool name"
// @Param description formData string true "Up to 250 characters"
// @Param website_url formData string true "Website"
// @Param category formData string true "Category label or slug"
// @Param pricing_type formData string false "Free, Paid or Freemium" default(Free)
// @Param tags formData string false "Comma separated tags"
// @Param has_api formData bool false "Offers an API"
// @Param image formData file false "Logo"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 413 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /v1/submissions [post]
func (h *HTTPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Submission is too large", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_FORM", "Expected a multipart form", nil)
		return
	}

	in := Input{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		WebsiteURL:  r.FormValue("website_url"),
		Category:    r.FormValue("category"),
		Pricing:     r.FormValue("pricing_type"),
		Tags:        SplitTags(r.FormValue("tags")),
		Users:       r.FormValue("users"),
	}
	// Public submissions without a tier are listed as free.
	if in.Pricing == "" {
		in.Pricing = "Free"
	}
	if v := r.FormValue("has_api"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "Invalid submission",
				[]httpx.ErrorDetail{{Field: "has_api", Message: "has_api must be a boolean"}})
			return
		}
		in.HasAPI = b
	}

	img, err := h.readImage(r)
	if err != nil {
		if errors.Is(err, errImageTooLarge) {
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Image is too large", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_FORM", "Could not read image", nil)
		return
	}
	in.Image = img

	h.submit(w, r, in)
}

// AdminCreate handles POST /v1/admin/tools
// @Summary Create a tool as an administrator
// @Tags admin
// @Accept json
// @Produce json
// @Param body body Input true "Tool"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /v1/admin/tools [post]
func (h *HTTPHandler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body", nil)
		return
	}
	h.submit(w, r, in)
}

func (h *HTTPHandler) submit(w http.ResponseWriter, r *http.Request, in Input) {
	res, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		var verrs ValidationErrors
		switch {
		case errors.As(err, &verrs):
			details := make([]httpx.ErrorDetail, len(verrs))
			for i, fe := range verrs {
				details[i] = httpx.ErrorDetail{Field: fe.Field, Message: fe.Message}
			}
			httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "Invalid submission", details)
		case errors.Is(err, ErrUploadFailed):
			h.logger.Warn("submission upload", zap.Error(err))
			httpx.JSONError(w, r, http.StatusBadGateway, "UPLOAD_FAILED", "Image upload failed, nothing was saved", nil)
		default:
			h.logger.Error("submission", zap.Error(err))
			httpx.Internal(w, r)
		}
		return
	}
	httpx.JSONCreated(w, r, res)
}

var errImageTooLarge = errors.New("image too large")

func (h *HTTPHandler) readImage(r *http.Request) (*Image, error) {
	f, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > h.maxUpload {
		return nil, errImageTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &Image{Data: data, ContentType: contentType, Filename: header.Filename}, nil
}
