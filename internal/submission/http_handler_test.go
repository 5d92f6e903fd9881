package submission

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"agentzone/internal/tool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func multipartRequest(t *testing.T, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="logo.png"`)
		h.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/v1/submissions", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func formFields() map[string]string {
	return map[string]string{
		"name":        "Runway",
		"description": "AI video generation and editing tools.",
		"website_url": "https://runwayml.com",
		"category":    "Video & Animation",
		"tags":        "Video, Editing",
		"has_api":     "true",
	}
}

func TestHTTPHandler_Submit(t *testing.T) {
	t.Run("created with image and default pricing", func(t *testing.T) {
		svc, up, cr, _ := newTestService()
		h := NewHTTPHandler(svc, zap.NewNop(), 1<<20)

		up.On("Upload", mock.Anything, "logos/fixed-id.png", "image/png", []byte("png-bytes")).
			Return("https://cdn.example/logos/fixed-id.png", nil)
		cr.On("Create", mock.Anything, mock.MatchedBy(func(tl *tool.Tool) bool {
			return tl.Pricing == tool.PricingFree &&
				tl.HasAPI &&
				tl.Category == tool.CategoryVideo &&
				assert.ObjectsAreEqual([]string{"Video", "Editing"}, tl.Tags)
		})).Return("t-1", nil)

		w := httptest.NewRecorder()
		h.Submit(w, multipartRequest(t, formFields(), []byte("png-bytes")))

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"t-1"`)
		assert.Contains(t, w.Body.String(), `"image_url":"https://cdn.example/logos/fixed-id.png"`)
		cr.AssertExpectations(t)
	})

	t.Run("validation failure", func(t *testing.T) {
		svc, _, cr, _ := newTestService()
		h := NewHTTPHandler(svc, zap.NewNop(), 1<<20)
		fields := formFields()
		fields["description"] = strings.Repeat("x", 251)

		w := httptest.NewRecorder()
		h.Submit(w, multipartRequest(t, fields, nil))

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"VALIDATION_FAILED"`)
		assert.Contains(t, w.Body.String(), `"field":"description"`)
		cr.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("upload failure", func(t *testing.T) {
		svc, up, cr, _ := newTestService()
		h := NewHTTPHandler(svc, zap.NewNop(), 1<<20)
		up.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("503"))

		w := httptest.NewRecorder()
		h.Submit(w, multipartRequest(t, formFields(), []byte("png-bytes")))

		require.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"UPLOAD_FAILED"`)
		cr.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("image too large", func(t *testing.T) {
		svc, up, _, _ := newTestService()
		h := NewHTTPHandler(svc, zap.NewNop(), 1<<10)

		w := httptest.NewRecorder()
		h.Submit(w, multipartRequest(t, formFields(), bytes.Repeat([]byte("x"), 2<<10)))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		up.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not multipart", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		h := NewHTTPHandler(svc, zap.NewNop(), 1<<20)

		w := httptest.NewRecorder()
		h.Submit(w, httptest.NewRequest(http.MethodPost, "/v1/submissions", strings.NewReader("{}")))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_AdminCreate(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc, up, cr, _ := newTestService()
		h := NewHTTPHandler(svc, zap.NewNop(), 1<<20)
		cr.On("Create", mock.Anything, mock.MatchedBy(func(tl *tool.Tool) bool {
			return tl.Pricing == tool.PricingPaid && tl.ImageURL != nil && *tl.ImageURL == "https://cdn.example/x.png"
		})).Return("t-2", nil)

		body := `{"name":"Midjourney","description":"AI art generator","website_url":"https://midjourney.com",
			"category":"image-design","pricing_type":"Paid","tags":["Art"],"image_url":"https://cdn.example/x.png"}`
		w := httptest.NewRecorder()
		h.AdminCreate(w, httptest.NewRequest(http.MethodPost, "/v1/admin/tools", strings.NewReader(body)))

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"t-2"`)
		up.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("pricing required", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		h := NewHTTPHandler(svc, zap.NewNop(), 1<<20)

		body := `{"name":"X","description":"d","website_url":"https://x.dev","category":"chat"}`
		w := httptest.NewRecorder()
		h.AdminCreate(w, httptest.NewRequest(http.MethodPost, "/v1/admin/tools", strings.NewReader(body)))

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"pricing_type"`)
	})

	t.Run("bad json", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		h := NewHTTPHandler(svc, zap.NewNop(), 1<<20)

		w := httptest.NewRecorder()
		h.AdminCreate(w, httptest.NewRequest(http.MethodPost, "/v1/admin/tools", strings.NewReader("{")))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
