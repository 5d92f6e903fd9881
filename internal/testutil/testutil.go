package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"agentzone/internal/httpx"
	"agentzone/internal/tool"

	"github.com/golang-jwt/jwt/v5"
)

func score(v float64) *float64 { return &v }

// TestTool is a fixture tool for handler tests
var TestTool = tool.Tool{
	ID:          "test-tool-id-123",
	Name:        "ChatGPT",
	Description: "Advanced AI chatbot for conversations, writing, and problem-solving.",
	WebsiteURL:  "https://chat.openai.com",
	Category:    tool.CategoryChat,
	Tags:        []string{"Chat", "Writing", "Coding"},
	Pricing:     tool.PricingFreemium,
	TrendScore:  score(95),
	HasAPI:      true,
	IsTrending:  true,
	CreatedAt:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
}

// GenerateAdminToken signs a token whose app_metadata carries role
func GenerateAdminToken(secret, userID, role string) string {
	return signAdmin(secret, userID, role, time.Now().Add(time.Hour))
}

// GenerateExpiredToken generates an expired admin token for testing
func GenerateExpiredToken(secret, userID, role string) string {
	return signAdmin(secret, userID, role, time.Now().Add(-time.Hour))
}

func signAdmin(secret, userID, role string, expires time.Time) string {
	c := httpx.AdminClaims{
		Role:        "authenticated",
		AppMetadata: map[string]any{"role": role},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(expires.Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(secret))
	return token
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body any) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewRequestWithAuth creates a new HTTP request with a bearer token
func NewRequestWithAuth(method, path string, body any, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]any
	if len(bodyBytes) > 0 {
		_ = json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}

// ErrorCode returns error.code of an error envelope, or "".
func (r RecordResponse) ErrorCode() string {
	e, ok := r.Body["error"].(map[string]any)
	if !ok {
		return ""
	}
	code, _ := e["code"].(string)
	return code
}
