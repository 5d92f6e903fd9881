package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testJWTSecret = "test-jwt-secret"

func signToken(t *testing.T, secret string, claims AdminClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func claimsFor(role string, appRole string, exp time.Duration) AdminClaims {
	c := AdminClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(exp)),
		},
	}
	if appRole != "" {
		c.AppMetadata = map[string]any{"role": appRole}
	}
	return c
}

func TestAdminMiddleware(t *testing.T) {
	var gotUser, gotRole string
	handler := AdminMiddleware(testJWTSecret, "admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotRole = UserIDFrom(r), RoleFrom(r)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", claimsFor("authenticated", "admin", time.Hour)), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, testJWTSecret, claimsFor("authenticated", "admin", -time.Hour)), http.StatusUnauthorized},
		{"non admin", "Bearer " + signToken(t, testJWTSecret, claimsFor("authenticated", "", time.Hour)), http.StatusForbidden},
		{"app metadata admin", "Bearer " + signToken(t, testJWTSecret, claimsFor("authenticated", "admin", time.Hour)), http.StatusOK},
		{"top level admin", "Bearer " + signToken(t, testJWTSecret, claimsFor("admin", "", time.Hour)), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/admin/tools", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	assert.Equal(t, "user-1", gotUser)
	assert.Equal(t, "admin", gotRole)
}

func TestAdminMiddleware_EmptySecretRejects(t *testing.T) {
	handler := AdminMiddleware("", "admin")(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/trending/status", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "x", claimsFor("admin", "", time.Hour)))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInternalSecretMiddleware(t *testing.T) {
	handler := InternalSecretMiddleware("s3cret")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/internal/jobs/refresh-trending", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req.Header.Set("X-Internal-Secret", "s3cret")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	open := InternalSecretMiddleware("")(okHandler())
	w = httptest.NewRecorder()
	open.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/internal/jobs/refresh-trending", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
