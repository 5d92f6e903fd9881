package httpx

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AdminClaims is the subset of a hosted-auth access token we rely on.
type AdminClaims struct {
	Role        string         `json:"role"`
	AppMetadata map[string]any `json:"app_metadata,omitempty"`
	jwt.RegisteredClaims
}

// EffectiveRole prefers the role assigned in app_metadata over the token's
// database role, which is "authenticated" for every signed-in user.
func (c AdminClaims) EffectiveRole() string {
	if role, ok := c.AppMetadata["role"].(string); ok && role != "" {
		return role
	}
	return c.Role
}

// ParseAdminToken verifies an HS256 access token.
func ParseAdminToken(secret, tokenStr string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// AdminMiddleware admits requests carrying a valid bearer token whose role
// equals adminRole.
func AdminMiddleware(secret, adminRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if secret == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
				return
			}

			claims, err := ParseAdminToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token", nil)
				return
			}

			role := claims.EffectiveRole()
			if role != adminRole {
				JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Admin role required", nil)
				return
			}

			ctx := ContextWithUser(r.Context(), claims.Subject, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// InternalSecretMiddleware guards job endpoints with the X-Internal-Secret
// header. An empty secret disables the check.
func InternalSecretMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Internal-Secret")
			if secret != "" && subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid internal secret", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
