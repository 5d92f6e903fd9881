package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDMiddleware(t *testing.T) {
	cases := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"caller id kept", "cron-refresh-7", true},
		{"missing id generated", "", false},
		{"oversized id replaced", strings.Repeat("a", maxRequestIDLen+1), false},
		{"whitespace id replaced", "two words", false},
		{"control characters replaced", "id\x00", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var seen string
			h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestIDFrom(r)
			}))

			req := httptest.NewRequest(http.MethodGet, "/v1/home", nil)
			if tc.incoming != "" {
				req.Header.Set(RequestIDHeader, tc.incoming)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.NotEmpty(t, seen)
			assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
			if tc.keep {
				assert.Equal(t, tc.incoming, seen)
			} else {
				assert.NotEqual(t, tc.incoming, seen)
			}
		})
	}
}
