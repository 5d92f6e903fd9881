package httpx

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions. Cron callers and
// the web client may supply their own so that a refresh can be traced end to end.
const RequestIDHeader = "X-Request-Id"

const maxRequestIDLen = 128

// RequestIDMiddleware keeps a well-formed incoming id and otherwise assigns a
// fresh uuid.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ContextWithRequestID(r.Context(), id)))
	})
}

// validRequestID rejects ids that would pollute logs: empty, oversized, or
// containing anything outside printable ASCII.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
