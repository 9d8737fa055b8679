package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds client-supplied ids so they cannot bloat every log line
const maxRequestIDLength = 128

// RequestID wraps chi's RequestID: a missing or oversized X-Request-ID is replaced
// with a UUID before chi stores it, and the id is echoed on the response.
func RequestID(next http.Handler) http.Handler {
	withID := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(RequestIDHeader, middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r)
	}))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(RequestIDHeader); id == "" || len(id) > maxRequestIDLength {
			r.Header.Set(RequestIDHeader, uuid.NewString())
		}
		withID.ServeHTTP(w, r)
	})
}
