package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/futig/diabetes-api/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Recoverer turns a handler panic into a 500 with the usual {"detail": ...} body.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			ctxzap.Error(r.Context(), "panic while handling request",
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()),
			)
			response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}()

		next.ServeHTTP(w, r)
	})
}
