package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows any origin, method and header, with credentials.
// The request's Origin is echoed back since "*" is not valid together with credentials.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc:  func(*http.Request, string) bool { return true },
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           600,
	})
}
