package system

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers service information routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
}
