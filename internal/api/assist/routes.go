package assist

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the language-model routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/ai-assist", h.AIAssist)
	r.Post("/ask", h.Ask)
}
