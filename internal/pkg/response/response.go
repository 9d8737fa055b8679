package response

import (
	"encoding/json"
	"net/http"

	"github.com/futig/diabetes-api/internal/entity"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		// headers are already sent, nothing useful left to do on failure
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Error writes {"detail": message}
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, entity.ErrorResponse{Detail: message})
}

// Success writes a 200 response
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}
