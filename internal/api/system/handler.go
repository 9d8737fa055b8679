package system

import (
	"net/http"

	"github.com/futig/diabetes-api/internal/entity"
	"github.com/futig/diabetes-api/internal/pkg/response"
)

const (
	serviceName = "Diabetes Prediction API"
	Version     = "1.0.0"
)

var endpoints = map[string]string{
	"predict":   "POST /predict",
	"ai_assist": "POST /ai-assist",
	"ask":       "POST /ask",
	"health":    "GET /health",
	"docs":      "GET /docs",
	"metrics":   "GET /metrics",
}

type Handler struct {
	artifacts ArtifactStatus
	chain     ChainStatus
}

func NewHandler(artifacts ArtifactStatus, chain ChainStatus) *Handler {
	return &Handler{
		artifacts: artifacts,
		chain:     chain,
	}
}

// Root handles GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	response.Success(w, entity.RootResponse{
		Message:   serviceName,
		Version:   Version,
		Endpoints: endpoints,
	})
}

// Health handles GET /health. It reports load state only and never triggers a load.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response.Success(w, entity.HealthResponse{
		Status: "healthy",
		Components: entity.HealthComponents{
			MLModel:  h.artifacts.ClassifierLoaded(),
			Scaler:   h.artifacts.ScalerLoaded(),
			RAGChain: h.chain.Loaded(),
		},
	})
}
