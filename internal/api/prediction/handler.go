package prediction

import (
	"context"
	"errors"
	"net/http"

	"github.com/futig/diabetes-api/internal/entity"
	"github.com/futig/diabetes-api/internal/pkg/logger"
	"github.com/futig/diabetes-api/internal/pkg/response"
	"github.com/futig/diabetes-api/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const errorPrefix = "Prediction Error: "

type Handler struct {
	usecase PredictionUsecase
}

func NewHandler(usecase PredictionUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// Predict handles POST /predict
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Predict")

	var req entity.PredictionRequest
	if err := validator.DecodeJSON(w, r, &req); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	if err := validator.ValidatePrediction(&req); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	result, err := h.usecase.Predict(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, result)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, detail string, err error) {
	ctxzap.Error(ctx, "prediction request failed", zap.Int("status", status), zap.Error(err))
	response.Error(w, status, detail)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidFormat) {
		h.respondError(ctx, w, http.StatusUnprocessableEntity, err.Error(), err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, errorPrefix+err.Error(), err)
	}
}
