package prediction

import (
	"context"

	"github.com/futig/diabetes-api/internal/entity"
)

type PredictionUsecase interface {
	Predict(ctx context.Context, req *entity.PredictionRequest) (*entity.PredictionResult, error)
}
