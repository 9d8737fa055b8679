package prediction

import (
	"context"
	"fmt"

	"github.com/futig/diabetes-api/internal/entity"
	"github.com/futig/diabetes-api/internal/pkg/offload"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	highRiskThreshold   = 0.7
	mediumRiskThreshold = 0.4
)

// PredictionUsecase runs the diabetes classifier on one patient record
type PredictionUsecase struct {
	artifacts ArtifactProvider
	pool      *offload.Pool
}

func NewUsecase(artifacts ArtifactProvider, pool *offload.Pool) *PredictionUsecase {
	return &PredictionUsecase{
		artifacts: artifacts,
		pool:      pool,
	}
}

// Predict scales the validated features, classifies them and derives the risk tier
// from the probability of the predicted class.
func (uc *PredictionUsecase) Predict(ctx context.Context, req *entity.PredictionRequest) (*entity.PredictionResult, error) {
	scaler, err := uc.artifacts.Scaler(ctx)
	if err != nil {
		return nil, err
	}
	classifier, err := uc.artifacts.Classifier(ctx)
	if err != nil {
		return nil, err
	}

	features := req.Features()
	probs, err := offload.Run(ctx, uc.pool, func(context.Context) ([]float64, error) {
		scaled, err := scaler.Transform(features)
		if err != nil {
			return nil, fmt.Errorf("scale features: %w", err)
		}
		return classifier.PredictProba(scaled)
	})
	if err != nil {
		return nil, err
	}

	class := argmax(probs)
	probability := probs[class]

	result := &entity.PredictionResult{
		Result:      label(class),
		Probability: FormatProbability(probability),
		RiskLevel:   RiskLevelFor(probability),
	}

	ctxzap.Info(ctx, "prediction completed",
		zap.Int("class", class),
		zap.Float64("probability", probability),
		zap.String("risk_level", string(result.RiskLevel)),
	)

	return result, nil
}

// argmax returns the first index holding the largest value.
func argmax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}

func label(class int) string {
	if class == 1 {
		return entity.LabelDiabetic
	}
	return entity.LabelNonDiabetic
}

// FormatProbability renders p in [0,1] as a percentage with two decimals, e.g. 0.82 -> "82.00%".
func FormatProbability(p float64) string {
	return fmt.Sprintf("%.2f%%", p*100)
}

func RiskLevelFor(p float64) entity.RiskLevel {
	switch {
	case p > highRiskThreshold:
		return entity.RiskHigh
	case p > mediumRiskThreshold:
		return entity.RiskMedium
	default:
		return entity.RiskLow
	}
}
