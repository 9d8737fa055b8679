package prediction

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/futig/diabetes-api/internal/artifact"
	"github.com/futig/diabetes-api/internal/config"
	"github.com/futig/diabetes-api/internal/entity"
	"github.com/futig/diabetes-api/internal/pkg/offload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const identityScaler = `{"mean":[0,0,0,0,0,0,0,0],"scale":[1,1,1,1,1,1,1,1]}`

// constantModel always predicts P(class 1) = p.
func constantModel(t *testing.T, p float64) string {
	t.Helper()
	weights := make([][]float64, entity.FeatureCount)
	for i := range weights {
		weights[i] = []float64{0}
	}
	data, err := json.Marshal(map[string]any{
		"input_dim": entity.FeatureCount,
		"layers": []map[string]any{
			{"weights": weights, "bias": []float64{math.Log(p / (1 - p))}, "activation": "sigmoid"},
		},
	})
	require.NoError(t, err)
	return string(data)
}

func newUsecase(t *testing.T, scaler, model string) *PredictionUsecase {
	t.Helper()
	dir := t.TempDir()
	if scaler != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "scaler.json"), []byte(scaler), 0o600))
	}
	if model != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "model.json"), []byte(model), 0o600))
	}

	pool := offload.NewPool(4)
	loader := artifact.NewLoader(config.ArtifactConfig{
		BasePath:   dir,
		ScalerFile: "scaler.json",
		ModelFile:  "model.json",
	}, pool)

	return NewUsecase(loader, pool)
}

func samplePatient() *entity.PredictionRequest {
	v := func(f float64) *float64 { return &f }
	return &entity.PredictionRequest{
		Pregnancies: v(6), Glucose: v(148), BloodPressure: v(72), SkinThickness: v(35),
		Insulin: v(0), BMI: v(33.6), DiabetesPedigreeFunction: v(0.627), Age: v(50),
	}
}

func TestPredict(t *testing.T) {
	tests := []struct {
		name   string
		p      float64
		result string
		prob   string
		risk   entity.RiskLevel
	}{
		{name: "high risk diabetic", p: 0.82, result: entity.LabelDiabetic, prob: "82.00%", risk: entity.RiskHigh},
		{name: "medium risk diabetic", p: 0.6, result: entity.LabelDiabetic, prob: "60.00%", risk: entity.RiskMedium},
		{name: "confident non-diabetic", p: 0.25, result: entity.LabelNonDiabetic, prob: "75.00%", risk: entity.RiskHigh},
		{name: "tie goes to class 0", p: 0.5, result: entity.LabelNonDiabetic, prob: "50.00%", risk: entity.RiskMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUsecase(t, identityScaler, constantModel(t, tt.p))

			got, err := uc.Predict(context.Background(), samplePatient())
			require.NoError(t, err)
			assert.Equal(t, tt.result, got.Result)
			assert.Equal(t, tt.prob, got.Probability)
			assert.Equal(t, tt.risk, got.RiskLevel)
		})
	}
}

func TestPredict_MissingArtifacts(t *testing.T) {
	t.Run("scaler", func(t *testing.T) {
		uc := newUsecase(t, "", constantModel(t, 0.82))
		_, err := uc.Predict(context.Background(), samplePatient())
		require.ErrorIs(t, err, entity.ErrArtifactNotFound)
		assert.Contains(t, err.Error(), "scaler.json")
	})

	t.Run("classifier", func(t *testing.T) {
		uc := newUsecase(t, identityScaler, "")
		_, err := uc.Predict(context.Background(), samplePatient())
		require.ErrorIs(t, err, entity.ErrArtifactNotFound)
		assert.Contains(t, err.Error(), "model.json")
	})
}

func TestRiskLevelFor(t *testing.T) {
	tests := []struct {
		p    float64
		want entity.RiskLevel
	}{
		{p: 1, want: entity.RiskHigh},
		{p: 0.71, want: entity.RiskHigh},
		{p: 0.7, want: entity.RiskMedium},
		{p: 0.41, want: entity.RiskMedium},
		{p: 0.4, want: entity.RiskLow},
		{p: 0, want: entity.RiskLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevelFor(tt.p), "p=%v", tt.p)
	}
}

func TestArgmax(t *testing.T) {
	assert.Equal(t, 1, argmax([]float64{0.2, 0.8}))
	assert.Equal(t, 0, argmax([]float64{0.5, 0.5}))
	assert.Equal(t, 0, argmax([]float64{0.9, 0.1}))
}

func TestFormatProbability(t *testing.T) {
	assert.Equal(t, "82.00%", FormatProbability(0.82))
	assert.Equal(t, "100.00%", FormatProbability(1))
	assert.Equal(t, "12.35%", FormatProbability(0.123456))
}
