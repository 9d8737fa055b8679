package artifact

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/futig/diabetes-api/internal/entity"
)

// Scaler is a fitted standard scaler: x' = (x - mean) / scale.
type Scaler struct {
	mean  []float64
	scale []float64
}

type scalerFile struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// DecodeScaler parses the JSON export of a fitted scaler.
func DecodeScaler(data []byte) (*Scaler, error) {
	var f scalerFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: scaler: %v", entity.ErrArtifactInvalid, err)
	}

	if len(f.Mean) != entity.FeatureCount || len(f.Scale) != entity.FeatureCount {
		return nil, fmt.Errorf("%w: scaler expects %d means and scales, got %d and %d",
			entity.ErrArtifactInvalid, entity.FeatureCount, len(f.Mean), len(f.Scale))
	}

	scale := make([]float64, len(f.Scale))
	for i, s := range f.Scale {
		if math.IsNaN(s) || math.IsInf(s, 0) || math.IsNaN(f.Mean[i]) || math.IsInf(f.Mean[i], 0) {
			return nil, fmt.Errorf("%w: scaler feature %d is not finite", entity.ErrArtifactInvalid, i)
		}
		// zero variance features are left unscaled, as scikit-learn does
		if s == 0 {
			s = 1
		}
		scale[i] = s
	}

	return &Scaler{mean: f.Mean, scale: scale}, nil
}

// Transform scales one feature row.
func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.mean) {
		return nil, fmt.Errorf("%w: scaler expects %d features, got %d", entity.ErrFeatureMismatch, len(s.mean), len(x))
	}

	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out, nil
}
