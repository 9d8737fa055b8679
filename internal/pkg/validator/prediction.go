package validator

import (
	"fmt"
	"strings"

	"github.com/futig/diabetes-api/internal/entity"
)

// ValidatePrediction reports every missing feature at once, in training order.
func ValidatePrediction(req *entity.PredictionRequest) error {
	fields := []struct {
		name  string
		value *float64
	}{
		{"pregnancies", req.Pregnancies},
		{"glucose", req.Glucose},
		{"bloodPressure", req.BloodPressure},
		{"skinThickness", req.SkinThickness},
		{"insulin", req.Insulin},
		{"bmi", req.BMI},
		{"diabetesPedigreeFunction", req.DiabetesPedigreeFunction},
		{"age", req.Age},
	}

	var missing []string
	for _, f := range fields {
		if f.value == nil {
			missing = append(missing, f.name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", entity.ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

func ValidateAssist(req *entity.AssistRequest) error {
	if req.Result == nil {
		return fmt.Errorf("%w: result", entity.ErrMissingField)
	}
	return nil
}

func ValidateAsk(req *entity.AskRequest) error {
	if req.Query == nil {
		return fmt.Errorf("%w: query", entity.ErrMissingField)
	}
	return nil
}
