package entity

// FeatureCount is the number of inputs the classifier was trained on
const FeatureCount = 8

// PredictionRequest is the body of POST /predict.
// Pointers distinguish a missing field from an explicit zero.
type PredictionRequest struct {
	Pregnancies              *float64 `json:"pregnancies"`
	Glucose                  *float64 `json:"glucose"`
	BloodPressure            *float64 `json:"bloodPressure"`
	SkinThickness            *float64 `json:"skinThickness"`
	Insulin                  *float64 `json:"insulin"`
	BMI                      *float64 `json:"bmi"`
	DiabetesPedigreeFunction *float64 `json:"diabetesPedigreeFunction"`
	Age                      *float64 `json:"age"`
}

// Features returns the inputs in training order. Call only after validation.
func (r *PredictionRequest) Features() []float64 {
	return []float64{
		*r.Pregnancies,
		*r.Glucose,
		*r.BloodPressure,
		*r.SkinThickness,
		*r.Insulin,
		*r.BMI,
		*r.DiabetesPedigreeFunction,
		*r.Age,
	}
}

type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
)

const (
	LabelDiabetic    = "The patient has diabetes"
	LabelNonDiabetic = "The patient does not have diabetes"
)

type PredictionResult struct {
	Result      string    `json:"result"`
	Probability string    `json:"probability"`
	RiskLevel   RiskLevel `json:"risk_level"`
}
