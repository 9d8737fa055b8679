package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/futig/diabetes-api/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestValidatePrediction(t *testing.T) {
	full := entity.PredictionRequest{
		Pregnancies: ptr(0), Glucose: ptr(148), BloodPressure: ptr(72), SkinThickness: ptr(35),
		Insulin: ptr(0), BMI: ptr(33.6), DiabetesPedigreeFunction: ptr(0.627), Age: ptr(50),
	}
	require.NoError(t, ValidatePrediction(&full))

	partial := full
	partial.Glucose = nil
	partial.Age = nil

	err := ValidatePrediction(&partial)
	require.ErrorIs(t, err, entity.ErrMissingField)
	assert.Equal(t, "field required: glucose, age", err.Error())
}

func TestValidateAssistAndAsk(t *testing.T) {
	empty := ""
	assert.NoError(t, ValidateAssist(&entity.AssistRequest{Result: &empty}))
	assert.ErrorIs(t, ValidateAssist(&entity.AssistRequest{}), entity.ErrMissingField)
	assert.NoError(t, ValidateAsk(&entity.AskRequest{Query: &empty}))
	assert.ErrorIs(t, ValidateAsk(&entity.AskRequest{}), entity.ErrMissingField)
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"glucose": 120}`},
		{name: "empty body", body: ``, wantErr: "request body is required"},
		{name: "wrong type", body: `{"glucose": "high"}`, wantErr: `field "glucose" must be a float64`},
		{name: "malformed", body: `{"glucose": }`, wantErr: "malformed JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/predict", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var req entity.PredictionRequest
			err := DecodeJSON(w, r, &req)
			if tt.wantErr == "" {
				require.NoError(t, err)
				require.NotNil(t, req.Glucose)
				assert.InDelta(t, 120, *req.Glucose, 1e-9)
				return
			}
			require.ErrorIs(t, err, entity.ErrInvalidFormat)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
