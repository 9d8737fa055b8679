package huggingface

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/futig/diabetes-api/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockDimension matches all-MiniLM-L6-v2.
const MockDimension = 384

// MockConnector returns canned generations and deterministic hashed embeddings.
type MockConnector struct{}

func NewMockConnector() *MockConnector {
	return &MockConnector{}
}

func (m *MockConnector) Generate(ctx context.Context, prompt string, _ entity.GenerateOptions) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating text via Hugging Face", zap.Int("prompt_length", len(prompt)))

	return `1. Explanation: the model estimates your diabetes risk from the values you entered.
2. Health implications: elevated glucose over time affects the heart, kidneys, eyes and nerves.
3. Lifestyle: aim for regular sleep, stop smoking and keep a healthy weight.
4. Diet and exercise: prefer whole grains and vegetables, limit sugary drinks, walk 30 minutes a day.
5. See a doctor if you notice excessive thirst, frequent urination or blurred vision.`, nil
}

// Embed hashes lower-cased words into a fixed-size unit vector so identical texts
// and texts sharing words end up close to each other.
func (m *MockConnector) Embed(ctx context.Context, text string) ([]float32, error) {
	ctxzap.Debug(ctx, "[MOCK] embedding text via Hugging Face")

	vec := make([]float32, MockDimension)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		vec[h.Sum32()%MockDimension]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		vec[0] = 1
		return vec, nil
	}

	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}

	return vec, nil
}
