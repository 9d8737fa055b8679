package chat

import (
	"context"
	"strings"

	"github.com/futig/diabetes-api/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers classification prompts with "medical" and everything else
// with a fixed structured answer.
type MockConnector struct{}

func NewMockConnector() *MockConnector {
	return &MockConnector{}
}

func (m *MockConnector) Generate(ctx context.Context, prompt string, opts entity.GenerateOptions) (string, error) {
	ctxzap.Info(ctx, "[MOCK] requesting chat completion", zap.Int("prompt_length", len(prompt)))

	if opts.System == "" && strings.Contains(prompt, "non-medical") {
		return "medical", nil
	}

	return `Diabetes is a chronic condition that affects how the body turns food into energy.

Key points:
- Blood glucose stays above the normal range.
- Type 2 diabetes is linked to weight, activity and genetics.

Recommendations:
- Check your blood glucose regularly.
- Follow a balanced diet and stay active.

Disclaimer: This information is for educational purposes only and is not a substitute for professional medical advice.`, nil
}
