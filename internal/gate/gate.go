// Package gate decides whether a free-text question is medical before any retrieval happens.
package gate

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/diabetes-api/internal/entity"
	"github.com/futig/diabetes-api/internal/metrics"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	DecisionInScope    = "in_scope"
	DecisionOutOfScope = "out_of_scope"
	DecisionFailOpen   = "fail_open"
	DecisionFailClosed = "fail_closed"

	labelMaxTokens = 5
)

// negative labels also contain "medical" and must be checked first
var negativeLabels = []string{"non-medical", "non medical", "nonmedical", "not medical"}

type Generator interface {
	Generate(ctx context.Context, prompt string, opts entity.GenerateOptions) (string, error)
}

type Gate struct {
	generator Generator
	prompt    string
	failOpen  bool
}

// NewGate builds a gate around a classification prompt with a single %s for the question.
// failOpen decides the answer when the model call fails.
func NewGate(generator Generator, prompt string, failOpen bool) *Gate {
	return &Gate{
		generator: generator,
		prompt:    prompt,
		failOpen:  failOpen,
	}
}

// IsInScope asks the model for a one-word label. It never returns an error:
// a failed call is logged and resolved by the fail-open policy.
func (g *Gate) IsInScope(ctx context.Context, query string) bool {
	reply, err := g.generator.Generate(ctx, fmt.Sprintf(g.prompt, query), entity.GenerateOptions{
		MaxTokens:   labelMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		decision := DecisionFailClosed
		if g.failOpen {
			decision = DecisionFailOpen
		}
		ctxzap.Error(ctx, "query classification failed",
			zap.Error(err),
			zap.String("decision", decision),
		)
		metrics.GateDecision(decision)
		return g.failOpen
	}

	label := strings.ToLower(strings.TrimSpace(reply))
	inScope := IsMedicalLabel(label)

	decision := DecisionOutOfScope
	if inScope {
		decision = DecisionInScope
	}
	ctxzap.Info(ctx, "query classified", zap.String("label", label), zap.String("decision", decision))
	metrics.GateDecision(decision)

	return inScope
}

// IsMedicalLabel reports whether a lower-cased classifier reply is the positive label.
func IsMedicalLabel(label string) bool {
	for _, neg := range negativeLabels {
		if strings.Contains(label, neg) {
			return false
		}
	}
	return strings.Contains(label, "medical")
}
