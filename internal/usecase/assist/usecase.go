package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/diabetes-api/internal/config"
	"github.com/futig/diabetes-api/internal/entity"
	"github.com/futig/diabetes-api/internal/pkg/offload"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// assistOptions are the sampling settings for /ai-assist
var assistOptions = entity.GenerateOptions{
	MaxTokens:         150,
	Temperature:       0.7,
	TopP:              0.95,
	RepetitionPenalty: 1.15,
}

var instTags = strings.NewReplacer("[INST]", "", "[/INST]", "")

// AssistUsecase serves the two language-model endpoints.
// Offloaded jobs never nest: lazy chain loading happens before the chain itself is offloaded.
type AssistUsecase struct {
	generator Generator
	gate      Gate
	chains    ChainProvider
	prompts   config.Prompts
	pool      *offload.Pool
}

func NewUsecase(
	generator Generator,
	gate Gate,
	chains ChainProvider,
	prompts config.Prompts,
	pool *offload.Pool,
) *AssistUsecase {
	return &AssistUsecase{
		generator: generator,
		gate:      gate,
		chains:    chains,
		prompts:   prompts,
		pool:      pool,
	}
}

// Assist explains a prediction result in plain language.
func (uc *AssistUsecase) Assist(ctx context.Context, result string) (string, error) {
	prompt := fmt.Sprintf(uc.prompts.Assist, result)

	text, err := offload.Run(ctx, uc.pool, func(ctx context.Context) (string, error) {
		return uc.generator.Generate(ctx, prompt, assistOptions)
	})
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(instTags.Replace(text))
	if text == "" {
		return "", entity.ErrEmptyResponse
	}

	ctxzap.Info(ctx, "assistance generated", zap.Int("length", len(text)))
	return text, nil
}

// Ask answers a free-text health question. Out-of-scope questions get the fixed refusal
// and never reach retrieval.
func (uc *AssistUsecase) Ask(ctx context.Context, query string) (*entity.AskResponse, error) {
	inScope, err := offload.Run(ctx, uc.pool, func(ctx context.Context) (bool, error) {
		return uc.gate.IsInScope(ctx, query), nil
	})
	if err != nil {
		return nil, err
	}

	if !inScope {
		ctxzap.Info(ctx, "query refused as out of scope")
		return &entity.AskResponse{
			Response: uc.prompts.Refusal,
			Sources:  []string{},
		}, nil
	}

	chain, err := uc.chains.QueryChain(ctx)
	if err != nil {
		return nil, err
	}

	answer, err := offload.Run(ctx, uc.pool, func(ctx context.Context) (*entity.RAGAnswer, error) {
		return chain.Invoke(ctx, query)
	})
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "query answered", zap.Int("sources", len(answer.Sources)))

	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}
	return &entity.AskResponse{
		Response: answer.Answer,
		Sources:  sources,
	}, nil
}
