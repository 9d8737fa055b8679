package assist

import (
	"context"

	"github.com/futig/diabetes-api/internal/entity"
	"github.com/futig/diabetes-api/internal/rag"
)

type Generator interface {
	Generate(ctx context.Context, prompt string, opts entity.GenerateOptions) (string, error)
}

type Gate interface {
	IsInScope(ctx context.Context, query string) bool
}

type ChainProvider interface {
	QueryChain(ctx context.Context) (rag.QueryChain, error)
}
