package assist

import (
	"context"

	"github.com/futig/diabetes-api/internal/entity"
)

type AssistUsecase interface {
	Assist(ctx context.Context, result string) (string, error)
	Ask(ctx context.Context, query string) (*entity.AskResponse, error)
}
