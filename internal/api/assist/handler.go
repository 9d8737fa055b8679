package assist

import (
	"context"
	"errors"
	"net/http"

	"github.com/futig/diabetes-api/internal/entity"
	"github.com/futig/diabetes-api/internal/pkg/logger"
	"github.com/futig/diabetes-api/internal/pkg/response"
	"github.com/futig/diabetes-api/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	assistErrorPrefix = "AI Assistance Error: "
	askErrorPrefix    = "Query Error: "
)

type Handler struct {
	usecase AssistUsecase
}

func NewHandler(usecase AssistUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// AIAssist handles POST /ai-assist
func (h *Handler) AIAssist(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "AIAssist")

	var req entity.AssistRequest
	if err := validator.DecodeJSON(w, r, &req); err != nil {
		h.handleUsecaseError(ctx, w, assistErrorPrefix, err)
		return
	}
	if err := validator.ValidateAssist(&req); err != nil {
		h.handleUsecaseError(ctx, w, assistErrorPrefix, err)
		return
	}

	text, err := h.usecase.Assist(ctx, *req.Result)
	if err != nil {
		h.handleUsecaseError(ctx, w, assistErrorPrefix, err)
		return
	}

	response.Success(w, entity.AssistResponse{Assistance: text})
}

// Ask handles POST /ask
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Ask")

	var req entity.AskRequest
	if err := validator.DecodeJSON(w, r, &req); err != nil {
		h.handleUsecaseError(ctx, w, askErrorPrefix, err)
		return
	}
	if err := validator.ValidateAsk(&req); err != nil {
		h.handleUsecaseError(ctx, w, askErrorPrefix, err)
		return
	}

	ctx = logger.AddFields(ctx, zap.Int("query_length", len(*req.Query)))
	ctxzap.Info(ctx, "answering query")

	resp, err := h.usecase.Ask(ctx, *req.Query)
	if err != nil {
		h.handleUsecaseError(ctx, w, askErrorPrefix, err)
		return
	}

	response.Success(w, resp)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, detail string, err error) {
	ctxzap.Error(ctx, "assistance request failed", zap.Int("status", status), zap.Error(err))
	response.Error(w, status, detail)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, prefix string, err error) {
	if errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidFormat) {
		h.respondError(ctx, w, http.StatusUnprocessableEntity, err.Error(), err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, prefix+err.Error(), err)
	}
}
