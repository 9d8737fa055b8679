package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/diabetes-api/internal/config"
	"github.com/futig/diabetes-api/internal/entity"
	"github.com/futig/diabetes-api/internal/metrics"
	pkghttp "github.com/futig/diabetes-api/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"go.uber.org/zap"
)

const provider = "chat"

// Connector calls an OpenAI-compatible chat-completion endpoint.
// The SDK's built-in retries are disabled; every call is attempted once.
type Connector struct {
	config config.ChatConfig
	client openai.Client
}

func NewConnector(cfg config.ChatConfig) *Connector {
	httpClient := pkghttp.NewClient(
		pkghttp.WithRequestTimeout(cfg.Timeout),
		pkghttp.WithResponseHeaderTimeout(cfg.Timeout),
		pkghttp.WithRequestLogging(),
	)

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.Url),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	)

	return &Connector{
		config: cfg,
		client: client,
	}
}

// Generate sends opts.System (if any) and prompt as a two-message conversation
// and returns the content of the first choice.
func (c *Connector) Generate(ctx context.Context, prompt string, opts entity.GenerateOptions) (text string, err error) {
	start := time.Now()
	defer func() { metrics.RemoteCall(provider, "generate", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if opts.System != "" {
		messages = append(messages, openai.SystemMessage(opts.System))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.config.Model),
		Messages:    messages,
		Temperature: openai.Float(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.TopP > 0 {
		params.TopP = openai.Float(opts.TopP)
	}

	ctxzap.Debug(ctx, "requesting chat completion", zap.String("model", c.config.Model))

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: %w", entity.ErrEmptyResponse)
	}

	return resp.Choices[0].Message.Content, nil
}
