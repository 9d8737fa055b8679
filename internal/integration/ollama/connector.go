package ollama

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/futig/diabetes-api/internal/config"
	"github.com/futig/diabetes-api/internal/entity"
	"github.com/futig/diabetes-api/internal/metrics"
	pkghttp "github.com/futig/diabetes-api/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jmorganca/ollama/api"
	"go.uber.org/zap"
)

const provider = "ollama"

// Connector generates text with a self-hosted Ollama server.
type Connector struct {
	config config.OllamaConfig
	client *api.Client
}

func NewConnector(cfg config.OllamaConfig) (*Connector, error) {
	host, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_HOST %q: %w", cfg.Host, err)
	}

	httpClient := pkghttp.NewClient(
		pkghttp.WithRequestTimeout(cfg.Timeout),
		pkghttp.WithResponseHeaderTimeout(cfg.Timeout),
		pkghttp.WithRequestLogging(),
	)

	return &Connector{
		config: cfg,
		client: api.NewClient(host, httpClient),
	}, nil
}

func (c *Connector) Generate(ctx context.Context, prompt string, opts entity.GenerateOptions) (text string, err error) {
	start := time.Now()
	defer func() { metrics.RemoteCall(provider, "generate", start, err) }()

	messages := make([]api.Message, 0, 2)
	if opts.System != "" {
		messages = append(messages, api.Message{Role: "system", Content: opts.System})
	}
	messages = append(messages, api.Message{Role: "user", Content: prompt})

	options := map[string]any{
		"temperature": opts.Temperature,
	}
	if opts.MaxTokens > 0 {
		options["num_predict"] = opts.MaxTokens
	}
	if opts.TopP > 0 {
		options["top_p"] = opts.TopP
	}
	if opts.RepetitionPenalty > 0 {
		options["repeat_penalty"] = opts.RepetitionPenalty
	}

	stream := false
	req := &api.ChatRequest{
		Model:    c.config.Model,
		Messages: messages,
		Options:  options,
		Stream:   &stream,
	}

	ctxzap.Debug(ctx, "requesting ollama chat", zap.String("model", c.config.Model))

	var sb strings.Builder
	err = c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}

	return sb.String(), nil
}
