package builder

import (
	"fmt"

	"github.com/futig/diabetes-api/internal/config"
	"github.com/futig/diabetes-api/internal/integration/chat"
	"github.com/futig/diabetes-api/internal/integration/huggingface"
	"github.com/futig/diabetes-api/internal/integration/ollama"
	"github.com/futig/diabetes-api/internal/rag"
	"github.com/futig/diabetes-api/internal/usecase/assist"
	"go.uber.org/zap"
)

type connectors struct {
	embedder rag.Embedder
	chat     rag.Generator
	assist   assist.Generator
}

func setupConnectors(cfg *config.Config, logger *zap.Logger) (*connectors, error) {
	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		hf := huggingface.NewMockConnector()
		return &connectors{
			embedder: hf,
			chat:     chat.NewMockConnector(),
			assist:   hf,
		}, nil
	}

	logger.Info("Using real connectors for external services",
		zap.String("assist_provider", cfg.AssistProvider),
		zap.String("chat_model", cfg.ChatCfg.Model),
		zap.String("generation_model", cfg.HuggingFaceCfg.GenerationModel),
		zap.String("embedding_model", cfg.HuggingFaceCfg.EmbeddingModel),
	)

	hf := huggingface.NewConnector(cfg.HuggingFaceCfg)
	chatConn := chat.NewConnector(cfg.ChatCfg)

	c := &connectors{
		embedder: hf,
		chat:     chatConn,
	}

	switch cfg.AssistProvider {
	case "huggingface":
		c.assist = hf
	case "chat":
		c.assist = chatConn
	case "ollama":
		ollamaConn, err := ollama.NewConnector(cfg.OllamaCfg)
		if err != nil {
			return nil, err
		}
		c.assist = ollamaConn
	default:
		return nil, fmt.Errorf("unknown assist provider %q", cfg.AssistProvider)
	}

	return c, nil
}
