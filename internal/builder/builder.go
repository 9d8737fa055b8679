package builder

import (
	"fmt"
	"net/http"

	"github.com/futig/diabetes-api/internal/api"
	assistapi "github.com/futig/diabetes-api/internal/api/assist"
	predictionapi "github.com/futig/diabetes-api/internal/api/prediction"
	systemapi "github.com/futig/diabetes-api/internal/api/system"
	"github.com/futig/diabetes-api/internal/artifact"
	"github.com/futig/diabetes-api/internal/config"
	"github.com/futig/diabetes-api/internal/gate"
	"github.com/futig/diabetes-api/internal/pkg/offload"
	"github.com/futig/diabetes-api/internal/rag"
	"github.com/futig/diabetes-api/internal/usecase/assist"
	"github.com/futig/diabetes-api/internal/usecase/prediction"
	"go.uber.org/zap"
)

// Build wires the application for the given environment. Nothing is loaded from disk here:
// the classifier, scaler and vector index are loaded on first use.
func Build(environment string) (*App, error) {
	cfg, err := config.LoadConfig(environment)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerCfg.Addr),
	)

	pool := offload.NewPool(cfg.WorkerPoolSize)

	// Initialize external service connectors (with mock support)
	conns, err := setupConnectors(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup connectors: %w", err)
	}

	// Lazily loaded components
	loader := artifact.NewLoader(cfg.ArtifactCfg, pool)
	chainAdapter := rag.NewAdapter(rag.AdapterConfig{
		RAG:            cfg.RAGCfg,
		Artifacts:      cfg.ArtifactCfg,
		EmbeddingModel: cfg.HuggingFaceCfg.EmbeddingModel,
		Prompts:        cfg.Prompts,
	}, rag.NewCachedEmbedder(conns.embedder, cfg.RAGCfg.EmbeddingTTL), conns.chat, pool,
		rag.WithTokenCounter(setupTokenCounter(logger)))
	queryGate := gate.NewGate(conns.chat, cfg.Prompts.Classifier, cfg.GateCfg.FailOpen)
	logger.Info("Components initialized",
		zap.String("artifact_base_path", cfg.ArtifactCfg.BasePath),
		zap.String("artifact_container_path", cfg.ArtifactCfg.ContainerPath),
		zap.Bool("gate_fail_open", cfg.GateCfg.FailOpen),
		zap.Int("worker_pool_size", cfg.WorkerPoolSize),
	)

	// Initialize use cases
	predictionUC := prediction.NewUsecase(loader, pool)
	assistUC := assist.NewUsecase(conns.assist, queryGate, chainAdapter, cfg.Prompts, pool)
	logger.Info("Use cases initialized")

	// Setup router
	router := api.SetupRouter(api.Handlers{
		System:     systemapi.NewHandler(loader, chainAdapter),
		Prediction: predictionapi.NewHandler(predictionUC),
		Assist:     assistapi.NewHandler(assistUC),
	}, cfg.ServerCfg.HandlerTimeout, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerCfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ServerCfg.ReadTimeout,
		WriteTimeout: cfg.ServerCfg.WriteTimeout,
		IdleTimeout:  cfg.ServerCfg.IdleTimeout,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:          server,
		logger:          logger,
		shutdownTimeout: cfg.ServerCfg.ShutdownTimeout,
	}, nil
}

func setupTokenCounter(logger *zap.Logger) rag.TokenCounter {
	counter, err := rag.NewTiktokenCounter()
	if err != nil {
		logger.Warn("Token encoding unavailable, context budget uses word estimate", zap.Error(err))
		return rag.WordCounter{}
	}
	return counter
}
