package rag

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/futig/diabetes-api/internal/artifact"
	"github.com/futig/diabetes-api/internal/config"
	"github.com/futig/diabetes-api/internal/entity"
	"github.com/futig/diabetes-api/internal/metrics"
	"github.com/futig/diabetes-api/internal/pkg/lazy"
	"github.com/futig/diabetes-api/internal/pkg/offload"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type AdapterConfig struct {
	RAG            config.RAGConfig
	Artifacts      config.ArtifactConfig
	EmbeddingModel string
	Prompts        config.Prompts
}

// Adapter builds the query chain on first use and serves it afterwards.
// A missing or broken index only fails /ask; nothing is loaded at startup.
type Adapter struct {
	cfg       AdapterConfig
	locator   artifact.Locator
	embedder  Embedder
	generator Generator
	pool      *offload.Pool
	readFile  artifact.ReadFileFunc
	tokens    TokenCounter
	chain     *lazy.Cell[*Chain]
}

type AdapterOption func(*Adapter)

func WithIndexReadFile(fn artifact.ReadFileFunc) AdapterOption {
	return func(a *Adapter) {
		a.readFile = fn
	}
}

func WithTokenCounter(tc TokenCounter) AdapterOption {
	return func(a *Adapter) {
		a.tokens = tc
	}
}

func NewAdapter(
	cfg AdapterConfig,
	embedder Embedder,
	generator Generator,
	pool *offload.Pool,
	opts ...AdapterOption,
) *Adapter {
	a := &Adapter{
		cfg:       cfg,
		locator:   artifact.Locator{ContainerPath: cfg.Artifacts.ContainerPath, BasePath: cfg.Artifacts.BasePath},
		embedder:  embedder,
		generator: generator,
		pool:      pool,
		readFile:  os.ReadFile,
		tokens:    WordCounter{},
	}
	for _, opt := range opts {
		opt(a)
	}

	a.chain = lazy.NewCell(a.build)
	return a
}

// QueryChain returns the retrieval chain, loading the index on first use.
func (a *Adapter) QueryChain(ctx context.Context) (QueryChain, error) {
	chain, err := a.chain.Get(ctx)
	if err != nil {
		return nil, err
	}
	return chain, nil
}

func (a *Adapter) Loaded() bool {
	return a.chain.Loaded()
}

func (a *Adapter) build(ctx context.Context) (*Chain, error) {
	index, err := offload.Run(ctx, a.pool, a.loadIndex)
	metrics.ArtifactLoad("vector_index", err)
	if err != nil {
		ctxzap.Error(ctx, "failed to load vector index", zap.Error(err))
		return nil, fmt.Errorf("load vector index: %w", err)
	}

	ctxzap.Info(ctx, "vector index loaded",
		zap.Int("chunks", index.Len()),
		zap.Int("dimension", index.Dimension()),
	)

	return NewChain(index, a.embedder, a.generator, a.cfg.Prompts, a.cfg.RAG, a.tokens), nil
}

func (a *Adapter) loadIndex(ctx context.Context) (*Index, error) {
	dir, err := a.locator.Resolve(a.cfg.Artifacts.IndexDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrIndexNotFound, err)
	}

	path := filepath.Join(dir, IndexFile)
	ctxzap.Info(ctx, "loading vector index", zap.String("path", path))

	data, err := a.readFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", entity.ErrIndexNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return DecodeIndex(data, a.cfg.EmbeddingModel)
}
