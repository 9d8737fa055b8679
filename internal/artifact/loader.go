package artifact

import (
	"context"
	"fmt"
	"os"

	"github.com/futig/diabetes-api/internal/config"
	"github.com/futig/diabetes-api/internal/metrics"
	"github.com/futig/diabetes-api/internal/pkg/lazy"
	"github.com/futig/diabetes-api/internal/pkg/offload"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ReadFileFunc reads a whole artifact file.
type ReadFileFunc func(path string) ([]byte, error)

// Loader owns the scaler and classifier singletons.
// Each is read from disk on first use, on the offload pool, and cached for the process lifetime.
type Loader struct {
	cfg        config.ArtifactConfig
	locator    Locator
	pool       *offload.Pool
	readFile   ReadFileFunc
	scaler     *lazy.Cell[*Scaler]
	classifier *lazy.Cell[*Classifier]
}

type LoaderOption func(*Loader)

// WithReadFile replaces os.ReadFile.
func WithReadFile(fn ReadFileFunc) LoaderOption {
	return func(l *Loader) {
		l.readFile = fn
	}
}

func NewLoader(cfg config.ArtifactConfig, pool *offload.Pool, opts ...LoaderOption) *Loader {
	l := &Loader{
		cfg:      cfg,
		locator:  Locator{ContainerPath: cfg.ContainerPath, BasePath: cfg.BasePath},
		pool:     pool,
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(l)
	}

	l.scaler = lazy.NewCell(func(ctx context.Context) (*Scaler, error) {
		return load(ctx, l, "scaler", cfg.ScalerFile, DecodeScaler)
	})
	l.classifier = lazy.NewCell(func(ctx context.Context) (*Classifier, error) {
		return load(ctx, l, "classifier", cfg.ModelFile, DecodeClassifier)
	})

	return l
}

// Scaler returns the fitted feature scaler, loading it on first use.
func (l *Loader) Scaler(ctx context.Context) (*Scaler, error) {
	return l.scaler.Get(ctx)
}

// Classifier returns the trained classifier, loading it on first use.
func (l *Loader) Classifier(ctx context.Context) (*Classifier, error) {
	return l.classifier.Get(ctx)
}

func (l *Loader) ScalerLoaded() bool {
	return l.scaler.Loaded()
}

func (l *Loader) ClassifierLoaded() bool {
	return l.classifier.Loaded()
}

func load[T any](ctx context.Context, l *Loader, kind, name string, decode func([]byte) (T, error)) (T, error) {
	v, err := offload.Run(ctx, l.pool, func(ctx context.Context) (T, error) {
		var zero T

		path, err := l.locator.Resolve(name)
		if err != nil {
			return zero, err
		}

		ctxzap.Info(ctx, "loading artifact", zap.String("artifact", kind), zap.String("path", path))

		data, err := l.readFile(path)
		if err != nil {
			return zero, fmt.Errorf("read %s: %w", path, err)
		}

		return decode(data)
	})
	metrics.ArtifactLoad(kind, err)
	if err != nil {
		ctxzap.Error(ctx, "failed to load artifact", zap.String("artifact", kind), zap.Error(err))
		return v, fmt.Errorf("load %s artifact: %w", kind, err)
	}

	ctxzap.Info(ctx, "artifact loaded successfully", zap.String("artifact", kind))
	return v, nil
}
