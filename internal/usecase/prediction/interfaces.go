package prediction

import (
	"context"

	"github.com/futig/diabetes-api/internal/artifact"
)

type ArtifactProvider interface {
	Scaler(ctx context.Context) (*artifact.Scaler, error)
	Classifier(ctx context.Context) (*artifact.Classifier, error)
}
