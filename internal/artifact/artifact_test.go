package artifact

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/futig/diabetes-api/internal/config"
	"github.com/futig/diabetes-api/internal/entity"
	"github.com/futig/diabetes-api/internal/pkg/offload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var identityScaler = `{"mean":[0,0,0,0,0,0,0,0],"scale":[1,1,1,1,1,1,1,1]}`

// logisticModel returns a single sigmoid unit reading only the first feature.
func logisticModel(w, b float64) string {
	weights := make([][]float64, entity.FeatureCount)
	for i := range weights {
		weights[i] = []float64{0}
	}
	weights[0][0] = w

	data, _ := json.Marshal(map[string]any{
		"input_dim": entity.FeatureCount,
		"layers": []map[string]any{
			{"weights": weights, "bias": []float64{b}, "activation": "sigmoid"},
		},
	})
	return string(data)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDecodeScaler(t *testing.T) {
	s, err := DecodeScaler([]byte(`{"mean":[1,2,3,4,5,6,7,8],"scale":[2,2,2,2,2,2,2,0]}`))
	require.NoError(t, err)

	out, err := s.Transform([]float64{3, 2, 1, 4, 5, 6, 7, 10})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, -1, 0, 0, 0, 0, 2}, out)

	_, err = s.Transform([]float64{1, 2})
	assert.ErrorIs(t, err, entity.ErrFeatureMismatch)
}

func TestDecodeScaler_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `pickle`},
		{name: "wrong length", data: `{"mean":[0,0],"scale":[1,1]}`},
		{name: "missing scale", data: `{"mean":[0,0,0,0,0,0,0,0]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeScaler([]byte(tt.data))
			assert.ErrorIs(t, err, entity.ErrArtifactInvalid)
		})
	}
}

func TestClassifier_SigmoidOutputExpandsToTwoClasses(t *testing.T) {
	c, err := DecodeClassifier([]byte(logisticModel(1, 0)))
	require.NoError(t, err)

	probs, err := c.PredictProba([]float64{0, 0, 0, 0, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, probs[0], 1e-9)
	assert.InDelta(t, 0.5, probs[1], 1e-9)

	probs, err = c.PredictProba([]float64{2, 0, 0, 0, 0, 0, 0, 0})
	require.NoError(t, err)
	want := 1 / (1 + math.Exp(-2))
	assert.InDelta(t, want, probs[1], 1e-9)
	assert.InDelta(t, 1-want, probs[0], 1e-9)
}

func TestClassifier_HiddenLayerAndSoftmax(t *testing.T) {
	hidden := make([][]float64, entity.FeatureCount)
	for i := range hidden {
		hidden[i] = []float64{0, 0}
	}
	hidden[0] = []float64{1, -1}

	data, err := json.Marshal(map[string]any{
		"input_dim": entity.FeatureCount,
		"layers": []map[string]any{
			{"weights": hidden, "bias": []float64{0, 0}, "activation": "relu"},
			{"weights": [][]float64{{1, 0}, {0, 1}}, "bias": []float64{0, 0}, "activation": "softmax"},
		},
	})
	require.NoError(t, err)

	c, err := DecodeClassifier(data)
	require.NoError(t, err)

	// relu(3)=3, relu(-3)=0 -> softmax(3, 0)
	probs, err := c.PredictProba([]float64{3, 0, 0, 0, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, probs[0]+probs[1], 1e-9)
	assert.InDelta(t, math.Exp(3)/(math.Exp(3)+1), probs[0], 1e-9)
}

func TestDecodeClassifier_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "wrong input dim", data: `{"input_dim":4,"layers":[{"weights":[[1],[1],[1],[1]],"bias":[0],"activation":"sigmoid"}]}`},
		{name: "no layers", data: `{"input_dim":8,"layers":[]}`},
		{name: "row mismatch", data: `{"input_dim":8,"layers":[{"weights":[[1]],"bias":[0],"activation":"sigmoid"}]}`},
		{name: "linear output", data: `{"input_dim":8,"layers":[{"weights":[[1],[1],[1],[1],[1],[1],[1],[1]],"bias":[0],"activation":"linear"}]}`},
		{name: "unknown activation", data: `{"input_dim":8,"layers":[{"weights":[[1],[1],[1],[1],[1],[1],[1],[1]],"bias":[0],"activation":"gelu"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeClassifier([]byte(tt.data))
			assert.ErrorIs(t, err, entity.ErrArtifactInvalid)
		})
	}
}

func TestLocator_ContainerPathFirst(t *testing.T) {
	container := t.TempDir()
	base := t.TempDir()
	writeFile(t, base, "scaler.json", identityScaler)

	loc := Locator{ContainerPath: container, BasePath: base}
	path, err := loc.Resolve("scaler.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "scaler.json"), path)

	writeFile(t, container, "scaler.json", identityScaler)
	path, err = loc.Resolve("scaler.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(container, "scaler.json"), path)
}

func TestLoader_MissingArtifact(t *testing.T) {
	cfg := config.ArtifactConfig{
		ContainerPath: t.TempDir(),
		BasePath:      t.TempDir(),
		ScalerFile:    "scaler.json",
		ModelFile:     "model.json",
	}
	loader := NewLoader(cfg, offload.NewPool(2))

	_, err := loader.Scaler(context.Background())
	require.ErrorIs(t, err, entity.ErrArtifactNotFound)
	assert.Contains(t, err.Error(), "scaler")
	assert.Contains(t, err.Error(), "scaler.json")
	assert.False(t, loader.ScalerLoaded())

	// the file appearing later makes the next call succeed
	writeFile(t, cfg.BasePath, "scaler.json", identityScaler)
	s, err := loader.Scaler(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, s)
	assert.True(t, loader.ScalerLoaded())
	assert.False(t, loader.ClassifierLoaded())
}

func TestLoader_ConcurrentLoadReadsOnce(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "model.json", logisticModel(1, 0))

	var reads atomic.Int32
	loader := NewLoader(config.ArtifactConfig{BasePath: base, ModelFile: "model.json"}, offload.NewPool(4),
		WithReadFile(func(path string) ([]byte, error) {
			reads.Add(1)
			return os.ReadFile(path)
		}),
	)

	const callers = 32
	got := make([]*Classifier, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := loader.Classifier(context.Background())
			assert.NoError(t, err)
			got[i] = c
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), reads.Load())
	for _, c := range got {
		assert.Same(t, got[0], c)
	}
}
