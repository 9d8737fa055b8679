package artifact

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/futig/diabetes-api/internal/entity"
)

const classCount = 2

type activation string

const (
	activationLinear  activation = "linear"
	activationReLU    activation = "relu"
	activationTanh    activation = "tanh"
	activationSigmoid activation = "sigmoid"
	activationSoftmax activation = "softmax"
)

// dense is a fully connected layer; weights[i][j] connects input i to output j.
type dense struct {
	weights    [][]float64
	bias       []float64
	activation activation
}

// Classifier is a feed-forward network exported from the trained Keras model.
// It maps FeatureCount scaled inputs to a probability for each of the two classes.
type Classifier struct {
	inputDim int
	layers   []dense
}

type classifierFile struct {
	InputDim int `json:"input_dim"`
	Layers   []struct {
		Weights    [][]float64 `json:"weights"`
		Bias       []float64   `json:"bias"`
		Activation string      `json:"activation"`
	} `json:"layers"`
}

// DecodeClassifier parses and shape-checks the JSON export of the network.
func DecodeClassifier(data []byte) (*Classifier, error) {
	var f classifierFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: classifier: %v", entity.ErrArtifactInvalid, err)
	}

	if f.InputDim != entity.FeatureCount {
		return nil, fmt.Errorf("%w: classifier input_dim must be %d, got %d", entity.ErrArtifactInvalid, entity.FeatureCount, f.InputDim)
	}
	if len(f.Layers) == 0 {
		return nil, fmt.Errorf("%w: classifier has no layers", entity.ErrArtifactInvalid)
	}

	c := &Classifier{inputDim: f.InputDim, layers: make([]dense, 0, len(f.Layers))}
	in := f.InputDim
	for li, l := range f.Layers {
		if len(l.Weights) != in {
			return nil, fmt.Errorf("%w: layer %d expects %d weight rows, got %d", entity.ErrArtifactInvalid, li, in, len(l.Weights))
		}
		out := len(l.Bias)
		if out == 0 {
			return nil, fmt.Errorf("%w: layer %d has no units", entity.ErrArtifactInvalid, li)
		}
		for ri, row := range l.Weights {
			if len(row) != out {
				return nil, fmt.Errorf("%w: layer %d row %d has %d columns, want %d", entity.ErrArtifactInvalid, li, ri, len(row), out)
			}
		}

		act := activation(l.Activation)
		if act == "" {
			act = activationLinear
		}
		switch act {
		case activationLinear, activationReLU, activationTanh, activationSigmoid, activationSoftmax:
		default:
			return nil, fmt.Errorf("%w: layer %d has unsupported activation %q", entity.ErrArtifactInvalid, li, l.Activation)
		}

		c.layers = append(c.layers, dense{weights: l.Weights, bias: l.Bias, activation: act})
		in = out
	}

	last := c.layers[len(c.layers)-1]
	switch {
	case in == 1 && last.activation == activationSigmoid:
	case in == classCount && last.activation == activationSoftmax:
	default:
		return nil, fmt.Errorf("%w: output layer must be 1 sigmoid or %d softmax units, got %d %s",
			entity.ErrArtifactInvalid, classCount, in, last.activation)
	}

	return c, nil
}

// PredictProba returns [P(class 0), P(class 1)] for one scaled feature row.
func (c *Classifier) PredictProba(x []float64) ([]float64, error) {
	if len(x) != c.inputDim {
		return nil, fmt.Errorf("%w: classifier expects %d features, got %d", entity.ErrFeatureMismatch, c.inputDim, len(x))
	}

	out := x
	for _, l := range c.layers {
		out = l.forward(out)
	}

	if len(out) == 1 {
		return []float64{1 - out[0], out[0]}, nil
	}
	return out, nil
}

func (l dense) forward(in []float64) []float64 {
	out := make([]float64, len(l.bias))
	copy(out, l.bias)
	for i, v := range in {
		row := l.weights[i]
		for j := range out {
			out[j] += v * row[j]
		}
	}

	switch l.activation {
	case activationReLU:
		for j, v := range out {
			out[j] = math.Max(0, v)
		}
	case activationTanh:
		for j, v := range out {
			out[j] = math.Tanh(v)
		}
	case activationSigmoid:
		for j, v := range out {
			out[j] = 1 / (1 + math.Exp(-v))
		}
	case activationSoftmax:
		softmax(out)
	}
	return out
}

func softmax(v []float64) {
	maxV := math.Inf(-1)
	for _, x := range v {
		maxV = math.Max(maxV, x)
	}
	var sum float64
	for i, x := range v {
		v[i] = math.Exp(x - maxV)
		sum += v[i]
	}
	for i := range v {
		v[i] /= sum
	}
}
