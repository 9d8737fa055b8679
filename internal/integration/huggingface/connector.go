package huggingface

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/futig/diabetes-api/internal/config"
	"github.com/futig/diabetes-api/internal/entity"
	"github.com/futig/diabetes-api/internal/integration/common"
	"github.com/futig/diabetes-api/internal/metrics"
	pkghttp "github.com/futig/diabetes-api/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const provider = "huggingface"

// Connector talks to the Hugging Face Inference API: text generation for /ai-assist
// and feature extraction for query embeddings.
type Connector struct {
	config    config.HuggingFaceConfig
	connector *pkghttp.Connector
}

func NewConnector(cfg config.HuggingFaceConfig) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, cfg.Url, cfg.APIKey),
		config:    cfg,
	}
}

type generationParameters struct {
	MaxNewTokens      int      `json:"max_new_tokens,omitempty"`
	Temperature       *float64 `json:"temperature,omitempty"`
	TopP              *float64 `json:"top_p,omitempty"`
	RepetitionPenalty *float64 `json:"repetition_penalty,omitempty"`
	DoSample          bool     `json:"do_sample"`
	ReturnFullText    bool     `json:"return_full_text"`
}

type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type generationRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters generationParameters `json:"parameters"`
	Options    inferenceOptions     `json:"options"`
}

type generationResult struct {
	GeneratedText string `json:"generated_text"`
}

type featureRequest struct {
	Inputs  string           `json:"inputs"`
	Options inferenceOptions `json:"options"`
}

// Generate runs text generation against the configured generation model.
// System instructions are prepended to the prompt since the endpoint takes raw text.
func (c *Connector) Generate(ctx context.Context, prompt string, opts entity.GenerateOptions) (text string, err error) {
	start := time.Now()
	defer func() { metrics.RemoteCall(provider, "generate", start, err) }()

	if opts.System != "" {
		prompt = opts.System + "\n\n" + prompt
	}

	req := generationRequest{
		Inputs: prompt,
		Parameters: generationParameters{
			MaxNewTokens:   opts.MaxTokens,
			ReturnFullText: false,
		},
		Options: inferenceOptions{WaitForModel: true},
	}
	if opts.Temperature > 0 {
		req.Parameters.DoSample = true
		req.Parameters.Temperature = &opts.Temperature
	}
	if opts.TopP > 0 && opts.TopP < 1 {
		req.Parameters.TopP = &opts.TopP
	}
	if opts.RepetitionPenalty > 0 {
		req.Parameters.RepetitionPenalty = &opts.RepetitionPenalty
	}

	ctxzap.Debug(ctx, "generating text via Hugging Face", zap.String("model", c.config.GenerationModel))

	var results []generationResult
	endpoint := "/models/" + modelPath(c.config.GenerationModel)
	if err := c.connector.DoRequest(ctx, http.MethodPost, endpoint, req, &results); err != nil {
		return "", fmt.Errorf("hugging face text generation: %w", err)
	}

	if len(results) == 0 {
		return "", fmt.Errorf("hugging face text generation: %w", entity.ErrEmptyResponse)
	}

	return results[0].GeneratedText, nil
}

// Embed returns the sentence embedding of text.
// Token-level output (a matrix) is mean-pooled into a single vector.
func (c *Connector) Embed(ctx context.Context, text string) (vec []float32, err error) {
	start := time.Now()
	defer func() { metrics.RemoteCall(provider, "embed", start, err) }()

	req := featureRequest{
		Inputs:  text,
		Options: inferenceOptions{WaitForModel: true},
	}

	var raw json.RawMessage
	endpoint := "/pipeline/feature-extraction/" + modelPath(c.config.EmbeddingModel)
	if err := c.connector.DoRequest(ctx, http.MethodPost, endpoint, req, &raw); err != nil {
		return nil, fmt.Errorf("hugging face feature extraction: %w", err)
	}

	vec, err = decodeEmbedding(raw)
	if err != nil {
		return nil, fmt.Errorf("hugging face feature extraction: %w", err)
	}

	return vec, nil
}

func decodeEmbedding(raw json.RawMessage) ([]float32, error) {
	var flat []float32
	if err := json.Unmarshal(raw, &flat); err == nil {
		if len(flat) == 0 {
			return nil, entity.ErrEmptyResponse
		}
		return flat, nil
	}

	var matrix [][]float32
	if err := json.Unmarshal(raw, &matrix); err != nil {
		return nil, fmt.Errorf("%w: unexpected embedding shape", entity.ErrUpstream)
	}
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return nil, entity.ErrEmptyResponse
	}

	dim := len(matrix[0])
	sum := make([]float64, dim)
	for _, row := range matrix {
		if len(row) != dim {
			return nil, fmt.Errorf("%w: ragged embedding matrix", entity.ErrUpstream)
		}
		for i, v := range row {
			sum[i] += float64(v)
		}
	}

	out := make([]float32, dim)
	n := float64(len(matrix))
	for i, v := range sum {
		mean := v / n
		if math.IsNaN(mean) || math.IsInf(mean, 0) {
			return nil, fmt.Errorf("%w: non-finite embedding value", entity.ErrUpstream)
		}
		out[i] = float32(mean)
	}

	return out, nil
}

// modelPath escapes each segment of an "org/name" model id.
func modelPath(model string) string {
	parts := strings.Split(model, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
