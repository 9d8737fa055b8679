package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/diabetes-api/internal/config"
	"github.com/futig/diabetes-api/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Generator interface {
	Generate(ctx context.Context, prompt string, opts entity.GenerateOptions) (string, error)
}

// QueryChain answers a question from retrieved context.
type QueryChain interface {
	Invoke(ctx context.Context, query string) (*entity.RAGAnswer, error)
}

const (
	contextSeparator = "\n\n---\n\n"
	ellipsis         = "..."
)

// Chain is the retrieval pipeline: embed the question, take the top-k chunks, build the prompt,
// generate. It is immutable once built.
type Chain struct {
	index     *Index
	embedder  Embedder
	generator Generator
	prompts   config.Prompts
	cfg       config.RAGConfig
	tokens    TokenCounter
}

func NewChain(
	index *Index,
	embedder Embedder,
	generator Generator,
	prompts config.Prompts,
	cfg config.RAGConfig,
	tokens TokenCounter,
) *Chain {
	return &Chain{
		index:     index,
		embedder:  embedder,
		generator: generator,
		prompts:   prompts,
		cfg:       cfg,
		tokens:    tokens,
	}
}

func (c *Chain) Invoke(ctx context.Context, query string) (*entity.RAGAnswer, error) {
	vec, err := c.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := c.index.Search(vec, c.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	contextBlock, used := c.buildContext(results)
	ctxzap.Debug(ctx, "retrieved context",
		zap.Int("retrieved", len(results)),
		zap.Int("used", used),
	)

	prompt := fmt.Sprintf(c.prompts.RAGUser, contextBlock, query)
	answer, err := c.generator.Generate(ctx, prompt, entity.GenerateOptions{
		System:      c.prompts.RAGSystem,
		MaxTokens:   int(c.cfg.MaxTokens),
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, fmt.Errorf("generate answer: %w", entity.ErrEmptyResponse)
	}

	return &entity.RAGAnswer{
		Answer:  answer,
		Sources: c.sources(results),
	}, nil
}

// buildContext joins chunk contents in rank order until the token budget is spent.
// The best chunk is always included.
func (c *Chain) buildContext(results []entity.SearchResult) (string, int) {
	parts := make([]string, 0, len(results))
	total := 0
	for i, r := range results {
		n := c.tokens.Count(r.Chunk.Content)
		if i > 0 && c.cfg.MaxContextTokens > 0 && total+n > c.cfg.MaxContextTokens {
			break
		}
		parts = append(parts, r.Chunk.Content)
		total += n
	}
	return strings.Join(parts, contextSeparator), len(parts)
}

func (c *Chain) sources(results []entity.SearchResult) []string {
	n := min(c.cfg.MaxSources, len(results))
	out := make([]string, 0, n)
	for _, r := range results[:n] {
		out = append(out, Excerpt(r.Chunk.Content, c.cfg.ExcerptMaxLength))
	}
	return out
}

// Excerpt returns text unchanged if it fits in maxLen characters, otherwise its first maxLen
// characters followed by "...".
func Excerpt(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + ellipsis
}
