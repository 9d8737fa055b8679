package assist

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/futig/diabetes-api/internal/config"
	"github.com/futig/diabetes-api/internal/entity"
	"github.com/futig/diabetes-api/internal/pkg/offload"
	"github.com/futig/diabetes-api/internal/rag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	reply  string
	err    error
	prompt string
	opts   entity.GenerateOptions
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, opts entity.GenerateOptions) (string, error) {
	f.prompt = prompt
	f.opts = opts
	return f.reply, f.err
}

type fakeGate struct {
	inScope bool
	calls   atomic.Int32
}

func (f *fakeGate) IsInScope(context.Context, string) bool {
	f.calls.Add(1)
	return f.inScope
}

type fakeChain struct {
	answer *entity.RAGAnswer
	err    error
	calls  atomic.Int32
}

func (f *fakeChain) Invoke(context.Context, string) (*entity.RAGAnswer, error) {
	f.calls.Add(1)
	return f.answer, f.err
}

type fakeProvider struct {
	chain *fakeChain
	err   error
	calls atomic.Int32
}

func (f *fakeProvider) QueryChain(context.Context) (rag.QueryChain, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.chain, nil
}

func newUsecase(gen Generator, gate Gate, chains ChainProvider) *AssistUsecase {
	return NewUsecase(gen, gate, chains, config.DefaultPrompts(), offload.NewPool(4))
}

func TestAssist(t *testing.T) {
	gen := &fakeGenerator{reply: "[INST] \n Keep glucose in range. [/INST]  "}
	uc := newUsecase(gen, &fakeGate{}, &fakeProvider{})

	got, err := uc.Assist(context.Background(), "The patient has diabetes")
	require.NoError(t, err)
	assert.Equal(t, "Keep glucose in range.", got)

	assert.Contains(t, gen.prompt, "[INST]")
	assert.Contains(t, gen.prompt, "The patient has diabetes")
	assert.Equal(t, assistOptions, gen.opts)
}

func TestAssist_Errors(t *testing.T) {
	tests := []struct {
		name    string
		gen     *fakeGenerator
		wantErr error
	}{
		{name: "empty reply", gen: &fakeGenerator{reply: ""}, wantErr: entity.ErrEmptyResponse},
		{name: "only tags", gen: &fakeGenerator{reply: " [INST] [/INST] "}, wantErr: entity.ErrEmptyResponse},
		{name: "upstream failure", gen: &fakeGenerator{err: entity.ErrUpstream}, wantErr: entity.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUsecase(tt.gen, &fakeGate{}, &fakeProvider{})
			_, err := uc.Assist(context.Background(), "x")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAsk_OutOfScopeSkipsRetrieval(t *testing.T) {
	gate := &fakeGate{inScope: false}
	provider := &fakeProvider{chain: &fakeChain{}}
	uc := newUsecase(&fakeGenerator{}, gate, provider)

	got, err := uc.Ask(context.Background(), "Who won the world cup?")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultPrompts().Refusal, got.Response)
	assert.Empty(t, got.Sources)
	assert.NotNil(t, got.Sources)
	assert.Equal(t, int32(1), gate.calls.Load())
	assert.Equal(t, int32(0), provider.calls.Load())
	assert.Equal(t, int32(0), provider.chain.calls.Load())
}

func TestAsk_InScope(t *testing.T) {
	chain := &fakeChain{answer: &entity.RAGAnswer{Answer: "Eat fiber.", Sources: []string{"Fiber slows..."}}}
	uc := newUsecase(&fakeGenerator{}, &fakeGate{inScope: true}, &fakeProvider{chain: chain})

	got, err := uc.Ask(context.Background(), "What should I eat?")
	require.NoError(t, err)
	assert.Equal(t, "Eat fiber.", got.Response)
	assert.Equal(t, []string{"Fiber slows..."}, got.Sources)
}

func TestAsk_Errors(t *testing.T) {
	t.Run("index missing", func(t *testing.T) {
		uc := newUsecase(&fakeGenerator{}, &fakeGate{inScope: true}, &fakeProvider{err: entity.ErrIndexNotFound})
		_, err := uc.Ask(context.Background(), "q")
		assert.ErrorIs(t, err, entity.ErrIndexNotFound)
	})

	t.Run("chain failure", func(t *testing.T) {
		boom := errors.New("HTTP 500: boom")
		uc := newUsecase(&fakeGenerator{}, &fakeGate{inScope: true}, &fakeProvider{chain: &fakeChain{err: boom}})
		_, err := uc.Ask(context.Background(), "q")
		assert.ErrorIs(t, err, boom)
	})
}
