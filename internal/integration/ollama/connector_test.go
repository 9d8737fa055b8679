package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futig/diabetes-api/internal/config"
	"github.com/futig/diabetes-api/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnector_Generate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"mistral","created_at":"2024-01-01T00:00:00Z","message":{"role":"assistant","content":"Drink water."},"done":true}`))
	}))
	defer srv.Close()

	c, err := NewConnector(config.OllamaConfig{Host: srv.URL, Model: "mistral", Timeout: 5 * time.Second})
	require.NoError(t, err)

	text, err := c.Generate(context.Background(), "advice please", entity.GenerateOptions{
		MaxTokens:         150,
		Temperature:       0.7,
		TopP:              0.95,
		RepetitionPenalty: 1.15,
	})
	require.NoError(t, err)
	assert.Equal(t, "Drink water.", text)

	assert.Equal(t, "mistral", got["model"])
	assert.Equal(t, false, got["stream"])
	options, ok := got["options"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 150, options["num_predict"])
	assert.InDelta(t, 1.15, options["repeat_penalty"], 1e-9)
}

func TestConnector_Generate_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model \"mistral\" not found"}`))
	}))
	defer srv.Close()

	c, err := NewConnector(config.OllamaConfig{Host: srv.URL, Model: "mistral", Timeout: 5 * time.Second})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "advice please", entity.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
