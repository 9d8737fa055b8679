package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerCfg ServerConfig `envPrefix:"SERVER_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// External service configurations
	HuggingFaceCfg HuggingFaceConfig `envPrefix:"HUGGINGFACE_"`
	ChatCfg        ChatConfig        `envPrefix:"CHAT_"`
	OllamaCfg      OllamaConfig      `envPrefix:"OLLAMA_"`

	// AssistProvider selects the generator behind /ai-assist: huggingface, chat or ollama
	AssistProvider string `env:"ASSIST_PROVIDER" envDefault:"huggingface"`

	ArtifactCfg ArtifactConfig `envPrefix:"ARTIFACT_"`
	RAGCfg      RAGConfig      `envPrefix:"RAG_"`
	GateCfg     GateConfig     `envPrefix:"GATE_"`

	// WorkerPoolSize bounds concurrent blocking work (disk reads, inference, remote calls)
	WorkerPoolSize int `env:"WORKER_POOL_SIZE" envDefault:"16"`

	// PromptsFile optionally overrides the built-in prompt templates
	PromptsFile string `env:"PROMPTS_FILE"`
	Prompts     Prompts

	// Environment (set from flag, not from env var)
	Environment string
}

type ServerConfig struct {
	Addr            string        `env:"ADDR" envDefault:":8000"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"90s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	HandlerTimeout  time.Duration `env:"HANDLER_TIMEOUT" envDefault:"75s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
}

// HuggingFaceConfig configures the Inference API used for text generation and embeddings
type HuggingFaceConfig struct {
	HTTPClientConfig
	APIKey          string `env:"API_KEY,notEmpty"`
	Url             string `env:"SERVICE_URL" envDefault:"https://api-inference.huggingface.co"`
	GenerationModel string `env:"GENERATION_MODEL" envDefault:"mistralai/Mistral-7B-Instruct-v0.3"`
	EmbeddingModel  string `env:"EMBEDDING_MODEL" envDefault:"sentence-transformers/all-MiniLM-L6-v2"`
}

// ChatConfig configures the OpenAI-compatible chat-completion service
type ChatConfig struct {
	APIKey  string        `env:"API_KEY,notEmpty"`
	Model   string        `env:"MODEL,notEmpty"`
	Url     string        `env:"SERVICE_URL" envDefault:"https://api.groq.com/openai/v1"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type OllamaConfig struct {
	Host    string        `env:"HOST" envDefault:"http://localhost:11434"`
	Model   string        `env:"MODEL" envDefault:"mistral"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"60s"`
}

// ArtifactConfig locates the static model artifacts. ContainerPath is checked before BasePath.
type ArtifactConfig struct {
	BasePath      string `env:"BASE_PATH" envDefault:"."`
	ContainerPath string `env:"CONTAINER_PATH" envDefault:"/app"`
	ScalerFile    string `env:"SCALER_FILE" envDefault:"scaler.json"`
	ModelFile     string `env:"MODEL_FILE" envDefault:"model.json"`
	IndexDir      string `env:"INDEX_DIR" envDefault:"vector_index"`
}

type RAGConfig struct {
	TopK             int           `env:"TOP_K" envDefault:"7"`
	ExcerptMaxLength int           `env:"EXCERPT_MAX_LENGTH" envDefault:"200"`
	MaxSources       int           `env:"MAX_SOURCES" envDefault:"3"`
	MaxContextTokens int           `env:"MAX_CONTEXT_TOKENS" envDefault:"3000"`
	Temperature      float64       `env:"TEMPERATURE" envDefault:"0.3"`
	MaxTokens        int64         `env:"MAX_TOKENS" envDefault:"1024"`
	EmbeddingTTL     time.Duration `env:"EMBEDDING_CACHE_TTL" envDefault:"30m"`
}

// GateConfig controls the medical-question classifier in front of /ask.
// FailOpen treats a failed classification as in scope.
type GateConfig struct {
	FailOpen bool `env:"FAIL_OPEN" envDefault:"true"`
}

// LoadConfig reads .env.<environment> if present, then parses and validates the process environment.
func LoadConfig(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = environment

	prompts, err := LoadPrompts(cfg.PromptsFile)
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}
	cfg.Prompts = prompts

	return cfg, nil
}

// Parse builds a validated Config from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	switch cfg.AssistProvider {
	case "huggingface", "chat", "ollama":
	default:
		errors = append(errors, fmt.Sprintf("ASSIST_PROVIDER must be one of huggingface, chat, ollama, got %q", cfg.AssistProvider))
	}

	if cfg.RAGCfg.TopK < 1 || cfg.RAGCfg.TopK > 100 {
		errors = append(errors, fmt.Sprintf("RAG_TOP_K must be between 1 and 100, got %d", cfg.RAGCfg.TopK))
	}

	if cfg.RAGCfg.ExcerptMaxLength < 1 {
		errors = append(errors, fmt.Sprintf("RAG_EXCERPT_MAX_LENGTH must be positive, got %d", cfg.RAGCfg.ExcerptMaxLength))
	}

	if cfg.RAGCfg.MaxSources < 0 || cfg.RAGCfg.MaxSources > cfg.RAGCfg.TopK {
		errors = append(errors, fmt.Sprintf("RAG_MAX_SOURCES must be between 0 and RAG_TOP_K(%d), got %d", cfg.RAGCfg.TopK, cfg.RAGCfg.MaxSources))
	}

	if cfg.WorkerPoolSize < 1 || cfg.WorkerPoolSize > 1024 {
		errors = append(errors, fmt.Sprintf("WORKER_POOL_SIZE must be between 1 and 1024, got %d", cfg.WorkerPoolSize))
	}

	if cfg.ChatCfg.Timeout <= 0 {
		errors = append(errors, fmt.Sprintf("CHAT_TIMEOUT must be positive, got %s", cfg.ChatCfg.Timeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
