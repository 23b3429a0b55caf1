package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	Pipeline PipelineConfig
	Export   ExportConfig
	Schemas  SchemasConfig
	Ingest   IngestConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr       string
	GRPCHealthAddr string
	Env            string
	RequestTimeout time.Duration
}

// LLMConfig holds model-related configuration
type LLMConfig struct {
	Provider     string // gemini | openai
	Model        string
	APIKey       string
	BaseURL      string
	Temperature  float32
	Timeout      time.Duration
	StrictSchema bool
}

// PipelineConfig controls how a processing pass is scheduled.
type PipelineConfig struct {
	Workers        int
	ProcessTimeout time.Duration
}

// ExportConfig controls download naming and cell rendering.
type ExportConfig struct {
	FilePrefix string
	SheetName  string
	Locale     string
}

// SchemasConfig points at an optional YAML file with extra user schemas.
type SchemasConfig struct {
	File string
}

// IngestConfig enables the watched drop folder; an empty WatchDir disables it.
type IngestConfig struct {
	WatchDir      string
	WatchDebounce time.Duration
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	EnvDevelopment = "development"
)

// LoadConfig loads configuration from environment variables, after merging a
// local .env file when one exists.
func LoadConfig() *Config {
	_ = godotenv.Load()

	provider := strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini))
	llmCfg := LLMConfig{
		Provider:     provider,
		Temperature:  getEnvAsFloat32("LLM_TEMPERATURE", 0.0),
		Timeout:      getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		StrictSchema: getEnvAsBool("LLM_STRICT_SCHEMA", false),
	}
	switch provider {
	case ProviderOpenAI:
		llmCfg.Model = getEnv("OPENAI_MODEL", "gpt-4o-mini")
		llmCfg.APIKey = getEnv("OPENAI_API_KEY", "")
		llmCfg.BaseURL = getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1")
	default:
		llmCfg.Model = getEnv("GEMINI_MODEL", "gemini-2.0-flash")
		llmCfg.APIKey = getEnv("GOOGLE_API_KEY", "")
	}

	return &Config{
		Server: ServerConfig{
			HTTPAddr:       getEnv("HTTP_ADDR", ":3000"),
			GRPCHealthAddr: getEnv("GRPC_HEALTH_ADDR", ""),
			Env:            getEnv("APP_ENV", "production"),
			RequestTimeout: getEnvAsDuration("HTTP_REQUEST_TIMEOUT", 2*time.Minute),
		},
		LLM: llmCfg,
		Pipeline: PipelineConfig{
			Workers:        getEnvAsInt("PIPELINE_WORKERS", 1),
			ProcessTimeout: getEnvAsDuration("PIPELINE_FILE_TIMEOUT", 3*time.Minute),
		},
		Export: ExportConfig{
			FilePrefix: getEnv("EXPORT_PREFIX", "extraction_results"),
			SheetName:  getEnv("EXPORT_SHEET", "Results"),
			Locale:     getEnv("DISPLAY_LOCALE", "zh-CN"),
		},
		Schemas: SchemasConfig{
			File: getEnv("SCHEMAS_FILE", ""),
		},
		Ingest: IngestConfig{
			WatchDir:      getEnv("WATCH_DIR", ""),
			WatchDebounce: getEnvAsDuration("WATCH_DEBOUNCE", 500*time.Millisecond),
		},
	}
}

// IsDevelopment reports whether error payloads may carry stack traces.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Server.Env, EnvDevelopment)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration. A missing model credential is
// fatal: the service refuses to start without it.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGemini:
		if c.LLM.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "GOOGLE_API_KEY is required", ErrInvalidInput)
		}
	case ProviderOpenAI:
		if c.LLM.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "unknown LLM_PROVIDER "+strconv.Quote(c.LLM.Provider), ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Pipeline.Workers < 1 {
		return NewAppError("CONFIG_ERROR", "PIPELINE_WORKERS must be at least 1", ErrInvalidInput)
	}
	return nil
}
