package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var modelsYAML []byte

// Supported AI providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

type Config struct {
	AI       AIConfig
	Gemini   GeminiConfig
	OpenAI   OpenAIConfig
	Ollama   OllamaConfig
	Database DatabaseConfig
	Blob     BlobConfig
	Web      WebConfig
	Locale   string // ja or en
	Models   ModelsConfig
}

type AIConfig struct {
	Provider     string        // gemini, openai or ollama
	Timeout      time.Duration // deadline for a single model call
	MaxImageSize int           // resize limit in pixels, 0 keeps images untouched
}

type GeminiConfig struct {
	APIKey string
	Model  string // empty means the catalog default
}

type OpenAIConfig struct {
	Token   string
	BaseURL string // OpenAI-compatible endpoint override (llama.cpp, vLLM, ...)
	Model   string
}

type OllamaConfig struct {
	URL   string // defaults to http://localhost:11434
	Model string // defaults to llama3.2-vision:11b
}

type DatabaseConfig struct {
	Driver       string // sqlite, postgres or mysql
	URL          string // DSN, or file path for sqlite
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type BlobConfig struct {
	Backend   string // inline, file or s3
	Dir       string // root directory for the file backend
	PublicURL string // URL prefix under which file blobs are served
	S3Bucket  string
	S3Prefix  string
	AWSRegion string
}

type WebConfig struct {
	Host           string
	Port           int
	APIToken       string   // optional bearer token guarding the API
	AllowedOrigins []string // CORS whitelist, localhost is always allowed
}

type ModelsConfig struct {
	Providers map[string]ProviderModels `yaml:"providers"`
}

type ProviderModels struct {
	Default string   `yaml:"default"`
	Known   []string `yaml:"known"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envDuration reads an environment variable as a time.Duration ("45s", "2m").
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

// envList splits a comma-separated environment variable, dropping empty items.
func envList(key string) []string {
	var items []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func Load() *Config {
	var models ModelsConfig
	if err := yaml.Unmarshal(modelsYAML, &models); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded models.yaml: " + err.Error())
	}

	return &Config{
		AI: AIConfig{
			Provider:     envString("AI_PROVIDER", ProviderGemini),
			Timeout:      envDuration("AI_TIMEOUT", 60*time.Second),
			MaxImageSize: envInt("AI_MAX_IMAGE_SIZE", 0),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  os.Getenv("GEMINI_MODEL"),
		},
		OpenAI: OpenAIConfig{
			Token:   os.Getenv("OPENAI_TOKEN"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   os.Getenv("OPENAI_MODEL"),
		},
		Ollama: OllamaConfig{
			URL:   os.Getenv("OLLAMA_URL"),
			Model: os.Getenv("OLLAMA_MODEL"),
		},
		Database: DatabaseConfig{
			Driver:       envString("DATABASE_DRIVER", "sqlite"),
			URL:          envString("DATABASE_URL", "./data/group-memory.db"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Blob: BlobConfig{
			Backend:   envString("BLOB_BACKEND", "inline"),
			Dir:       envString("BLOB_DIR", "./data/blobs"),
			PublicURL: envString("BLOB_PUBLIC_URL", "/api/v1/blobs"),
			S3Bucket:  os.Getenv("S3_BUCKET"),
			S3Prefix:  os.Getenv("S3_PREFIX"),
			AWSRegion: os.Getenv("AWS_REGION"),
		},
		Web: WebConfig{
			Host:           envString("WEB_HOST", "0.0.0.0"),
			Port:           envInt("WEB_PORT", 8080),
			APIToken:       os.Getenv("WEB_API_TOKEN"),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		Locale: envString("APP_LOCALE", "ja"),
		Models: models,
	}
}

// ModelFor returns the model name to use for a provider: the explicit
// override from the environment if set, otherwise the catalog default.
func (c *Config) ModelFor(provider string) string {
	var override string
	switch provider {
	case ProviderGemini:
		override = c.Gemini.Model
	case ProviderOpenAI:
		override = c.OpenAI.Model
	case ProviderOllama:
		override = c.Ollama.Model
	}
	if override != "" {
		return override
	}
	return c.Models.Providers[provider].Default
}

// IsKnownModel reports whether the catalog lists the model for the provider.
// Unknown models are still usable, the caller only logs a warning.
func (c *Config) IsKnownModel(provider, model string) bool {
	for _, m := range c.Models.Providers[provider].Known {
		if m == model {
			return true
		}
	}
	return false
}
