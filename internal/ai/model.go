package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kozaktomas/group-memory/internal/config"
	"github.com/kozaktomas/group-memory/internal/constants"
)

// ErrMissingCredential is returned by NewModel when the selected backend
// needs a credential that is not configured.
var ErrMissingCredential = errors.New("AI credential is not configured")

// ErrReplyTooLarge is returned when a model reply exceeds MaxModelReplySize.
var ErrReplyTooLarge = fmt.Errorf("model reply exceeds %d bytes", constants.MaxModelReplySize)

// Image is an inline image payload sent along with a prompt.
type Image struct {
	Data     []byte
	MIMEType string
}

// Model sends one prompt with inline images to a multimodal model and
// returns the raw text of its reply.
type Model interface {
	Name() string
	Generate(ctx context.Context, prompt string, images []Image) (string, error)
}

// Usage tracks token usage across calls.
type Usage struct {
	Requests     int
	InputTokens  int
	OutputTokens int
}

// UsageReporter is implemented by models that count tokens.
type UsageReporter interface {
	GetUsage() Usage
	ResetUsage()
}

// usageTracker is embedded by the backends. Requests are served
// concurrently, so it is guarded by a mutex.
type usageTracker struct {
	mu    sync.Mutex
	usage Usage
}

func (u *usageTracker) trackUsage(inputTokens, outputTokens int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.usage.Requests++
	u.usage.InputTokens += inputTokens
	u.usage.OutputTokens += outputTokens
}

func (u *usageTracker) GetUsage() Usage {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.usage
}

func (u *usageTracker) ResetUsage() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.usage = Usage{}
}

// NewModel builds the backend selected by cfg.AI.Provider.
func NewModel(ctx context.Context, cfg *config.Config) (Model, error) {
	provider := cfg.AI.Provider
	model := cfg.ModelFor(provider)
	if model != "" && !cfg.IsKnownModel(provider, model) {
		slog.Warn("model is not in the catalog, using it anyway", "provider", provider, "model", model)
	}

	switch provider {
	case config.ProviderGemini:
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY is empty", ErrMissingCredential)
		}
		return NewGeminiModel(ctx, cfg.Gemini.APIKey, model)
	case config.ProviderOpenAI:
		// Self-hosted OpenAI-compatible servers usually run without a key.
		if cfg.OpenAI.Token == "" && cfg.OpenAI.BaseURL == "" {
			return nil, fmt.Errorf("%w: OPENAI_TOKEN is empty", ErrMissingCredential)
		}
		return NewOpenAIModel(cfg.OpenAI.Token, cfg.OpenAI.BaseURL, model), nil
	case config.ProviderOllama:
		return NewOllamaModel(cfg.Ollama.URL, model), nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", provider)
	}
}
