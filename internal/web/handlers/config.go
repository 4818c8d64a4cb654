package handlers

import (
	"net/http"

	"github.com/kozaktomas/group-memory/internal/ai"
	"github.com/kozaktomas/group-memory/internal/config"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config      *config.Config
	model       ai.Model // nil when not configured
	blobBackend string
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config, model ai.Model, blobBackend string) *ConfigHandler {
	return &ConfigHandler{
		config:      cfg,
		model:       model,
		blobBackend: blobBackend,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	Provider    string         `json:"provider"`
	Model       string         `json:"model,omitempty"`
	Configured  bool           `json:"configured"`
	Providers   []ProviderInfo `json:"providers"`
	BlobBackend string         `json:"blob_backend"`
	Locale      string         `json:"locale"`
	AuthEnabled bool           `json:"auth_enabled"`
	Usage       *UsageInfo     `json:"usage,omitempty"`
}

// ProviderInfo represents information about an AI provider
type ProviderInfo struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// UsageInfo reports token usage since start
type UsageInfo struct {
	Requests     int `json:"requests"`
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Get returns the active configuration
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	providers := []ProviderInfo{
		{
			Name:      config.ProviderGemini,
			Available: h.config.Gemini.APIKey != "",
		},
		{
			Name:      config.ProviderOpenAI,
			Available: h.config.OpenAI.Token != "" || h.config.OpenAI.BaseURL != "",
		},
		{
			Name:      config.ProviderOllama,
			Available: true, // Always available (local)
		},
	}

	response := ConfigResponse{
		Provider:    h.config.AI.Provider,
		Configured:  h.model != nil,
		Providers:   providers,
		BlobBackend: h.blobBackend,
		Locale:      h.config.Locale,
		AuthEnabled: h.config.Web.APIToken != "",
	}
	if h.model != nil {
		response.Model = h.model.Name()
		if reporter, ok := h.model.(ai.UsageReporter); ok {
			u := reporter.GetUsage()
			response.Usage = &UsageInfo{Requests: u.Requests, InputTokens: u.InputTokens, OutputTokens: u.OutputTokens}
		}
	}

	respondJSON(w, http.StatusOK, response)
}
