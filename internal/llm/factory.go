package llm

import (
	"fmt"
	"strings"

	"github.com/mlevchuk/veracity/internal/model"
)

// NewProvider creates a provider from configuration. An empty provider name
// returns (nil, nil): the LLM layer is disabled and callers degrade to
// their deterministic fallbacks.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:  mc.Provider,
		Model:     mc.Model,
		APIKey:    mc.APIKey,
		BaseURL:   mc.BaseURL,
		Timeout:   mc.Timeout,
		MaxTokens: mc.MaxTokens,
	}
}
