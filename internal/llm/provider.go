package llm

import "context"

// Provider is the generative-model collaborator boundary. The engine treats
// it as a black-box oracle: prompt in, free text out. Responses may be
// fenced or subtly malformed; callers parse defensively via ExtractJSON.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Generate sends a prompt and returns the raw model text.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: 1500,
	}
}
