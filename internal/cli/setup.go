package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mlevchuk/veracity/internal/cache"
	"github.com/mlevchuk/veracity/internal/llm"
	"github.com/mlevchuk/veracity/internal/model"
	"github.com/mlevchuk/veracity/internal/search"
	"github.com/mlevchuk/veracity/internal/verify"
	"github.com/mlevchuk/veracity/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	llmProvider string
	llmModel    string
)

// addLLMFlags registers the generative-model flags shared by the
// verification commands.
func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
}

// loadConfig merges defaults, the config file, and environment variables.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid config: %v\n", err)
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose

	// Secrets come from the environment when the config file omits them
	if cfg.Search.SerpAPIKey == "" {
		cfg.Search.SerpAPIKey = os.Getenv("SERPAPI_KEY")
	}
	if cfg.Search.GoogleAPIKey == "" {
		cfg.Search.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if cfg.Search.GoogleCX == "" {
		cfg.Search.GoogleCX = os.Getenv("GOOGLE_CX")
	}
	return cfg
}

// resolveLLM applies the LLM flags and pulls the provider credential
// from the environment.
func resolveLLM(cfg *model.Config) error {
	cfg.LLM.Provider = llmProvider
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}

	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	default:
		return fmt.Errorf("unknown LLM provider: %s", cfg.LLM.Provider)
	}
	return nil
}

// engine holds the collaborators every verification command shares.
type engine struct {
	cfg      *model.Config
	text     search.TextSearcher
	image    search.ImageSearcher
	rewriter *search.QueryRewriter
	provider llm.Provider
}

// newEngine builds the shared collaborators. When needLLM is false the
// provider is left nil, which is enough for evidence-only commands.
func newEngine(needLLM bool) (*engine, error) {
	cfg := loadConfig()

	store := cache.FromConfig(cfg.Cache)
	limiter := worker.NewLimiter(cfg.Search.RatePerSecond, cfg.Search.RateBurst)

	e := &engine{cfg: cfg}
	if cfg.Search.GoogleAPIKey != "" && cfg.Search.GoogleCX != "" {
		e.text = search.NewCustomSearchClient(cfg.Search, store, limiter, cfg.Cache.DiskTTL, cfg.Output.Verbose)
	}
	if cfg.Search.SerpAPIKey != "" {
		e.image = search.NewSerpAPIClient(cfg.Search, store, limiter, cfg.Cache.DiskTTL, cfg.Output.Verbose)
	}

	if needLLM {
		if err := resolveLLM(cfg); err != nil {
			return nil, err
		}
		provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM provider: %w", err)
		}
		e.provider = provider
		e.rewriter = search.NewQueryRewriter(provider, cfg.Output.Verbose)
	}
	return e, nil
}

func (e *engine) verifier() *verify.Verifier {
	return verify.New(e.cfg, e.text, e.image, e.rewriter, e.provider)
}

func (e *engine) batch() *verify.Batch {
	return verify.NewBatch(e.cfg, e.text, e.rewriter, e.provider)
}

// writeJSON renders v as indented JSON to path, or stdout when path is
// empty or "-".
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if path == "" || path == "-" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
	}
	return nil
}
