package model

import "time"

// Config is the complete runtime configuration.
//
// Hierarchy (highest to lowest priority): CLI flags, VERACITY_* environment
// variables, ~/.veracity/config.yaml, defaults.
type Config struct {
	Search      SearchConfig      `yaml:"search" mapstructure:"search"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Rank        RankConfig        `yaml:"rank" mapstructure:"rank"`
	Policy      PolicyConfig      `yaml:"policy" mapstructure:"policy"`
	Batch       BatchConfig       `yaml:"batch" mapstructure:"batch"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// SearchConfig configures the external search collaborators.
type SearchConfig struct {
	SerpAPIKey     string        `yaml:"serpapi_key" mapstructure:"serpapi_key"`
	SerpAPIBaseURL string        `yaml:"serpapi_base_url" mapstructure:"serpapi_base_url"`
	GoogleAPIKey   string        `yaml:"google_api_key" mapstructure:"google_api_key"`
	GoogleCX       string        `yaml:"google_cx" mapstructure:"google_cx"`
	GoogleBaseURL  string        `yaml:"google_base_url" mapstructure:"google_base_url"`
	MaxResults     int           `yaml:"max_results" mapstructure:"max_results"`
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RatePerSecond  float64       `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst      int           `yaml:"rate_burst" mapstructure:"rate_burst"`
	HTTPProxy      string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy     string        `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// LLMConfig configures the generative-model collaborator.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// RankConfig configures the relevance ranker.
type RankConfig struct {
	TopK               int      `yaml:"top_k" mapstructure:"top_k"`
	DownrankFactor     float64  `yaml:"downrank_factor" mapstructure:"downrank_factor"`
	LowPriorityDomains []string `yaml:"low_priority_domains" mapstructure:"low_priority_domains"`
}

// PolicyConfig configures the verdict policy.
type PolicyConfig struct {
	// UnsupportedRelationVerdict is what "evidence present but no relation
	// citations" maps to. The original product stance is "false"; set to
	// "uncertain" for the softer interpretation.
	UnsupportedRelationVerdict string `yaml:"unsupported_relation_verdict" mapstructure:"unsupported_relation_verdict"`
	MinIndependentDomains      int    `yaml:"min_independent_domains" mapstructure:"min_independent_domains"`
}

// BatchConfig bounds batch adjudication.
type BatchConfig struct {
	Size            int `yaml:"size" mapstructure:"size"`                           // claims per LLM round-trip
	EvidencePerItem int `yaml:"evidence_per_item" mapstructure:"evidence_per_item"` // evidence cap in the batch prompt
}

// CacheConfig configures the search-response cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig bounds parallel single-claim verification.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls operator-facing output.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultLowPriorityDomains is the social/UGC and video-platform set
// downranked by the ranker and excluded from cross-source independence.
func DefaultLowPriorityDomains() []string {
	return []string{
		"twitter.com", "www.twitter.com", "x.com", "www.x.com",
		"reddit.com", "www.reddit.com",
		"facebook.com", "www.facebook.com", "m.facebook.com",
		"instagram.com", "www.instagram.com",
		"tiktok.com", "www.tiktok.com",
		"threads.net", "www.threads.net",
		"youtube.com", "www.youtube.com", "youtu.be",
	}
}

// DefaultConfig returns built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			SerpAPIBaseURL: "https://serpapi.com",
			GoogleBaseURL:  "https://www.googleapis.com/customsearch/v1",
			MaxResults:     10,
			Timeout:        40 * time.Second,
			RatePerSecond:  2,
			RateBurst:      5,
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   30,
			MaxTokens: 1500,
		},
		Rank: RankConfig{
			TopK:               12,
			DownrankFactor:     0.6,
			LowPriorityDomains: DefaultLowPriorityDomains(),
		},
		Policy: PolicyConfig{
			UnsupportedRelationVerdict: "false",
			MinIndependentDomains:      2,
		},
		Batch: BatchConfig{
			Size:            15,
			EvidencePerItem: 3,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
	}
}
