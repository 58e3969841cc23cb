package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the newslens configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	NLP       NLPConfig       `yaml:"nlp"`
	Search    SearchConfig    `yaml:"search"`
	Fetcher   FetcherConfig   `yaml:"fetcher"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds Redis connection settings. Empty Addrs disables caching and quota persistence.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether a Redis store is configured.
func (d DatabaseConfig) Enabled() bool { return len(d.Addrs) > 0 }

// CacheConfig holds cache key and TTL settings.
type CacheConfig struct {
	KeyPrefix        string `yaml:"key_prefix"`
	EmbeddingTTLH    int    `yaml:"embedding_ttl_hours"`
	SearchTTLMin     int    `yaml:"search_ttl_minutes"`
	DisableSearch    bool   `yaml:"disable_search_cache"`
	DisableEmbedding bool   `yaml:"disable_embedding_cache"`
}

// Embedding provider kinds.
const (
	EmbeddingProviderOpenAI = "openai"
	EmbeddingProviderLocal  = "local"
)

// EmbeddingConfig selects the sentence embedding backend.
type EmbeddingConfig struct {
	Provider            string `yaml:"provider"` // openai, local (default: local)
	APIKey              string `yaml:"api_key"`
	BaseURL             string `yaml:"base_url"`
	Model               string `yaml:"model"`
	Dimensions          int    `yaml:"dimensions"`
	SentenceInstruction string `yaml:"sentence_instruction"`
	KeywordInstruction  string `yaml:"keyword_instruction"`
	DailyTokenQuota     int64  `yaml:"daily_token_quota"` // 0 = unlimited
}

// Entity recognizer backends.
const (
	EntityBackendProse  = "prose"
	EntityBackendOpenAI = "openai"
)

// NLPConfig holds analyzer settings.
type NLPConfig struct {
	Entities EntitiesConfig `yaml:"entities"`
	Topics   TopicsConfig   `yaml:"topics"`
}

// EntitiesConfig configures named-entity extraction.
type EntitiesConfig struct {
	Backend  string `yaml:"backend"` // prose, openai (default: prose)
	Model    string `yaml:"model"`   // chat model for the openai backend
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	MaxChars int    `yaml:"max_chars"`
	Limit    int    `yaml:"limit"`
}

// TopicsConfig tunes the topic engine.
type TopicsConfig struct {
	MergeThreshold float64 `yaml:"merge_threshold"`
	TopKeywords    int     `yaml:"top_keywords"`
	Candidates     int     `yaml:"candidate_keywords"`
}

// Search provider kinds.
const (
	ProviderGNews   = "gnews"
	ProviderNewsAPI = "newsapi"
	ProviderRSS     = "googlenews_rss"
)

// SearchConfig holds the ordered provider chain.
type SearchConfig struct {
	Providers  []ProviderConfig `yaml:"providers"`
	MaxResults int              `yaml:"max_results"`
}

// ProviderConfig binds one search provider to its own credentials.
type ProviderConfig struct {
	Kind       string `yaml:"kind"` // gnews, newsapi, googlenews_rss
	Name       string `yaml:"name"` // defaults to kind
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
	DailyQuota int64  `yaml:"daily_quota"` // 0 = unlimited
	Disabled   bool   `yaml:"disabled"`
}

// RequiresKey reports whether the provider kind needs an API key.
func (p ProviderConfig) RequiresKey() bool {
	return p.Kind == ProviderGNews || p.Kind == ProviderNewsAPI
}

// FetcherConfig holds article download settings.
type FetcherConfig struct {
	UserAgent    string `yaml:"user_agent"`
	TimeoutSec   int    `yaml:"timeout_sec"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

// AnalysisConfig holds pipeline settings.
type AnalysisConfig struct {
	EnrichConcurrency int `yaml:"enrich_concurrency"`
	DescriptionLength int `yaml:"description_length"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands environment variables in data, decodes it and validates the result.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

var defaultBaseURLs = map[string]string{
	ProviderGNews:   "https://gnews.io/api/v4",
	ProviderNewsAPI: "https://newsapi.org/v2",
	ProviderRSS:     "https://news.google.com",
}

// DefaultUserAgent is sent by the article fetcher; some publishers block Go's default.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120 // full analysis fetches and clusters synchronously
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	c.Database.Addrs = compact(c.Database.Addrs)
	c.Auth.APIKeys = compact(c.Auth.APIKeys)
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "newslens:"
	}
	if c.Cache.EmbeddingTTLH <= 0 {
		c.Cache.EmbeddingTTLH = 24 * 7
	}
	if c.Cache.SearchTTLMin <= 0 {
		c.Cache.SearchTTLMin = 30
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = EmbeddingProviderLocal
	}
	if c.Embedding.Provider == EmbeddingProviderOpenAI && c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 512
	}
	if c.NLP.Entities.Backend == "" {
		c.NLP.Entities.Backend = EntityBackendProse
	}
	if c.NLP.Entities.Backend == EntityBackendOpenAI && c.NLP.Entities.Model == "" {
		c.NLP.Entities.Model = "gpt-4o-mini"
	}
	if c.NLP.Entities.MaxChars <= 0 {
		c.NLP.Entities.MaxChars = 100000
	}
	if c.NLP.Entities.Limit <= 0 {
		c.NLP.Entities.Limit = 5
	}
	if c.NLP.Topics.MergeThreshold <= 0 {
		c.NLP.Topics.MergeThreshold = 0.9
	}
	if c.NLP.Topics.TopKeywords <= 0 {
		c.NLP.Topics.TopKeywords = 10
	}
	if c.NLP.Topics.Candidates <= 0 {
		c.NLP.Topics.Candidates = 30
	}
	if len(c.Search.Providers) == 0 {
		c.Search.Providers = []ProviderConfig{
			{Kind: ProviderGNews, APIKey: os.Getenv("GNEWS_API_KEY")},
			{Kind: ProviderNewsAPI, APIKey: os.Getenv("NEWSAPI_API_KEY")},
		}
	}
	for i := range c.Search.Providers {
		p := &c.Search.Providers[i]
		if p.Name == "" {
			p.Name = p.Kind
		}
		if p.BaseURL == "" {
			p.BaseURL = defaultBaseURLs[p.Kind]
		}
		if p.TimeoutSec <= 0 {
			p.TimeoutSec = 10
		}
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 5
	}
	if c.Fetcher.UserAgent == "" {
		c.Fetcher.UserAgent = DefaultUserAgent
	}
	if c.Fetcher.TimeoutSec <= 0 {
		c.Fetcher.TimeoutSec = 15
	}
	if c.Fetcher.MaxBodyBytes <= 0 {
		c.Fetcher.MaxBodyBytes = 5 << 20
	}
	if c.Analysis.EnrichConcurrency <= 0 {
		c.Analysis.EnrichConcurrency = 4
	}
	if c.Analysis.DescriptionLength <= 0 {
		c.Analysis.DescriptionLength = 250
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Embedding.Provider {
	case EmbeddingProviderLocal:
	case EmbeddingProviderOpenAI:
		if c.Embedding.APIKey == "" {
			return fmt.Errorf("embedding.api_key is required for provider %q", c.Embedding.Provider)
		}
	default:
		return fmt.Errorf("embedding.provider must be \"openai\" or \"local\", got %q", c.Embedding.Provider)
	}

	if c.Embedding.DailyTokenQuota < 0 {
		return fmt.Errorf("embedding.daily_token_quota must not be negative")
	}

	switch c.NLP.Entities.Backend {
	case EntityBackendProse:
	case EntityBackendOpenAI:
		if c.NLP.Entities.APIKey == "" {
			return fmt.Errorf("nlp.entities.api_key is required for backend %q", c.NLP.Entities.Backend)
		}
	default:
		return fmt.Errorf("nlp.entities.backend must be \"prose\" or \"openai\", got %q", c.NLP.Entities.Backend)
	}

	if c.NLP.Topics.MergeThreshold > 1 {
		return fmt.Errorf("nlp.topics.merge_threshold must be in (0, 1], got %v", c.NLP.Topics.MergeThreshold)
	}

	seen := make(map[string]struct{}, len(c.Search.Providers))
	for i, p := range c.Search.Providers {
		if _, ok := defaultBaseURLs[p.Kind]; !ok {
			return fmt.Errorf(
				"search.providers[%d].kind must be \"gnews\", \"newsapi\" or \"googlenews_rss\", got %q",
				i, p.Kind,
			)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("search.providers[%d].name %q is duplicated", i, p.Name)
		}
		seen[p.Name] = struct{}{}
		if p.DailyQuota < 0 {
			return fmt.Errorf("search.providers.%s.daily_quota must not be negative", p.Name)
		}
	}
	return nil
}

// compact drops blank entries left by unset ${VAR:-} list items.
func compact(items []string) []string {
	out := items[:0]
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// Relative to the source file, for tests and `go run` from subdirectories.
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
