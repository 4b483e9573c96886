package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// TemplateConfig selects how the daily document is laid out.
type TemplateConfig struct {
	Kind   string `yaml:"kind"`             // default, minimal, detailed, custom, file
	Custom string `yaml:"custom,omitempty"` // template body when kind is "custom"
	File   string `yaml:"file,omitempty"`   // document path when kind is "file"
}

// AIConfig holds per-vendor credentials and model overrides.
// Keys left empty in the file fall back to environment variables.
type AIConfig struct {
	ClaudeKey     string `yaml:"claude_api_key,omitempty"`
	OpenAIKey     string `yaml:"openai_api_key,omitempty"`
	PerplexityKey string `yaml:"perplexity_api_key,omitempty"`
	Model         string `yaml:"model,omitempty"`
}

// SearchConfig holds the web-search key pair.
type SearchConfig struct {
	APIKey   string `yaml:"api_key,omitempty"`
	EngineID string `yaml:"engine_id,omitempty"`
}

type Config struct {
	Provider      string `yaml:"provider"`       // "agentic" or "composed"
	AgenticVendor string `yaml:"agentic_vendor"` // e.g. "perplexity"
	Source        string `yaml:"source"`         // "websearch" or "rss" (composed only)
	Summarizer    string `yaml:"summarizer"`     // "claude" or "openai" (composed only)

	Topics        []string `yaml:"topics"`
	ScheduleTime  string   `yaml:"schedule_time"`  // "HH:MM"
	ArchiveFolder string   `yaml:"archive_folder"` // root of the generated documents
	Language      string   `yaml:"language"`       // ISO 639-1, exactly two characters

	Feeds        []string `yaml:"feeds,omitempty"` // RSS source URLs
	NewsPerTopic int      `yaml:"news_per_topic,omitempty"`

	Verbose         bool `yaml:"verbose,omitempty"`
	IncludeMetadata bool `yaml:"include_metadata,omitempty"`

	Template TemplateConfig `yaml:"template,omitempty"`
	AI       AIConfig       `yaml:"ai,omitempty"`
	Search   SearchConfig   `yaml:"search,omitempty"`
}

// ClaudeKey returns the resolved Claude API key (config or env var).
func (c *Config) ClaudeKey() string {
	if c.AI.ClaudeKey != "" {
		return c.AI.ClaudeKey
	}
	return os.Getenv("DAILY_NEWS_CLAUDE_KEY")
}

// OpenAIKey returns the resolved OpenAI API key (config or env var).
func (c *Config) OpenAIKey() string {
	if c.AI.OpenAIKey != "" {
		return c.AI.OpenAIKey
	}
	return os.Getenv("DAILY_NEWS_OPENAI_KEY")
}

// PerplexityKey returns the resolved Perplexity API key (config or env var).
func (c *Config) PerplexityKey() string {
	if c.AI.PerplexityKey != "" {
		return c.AI.PerplexityKey
	}
	return os.Getenv("DAILY_NEWS_PERPLEXITY_KEY")
}

// SummarizerKey returns the credential for the selected summarizer vendor.
func (c *Config) SummarizerKey() string {
	switch c.Summarizer {
	case "claude":
		return c.ClaudeKey()
	case "openai":
		return c.OpenAIKey()
	}
	return ""
}

// GetNewsPerTopic returns the per-topic item bound, defaulting to 5.
func (c *Config) GetNewsPerTopic() int {
	if c.NewsPerTopic <= 0 {
		return 5
	}
	return c.NewsPerTopic
}

// GetLanguage returns the language code, defaulting to "en".
func (c *Config) GetLanguage() string {
	if c.Language == "" {
		return "en"
	}
	return c.Language
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "daily-news-briefing", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "daily-news-briefing", "daily-news.db")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects structurally broken configuration. Credential presence is
// checked separately by the provider factory so a config file without keys
// still loads.
func Validate(cfg *Config) error {
	switch cfg.Provider {
	case "agentic", "composed":
	default:
		return fmt.Errorf("unknown provider mode %q (valid: agentic, composed)", cfg.Provider)
	}

	if cfg.Provider == "composed" {
		switch cfg.Source {
		case "websearch", "rss":
		default:
			return fmt.Errorf("unknown source %q (valid: websearch, rss)", cfg.Source)
		}
		switch cfg.Summarizer {
		case "claude", "openai":
		default:
			return fmt.Errorf("unknown summarizer %q (valid: claude, openai)", cfg.Summarizer)
		}
	}

	if cfg.Language != "" && len(cfg.Language) != 2 {
		return fmt.Errorf("language code %q must be exactly two characters", cfg.Language)
	}

	if cfg.ScheduleTime != "" {
		if err := ValidateScheduleTime(cfg.ScheduleTime); err != nil {
			return err
		}
	}

	if cfg.ArchiveFolder == "" {
		return fmt.Errorf("archive_folder is required")
	}

	for i, f := range cfg.Feeds {
		u, err := url.Parse(f)
		if err != nil {
			return fmt.Errorf("feed %d: invalid url: %w", i, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("feed %d: url scheme must be http or https, got %q", i, u.Scheme)
		}
	}

	return nil
}

// ValidateScheduleTime checks an "HH:MM" wall-clock string.
func ValidateScheduleTime(s string) error {
	if len(s) != 5 || s[2] != ':' {
		return fmt.Errorf("schedule_time %q must be HH:MM", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return fmt.Errorf("schedule_time %q must be HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return fmt.Errorf("schedule_time %q out of range", s)
	}
	return nil
}
