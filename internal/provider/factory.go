package provider

import (
	"fmt"

	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/ai"
	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/config"
	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/news"
)

// New builds the active provider from configuration. Construction is pure
// and deterministic; it errors only on an unrecognized provider, vendor, or
// source identifier. Missing credentials are ValidateConfig's concern,
// checked separately before any network attempt.
func New(cfg *config.Config, queries news.QueryCache) (Provider, error) {
	opts := ai.Options{Model: cfg.AI.Model, Language: cfg.GetLanguage()}

	switch cfg.Provider {
	case "agentic":
		vendor := agenticVendor(cfg)
		if vendor != "perplexity" {
			return nil, fmt.Errorf("unknown agentic vendor: %q (valid: perplexity)", vendor)
		}
		// Key may be empty here; the agent is only invoked after validation.
		agent, err := ai.NewPerplexityAgent(orPlaceholder(cfg.PerplexityKey()), opts)
		if err != nil {
			return nil, err
		}
		return NewAgentic(vendor, agent, func() bool {
			return cfg.PerplexityKey() != ""
		}), nil

	case "composed":
		summarizer, err := ai.NewSummarizer(cfg.Summarizer, orPlaceholder(cfg.SummarizerKey()), opts)
		if err != nil {
			return nil, err
		}

		var retriever news.Retriever
		switch cfg.Source {
		case "rss":
			retriever = news.NewRSSRetriever(cfg.Feeds, cfg.GetNewsPerTopic())
		case "websearch":
			retriever = news.NewWebSearchRetriever(
				cfg.Search.APIKey, cfg.Search.EngineID,
				cfg.GetNewsPerTopic(), queries, summarizer,
			)
		default:
			return nil, fmt.Errorf("unknown source: %q (valid: websearch, rss)", cfg.Source)
		}

		return NewComposed(retriever, summarizer, cfg.GetLanguage(), func() bool {
			return ValidateConfig(cfg)
		}), nil

	default:
		return nil, fmt.Errorf("unknown provider mode: %q (valid: agentic, composed)", cfg.Provider)
	}
}

// ValidateConfig reports whether the active provider has the credentials
// and prerequisites it needs. False aborts the run before any I/O.
func ValidateConfig(cfg *config.Config) bool {
	switch cfg.Provider {
	case "agentic":
		return cfg.PerplexityKey() != ""
	case "composed":
		switch cfg.Source {
		case "websearch":
			if cfg.Search.APIKey == "" || cfg.Search.EngineID == "" {
				return false
			}
		case "rss":
			if len(cfg.Feeds) == 0 {
				return false
			}
		default:
			return false
		}
		return cfg.SummarizerKey() != ""
	}
	return false
}

// Key derives the cache-partitioning key. It changes with every choice that
// changes output (source, summarizer, agentic vendor) and with nothing else:
// credentials and unrelated settings never invalidate the cache.
func Key(cfg *config.Config) string {
	if cfg.Provider == "agentic" {
		return agenticVendor(cfg)
	}
	return cfg.Source + "-" + cfg.Summarizer
}

func agenticVendor(cfg *config.Config) string {
	if cfg.AgenticVendor == "" {
		return "perplexity"
	}
	return cfg.AgenticVendor
}

// orPlaceholder keeps construction pure when a credential is absent: the
// factory never fails on missing keys, and validation gates any real call.
func orPlaceholder(key string) string {
	if key == "" {
		return "unset"
	}
	return key
}
