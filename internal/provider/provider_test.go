package provider

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/config"
	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/news"
)

func TestClassifyTotality(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Kind
	}{
		{"error marker", "Error: upstream timeout", Error},
		{"embedded error marker", "The request failed. Error code 500.", Error},
		{"no-news english", "No significant news found today.", Empty},
		{"no-news chinese", "今天没有重要新闻。", Empty},
		{"blank", "", Empty},
		{"whitespace", "   \n\t ", Empty},
		{"narrative", "### Key Developments\n- Item A", Success},
		{"lowercase error word", "the server reported an error yesterday", Success},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			if got.Kind != tt.want {
				t.Errorf("Classify(%q).Kind = %v, want %v", tt.text, got.Kind, tt.want)
			}
		})
	}
}

func TestClassifySuccessFields(t *testing.T) {
	got := Classify("### Key Developments\n- Item A")
	if !got.Retrieved || got.NewsCount != 1 {
		t.Errorf("success should report one retrieved item, got %+v", got)
	}
}

func TestNoNewsText(t *testing.T) {
	if NoNewsText("fr") == NoNewsText("en") {
		t.Error("expected distinct french marker")
	}
	if NoNewsText("unknown-lang") != NoNewsText("en") {
		t.Error("expected english fallback")
	}
}

// --- agentic ---

type fakeAgent struct {
	text string
	err  error
}

func (f *fakeAgent) FetchAndSummarize(ctx context.Context, topic string) (string, error) {
	return f.text, f.err
}

func TestAgenticConvertsFaults(t *testing.T) {
	p := NewAgentic("perplexity", &fakeAgent{err: fmt.Errorf("connection refused")}, func() bool { return true })
	got := p.FetchAndSummarizeNews(context.Background(), "Tech")
	if got.Kind != Error {
		t.Fatalf("expected Error kind, got %v", got.Kind)
	}
	if !strings.Contains(got.Text, "Error") {
		t.Errorf("error text should carry the marker, got %q", got.Text)
	}
	if got.Detail != "connection refused" {
		t.Errorf("unexpected detail: %q", got.Detail)
	}
}

func TestAgenticClassifiesText(t *testing.T) {
	p := NewAgentic("perplexity", &fakeAgent{text: "### Key Developments\n- Item A"}, func() bool { return true })
	if got := p.FetchAndSummarizeNews(context.Background(), "Tech"); got.Kind != Success {
		t.Errorf("expected Success, got %v", got.Kind)
	}

	p = NewAgentic("perplexity", &fakeAgent{text: "No significant news found today."}, func() bool { return true })
	if got := p.FetchAndSummarizeNews(context.Background(), "Tech"); got.Kind != Empty {
		t.Errorf("expected Empty, got %v", got.Kind)
	}
}

// --- composed ---

type fakeRetriever struct {
	items []news.Item
	err   error
}

func (f *fakeRetriever) FetchNews(ctx context.Context, topic string) ([]news.Item, error) {
	return f.items, f.err
}

func (f *fakeRetriever) Source() string { return "fake" }

type fakeSummarizer struct {
	text string
	err  error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, items []news.Item, topic string) (string, error) {
	return f.text, f.err
}

func (f *fakeSummarizer) SearchQuery(ctx context.Context, topic string) (string, error) {
	return topic, nil
}

func TestComposedSuccess(t *testing.T) {
	items := []news.Item{{Title: "A", Link: "https://a"}, {Title: "B", Link: "https://b"}}
	p := NewComposed(&fakeRetriever{items: items}, &fakeSummarizer{text: "summary"}, "en", func() bool { return true })

	got := p.FetchAndSummarizeNews(context.Background(), "Tech")
	if got.Kind != Success || got.Text != "summary" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got.NewsCount != 2 || !got.Retrieved {
		t.Errorf("expected 2 retrieved items, got %+v", got)
	}
}

func TestComposedEmptyRetrievalYieldsNoNewsText(t *testing.T) {
	p := NewComposed(&fakeRetriever{}, &fakeSummarizer{text: "unused"}, "fr", func() bool { return true })

	got := p.FetchAndSummarizeNews(context.Background(), "Tech")
	if got.Kind != Empty {
		t.Fatalf("expected Empty, got %v", got.Kind)
	}
	if got.Text != NoNewsText("fr") {
		t.Errorf("expected translated no-news text, got %q", got.Text)
	}
	if !got.Retrieved || got.NewsCount != 0 {
		t.Errorf("empty retrieval should count zero items: %+v", got)
	}
}

func TestComposedRetrieverFault(t *testing.T) {
	p := NewComposed(&fakeRetriever{err: fmt.Errorf("all feeds failed")}, &fakeSummarizer{}, "en", func() bool { return true })

	got := p.FetchAndSummarizeNews(context.Background(), "Tech")
	if got.Kind != Error || got.Retrieved {
		t.Errorf("retriever fault should be Error with Retrieved=false: %+v", got)
	}
}

func TestComposedSummarizerFaultKeepsRetrieval(t *testing.T) {
	items := []news.Item{{Title: "A", Link: "https://a"}}
	p := NewComposed(&fakeRetriever{items: items}, &fakeSummarizer{err: fmt.Errorf("llm down")}, "en", func() bool { return true })

	got := p.FetchAndSummarizeNews(context.Background(), "Tech")
	if got.Kind != Error {
		t.Fatalf("expected Error, got %v", got.Kind)
	}
	if !got.Retrieved || got.NewsCount != 1 {
		t.Errorf("retrieval stage outcome lost: %+v", got)
	}
}

// --- factory ---

func composedConfig() *config.Config {
	cfg := &config.Config{
		Provider:      "composed",
		Source:        "rss",
		Summarizer:    "claude",
		ArchiveFolder: "Archive",
		Feeds:         []string{"https://example.com/feed.xml"},
	}
	cfg.AI.ClaudeKey = "key"
	return cfg
}

func TestFactoryNew(t *testing.T) {
	p, err := New(composedConfig(), nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if p.Name() != "rss" {
		t.Errorf("unexpected provider name: %q", p.Name())
	}

	cfg := composedConfig()
	cfg.Provider = "agentic"
	cfg.AI.PerplexityKey = "key"
	p, err = New(cfg, nil)
	if err != nil {
		t.Fatalf("new agentic: %v", err)
	}
	if p.Name() != "perplexity" {
		t.Errorf("unexpected agentic name: %q", p.Name())
	}
}

func TestFactoryRejectsUnknownIdentifiers(t *testing.T) {
	cfg := composedConfig()
	cfg.Provider = "psychic"
	if _, err := New(cfg, nil); err == nil {
		t.Error("expected error for unknown provider mode")
	}

	cfg = composedConfig()
	cfg.Source = "telegraph"
	if _, err := New(cfg, nil); err == nil {
		t.Error("expected error for unknown source")
	}

	cfg = composedConfig()
	cfg.AgenticVendor = "oracle"
	cfg.Provider = "agentic"
	if _, err := New(cfg, nil); err == nil {
		t.Error("expected error for unknown agentic vendor")
	}
}

func TestFactoryConstructionIgnoresMissingCredentials(t *testing.T) {
	cfg := composedConfig()
	cfg.AI.ClaudeKey = ""
	p, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("construction must not fail on missing credentials: %v", err)
	}
	if p.ValidateConfig() {
		t.Error("validation should fail with missing summarizer key")
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   bool
	}{
		{"complete composed rss", func(c *config.Config) {}, true},
		{"no feeds", func(c *config.Config) { c.Feeds = nil }, false},
		{"no summarizer key", func(c *config.Config) { c.AI.ClaudeKey = "" }, false},
		{"websearch complete", func(c *config.Config) {
			c.Source = "websearch"
			c.Search.APIKey = "k"
			c.Search.EngineID = "e"
		}, true},
		{"websearch missing engine", func(c *config.Config) {
			c.Source = "websearch"
			c.Search.APIKey = "k"
		}, false},
		{"agentic with key", func(c *config.Config) {
			c.Provider = "agentic"
			c.AI.PerplexityKey = "k"
		}, true},
		{"agentic without key", func(c *config.Config) { c.Provider = "agentic" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := composedConfig()
			tt.mutate(cfg)
			if got := ValidateConfig(cfg); got != tt.want {
				t.Errorf("ValidateConfig = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeyDeterminism(t *testing.T) {
	cfg := composedConfig()
	if got := Key(cfg); got != "rss-claude" {
		t.Errorf("Key = %q, want rss-claude", got)
	}

	// Credentials must not affect the key.
	cfg.AI.ClaudeKey = "different"
	cfg.Search.APIKey = "whatever"
	if got := Key(cfg); got != "rss-claude" {
		t.Errorf("key changed with credentials: %q", got)
	}

	// Output-affecting choices must change it.
	cfg.Summarizer = "openai"
	if got := Key(cfg); got != "rss-openai" {
		t.Errorf("Key = %q, want rss-openai", got)
	}
	cfg.Source = "websearch"
	if got := Key(cfg); got != "websearch-openai" {
		t.Errorf("Key = %q, want websearch-openai", got)
	}

	cfg.Provider = "agentic"
	if got := Key(cfg); got != "perplexity" {
		t.Errorf("agentic Key = %q, want perplexity", got)
	}
}
