package ai

import (
	"strings"
	"testing"
	"time"

	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/news"
)

func TestFormatItems(t *testing.T) {
	items := []news.Item{
		{Title: "Go 1.23 released", Source: "golang.org", Snippet: "New iterators."},
		{Title: "Untitled story", Published: time.Now()},
	}
	got := formatItems(items)
	if !strings.Contains(got, "- Go 1.23 released (golang.org): New iterators.") {
		t.Errorf("missing formatted first item:\n%s", got)
	}
	if !strings.Contains(got, "- Untitled story\n") {
		t.Errorf("second item should omit empty source and snippet:\n%s", got)
	}
}

func TestBuildSummarizePrompt(t *testing.T) {
	items := []news.Item{{Title: "Story", Source: "src"}}
	got := buildSummarizePrompt("Tech", "de", items)
	if !strings.Contains(got, `"Tech"`) {
		t.Errorf("prompt missing topic:\n%s", got)
	}
	if !strings.Contains(got, "German") {
		t.Errorf("prompt missing language name:\n%s", got)
	}
	if !strings.Contains(got, "- Story (src)") {
		t.Errorf("prompt missing items:\n%s", got)
	}
}

func TestLangName(t *testing.T) {
	tests := []struct {
		code, want string
	}{
		{"en", "English"},
		{"ja", "Japanese"},
		{"xx", "English"},
		{"", "English"},
	}
	for _, tt := range tests {
		if got := langName(tt.code); got != tt.want {
			t.Errorf("langName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCleanQuery(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{`"tech layoffs 2024"`, "tech layoffs 2024"},
		{"simple query", "simple query"},
		{"first line\nsecond line", "first line"},
		{"  padded  ", "padded"},
		{"'single quoted'", "single quoted"},
	}
	for _, tt := range tests {
		if got := cleanQuery(tt.input); got != tt.want {
			t.Errorf("cleanQuery(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNewSummarizerVendors(t *testing.T) {
	if _, err := NewSummarizer("claude", "key", Options{}); err != nil {
		t.Errorf("claude: unexpected error: %v", err)
	}
	if _, err := NewSummarizer("openai", "key", Options{}); err != nil {
		t.Errorf("openai: unexpected error: %v", err)
	}
	if _, err := NewSummarizer("mystery", "key", Options{}); err == nil {
		t.Error("expected error for unknown vendor")
	}
	if _, err := NewSummarizer("claude", "", Options{}); err == nil {
		t.Error("expected error for missing key")
	}
}
