// Package provider unifies the two news acquisition shapes — a single
// agentic search+summarize call and a composed retrieve-then-summarize
// pipeline — behind one tagged-result contract the orchestrator consumes.
package provider

import (
	"context"
	"strings"
)

// Kind tags a provider result. Every provider output maps to exactly one.
type Kind int

const (
	// Success: narrative text was produced from at least one news item.
	Success Kind = iota
	// Empty: the provider legitimately found nothing. A soft miss, not an
	// error.
	Empty
	// Error: the acquisition itself failed.
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Empty:
		return "empty"
	case Error:
		return "error"
	}
	return "unknown"
}

// Result is the tagged outcome of one provider call. Faults never cross the
// provider boundary as panics or errors; they arrive here as Kind Error.
type Result struct {
	Kind      Kind
	Text      string // narrative text, no-news text, or error text
	Detail    string // underlying fault detail when Kind is Error
	NewsCount int    // retrieved items; 1 for an agentic success
	Retrieved bool   // the retrieval stage completed
}

// Provider is the uniform capability the orchestrator invokes per topic.
type Provider interface {
	FetchAndSummarizeNews(ctx context.Context, topic string) Result
	Name() string
	ValidateConfig() bool
}

// errorMarker is the literal substring an agentic vendor embeds in its text
// payload to signal failure.
const errorMarker = "Error"

// noNewsTexts is the per-language no-news marker. The composed coordinator
// emits it for empty retrievals; the agentic classifier matches it.
var noNewsTexts = map[string]string{
	"en": "No significant news found today.",
	"zh": "今天没有重要新闻。",
	"es": "No se encontraron noticias importantes hoy.",
	"fr": "Aucune actualité importante trouvée aujourd'hui.",
	"de": "Heute wurden keine wichtigen Nachrichten gefunden.",
	"ja": "本日は重要なニュースは見つかりませんでした。",
	"pt": "Nenhuma notícia importante encontrada hoje.",
}

// NoNewsText returns the no-news marker for a language, defaulting to
// English.
func NoNewsText(lang string) string {
	if t, ok := noNewsTexts[lang]; ok {
		return t
	}
	return noNewsTexts["en"]
}

// Classify maps raw agentic text onto a tagged Result. Total: every string
// yields exactly one Kind. Precedence is error marker, then no-news marker
// (any language) or blank text, then success.
func Classify(text string) Result {
	trimmed := strings.TrimSpace(text)

	if strings.Contains(trimmed, errorMarker) {
		return Result{Kind: Error, Text: text, Detail: trimmed}
	}

	if trimmed == "" || isNoNews(trimmed) {
		return Result{Kind: Empty, Text: text, Retrieved: true}
	}

	return Result{Kind: Success, Text: text, NewsCount: 1, Retrieved: true}
}

func isNoNews(trimmed string) bool {
	for _, marker := range noNewsTexts {
		if strings.Contains(trimmed, marker) {
			return true
		}
	}
	return false
}
