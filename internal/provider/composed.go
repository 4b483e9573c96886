package provider

import (
	"context"

	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/ai"
	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/news"
)

// Composed coordinates a Retriever and a Summarizer into the uniform
// provider contract. An empty retrieval still yields valid no-news text so
// downstream handling is uniform across both provider shapes.
type Composed struct {
	retriever  news.Retriever
	summarizer ai.Summarizer
	lang       string
	validate   func() bool
}

var _ Provider = (*Composed)(nil)

func NewComposed(retriever news.Retriever, summarizer ai.Summarizer, lang string, validate func() bool) *Composed {
	return &Composed{retriever: retriever, summarizer: summarizer, lang: lang, validate: validate}
}

func (c *Composed) Name() string { return c.retriever.Source() }

func (c *Composed) ValidateConfig() bool {
	if c.validate == nil {
		return false
	}
	return c.validate()
}

func (c *Composed) FetchAndSummarizeNews(ctx context.Context, topic string) Result {
	items, err := c.retriever.FetchNews(ctx, topic)
	if err != nil {
		return Result{Kind: Error, Text: "Error: " + err.Error(), Detail: err.Error()}
	}

	if len(items) == 0 {
		return Result{Kind: Empty, Text: NoNewsText(c.lang), Retrieved: true}
	}

	text, err := c.summarizer.Summarize(ctx, items, topic)
	if err != nil {
		// Retrieval worked; only summarization failed.
		return Result{Kind: Error, Text: "Error: " + err.Error(), Detail: err.Error(), Retrieved: true, NewsCount: len(items)}
	}

	return Result{Kind: Success, Text: text, NewsCount: len(items), Retrieved: true}
}
