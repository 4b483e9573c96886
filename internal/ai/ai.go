// Package ai holds the LLM vendor clients: Summarizer implementations for
// the composed provider and the single-call Agent for the agentic provider.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/news"
)

// Summarizer turns retrieved news items into narrative text.
type Summarizer interface {
	Summarize(ctx context.Context, items []news.Item, topic string) (string, error)
	SearchQuery(ctx context.Context, topic string) (string, error)
}

// Agent performs search and summarization in one opaque call.
type Agent interface {
	FetchAndSummarize(ctx context.Context, topic string) (string, error)
}

// Options configures vendor clients.
type Options struct {
	Model    string // vendor default when empty
	Language string // ISO 639-1 code for the summary language
	BaseURL  string // test override
}

// NewSummarizer builds the summarizer for the named vendor.
func NewSummarizer(vendor, apiKey string, opts Options) (Summarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("summarizer %q: missing API key", vendor)
	}

	client := &http.Client{Timeout: 30 * time.Second}

	switch vendor {
	case "claude":
		model := opts.Model
		if model == "" {
			model = "claude-haiku-4-5-20251001"
		}
		return &claudeSummarizer{apiKey: apiKey, model: model, lang: opts.Language, baseURL: opts.BaseURL, client: client}, nil
	case "openai":
		model := opts.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		return &openaiSummarizer{apiKey: apiKey, model: model, lang: opts.Language, baseURL: opts.BaseURL, client: client}, nil
	default:
		return nil, fmt.Errorf("unknown summarizer vendor: %q (valid: claude, openai)", vendor)
	}
}

const summarizePrompt = `You are a news editor writing a daily briefing section about "%s".
Summarize the news items below into concise Markdown: a "### Key Developments" heading followed by one bullet per distinct story. Keep each bullet to one sentence and include the source name in parentheses. Write in %s. Do not invent stories that are not in the list.

News items:
%s`

const searchQueryPrompt = `Write one focused web search query (max 10 words) to find today's most significant news about "%s". Respond with ONLY the query text.`

// langNames maps ISO 639-1 codes to the language name used in prompts.
var langNames = map[string]string{
	"en": "English",
	"zh": "Chinese",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"ja": "Japanese",
	"pt": "Portuguese",
}

func langName(code string) string {
	if name, ok := langNames[code]; ok {
		return name
	}
	return "English"
}

func formatItems(items []news.Item) string {
	var sb strings.Builder
	for _, it := range items {
		sb.WriteString("- ")
		sb.WriteString(it.Title)
		if it.Source != "" {
			sb.WriteString(" (")
			sb.WriteString(it.Source)
			sb.WriteString(")")
		}
		if it.Snippet != "" {
			sb.WriteString(": ")
			sb.WriteString(it.Snippet)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func buildSummarizePrompt(topic, lang string, items []news.Item) string {
	return fmt.Sprintf(summarizePrompt, topic, langName(lang), formatItems(items))
}

// cleanQuery normalizes an LLM-produced search query: first line, no quotes.
func cleanQuery(text string) string {
	line := text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return strings.Trim(strings.TrimSpace(line), `"'`)
}

// --- Claude summarizer ---

type claudeSummarizer struct {
	apiKey  string
	model   string
	lang    string
	baseURL string
	client  *http.Client
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (c *claudeSummarizer) Summarize(ctx context.Context, items []news.Item, topic string) (string, error) {
	text, err := c.call(ctx, buildSummarizePrompt(topic, c.lang, items))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (c *claudeSummarizer) SearchQuery(ctx context.Context, topic string) (string, error) {
	text, err := c.call(ctx, fmt.Sprintf(searchQueryPrompt, topic))
	if err != nil {
		return "", err
	}
	return cleanQuery(text), nil
}

func (c *claudeSummarizer) call(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(claudeRequest{
		Model:     c.model,
		MaxTokens: 1024,
		Messages:  []claudeMessage{{Role: "user", Content: prompt}},
	})

	endpoint := c.baseURL
	if endpoint == "" {
		endpoint = "https://api.anthropic.com/v1/messages"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("claude API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("claude API %d: %s", resp.StatusCode, string(b))
	}

	var cr claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Content) == 0 {
		return "", fmt.Errorf("empty claude response")
	}
	return cr.Content[0].Text, nil
}

// --- OpenAI summarizer ---

type openaiSummarizer struct {
	apiKey  string
	model   string
	lang    string
	baseURL string
	client  *http.Client
}

type openaiRequest struct {
	Model    string          `json:"model"`
	Messages []openaiMessage `json:"messages"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *openaiSummarizer) Summarize(ctx context.Context, items []news.Item, topic string) (string, error) {
	text, err := o.call(ctx, buildSummarizePrompt(topic, o.lang, items))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (o *openaiSummarizer) SearchQuery(ctx context.Context, topic string) (string, error) {
	text, err := o.call(ctx, fmt.Sprintf(searchQueryPrompt, topic))
	if err != nil {
		return "", err
	}
	return cleanQuery(text), nil
}

func (o *openaiSummarizer) call(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(openaiRequest{
		Model:    o.model,
		Messages: []openaiMessage{{Role: "user", Content: prompt}},
	})

	endpoint := o.baseURL
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1/chat/completions"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("openai API %d: %s", resp.StatusCode, string(b))
	}

	var or openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return "", err
	}
	if len(or.Choices) == 0 {
		return "", fmt.Errorf("empty openai response")
	}
	return or.Choices[0].Message.Content, nil
}
