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
)

// PerplexityAgent performs search and summarization in one chat-completions
// call against the Perplexity API. It is the only agentic vendor.
type PerplexityAgent struct {
	apiKey  string
	model   string
	lang    string
	baseURL string
	client  *http.Client
}

func NewPerplexityAgent(apiKey string, opts Options) (*PerplexityAgent, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("perplexity: missing API key")
	}
	model := opts.Model
	if model == "" {
		model = "sonar"
	}
	return &PerplexityAgent{
		apiKey:  apiKey,
		model:   model,
		lang:    opts.Language,
		baseURL: opts.BaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

const agenticPrompt = `Search for today's most significant news about "%s" and write a Markdown briefing section: a "### Key Developments" heading followed by one bullet per distinct story with the source in parentheses. Write in %s. If there is no significant recent news, respond with exactly: No significant news found today.`

type perplexityRequest struct {
	Model    string              `json:"model"`
	Messages []perplexityMessage `json:"messages"`
}

type perplexityMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type perplexityResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *PerplexityAgent) FetchAndSummarize(ctx context.Context, topic string) (string, error) {
	prompt := fmt.Sprintf(agenticPrompt, topic, langName(p.lang))
	body, _ := json.Marshal(perplexityRequest{
		Model:    p.model,
		Messages: []perplexityMessage{{Role: "user", Content: prompt}},
	})

	endpoint := p.baseURL
	if endpoint == "" {
		endpoint = "https://api.perplexity.ai/chat/completions"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("perplexity API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("perplexity API %d: %s", resp.StatusCode, string(b))
	}

	var pr perplexityResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", err
	}
	if len(pr.Choices) == 0 {
		return "", fmt.Errorf("empty perplexity response")
	}
	return strings.TrimSpace(pr.Choices[0].Message.Content), nil
}
