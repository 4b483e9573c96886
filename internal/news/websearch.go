package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultSearchURL = "https://www.googleapis.com/customsearch/v1"

// QueryGenerator derives a focused search query for a topic, typically via
// an LLM call. Optional: without one the retriever searches the topic as-is.
type QueryGenerator interface {
	SearchQuery(ctx context.Context, topic string) (string, error)
}

// WebSearchRetriever queries the Google Custom Search JSON API, restricted
// to the last day. It needs the key pair (API key + engine id).
type WebSearchRetriever struct {
	APIKey   string
	EngineID string
	Limit    int
	BaseURL  string // test override
	Queries  QueryCache
	QueryGen QueryGenerator
	Client   *http.Client
}

func NewWebSearchRetriever(apiKey, engineID string, limit int, queries QueryCache, gen QueryGenerator) *WebSearchRetriever {
	return &WebSearchRetriever{
		APIKey:   apiKey,
		EngineID: engineID,
		Limit:    limit,
		Queries:  queries,
		QueryGen: gen,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (w *WebSearchRetriever) Source() string { return "websearch" }

type searchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Pagemap struct {
			Metatags []map[string]string `json:"metatags"`
		} `json:"pagemap"`
	} `json:"items"`
}

func (w *WebSearchRetriever) FetchNews(ctx context.Context, topic string) ([]Item, error) {
	query := w.searchQuery(ctx, topic)

	q := url.Values{}
	q.Set("key", w.APIKey)
	q.Set("cx", w.EngineID)
	q.Set("q", query)
	q.Set("dateRestrict", "d1")
	q.Set("num", strconv.Itoa(w.limit()))

	base := w.BaseURL
	if base == "" {
		base = defaultSearchURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	client := w.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("search API %d: %s", resp.StatusCode, string(b))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]Item, 0, len(sr.Items))
	for _, e := range sr.Items {
		it := Item{
			Title:     e.Title,
			Link:      e.Link,
			Snippet:   stripHTML(e.Snippet),
			Published: publishedFromMetatags(e.Pagemap.Metatags),
			Source:    "websearch",
		}
		items = append(items, it)
	}
	return rank(dedupe(items), now, w.limit()), nil
}

func (w *WebSearchRetriever) limit() int {
	if w.Limit <= 0 {
		return 5
	}
	return w.Limit
}

// searchQuery resolves the query for a topic: cached, else AI-derived, else
// the topic plus a "news" hint. Derivation failures fall back silently.
func (w *WebSearchRetriever) searchQuery(ctx context.Context, topic string) string {
	if w.Queries != nil {
		if q, ok := w.Queries.Query(topic); ok && q != "" {
			return q
		}
	}
	if w.QueryGen != nil {
		if q, err := w.QueryGen.SearchQuery(ctx, topic); err == nil && q != "" {
			if w.Queries != nil {
				w.Queries.SetQuery(topic, q)
			}
			return q
		}
	}
	return topic + " news"
}

var metatagDateKeys = []string{"article:published_time", "og:updated_time", "date"}

func publishedFromMetatags(tags []map[string]string) time.Time {
	for _, m := range tags {
		for _, key := range metatagDateKeys {
			if v, ok := m[key]; ok {
				if t, err := time.Parse(time.RFC3339, v); err == nil {
					return t
				}
			}
		}
	}
	return time.Time{}
}
