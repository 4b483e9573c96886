// Package news defines the NewsItem model and the Retriever half of the
// composed provider: bounded, deduplicated, time-filtered candidate lists
// from one source kind. Items never leave the provider layer; summarizers
// consume them into text.
package news

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Item is one candidate news entry produced by a Retriever.
type Item struct {
	Title     string
	Link      string
	Snippet   string
	Published time.Time // zero when the source does not report it
	Source    string
	Quality   float64
}

// Retriever fetches candidate news items for a topic from one source kind.
type Retriever interface {
	FetchNews(ctx context.Context, topic string) ([]Item, error)
	Source() string
}

// QueryCache stores AI-derived search queries per topic so later runs reuse
// warmed queries instead of re-deriving them.
type QueryCache interface {
	Query(topic string) (string, bool)
	SetQuery(topic, query string) error
}

// itemID derives a stable identifier from an item link, used for dedup.
func itemID(link string) string {
	h := sha256.Sum256([]byte(link))
	return fmt.Sprintf("%x", h[:16])
}

// dedupe drops items whose link hash was already seen, preserving order.
func dedupe(items []Item) []Item {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, it := range items {
		id := itemID(it.Link)
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, it)
	}
	return out
}

// filterWindow drops items published before the cutoff. Items without a
// publish time pass through: feeds that omit dates should not vanish.
func filterWindow(items []Item, cutoff time.Time) []Item {
	out := items[:0]
	for _, it := range items {
		if !it.Published.IsZero() && it.Published.Before(cutoff) {
			continue
		}
		out = append(out, it)
	}
	return out
}

const (
	weightRecency = 0.55
	weightDepth   = 0.45
)

// score computes an item quality score (0.0–10.0) from recency decay and
// snippet depth.
func score(it Item, now time.Time) float64 {
	raw := recencyScore(it.Published, now)*weightRecency + depthScore(it.Snippet)*weightDepth
	return math.Round(raw*100) / 10
}

// recencyScore returns exponential decay: 1.0 at publish, ~0.5 at 12h.
func recencyScore(published, now time.Time) float64 {
	if published.IsZero() {
		return 0.5
	}
	hours := now.Sub(published).Hours()
	if hours < 0 {
		hours = 0
	}
	// decay constant: ln(0.5)/12 ≈ -0.05776
	return math.Exp(-0.05776 * hours)
}

// depthScore scores based on snippet word count.
func depthScore(snippet string) float64 {
	words := len(strings.Fields(snippet))
	switch {
	case words >= 60:
		return 1.0
	case words >= 20:
		return 0.6
	default:
		return 0.2
	}
}

// rank scores, sorts descending, and bounds the list to limit.
func rank(items []Item, now time.Time, limit int) []Item {
	for i := range items {
		items[i].Quality = score(items[i], now)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Quality > items[j].Quality
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// matchesTopic reports whether any topic term appears in the item title or
// snippet. Feeds are not topic-scoped, so items are filtered by keyword.
func matchesTopic(it Item, topic string) bool {
	text := strings.ToLower(it.Title + " " + it.Snippet)
	for _, term := range strings.Fields(strings.ToLower(topic)) {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
