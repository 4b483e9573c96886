package news

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSSRetriever polls a fixed list of feeds and keeps items matching the
// topic, published within the window.
type RSSRetriever struct {
	Feeds  []string
	Limit  int
	Window time.Duration // defaults to 24h
	Now    func() time.Time

	parser *gofeed.Parser
	once   sync.Once
}

func NewRSSRetriever(feeds []string, limit int) *RSSRetriever {
	return &RSSRetriever{Feeds: feeds, Limit: limit}
}

func (r *RSSRetriever) Source() string { return "rss" }

func (r *RSSRetriever) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *RSSRetriever) window() time.Duration {
	if r.Window > 0 {
		return r.Window
	}
	return 24 * time.Hour
}

// FetchNews fans out across all feeds concurrently and joins every branch;
// one feed's fault never aborts the others. An error is returned only when
// every feed failed and nothing was retrieved.
func (r *RSSRetriever) FetchNews(ctx context.Context, topic string) ([]Item, error) {
	r.once.Do(func() { r.parser = gofeed.NewParser() })

	var (
		mu    sync.Mutex
		items []Item
		errs  []error
		wg    sync.WaitGroup
	)

	now := r.now()
	cutoff := now.Add(-r.window())

	for _, feedURL := range r.Feeds {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			got, err := r.fetchFeed(ctx, u, topic, now)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			items = append(items, got...)
		}(feedURL)
	}
	wg.Wait()

	if len(items) == 0 && len(errs) == len(r.Feeds) && len(errs) > 0 {
		return nil, fmt.Errorf("all %d feeds failed: %v", len(errs), errs[0])
	}

	items = filterWindow(dedupe(items), cutoff)
	return rank(items, now, r.Limit), nil
}

func (r *RSSRetriever) fetchFeed(ctx context.Context, feedURL, topic string, now time.Time) ([]Item, error) {
	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", feedURL, err)
	}

	source := feed.Title
	if source == "" {
		source = feedURL
	}

	items := make([]Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		var pub time.Time
		if entry.PublishedParsed != nil {
			pub = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			pub = *entry.UpdatedParsed
		}

		desc := entry.Description
		if desc == "" {
			desc = entry.Content
		}

		it := Item{
			Title:     entry.Title,
			Link:      entry.Link,
			Snippet:   truncate(stripHTML(desc), 300),
			Published: pub,
			Source:    source,
		}
		if !matchesTopic(it, topic) {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}
