// Package cache persists per-topic daily results so a re-run on the same
// day never repeats provider calls, successful or failed. Entries are keyed
// by (date, providerKey, topic); anything not keyed to today is stale.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type Cache struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

var _ Store = (*Cache)(nil)

func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	c := &Cache{readDB: readDB, writeDB: writeDB}
	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS daily_topics (
			date             TEXT NOT NULL,
			provider_key     TEXT NOT NULL,
			topic            TEXT NOT NULL,
			content          TEXT NOT NULL,
			retrieval_ok     INTEGER NOT NULL,
			summarization_ok INTEGER NOT NULL,
			news_count       INTEGER NOT NULL,
			error            TEXT NOT NULL DEFAULT '',
			created_at       DATETIME NOT NULL,
			PRIMARY KEY (date, provider_key, topic)
		);

		CREATE TABLE IF NOT EXISTS query_cache (
			topic      TEXT PRIMARY KEY,
			query      TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	var errs []error
	if c.readDB != nil {
		errs = append(errs, c.readDB.Close())
	}
	if c.writeDB != nil {
		errs = append(errs, c.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// Get looks up the cached TopicContent for one (date, providerKey, topic)
// key. Lookup faults read as misses: the cache is not authoritative.
func (c *Cache) Get(date, providerKey, topic string) (TopicContent, bool) {
	var (
		tc                       TopicContent
		retrievalOK, summarizeOK int
	)
	err := c.readDB.QueryRow(`
		SELECT topic, content, retrieval_ok, summarization_ok, news_count, error
		FROM daily_topics WHERE date = ? AND provider_key = ? AND topic = ?
	`, date, providerKey, topic).Scan(
		&tc.Topic, &tc.Content, &retrievalOK, &summarizeOK,
		&tc.Status.NewsCount, &tc.Status.Error,
	)
	if err != nil {
		return TopicContent{}, false
	}
	tc.Status.Topic = tc.Topic
	tc.Status.RetrievalSuccess = retrievalOK != 0
	tc.Status.SummarizationSuccess = summarizeOK != 0
	return tc, true
}

func (c *Cache) Put(date, providerKey, topic string, tc TopicContent) error {
	_, err := c.writeDB.Exec(`
		INSERT INTO daily_topics (date, provider_key, topic, content, retrieval_ok, summarization_ok, news_count, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, provider_key, topic) DO UPDATE SET
			content = excluded.content,
			retrieval_ok = excluded.retrieval_ok,
			summarization_ok = excluded.summarization_ok,
			news_count = excluded.news_count,
			error = excluded.error,
			created_at = excluded.created_at
	`, date, providerKey, topic, tc.Content,
		boolToInt(tc.Status.RetrievalSuccess), boolToInt(tc.Status.SummarizationSuccess),
		tc.Status.NewsCount, tc.Status.Error, time.Now())
	if err != nil {
		return fmt.Errorf("caching topic %s: %w", topic, err)
	}
	return nil
}

// PruneNotMatching removes every entry whose date component is not date.
func (c *Cache) PruneNotMatching(date string) (int, error) {
	res, err := c.writeDB.Exec(`DELETE FROM daily_topics WHERE date != ?`, date)
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Query returns the cached search query for a topic.
func (c *Cache) Query(topic string) (string, bool) {
	var q string
	err := c.readDB.QueryRow(`SELECT query FROM query_cache WHERE topic = ?`, topic).Scan(&q)
	if err != nil {
		return "", false
	}
	return q, true
}

func (c *Cache) SetQuery(topic, query string) error {
	_, err := c.writeDB.Exec(`
		INSERT INTO query_cache (topic, query, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(topic) DO UPDATE SET query = excluded.query, updated_at = excluded.updated_at
	`, topic, query, time.Now())
	return err
}

// Clear drops all cached topics and queries. Clearing is the only way to
// force a same-day retry of a failed topic.
func (c *Cache) Clear() error {
	_, err := c.writeDB.Exec(`DELETE FROM daily_topics; DELETE FROM query_cache;`)
	return err
}

// Stats returns the cached entry count and the database size on disk.
func (c *Cache) Stats(dbPath string) (entries int, size int64, err error) {
	if err := c.readDB.QueryRow(`SELECT COUNT(*) FROM daily_topics`).Scan(&entries); err != nil {
		return 0, 0, err
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return entries, 0, err
	}
	return entries, info.Size(), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
