package cache

// TopicStatus records the outcome of one topic in one run. Immutable once
// created; it travels with its TopicContent, including through the cache.
type TopicStatus struct {
	Topic                string
	RetrievalSuccess     bool
	SummarizationSuccess bool
	NewsCount            int
	Error                string
}

// TopicContent is the unit of work product and the unit of caching: the
// rendered text for one topic plus the status it was produced under.
type TopicContent struct {
	Topic   string
	Content string
	Status  TopicStatus
}

// Store is the per-topic daily cache keyed by (date, providerKey, topic)
// plus the per-topic search query cache. Implementations are best-effort:
// generation must succeed even when the cache does not.
type Store interface {
	Get(date, providerKey, topic string) (TopicContent, bool)
	Put(date, providerKey, topic string, tc TopicContent) error
	PruneNotMatching(date string) (int, error)

	Query(topic string) (string, bool)
	SetQuery(topic, query string) error

	Close() error
}
