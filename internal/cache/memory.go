package cache

// Memory is an in-memory Store, used by tests and as the best-effort
// fallback when the sqlite database cannot be opened: a broken cache must
// never block document generation.
type Memory struct {
	topics  map[string]TopicContent
	queries map[string]string
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		topics:  make(map[string]TopicContent),
		queries: make(map[string]string),
	}
}

func memKey(date, providerKey, topic string) string {
	return date + "|" + providerKey + "|" + topic
}

func (m *Memory) Get(date, providerKey, topic string) (TopicContent, bool) {
	tc, ok := m.topics[memKey(date, providerKey, topic)]
	return tc, ok
}

func (m *Memory) Put(date, providerKey, topic string, tc TopicContent) error {
	m.topics[memKey(date, providerKey, topic)] = tc
	return nil
}

func (m *Memory) PruneNotMatching(date string) (int, error) {
	pruned := 0
	for k := range m.topics {
		if len(k) < len(date) || k[:len(date)] != date {
			delete(m.topics, k)
			pruned++
		}
	}
	return pruned, nil
}

func (m *Memory) Query(topic string) (string, bool) {
	q, ok := m.queries[topic]
	return q, ok
}

func (m *Memory) SetQuery(topic, query string) error {
	m.queries[topic] = query
	return nil
}

// Len reports the number of cached topic entries.
func (m *Memory) Len() int { return len(m.topics) }

func (m *Memory) Close() error { return nil }
