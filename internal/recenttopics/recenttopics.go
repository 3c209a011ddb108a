// ABOUTME: Manages the recent topics list offered by the study form
// ABOUTME: Persists the most recently logged topics in durable storage

package recenttopics

import (
	"cmp"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/markalston/study-tracker/internal/storage"
)

// MaxRecentTopics is the maximum number of recent topics to keep
const MaxRecentTopics = 5

// StorageKey is where the list is kept
const StorageKey = "pst_recent_topics"

// RecentTopics manages the list of recently logged topics
type RecentTopics struct {
	storage storage.Storage
	topics  []string
}

// New creates a RecentTopics manager backed by s
func New(s storage.Storage) *RecentTopics {
	return &RecentTopics{storage: s}
}

// Load reads the list from storage. Unreadable data starts fresh.
func (rt *RecentTopics) Load() ([]string, error) {
	rt.topics = []string{}
	if rt.storage == nil {
		return rt.topics, nil
	}

	raw, ok, err := rt.storage.GetItem(StorageKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return rt.topics, nil
	}

	var stored []string
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		slog.Debug("Discarding unreadable recent topics", "error", err)
		return rt.topics, nil
	}
	for _, topic := range stored {
		if strings.TrimSpace(topic) != "" {
			rt.topics = append(rt.topics, topic)
		}
	}
	return rt.topics, nil
}

// Save writes the list to storage, trimmed to MaxRecentTopics
func (rt *RecentTopics) Save(topics []string) error {
	if len(topics) > MaxRecentTopics {
		topics = topics[:MaxRecentTopics]
	}
	rt.topics = topics
	if rt.storage == nil {
		return nil
	}

	data, err := json.Marshal(topics)
	if err != nil {
		return err
	}
	return rt.storage.SetItem(StorageKey, string(data))
}

// Add moves topic to the front of the list. Matching ignores case and
// surrounding space; the newest spelling wins.
func (rt *RecentTopics) Add(topic string) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil
	}
	if rt.topics == nil {
		if _, err := rt.Load(); err != nil {
			rt.topics = []string{}
		}
	}

	next := make([]string, 0, len(rt.topics)+1)
	next = append(next, topic)
	for _, t := range rt.topics {
		if !strings.EqualFold(t, topic) {
			next = append(next, t)
		}
	}
	return rt.Save(next)
}

// List returns the current list of recent topics
func (rt *RecentTopics) List() []string {
	if rt.topics == nil {
		rt.Load()
	}
	return rt.topics
}

// Match returns the recent topics fuzzily matching query, closest first.
// Ties keep the most recent topic first. An empty query matches everything.
func (rt *RecentTopics) Match(query string) []string {
	topics := rt.List()
	query = strings.TrimSpace(query)
	if query == "" {
		return slices.Clone(topics)
	}

	ranks := fuzzy.RankFindNormalizedFold(query, topics)
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.OriginalIndex, b.OriginalIndex)
	})

	out := make([]string, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, r.Target)
	}
	return out
}
