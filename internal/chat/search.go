package chat

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// DefaultSearchLimit caps the number of hits returned by Search.
const DefaultSearchLimit = 20

// indexedMessage is the document stored in the full-text index.
type indexedMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// MessageIndex is an in-memory full-text index over transcript messages.
// It lives exactly as long as the transcript it mirrors: Reset drops it.
type MessageIndex struct {
	mu  sync.Mutex
	idx bleve.Index
}

// NewMessageIndex creates an empty in-memory index.
func NewMessageIndex() (*MessageIndex, error) {
	idx, err := newMemIndex()
	if err != nil {
		return nil, err
	}
	return &MessageIndex{idx: idx}, nil
}

func newMemIndex() (bleve.Index, error) {
	mapping := bleve.NewIndexMapping()
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("create message index: %w", err)
	}
	return idx, nil
}

// Add indexes m under its ID.
func (mi *MessageIndex) Add(m Message) error {
	mi.mu.Lock()
	defer mi.mu.Unlock()

	doc := indexedMessage{Role: string(m.Role), Text: m.Text}
	if err := mi.idx.Index(strconv.Itoa(m.ID), doc); err != nil {
		return fmt.Errorf("index message %d: %w", m.ID, err)
	}
	return nil
}

// Search runs a match query and returns the matching message IDs in
// chronological (ascending ID) order. A blank query matches nothing.
func (mi *MessageIndex) Search(query string, limit int) ([]int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	mi.mu.Lock()
	defer mi.mu.Unlock()

	searchReq := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	searchReq.Size = limit
	res, err := mi.idx.Search(searchReq)
	if err != nil {
		return nil, fmt.Errorf("message search error: %w", err)
	}

	ids := make([]int, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := strconv.Atoi(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

// Reset replaces the index with an empty one.
func (mi *MessageIndex) Reset() error {
	mi.mu.Lock()
	defer mi.mu.Unlock()

	fresh, err := newMemIndex()
	if err != nil {
		return err
	}
	_ = mi.idx.Close()
	mi.idx = fresh
	return nil
}

func (mi *MessageIndex) Close() error {
	mi.mu.Lock()
	defer mi.mu.Unlock()
	return mi.idx.Close()
}
