package retrieval

import (
	"fmt"

	"github.com/blevesearch/bleve"

	"github.com/campuslink/campuslink/models"
)

// indexDoc is the projection of a topic that participates in full-text
// relevance scoring: title and description only.
type indexDoc struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Hit is one relevance-scored result from the full-text index.
type Hit struct {
	ID    string
	Score float64
}

// Index is an in-process bleve index over the topic corpus. It is safe for
// concurrent use; writes go through bleve's own locking.
type Index struct {
	idx bleve.Index
}

// NewIndex creates an empty in-memory index.
func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}
	return &Index{idx: idx}, nil
}

// IndexTopic adds or replaces one topic in the index.
func (x *Index) IndexTopic(t models.Topic) error {
	return x.idx.Index(t.ID, indexDoc{Title: t.Title, Description: t.Description})
}

// IndexAll bulk-loads topics, typically at startup from the topic store.
func (x *Index) IndexAll(topics []models.Topic) error {
	batch := x.idx.NewBatch()
	for _, t := range topics {
		if err := batch.Index(t.ID, indexDoc{Title: t.Title, Description: t.Description}); err != nil {
			return err
		}
	}
	return x.idx.Batch(batch)
}

// Remove deletes a topic from the index.
func (x *Index) Remove(id string) error {
	return x.idx.Delete(id)
}

// Search runs a relevance query and returns up to size hits, best first.
func (x *Index) Search(query string, size int) ([]Hit, error) {
	// Match query rather than query-string syntax: questions regularly carry
	// punctuation that the query-string parser would reject.
	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequestOptions(q, size, 0, false)
	res, err := x.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("full-text search failed: %w", err)
	}
	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, Hit{ID: h.ID, Score: h.Score})
	}
	return hits, nil
}

// Close releases the underlying index.
func (x *Index) Close() error { return x.idx.Close() }
