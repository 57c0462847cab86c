package search

import (
	"fmt"
	"log"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/khanglvm/action-hub/internal/quickaction"
)

// Indexer manages the search index for quick actions.
type Indexer struct {
	bleveIndex bleve.Index
	mu         sync.RWMutex
	ids        map[string]bool
}

// NewIndexer creates a new search indexer with an in-memory Bleve index.
func NewIndexer() (*Indexer, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	return &Indexer{
		bleveIndex: index,
		ids:        make(map[string]bool),
	}, nil
}

// buildIndexMapping creates the Bleve index mapping.
func buildIndexMapping() mapping.IndexMapping {
	actionMapping := bleve.NewDocumentMapping()

	// Label: searchable text
	actionMapping.AddFieldMappingsAt("label", bleve.NewTextFieldMapping())

	// Provider, type and source are matched exactly
	actionMapping.AddFieldMappingsAt("provider", bleve.NewKeywordFieldMapping())
	actionMapping.AddFieldMappingsAt("actionType", bleve.NewKeywordFieldMapping())
	actionMapping.AddFieldMappingsAt("source", bleve.NewKeywordFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", actionMapping)
	indexMapping.DefaultField = "label"

	return indexMapping
}

// Reindex replaces the indexed actions with actions.
func (i *Indexer) Reindex(actions []quickaction.Action) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	batch := i.bleveIndex.NewBatch()
	for id := range i.ids {
		batch.Delete(id)
	}

	ids := make(map[string]bool, len(actions))
	for _, a := range actions {
		if a.ID == "" || ids[a.ID] {
			continue
		}
		doc := map[string]interface{}{
			"label":      a.Label,
			"provider":   a.ProviderID,
			"actionType": string(a.Type),
			"source":     string(a.Source),
		}
		if err := batch.Index(a.ID, doc); err != nil {
			log.Printf("Warning: failed to index action %s: %v", a.ID, err)
			continue
		}
		ids[a.ID] = true
	}

	if err := i.bleveIndex.Batch(batch); err != nil {
		return fmt.Errorf("failed to batch index actions: %w", err)
	}
	i.ids = ids

	return nil
}

// Count returns the total number of indexed actions.
func (i *Indexer) Count() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	docCount, err := i.bleveIndex.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get doc count: %w", err)
	}

	return docCount, nil
}

// Close closes the index and releases resources.
func (i *Indexer) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.bleveIndex != nil {
		return i.bleveIndex.Close()
	}

	return nil
}

func (i *Indexer) buildMatchQuery(searchText string) query.Query {
	q := bleve.NewMatchQuery(searchText)
	q.SetField("label")
	return q
}
