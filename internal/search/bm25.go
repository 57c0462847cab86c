package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

var resultFields = []string{"label", "provider", "actionType", "source"}

// SearchBM25 performs keyword search over action labels.
func (i *Indexer) SearchBM25(text string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}
	return i.search(i.buildMatchQuery(text), limit)
}

// SearchByProvider performs keyword search scoped to one provider.
func (i *Indexer) SearchByProvider(text, providerID string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	providerQuery := bleve.NewTermQuery(providerID)
	providerQuery.SetField("provider")

	return i.search(bleve.NewConjunctionQuery(i.buildMatchQuery(text), providerQuery), limit)
}

// All returns indexed actions up to limit.
func (i *Indexer) All(limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 100
	}
	return i.search(bleve.NewMatchAllQuery(), limit)
}

func (i *Indexer) search(q query.Query, limit int) ([]SearchResult, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	searchRequest := bleve.NewSearchRequestOptions(q, limit, 0, false)
	searchRequest.Fields = resultFields

	results, err := i.bleveIndex.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	return convertBleveResults(results), nil
}

func convertBleveResults(results *bleve.SearchResult) []SearchResult {
	out := make([]SearchResult, 0, len(results.Hits))
	for _, hit := range results.Hits {
		label, _ := hit.Fields["label"].(string)
		provider, _ := hit.Fields["provider"].(string)
		actionType, _ := hit.Fields["actionType"].(string)
		source, _ := hit.Fields["source"].(string)

		out = append(out, SearchResult{
			ID:         hit.ID,
			Label:      label,
			ProviderID: provider,
			ActionType: actionType,
			Source:     source,
			Score:      hit.Score,
		})
	}
	return out
}
