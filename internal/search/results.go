/*
Package search implements label search across quick actions.

Actions are indexed in an in-memory Bleve index for keyword search. Keyword
hits are fused with plain label substring matches, so partial words still
find an action.
*/
package search

import "github.com/khanglvm/action-hub/internal/quickaction"

// SearchResult represents a single search result with relevance score.
type SearchResult struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	ProviderID string  `json:"providerId"`
	ActionType string  `json:"actionType"`
	Source     string  `json:"source"`
	Score      float64 `json:"score"`
}

// resultOf builds a result for a known action.
func resultOf(a quickaction.Action, score float64) SearchResult {
	return SearchResult{
		ID:         a.ID,
		Label:      a.Label,
		ProviderID: a.ProviderID,
		ActionType: string(a.Type),
		Source:     string(a.Source),
		Score:      score,
	}
}
