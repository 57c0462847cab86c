package search

import (
	"sort"
	"strings"

	"github.com/khanglvm/action-hub/internal/quickaction"
)

// FusionConfig defines weights for hybrid score fusion.
type FusionConfig struct {
	KeywordWeight   float64
	SubstringWeight float64
}

// DefaultFusionConfig weighs keyword relevance over plain substring hits.
var DefaultFusionConfig = FusionConfig{
	KeywordWeight:   0.6,
	SubstringWeight: 0.4,
}

// Substring match scores.
const (
	prefixScore   = 1.0
	containsScore = 0.5
)

// SearchHybrid ranks actions against text by fusing keyword scores with
// label substring matches. Keyword hits for ids not in actions are ignored.
// A blank query returns actions in order with a zero score.
func (i *Indexer) SearchHybrid(text string, actions []quickaction.Action, limit int, config FusionConfig) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	if strings.TrimSpace(text) == "" {
		out := make([]SearchResult, 0, limit)
		for _, a := range actions {
			if len(out) == limit {
				break
			}
			out = append(out, resultOf(a, 0))
		}
		return out, nil
	}

	keyword, err := i.SearchBM25(text, limit*2)
	if err != nil {
		return nil, err
	}

	fused := fuseScores(actions, normalizeScores(keyword), substringScores(actions, text), config)
	if len(fused) > limit {
		fused = fused[:limit]
	}
	return fused, nil
}

// substringScores scores labels containing text, case-insensitively.
func substringScores(actions []quickaction.Action, text string) map[string]float64 {
	q := strings.ToLower(strings.TrimSpace(text))
	scores := make(map[string]float64)
	for _, a := range quickaction.Filter(actions, q) {
		label := strings.ToLower(a.Label)
		if strings.HasPrefix(label, q) {
			scores[a.ID] = prefixScore
		} else {
			scores[a.ID] = containsScore
		}
	}
	return scores
}

// fuseScores combines keyword and substring scores for each action that
// matched either way, highest first, keeping action order on ties.
func fuseScores(actions []quickaction.Action, keyword []SearchResult, substring map[string]float64, config FusionConfig) []SearchResult {
	keywordMap := make(map[string]float64, len(keyword))
	for _, r := range keyword {
		keywordMap[r.ID] = r.Score
	}

	seen := make(map[string]bool, len(actions))
	out := make([]SearchResult, 0)
	for _, a := range actions {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true

		kw, hasKeyword := keywordMap[a.ID]
		sub, hasSubstring := substring[a.ID]
		if !hasKeyword && !hasSubstring {
			continue
		}
		out = append(out, resultOf(a, config.KeywordWeight*kw+config.SubstringWeight*sub))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// normalizeScores normalizes scores to [0, 1] range.
func normalizeScores(results []SearchResult) []SearchResult {
	if len(results) == 0 {
		return results
	}

	minScore := results[0].Score
	maxScore := results[0].Score
	for _, result := range results {
		if result.Score < minScore {
			minScore = result.Score
		}
		if result.Score > maxScore {
			maxScore = result.Score
		}
	}

	// When all scores are equal, set all to 1.0
	normalized := make([]SearchResult, len(results))
	for i, result := range results {
		normalized[i] = result
		if maxScore == minScore {
			normalized[i].Score = 1.0
		} else {
			normalized[i].Score = (result.Score - minScore) / (maxScore - minScore)
		}
	}

	return normalized
}
