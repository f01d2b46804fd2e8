package retrieval

import (
	"sort"
	"strings"
)

// maxPerAsset caps how many candidates from the same asset survive
// diversification, so one long interview doesn't crowd out everything
// else in a result set.
const maxPerAsset = 3

// Diversify narrows an oversampled, similarity-sorted candidate list
// down to at most k results: at most maxPerAsset per asset, with
// duplicate summaries (folded on case and whitespace)
// collapsed to their highest-scoring occurrence, re-sorted globally by
// similarity.
func Diversify(candidates []Candidate, k int) []Candidate {
	perAsset := make(map[string]int, len(candidates))
	seenSummary := make(map[string]struct{}, len(candidates))

	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if perAsset[c.AssetID.String()] >= maxPerAsset {
			continue
		}
		key := foldSummary(c.SummaryText)
		if key != "" {
			if _, dup := seenSummary[key]; dup {
				continue
			}
			seenSummary[key] = struct{}{}
		}
		perAsset[c.AssetID.String()]++
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })

	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

func foldSummary(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
