package nlp

import (
	"context"
	"sort"
)

// FrequencyExtractor ranks distinct non stop-word terms by count, breaking
// ties by first occurrence.
type FrequencyExtractor struct{}

func (FrequencyExtractor) Extract(ctx context.Context, text string, topN int) ([]string, error) {
	if topN <= 0 {
		topN = DefaultKeywords
	}
	type cand struct {
		term  string
		count int
		first int
	}
	idx := map[string]int{}
	var cands []cand
	for i, t := range Terms(text) {
		if j, ok := idx[t]; ok {
			cands[j].count++
			continue
		}
		idx[t] = len(cands)
		cands = append(cands, cand{term: t, count: 1, first: i})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].count != cands[j].count {
			return cands[i].count > cands[j].count
		}
		return cands[i].first < cands[j].first
	})

	out := make([]string, 0, topN)
	for _, c := range cands {
		if len(out) == topN {
			break
		}
		out = append(out, c.term)
	}
	return out, ctx.Err()
}
