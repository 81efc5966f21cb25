package nlp

import (
	"context"
	"math"
)

// TFIDFRanker scores with smoothed idf, raw counts and L2 normalised vectors,
// so the score is the cosine similarity between query and document.
type TFIDFRanker struct{}

func (TFIDFRanker) Rank(ctx context.Context, query string, docs []string) ([]float64, error) {
	scores := make([]float64, len(docs))
	if len(docs) == 0 {
		return scores, nil
	}

	counts := make([]map[string]float64, len(docs))
	df := map[string]int{}
	for i, d := range docs {
		c := map[string]float64{}
		for _, t := range Terms(d) {
			c[t]++
		}
		for t := range c {
			df[t]++
		}
		counts[i] = c
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for t, f := range df {
		idf[t] = math.Log((1+n)/(1+float64(f))) + 1
	}

	q := map[string]float64{}
	for _, t := range Terms(query) {
		if w, ok := idf[t]; ok {
			q[t] += w
		}
	}
	qn := norm(q)
	if qn == 0 {
		return scores, nil
	}

	for i, c := range counts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vec := make(map[string]float64, len(c))
		for t, cnt := range c {
			vec[t] = cnt * idf[t]
		}
		dn := norm(vec)
		if dn == 0 {
			continue
		}
		var dot float64
		for t, w := range q {
			dot += w * vec[t]
		}
		scores[i] = dot / (qn * dn)
	}
	return scores, nil
}

func norm(v map[string]float64) float64 {
	var s float64
	for _, w := range v {
		s += w * w
	}
	return math.Sqrt(s)
}
