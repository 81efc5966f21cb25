// Package nlp holds the text capabilities used by the note service:
// summarization, keyword extraction and query ranking. Implementations are
// stateless and safe for concurrent use.
package nlp

import (
	"context"
	"errors"
)

const (
	SummaryMinLength = 20
	SummaryMaxLength = 60
	DefaultKeywords  = 5
)

var ErrEmptyText = errors.New("empty text")

type Summarizer interface {
	Summarize(ctx context.Context, text string, minLen, maxLen int) (string, error)
}

type KeywordExtractor interface {
	Extract(ctx context.Context, text string, topN int) ([]string, error)
}

// Ranker scores each document against query. The result has one score per
// document, in input order.
type Ranker interface {
	Rank(ctx context.Context, query string, docs []string) ([]float64, error)
}
