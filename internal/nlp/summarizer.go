package nlp

import (
	"context"
	"sort"
	"strings"

	"github.com/didasy/tldr"
)

// ExtractiveSummarizer ranks sentences with LexRank and keeps the best ones,
// in original order, until minLen words are reached. Output never exceeds
// maxLen words.
type ExtractiveSummarizer struct{}

func (ExtractiveSummarizer) Summarize(ctx context.Context, text string, minLen, maxLen int) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	if maxLen <= 0 {
		maxLen = SummaryMaxLength
	}
	if minLen > maxLen {
		minLen = maxLen
	}

	words := strings.Fields(text)
	n := len(splitSentences(text))
	if n <= 1 || len(words) <= minLen {
		return joinWords(words, maxLen), nil
	}

	var picked []string
	for k := 1; k <= n; k++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		// Bag keeps per-text state, so one per call.
		out, err := tldr.New().Summarize(text, k)
		if err != nil || len(out) == 0 {
			break
		}
		picked = inTextOrder(text, out)
		if len(strings.Fields(strings.Join(picked, " "))) >= minLen {
			break
		}
	}

	summary := strings.Fields(strings.Join(picked, " "))
	if len(summary) < minLen {
		summary = words
	}
	return joinWords(summary, maxLen), nil
}

func inTextOrder(text string, sentences []string) []string {
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.Index(text, out[i]) < strings.Index(text, out[j])
	})
	return out
}

func joinWords(words []string, maxLen int) string {
	if len(words) > maxLen {
		words = words[:maxLen]
	}
	return strings.Join(words, " ")
}
