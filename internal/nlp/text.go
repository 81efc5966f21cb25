package nlp

import (
	"regexp"
	"strings"
)

var (
	tokenRe    = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)
	sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]*`)
)

// Tokenize lowercases text and returns runs of at least two word characters.
func Tokenize(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}

// Terms is Tokenize with English stop words removed.
func Terms(text string) []string {
	toks := Tokenize(text)
	out := toks[:0]
	for _, t := range toks {
		if !IsStopWord(t) {
			out = append(out, t)
		}
	}
	return out
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range sentenceRe.FindAllString(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
