package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// tokenize folds case, drops apostrophes so "Hobb's" and "Hobbs" agree, and
// trims punctuation from both ends of every whitespace separated word.
// Words that are pure punctuation disappear.
func tokenize(s string) []string {
	// cases.Caser is stateful; a fresh one per call keeps tokenize goroutine safe.
	folded := cases.Fold().String(s)
	fields := strings.Fields(folded)
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		field = strings.Map(dropApostrophe, field)
		field = strings.TrimFunc(field, notAlphanumeric)
		if field != "" {
			out = append(out, field)
		}
	}
	return out
}

// normalizeText returns the tokens of s joined by single spaces.
func normalizeText(s string) string {
	return strings.Join(tokenize(s), " ")
}

func dropApostrophe(r rune) rune {
	switch r {
	case '\'', '’', '`':
		return -1
	}
	return r
}

func notAlphanumeric(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsNumber(r)
}
