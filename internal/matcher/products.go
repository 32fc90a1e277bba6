package matcher

import (
	"strings"

	"github.com/spec-kit/order-resolution-service/internal/domain"
)

// minPhraseWords is the shortest title fragment that counts as a mention.
// Titles with fewer words must appear whole.
const minPhraseWords = 2

// MatchProducts returns the titles of the line items mentioned in text, in
// line item order.
func MatchProducts(text string, items []domain.LineItem) []string {
	return matchNormalized(normalizeText(text), items)
}

func matchNormalized(normalized string, items []domain.LineItem) []string {
	var matched []string
	for _, item := range items {
		if mentions(normalized, item.Title) {
			matched = append(matched, item.Title)
		}
	}
	return matched
}

// mentions reports whether any run of minPhraseWords consecutive title words
// appears in the normalized text. Checking the shortest window is enough: a
// longer matching run always contains a matching shorter one.
func mentions(normalized, title string) bool {
	words := tokenize(title)
	if len(words) == 0 || normalized == "" {
		return false
	}
	if len(words) < minPhraseWords {
		return strings.Contains(normalized, words[0])
	}
	for i := 0; i+minPhraseWords <= len(words); i++ {
		phrase := strings.Join(words[i:i+minPhraseWords], " ")
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}
