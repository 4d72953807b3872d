package domain

import (
	"strings"
)

// NormalizeWord produces the key used for dictionary matching and popularity
// counting. It only lowercases: whitespace, diacritics, hyphens and
// apostrophes are kept, so " cat " and "cat" are different words.
func NormalizeWord(word string) string {
	return strings.ToLower(word)
}
