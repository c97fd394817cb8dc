package engine

import (
	"strings"
	"unicode"
)

// moreWords is the vocabulary that signals the user wants further or
// different recommendations. Matched case-insensitively on whole words.
var moreWords = map[string]struct{}{
	"more":      {},
	"another":   {},
	"others":    {},
	"different": {},
	"else":      {},
	"next":      {},
}

// moreSignal reports whether the message contains a "wants more different
// books" signal.
func moreSignal(message string) bool {
	fields := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range fields {
		if _, ok := moreWords[w]; ok {
			return true
		}
	}
	return false
}
