package dispatchy

import (
	"strings"
	"unicode"
)

// NormalizeInput prepares a raw utterance for matching: it lower-cases the
// text and drops every character that is not alphanumeric or whitespace.
// This mirrors the compiler's lower-cased, punctuation-free regex output.
// The function is idempotent.
func NormalizeInput(input string) string {
	lowered := strings.ToLower(input)
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, lowered)
}
