// internal/matching/tokenizer.go
package matching

import (
	"strings"
	"unicode/utf8"
)

// Tokens is the normalized form of a comma-separated free-text attribute.
type Tokens struct {
	Phrases []string
	Words   []string
}

// Tokenize lower-cases text, splits it on commas into trimmed phrases and
// splits each phrase on whitespace into words longer than one character.
// Empty segments are dropped.
func Tokenize(text string) Tokens {
	var t Tokens
	if strings.TrimSpace(text) == "" {
		return t
	}

	for _, part := range strings.Split(strings.ToLower(text), ",") {
		phrase := strings.TrimSpace(part)
		if phrase == "" {
			continue
		}
		t.Phrases = append(t.Phrases, phrase)

		for _, word := range strings.Fields(phrase) {
			if utf8.RuneCountInString(word) > 1 {
				t.Words = append(t.Words, word)
			}
		}
	}
	return t
}

// Empty reports whether no phrase survived tokenization.
func (t Tokens) Empty() bool {
	return len(t.Phrases) == 0
}
