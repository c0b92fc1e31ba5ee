package rank

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]{3,}`)

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "this": true, "that": true,
	"was": true, "were": true, "are": true, "with": true, "from": true,
	"its": true, "their": true, "his": true, "her": true, "him": true,
	"she": true, "they": true, "them": true, "you": true,
}

// Tokens lowercases text and returns alphanumeric words of length >= 3
// with stopwords removed, preserving order and duplicates.
func Tokens(text string) []string {
	if text == "" {
		return nil
	}
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if !stopwords[t] {
			out = append(out, t)
		}
	}
	return out
}

// TokenSet returns the unique token set of text.
func TokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range Tokens(text) {
		set[t] = true
	}
	return set
}

// Overlap counts tokens present in both sets.
func Overlap(a, b map[string]bool) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for t := range a {
		if b[t] {
			n++
		}
	}
	return n
}
