// Package textutil holds the tokenization rules shared by the indexer
// and the search stage. Both stages must tokenize identically or their
// BM25 scores stop being comparable, so the rules live here once.
package textutil

import (
	"strings"

	"github.com/kljensen/snowball"
)

const minTokenLen = 3

// Tokenize lowercases s, replaces every run of characters outside the
// accepted alphabet (ascii letters, digits, the Portuguese accented
// vowels and ç, hyphen, space) with a single space, splits on
// whitespace, and drops tokens shorter than 3 characters along with
// stopwords.
func Tokenize(s string) []string {
	return tokenize(s, false)
}

// TokenizeStemmed behaves like Tokenize and additionally reduces each
// surviving token to its snowball stem. Stemming changes every
// downstream BM25 score, so it is an explicit opt-in on the indexer and
// search settings rather than a default.
func TokenizeStemmed(s string) []string {
	return tokenize(s, true)
}

func tokenize(s string, stem bool) []string {
	cleaned := normalize(strings.ToLower(s))

	var tokens []string
	for _, tok := range strings.Fields(cleaned) {
		if len([]rune(tok)) < minTokenLen {
			continue
		}
		if IsStopword(tok) {
			continue
		}
		if stem {
			if stemmed, err := snowball.Stem(tok, "portuguese", false); err == nil && stemmed != "" {
				tok = stemmed
			}
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// normalize maps every rune outside the accepted alphabet to a space.
func normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if isAccepted(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}
	return sb.String()
}

func isAccepted(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '-' || r == ' ':
		return true
	}
	switch r {
	case 'á', 'à', 'â', 'ã', 'é', 'è', 'ê', 'í', 'ì', 'î', 'ó', 'ò', 'ô', 'õ', 'ú', 'ù', 'û', 'ç':
		return true
	}
	return false
}
