package search

import "strings"

// previewSnippet slides a window of previewLength characters over text
// and returns the window containing the most distinct query tokens,
// marking truncation on either side with an ellipsis. The scan stops
// early once a window already contains min(len(tokens), 6) tokens.
func previewSnippet(text string, tokens []string, previewLength int) string {
	if text == "" {
		return ""
	}
	if previewLength <= 0 || len(text) <= previewLength {
		return snippetAt(text, 0, len(text))
	}

	step := previewLength / 4
	if step < 40 {
		step = 40
	}
	target := len(tokens)
	if target > 6 {
		target = 6
	}

	lowered := strings.ToLower(text)
	bestStart, bestScore := 0, -1
	for start := 0; start < len(text); start += step {
		end := start + previewLength
		if end > len(text) {
			end = len(text)
		}
		window := lowered[start:end]

		score := 0
		for _, tok := range tokens {
			if strings.Contains(window, tok) {
				score++
			}
		}
		if score > bestScore {
			bestStart, bestScore = start, score
		}
		if score >= target {
			break
		}
		if end == len(text) {
			break
		}
	}

	end := bestStart + previewLength
	if end > len(text) {
		end = len(text)
	}
	return snippetAt(text, bestStart, end)
}

func snippetAt(text string, start, end int) string {
	snippet := text[start:end]
	if start > 0 {
		snippet = "…" + snippet
	}
	if end < len(text) {
		snippet += "…"
	}
	return snippet
}
