package indexer

import (
	"sort"

	"github.com/codepr/webranker/bm25"
)

// candidatePoolSize is how many of a document's most frequent terms are
// considered before the BM25 rescoring narrows them down.
const candidatePoolSize = 20

// themeKeywords extracts up to topK characteristic terms for the
// document at index, given its token list and the corpus BM25 model.
// Candidates are the document's most frequent terms; when the model
// considers the candidate set a meaningful query for its own document,
// each candidate is rescored by tf*(1+idf) so corpus-rare terms win over
// merely-repeated ones.
func themeKeywords(tokens []string, index int, model *bm25.Model, topK int) []string {
	if len(tokens) == 0 || topK <= 0 {
		return nil
	}

	freqs := make(map[string]int)
	for _, tok := range tokens {
		freqs[tok]++
	}

	candidates := make([]string, 0, len(freqs))
	for tok := range freqs {
		candidates = append(candidates, tok)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if freqs[candidates[i]] != freqs[candidates[j]] {
			return freqs[candidates[i]] > freqs[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > candidatePoolSize {
		candidates = candidates[:candidatePoolSize]
	}

	if model.Score(candidates, index) <= 0 {
		return head(candidates, topK)
	}

	weights := make(map[string]float64, len(candidates))
	for _, tok := range candidates {
		weights[tok] = float64(freqs[tok]) * (1 + model.IDF(tok))
	}
	sort.Slice(candidates, func(i, j int) bool {
		if weights[candidates[i]] != weights[candidates[j]] {
			return weights[candidates[i]] > weights[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	return head(candidates, topK)
}

func head(tokens []string, n int) []string {
	if len(tokens) > n {
		tokens = tokens[:n]
	}
	out := make([]string, len(tokens))
	copy(out, tokens)
	return out
}
