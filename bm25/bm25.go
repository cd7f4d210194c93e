// Package bm25 implements the Okapi BM25 term-weighting model used by
// the indexer (over title+body tokens) and the search stage (over
// compact document surrogates). Scores follow the classical formulation
// with the negative-IDF flooring convention, so both stages produce the
// same numbers for the same corpus.
package bm25

import "math"

const (
	defaultK1      = 1.5
	defaultB       = 0.75
	defaultEpsilon = 0.25
)

// Model is an immutable BM25 index over a fixed corpus of tokenized
// documents. Build it once with New; it is safe for concurrent reads.
type Model struct {
	k1      float64
	b       float64
	epsilon float64

	corpusSize int
	avgDocLen  float64
	docLens    []int
	docFreqs   []map[string]int
	idf        map[string]float64
}

// Option adjusts the model's free parameters before construction.
type Option func(*Model)

// WithK1 overrides the term-frequency saturation parameter.
func WithK1(k1 float64) Option { return func(m *Model) { m.k1 = k1 } }

// WithB overrides the length-normalization parameter.
func WithB(b float64) Option { return func(m *Model) { m.b = b } }

// New builds a Model over corpus, one token slice per document. An empty
// corpus yields a model whose every score is zero.
func New(corpus [][]string, opts ...Option) *Model {
	m := &Model{
		k1:      defaultK1,
		b:       defaultB,
		epsilon: defaultEpsilon,
		idf:     make(map[string]float64),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.corpusSize = len(corpus)
	if m.corpusSize == 0 {
		return m
	}

	totalLen := 0
	docTermCounts := make(map[string]int)
	m.docLens = make([]int, len(corpus))
	m.docFreqs = make([]map[string]int, len(corpus))
	for i, doc := range corpus {
		m.docLens[i] = len(doc)
		totalLen += len(doc)

		freqs := make(map[string]int, len(doc))
		for _, tok := range doc {
			freqs[tok]++
		}
		m.docFreqs[i] = freqs
		for tok := range freqs {
			docTermCounts[tok]++
		}
	}
	m.avgDocLen = float64(totalLen) / float64(m.corpusSize)
	m.computeIDF(docTermCounts)
	return m
}

// computeIDF fills m.idf with ln((N-df+0.5)/(df+0.5)) per term. Terms
// appearing in more than half the corpus come out negative; those are
// floored to epsilon times the corpus-average IDF so a very common term
// contributes a small weight instead of subtracting from the score. When
// the corpus-average IDF is itself zero or negative, so is the floor.
func (m *Model) computeIDF(docTermCounts map[string]int) {
	var idfSum float64
	var negative []string
	n := float64(m.corpusSize)

	for term, df := range docTermCounts {
		idf := math.Log((n - float64(df) + 0.5) / (float64(df) + 0.5))
		m.idf[term] = idf
		idfSum += idf
		if idf < 0 {
			negative = append(negative, term)
		}
	}

	averageIDF := idfSum / float64(len(m.idf))
	floor := m.epsilon * averageIDF
	for _, term := range negative {
		m.idf[term] = floor
	}
}

// IDF returns the (floored) inverse document frequency of term, zero for
// terms absent from the corpus.
func (m *Model) IDF(term string) float64 {
	return m.idf[term]
}

// Size reports the number of documents in the corpus.
func (m *Model) Size() int {
	return m.corpusSize
}

// Score computes the BM25 score of the tokenized query against document
// index. Out-of-range indexes score zero.
func (m *Model) Score(query []string, index int) float64 {
	if index < 0 || index >= m.corpusSize {
		return 0
	}
	var score float64
	norm := 1 - m.b + m.b*float64(m.docLens[index])/m.avgDocLen
	for _, term := range query {
		tf := float64(m.docFreqs[index][term])
		if tf == 0 {
			continue
		}
		score += m.idf[term] * tf * (m.k1 + 1) / (tf + m.k1*norm)
	}
	return score
}

// Scores computes the BM25 score of query against every document in the
// corpus, in corpus order.
func (m *Model) Scores(query []string) []float64 {
	scores := make([]float64, m.corpusSize)
	for i := range scores {
		scores[i] = m.Score(query, i)
	}
	return scores
}
