// Package search is the interactive query stage: it loads index.ndjson,
// builds a BM25 model over compact per-document surrogates, and ranks
// documents for free-text queries by fusing lexical, authority and
// language-preference signals.
package search

import (
	"encoding/json"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/codepr/webranker/bm25"
	"github.com/codepr/webranker/storage"
	"github.com/codepr/webranker/textutil"
)

const (
	defaultWeightBM25     = 0.5
	defaultWeightIndex    = 0.3
	defaultWeightPageRank = 0.2
	defaultLangPenalty    = 0.85
	defaultResultsLimit   = 10
	defaultPreviewLength  = 160
)

// Settings enumerates every tunable of the query processor.
type Settings struct {
	// WeightBM25, WeightIndex and WeightPageRank fuse the normalized
	// lexical score, the indexer's final score and the raw pagerank.
	WeightBM25     float64
	WeightIndex    float64
	WeightPageRank float64
	// LangPriority orders preferred languages; earlier entries earn a
	// larger boost. Empty means no language preference at all.
	LangPriority []string
	// LangPenaltyMultiplier scales documents matching none of the
	// priority languages.
	LangPenaltyMultiplier float64
	// ResultsLimit caps how many results a query returns.
	ResultsLimit int
	// PreviewLength is the snippet window size in characters.
	PreviewLength int
	// IncludeKeywords and IncludeURL extend the BM25 surrogate beyond
	// the bare title.
	IncludeKeywords bool
	IncludeURL      bool
	// Ascending reverses the result order.
	Ascending bool
	// EnableStemming must mirror the indexer's setting or the surrogate
	// model scores stop lining up with the persisted keywords.
	EnableStemming bool
}

// Opt is a functional option over Settings.
type Opt func(*Settings)

func defaultSettings() Settings {
	return Settings{
		WeightBM25:            defaultWeightBM25,
		WeightIndex:           defaultWeightIndex,
		WeightPageRank:        defaultWeightPageRank,
		LangPenaltyMultiplier: defaultLangPenalty,
		ResultsLimit:          defaultResultsLimit,
		PreviewLength:         defaultPreviewLength,
		IncludeKeywords:       true,
		IncludeURL:            true,
	}
}

func WithWeights(bm, index, pr float64) Opt {
	return func(s *Settings) { s.WeightBM25, s.WeightIndex, s.WeightPageRank = bm, index, pr }
}
func WithLangPriority(langs ...string) Opt { return func(s *Settings) { s.LangPriority = langs } }
func WithLangPenaltyMultiplier(m float64) Opt {
	return func(s *Settings) { s.LangPenaltyMultiplier = m }
}
func WithResultsLimit(n int) Opt     { return func(s *Settings) { s.ResultsLimit = n } }
func WithPreviewLength(n int) Opt    { return func(s *Settings) { s.PreviewLength = n } }
func WithIncludeKeywords(b bool) Opt { return func(s *Settings) { s.IncludeKeywords = b } }
func WithIncludeURL(b bool) Opt      { return func(s *Settings) { s.IncludeURL = b } }
func WithAscending(b bool) Opt       { return func(s *Settings) { s.Ascending = b } }
func WithStemming(b bool) Opt        { return func(s *Settings) { s.EnableStemming = b } }

// indexedRecord is the slice of an index.ndjson line the query processor
// actually needs; unknown fields on the line are ignored.
type indexedRecord struct {
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	Language      string   `json:"language"`
	PageRank      float64  `json:"pagerank"`
	FinalScore    float64  `json:"final_score"`
	ThemeKeywords []string `json:"theme_keywords"`
	TextPreview   string   `json:"text_preview"`
}

// Result is one ranked answer to a query, carrying the per-component
// score trace alongside the fused value.
type Result struct {
	URL           string
	Title         string
	Language      string
	ThemeKeywords []string
	Preview       string

	BM25       float64
	IndexScore float64
	PageRank   float64
	LangFactor float64
	Combined   float64
}

// Engine answers queries over a loaded index. Build it once with New;
// Query is safe for concurrent use.
type Engine struct {
	logger   *log.Logger
	settings Settings
	records  []indexedRecord
	model    *bm25.Model
	tokenize func(string) []string
}

// New loads index.ndjson from path and builds the surrogate BM25 model.
// Unparseable lines are skipped; a missing file yields an empty engine.
func New(path string, opts ...Opt) (*Engine, error) {
	settings := defaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	e := &Engine{
		logger:   log.New(os.Stderr, "search: ", log.LstdFlags),
		settings: settings,
		tokenize: textutil.Tokenize,
	}
	if settings.EnableStemming {
		e.tokenize = textutil.TokenizeStemmed
	}

	err := storage.EachLine(path, func(line []byte) error {
		var rec indexedRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return err
		}
		e.records = append(e.records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	corpus := make([][]string, len(e.records))
	for i, rec := range e.records {
		corpus[i] = e.tokenize(e.surrogate(rec))
	}
	e.model = bm25.New(corpus)
	e.logger.Printf("loaded %d records", len(e.records))
	return e, nil
}

// surrogate builds the compact string the lexical model scores: the
// title, optionally the theme keywords, optionally the URL. The document
// body is not persisted in the index, so recall is deliberately bounded
// by what survives in these three fields.
func (e *Engine) surrogate(rec indexedRecord) string {
	parts := []string{rec.Title}
	if e.settings.IncludeKeywords {
		parts = append(parts, strings.Join(rec.ThemeKeywords, " "))
	}
	if e.settings.IncludeURL {
		parts = append(parts, rec.URL)
	}
	return strings.Join(parts, " ")
}

// Size reports the number of loaded index records.
func (e *Engine) Size() int {
	return len(e.records)
}

// Query ranks the index against the free-text query and returns up to
// ResultsLimit results with their score traces.
func (e *Engine) Query(query string) []Result {
	tokens := e.tokenize(query)
	if len(tokens) == 0 || len(e.records) == 0 {
		return nil
	}

	bm := minMaxNormalize(e.model.Scores(tokens))

	type scored struct {
		ordinal int
		result  Result
	}
	ranked := make([]scored, len(e.records))
	for i, rec := range e.records {
		idx := clamp01(rec.FinalScore / 100)
		pr := clamp01(rec.PageRank)
		combined := e.settings.WeightBM25*bm[i] + e.settings.WeightIndex*idx + e.settings.WeightPageRank*pr
		factor := e.languageFactor(rec.Language)

		ranked[i] = scored{ordinal: i, result: Result{
			URL:           rec.URL,
			Title:         rec.Title,
			Language:      rec.Language,
			ThemeKeywords: rec.ThemeKeywords,
			BM25:          bm[i],
			IndexScore:    idx,
			PageRank:      pr,
			LangFactor:    factor,
			Combined:      combined * factor,
		}}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].result.Combined != ranked[j].result.Combined {
			if e.settings.Ascending {
				return ranked[i].result.Combined < ranked[j].result.Combined
			}
			return ranked[i].result.Combined > ranked[j].result.Combined
		}
		return ranked[i].ordinal < ranked[j].ordinal
	})

	limit := e.settings.ResultsLimit
	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}

	results := make([]Result, limit)
	for i := 0; i < limit; i++ {
		results[i] = ranked[i].result
		results[i].Preview = previewSnippet(e.records[ranked[i].ordinal].TextPreview, tokens, e.settings.PreviewLength)
	}
	return results
}

// languageFactor implements the preference multiplier: the i-th priority
// language earns 1 + 0.08/(1+i); matching none of them earns the penalty
// multiplier; an empty priority list is neutral.
func (e *Engine) languageFactor(docLang string) float64 {
	if len(e.settings.LangPriority) == 0 {
		return 1
	}
	for i, lang := range e.settings.LangPriority {
		if docLang == lang || strings.HasPrefix(docLang, lang) {
			return 1 + 0.08/float64(1+i)
		}
	}
	return e.settings.LangPenaltyMultiplier
}

func minMaxNormalize(vs []float64) []float64 {
	if len(vs) == 0 {
		return vs
	}
	min, max := vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	out := make([]float64, len(vs))
	if max == min {
		return out
	}
	for i, v := range vs {
		out[i] = (v - min) / (max - min)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
