package indexer

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/codepr/webranker/bm25"
	"github.com/codepr/webranker/storage"
	"github.com/codepr/webranker/textutil"
)

const (
	defaultPageRankDamping    = 0.85
	defaultPageRankIterations = 25
	defaultWeightPageRank     = 0.45
	defaultWeightFactors      = 0.55
	defaultBM25TopTerms       = 10
	defaultTextPreviewChars   = 300
	defaultSaveChunkSize      = 20
)

// Settings enumerates every tunable of an indexing run.
type Settings struct {
	// OutputDir holds scraped.ndjson (input) and index.ndjson (output).
	OutputDir string
	// PageRankDamping is the random-surfer damping factor.
	PageRankDamping float64
	// PageRankIterations is the fixed iteration count; there is no
	// convergence check.
	PageRankIterations int
	// WeightPageRank and WeightFactors compose the final score; they
	// are expected to sum to 1.
	WeightPageRank float64
	WeightFactors  float64
	// BM25TopTerms is how many theme keywords each document keeps.
	BM25TopTerms int
	// TextPreviewMaxChars bounds the text_preview persisted per record.
	TextPreviewMaxChars int
	// SaveChunkSize is how many records accumulate before a write to
	// index.ndjson.
	SaveChunkSize int
	// Limit stops emission after this many records; 0 means unlimited.
	Limit int
	// EnableStemming switches the tokenizer to its stemming variant.
	// Off by default: stemming changes every persisted score.
	EnableStemming bool
	// Factors configures the heuristic quality factors.
	Factors FactorsSettings
}

// Opt is a functional option over Settings.
type Opt func(*Settings)

func defaultSettings() Settings {
	return Settings{
		OutputDir:           ".",
		PageRankDamping:     defaultPageRankDamping,
		PageRankIterations:  defaultPageRankIterations,
		WeightPageRank:      defaultWeightPageRank,
		WeightFactors:       defaultWeightFactors,
		BM25TopTerms:        defaultBM25TopTerms,
		TextPreviewMaxChars: defaultTextPreviewChars,
		SaveChunkSize:       defaultSaveChunkSize,
		Factors:             defaultFactorsSettings(),
	}
}

func WithOutputDir(dir string) Opt      { return func(s *Settings) { s.OutputDir = dir } }
func WithPageRankDamping(d float64) Opt { return func(s *Settings) { s.PageRankDamping = d } }
func WithPageRankIterations(n int) Opt  { return func(s *Settings) { s.PageRankIterations = n } }
func WithWeights(pr, factors float64) Opt {
	return func(s *Settings) { s.WeightPageRank, s.WeightFactors = pr, factors }
}
func WithBM25TopTerms(k int) Opt        { return func(s *Settings) { s.BM25TopTerms = k } }
func WithTextPreviewMaxChars(n int) Opt { return func(s *Settings) { s.TextPreviewMaxChars = n } }
func WithSaveChunkSize(n int) Opt       { return func(s *Settings) { s.SaveChunkSize = n } }
func WithLimit(n int) Opt               { return func(s *Settings) { s.Limit = n } }
func WithStemming(enabled bool) Opt     { return func(s *Settings) { s.EnableStemming = enabled } }
func WithFactors(f FactorsSettings) Opt { return func(s *Settings) { s.Factors = f } }

// Indexer owns one scoring run over a scraped corpus.
type Indexer struct {
	logger   *log.Logger
	settings Settings
}

// New builds an Indexer from the given options.
func New(opts ...Opt) *Indexer {
	settings := defaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.OutputDir == "" {
		settings.OutputDir = "."
	}
	return &Indexer{
		logger:   log.New(os.Stderr, "indexer: ", log.LstdFlags),
		settings: settings,
	}
}

// Run executes the full pipeline: load, graph, PageRank, factors, BM25,
// theme keywords, composition, emission. It returns the number of
// records written to index.ndjson.
func (ix *Indexer) Run() (int, error) {
	docs, err := ix.load(filepath.Join(ix.settings.OutputDir, "scraped.ndjson"))
	if err != nil {
		return 0, err
	}
	ix.logger.Printf("loaded %d documents", len(docs))

	records := ix.Score(docs)
	return ix.emit(records, filepath.Join(ix.settings.OutputDir, "index.ndjson"))
}

// load parses scraped.ndjson line by line, skipping blank or invalid
// lines, keeping the first occurrence of each URL so every indexed
// record stays unique.
func (ix *Indexer) load(path string) ([]Document, error) {
	var docs []Document
	seen := make(map[string]struct{})
	err := storage.EachLine(path, func(line []byte) error {
		var doc Document
		if err := json.Unmarshal(line, &doc); err != nil {
			return err
		}
		if doc.URL == "" {
			return nil
		}
		if _, dup := seen[doc.URL]; dup {
			return nil
		}
		seen[doc.URL] = struct{}{}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Score derives every ranked record from docs without touching disk.
// Split out from Run so the scoring pipeline is testable on in-memory
// corpora.
func (ix *Indexer) Score(docs []Document) []IndexedDocument {
	if len(docs) == 0 {
		return nil
	}

	ordinals := make(map[string]int, len(docs))
	for i, doc := range docs {
		ordinals[doc.URL] = i
	}

	graph := buildLinkGraph(docs, ordinals)
	ranks := pagerank(graph, ix.settings.PageRankDamping, ix.settings.PageRankIterations)

	tokenizeFn := textutil.Tokenize
	if ix.settings.EnableStemming {
		tokenizeFn = textutil.TokenizeStemmed
	}
	corpus := make([][]string, len(docs))
	for i, doc := range docs {
		corpus[i] = tokenizeFn(doc.Title + " " + doc.TextContent)
	}
	model := bm25.New(corpus)

	raws := make([]float64, len(docs))
	breakdowns := make([]map[string]FactorResult, len(docs))
	for i, doc := range docs {
		raws[i], breakdowns[i] = scoreFactors(doc, ix.settings.Factors)
	}
	norms := minMaxNormalize(raws)

	records := make([]IndexedDocument, len(docs))
	for i, doc := range docs {
		combined := ix.settings.WeightPageRank*ranks[i] + ix.settings.WeightFactors*norms[i]
		records[i] = IndexedDocument{
			Document:         doc,
			PageRank:         ranks[i],
			FactorsRaw:       raws[i],
			FactorsNorm:      norms[i],
			FinalScore:       100 * clamp01(combined),
			ThemeKeywords:    themeKeywords(corpus[i], i, model, ix.settings.BM25TopTerms),
			FactorsBreakdown: breakdowns[i],
			TextPreview:      truncate(doc.TextContent, ix.settings.TextPreviewMaxChars),
		}
	}
	return records
}

// emit writes records to path in chunks of SaveChunkSize, stopping once
// Limit records have been written. The file is rewritten from scratch:
// an index is created once per run, never extended.
func (ix *Indexer) emit(records []IndexedDocument, path string) (int, error) {
	if ix.settings.Limit > 0 && len(records) > ix.settings.Limit {
		records = records[:ix.settings.Limit]
	}

	writer, err := storage.NewRewriter(path)
	if err != nil {
		return 0, err
	}
	defer writer.Close()

	chunk := ix.settings.SaveChunkSize
	if chunk <= 0 {
		chunk = len(records)
	}
	written := 0
	for start := 0; start < len(records); start += chunk {
		end := start + chunk
		if end > len(records) {
			end = len(records)
		}
		batch := make([]interface{}, 0, end-start)
		for _, rec := range records[start:end] {
			batch = append(batch, rec)
		}
		if err := writer.AppendAll(batch); err != nil {
			return written, err
		}
		written += len(batch)
	}
	ix.logger.Printf("wrote %d records", written)
	return written, nil
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

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}
