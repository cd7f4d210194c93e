// Package indexer is the offline scoring stage of the pipeline: it reads
// scraped.ndjson, builds the same-corpus link graph, runs PageRank,
// scores heuristic quality factors, fits a BM25 model for theme-keyword
// extraction, and writes one ranked record per document to index.ndjson.
package indexer

// Document is one line of scraped.ndjson as the indexer consumes it. The
// field set mirrors the crawler's output record; the two stages share
// the file format, not a Go type, so either side can evolve against the
// serialized shape alone.
type Document struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	TextContent string   `json:"text_content"`
	PublishDate string   `json:"publish_date,omitempty"`
	Language    string   `json:"language"`
	LinksFound  []string `json:"links_found"`
	LinksCount  int      `json:"links_count"`
	ScrapedAt   string   `json:"scraped_at"`
}

// IndexedDocument is one line of index.ndjson: the scraped record plus
// every score the indexer derives for it. Created once at end-of-run and
// never mutated; the search stage consumes it read-only.
type IndexedDocument struct {
	Document

	// PageRank is the min-max normalized authority score in [0,1].
	PageRank float64 `json:"pagerank"`
	// FactorsRaw is the unnormalized sum of enabled heuristic factor
	// scores.
	FactorsRaw float64 `json:"factors_raw"`
	// FactorsNorm is FactorsRaw min-max normalized across the corpus.
	FactorsNorm float64 `json:"factors_norm"`
	// FinalScore is the weighted composition of PageRank and
	// FactorsNorm, scaled to [0,100].
	FinalScore float64 `json:"final_score"`
	// ThemeKeywords are the document's top BM25-weighted terms.
	ThemeKeywords []string `json:"theme_keywords"`
	// FactorsBreakdown is the audit trail of per-factor scores and
	// decision metadata.
	FactorsBreakdown map[string]FactorResult `json:"factors_breakdown"`
	// TextPreview is the leading slice of TextContent persisted for
	// search-side snippets.
	TextPreview string `json:"text_preview"`
}

// FactorResult is one factor's entry in the breakdown: the score it
// contributed plus whatever diagnostic inputs drove the decision.
type FactorResult struct {
	Score   float64                `json:"score"`
	Enabled bool                   `json:"enabled"`
	Details map[string]interface{} `json:"details,omitempty"`
}
