package main

import (
	"os"
	"path/filepath"

	"github.com/codepr/webranker/search"
	"github.com/spf13/cobra"
)

var (
	searchWeightBM25  float64
	searchWeightIndex float64
	searchWeightPR    float64
	searchLangs       []string
	searchLangPenalty float64
	searchLimit       int
	searchPreviewLen  int
	searchNoKeywords  bool
	searchNoURL       bool
	searchAscending   bool
	searchStemming    bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Answer interactive queries over index.ndjson",
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	engine, err := search.New(
		filepath.Join(dataDir, "index.ndjson"),
		search.WithWeights(searchWeightBM25, searchWeightIndex, searchWeightPR),
		search.WithLangPriority(searchLangs...),
		search.WithLangPenaltyMultiplier(searchLangPenalty),
		search.WithResultsLimit(searchLimit),
		search.WithPreviewLength(searchPreviewLen),
		search.WithIncludeKeywords(!searchNoKeywords),
		search.WithIncludeURL(!searchNoURL),
		search.WithAscending(searchAscending),
		search.WithStemming(searchStemming),
	)
	if err != nil {
		return err
	}
	return engine.REPL(os.Stdin, os.Stdout)
}

func init() {
	searchCmd.Flags().Float64Var(&searchWeightBM25, "weight-bm25", 0.5, "fusion weight of the lexical score")
	searchCmd.Flags().Float64Var(&searchWeightIndex, "weight-index", 0.3, "fusion weight of the indexer final score")
	searchCmd.Flags().Float64Var(&searchWeightPR, "weight-pagerank", 0.2, "fusion weight of pagerank")
	searchCmd.Flags().StringSliceVar(&searchLangs, "lang-priority", nil, "preferred languages, most preferred first")
	searchCmd.Flags().Float64Var(&searchLangPenalty, "lang-penalty", 0.85, "multiplier for documents outside the priority languages")
	searchCmd.Flags().IntVar(&searchLimit, "results", 10, "maximum results per query")
	searchCmd.Flags().IntVar(&searchPreviewLen, "preview-length", 160, "snippet window size in characters")
	searchCmd.Flags().BoolVar(&searchNoKeywords, "no-keywords", false, "exclude theme keywords from the lexical surrogate")
	searchCmd.Flags().BoolVar(&searchNoURL, "no-url", false, "exclude the URL from the lexical surrogate")
	searchCmd.Flags().BoolVar(&searchAscending, "ascending", false, "sort results ascending instead of descending")
	searchCmd.Flags().BoolVar(&searchStemming, "stemming", false, "must match the indexer's stemming setting")
	rootCmd.AddCommand(searchCmd)
}
