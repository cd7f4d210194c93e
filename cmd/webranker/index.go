package main

import (
	"fmt"

	"github.com/codepr/webranker/indexer"
	"github.com/spf13/cobra"
)

var (
	indexDamping      float64
	indexIterations   int
	indexWeightPR     float64
	indexWeightF      float64
	indexTopTerms     int
	indexPreviewChars int
	indexChunkSize    int
	indexLimit        int
	indexStemming     bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Score scraped.ndjson into index.ndjson",
	RunE:  runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	ix := indexer.New(
		indexer.WithOutputDir(dataDir),
		indexer.WithPageRankDamping(indexDamping),
		indexer.WithPageRankIterations(indexIterations),
		indexer.WithWeights(indexWeightPR, indexWeightF),
		indexer.WithBM25TopTerms(indexTopTerms),
		indexer.WithTextPreviewMaxChars(indexPreviewChars),
		indexer.WithSaveChunkSize(indexChunkSize),
		indexer.WithLimit(indexLimit),
		indexer.WithStemming(indexStemming),
	)

	written, err := ix.Run()
	if err != nil {
		return err
	}
	fmt.Printf("index finished: %d records written\n", written)
	return nil
}

func init() {
	indexCmd.Flags().Float64Var(&indexDamping, "damping", 0.85, "PageRank damping factor")
	indexCmd.Flags().IntVar(&indexIterations, "iterations", 25, "PageRank iteration count")
	indexCmd.Flags().Float64Var(&indexWeightPR, "weight-pagerank", 0.45, "final-score weight of pagerank")
	indexCmd.Flags().Float64Var(&indexWeightF, "weight-factors", 0.55, "final-score weight of heuristic factors")
	indexCmd.Flags().IntVar(&indexTopTerms, "top-terms", 10, "theme keywords kept per document")
	indexCmd.Flags().IntVar(&indexPreviewChars, "preview-chars", 300, "text preview length persisted per record")
	indexCmd.Flags().IntVar(&indexChunkSize, "save-chunk-size", 20, "records buffered before a write to index.ndjson")
	indexCmd.Flags().IntVar(&indexLimit, "limit", 0, "stop after this many records (0 = unlimited)")
	indexCmd.Flags().BoolVar(&indexStemming, "stemming", false, "stem tokens before scoring (rebuilds all scores)")
	rootCmd.AddCommand(indexCmd)
}
