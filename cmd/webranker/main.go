// Command webranker chains the three pipeline stages: crawl harvests
// pages into scraped.ndjson, index scores them into index.ndjson, and
// search answers interactive queries over the index.
package main

import (
	"fmt"
	"os"

	"github.com/codepr/webranker/env"
	"github.com/spf13/cobra"
)

// dataDir is where the stages exchange their .ndjson files. The
// WEBRANKER_DATA_DIR environment variable only seeds the flag default;
// the algorithmic configuration itself is flags-only.
var dataDir string

var rootCmd = &cobra.Command{
	Use:   "webranker",
	Short: "A small-scale web search pipeline: crawl, index, search",
	Long: `Webranker is a three-stage web search pipeline. The crawl stage harvests
same-host HTML pages into scraped.ndjson, the index stage derives
PageRank, heuristic quality factors and theme keywords into
index.ndjson, and the search stage ranks the index against free-text
queries in an interactive prompt.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir",
		env.GetEnv("WEBRANKER_DATA_DIR", "data"),
		"directory holding scraped.ndjson, visited.ndjson and index.ndjson")
}
