package search

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const maxDisplayedKeywords = 10

// REPL reads queries line by line from in, answering each on out. An
// empty line ends the session.
func (e *Engine) REPL(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Query> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			break
		}

		results := e.Query(query)
		if len(results) == 0 {
			fmt.Fprintln(out, "no results")
			continue
		}
		for rank, res := range results {
			writeResult(out, rank+1, res)
		}
	}
	return scanner.Err()
}

func writeResult(out io.Writer, rank int, res Result) {
	fmt.Fprintf(out, "%d. %s\n", rank, res.Title)
	fmt.Fprintf(out, "   %s [%s]\n", res.URL, res.Language)

	keywords := res.ThemeKeywords
	if len(keywords) > maxDisplayedKeywords {
		keywords = keywords[:maxDisplayedKeywords]
	}
	if len(keywords) > 0 {
		fmt.Fprintf(out, "   keywords: %s\n", strings.Join(keywords, ", "))
	}
	if res.Preview != "" {
		fmt.Fprintf(out, "   %s\n", res.Preview)
	}
	fmt.Fprintf(out, "   score=%.4f (bm25=%.4f index=%.4f pagerank=%.4f lang=%.2f)\n",
		res.Combined, res.BM25, res.IndexScore, res.PageRank, res.LangFactor)
}
