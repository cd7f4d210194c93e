package search

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/codepr/webranker/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type indexLine struct {
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	Language      string   `json:"language"`
	PageRank      float64  `json:"pagerank"`
	FinalScore    float64  `json:"final_score"`
	ThemeKeywords []string `json:"theme_keywords"`
	TextPreview   string   `json:"text_preview"`
}

func writeIndex(t *testing.T, lines ...indexLine) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.ndjson")
	a, err := storage.NewAppender(path)
	require.NoError(t, err)
	for _, line := range lines {
		require.NoError(t, a.Append(line))
	}
	require.NoError(t, a.Close())
	return path
}

func carCorpus(t *testing.T) string {
	return writeIndex(t,
		indexLine{URL: "http://s/pt", Title: "carro rápido esportivo", Language: "pt", FinalScore: 50, PageRank: 0.5, TextPreview: "um carro rápido esportivo brasileiro"},
		indexLine{URL: "http://s/en", Title: "fast sports car", Language: "en", FinalScore: 50, PageRank: 0.5, TextPreview: "a fast sports car"},
		indexLine{URL: "http://s/other", Title: "banana", Language: "en", FinalScore: 50, PageRank: 0.5, TextPreview: "a yellow banana"},
	)
}

func TestQueryRanksLexicalMatchFirstWithLangPriority(t *testing.T) {
	engine, err := New(carCorpus(t), WithLangPriority("pt"))
	require.NoError(t, err)

	results := engine.Query("carro esportivo")
	require.NotEmpty(t, results)
	assert.Equal(t, "http://s/pt", results[0].URL)
	assert.Greater(t, results[0].LangFactor, 1.0, "first priority language earns a boost")
}

func TestQueryLanguagePenaltyApplies(t *testing.T) {
	engine, err := New(carCorpus(t), WithLangPriority("pt"))
	require.NoError(t, err)

	results := engine.Query("banana")
	require.NotEmpty(t, results)
	for _, res := range results {
		if res.Language == "en" {
			assert.Equal(t, 0.85, res.LangFactor)
		}
	}
}

func TestQueryNoLangPriorityIsNeutral(t *testing.T) {
	engine, err := New(carCorpus(t))
	require.NoError(t, err)

	for _, res := range engine.Query("carro") {
		assert.Equal(t, 1.0, res.LangFactor)
	}
}

func TestQueryEmptyAfterTokenization(t *testing.T) {
	engine, err := New(carCorpus(t))
	require.NoError(t, err)

	assert.Empty(t, engine.Query(""))
	assert.Empty(t, engine.Query("a an of !!"))
}

func TestQueryDeterministic(t *testing.T) {
	engine, err := New(carCorpus(t), WithLangPriority("pt", "en"))
	require.NoError(t, err)

	first := engine.Query("carro esportivo banana")
	second := engine.Query("carro esportivo banana")
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].URL, second[i].URL)
		assert.Equal(t, first[i].Combined, second[i].Combined)
	}
}

func TestQueryResultsLimit(t *testing.T) {
	engine, err := New(carCorpus(t), WithResultsLimit(2))
	require.NoError(t, err)

	assert.Len(t, engine.Query("car carro banana"), 2)
}

func TestQueryAscendingReversesOrder(t *testing.T) {
	engine, err := New(carCorpus(t), WithAscending(true))
	require.NoError(t, err)

	results := engine.Query("carro esportivo")
	require.Len(t, results, 3)
	assert.Equal(t, "http://s/pt", results[len(results)-1].URL)
}

func TestMissingIndexYieldsEmptyEngine(t *testing.T) {
	engine, err := New(filepath.Join(t.TempDir(), "missing.ndjson"))
	require.NoError(t, err)
	assert.Zero(t, engine.Size())
	assert.Empty(t, engine.Query("anything"))
}

func TestREPLEmptyLineExits(t *testing.T) {
	engine, err := New(carCorpus(t))
	require.NoError(t, err)

	var out strings.Builder
	err = engine.REPL(strings.NewReader("carro\n\n"), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Query> ")
	assert.Contains(t, out.String(), "http://s/pt")
	assert.Contains(t, out.String(), "bm25=")
}

func TestREPLNoResults(t *testing.T) {
	engine, err := New(carCorpus(t))
	require.NoError(t, err)

	var out strings.Builder
	err = engine.REPL(strings.NewReader("the of an\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "no results")
}
