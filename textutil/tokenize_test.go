package textutil

import (
	"strings"
	"testing"
)

func TestTokenizeLowercasesAndSplits(t *testing.T) {
	got := Tokenize("Carro Rápido ESPORTIVO")
	expected := []string{"carro", "rápido", "esportivo"}
	if len(got) != len(expected) {
		t.Fatalf("Tokenize failed: expected %v got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Tokenize failed: token[%d] expected %q got %q", i, expected[i], got[i])
		}
	}
}

func TestTokenizeDropsShortTokensAndStopwords(t *testing.T) {
	got := Tokenize("the car is on a very fast road para o carro")
	for _, tok := range got {
		if len([]rune(tok)) < 3 {
			t.Errorf("Tokenize failed: short token %q survived", tok)
		}
		if IsStopword(tok) {
			t.Errorf("Tokenize failed: stopword %q survived", tok)
		}
	}
	want := map[string]bool{"car": false, "fast": false, "road": false, "carro": false}
	for _, tok := range got {
		if _, ok := want[tok]; ok {
			want[tok] = true
		}
	}
	for tok, seen := range want {
		if !seen {
			t.Errorf("Tokenize failed: expected token %q missing from %v", tok, got)
		}
	}
}

func TestTokenizeReplacesPunctuationRuns(t *testing.T) {
	got := Tokenize("hello,,,world!!!foo---bar")
	expected := []string{"hello", "world", "foo---bar"}
	if len(got) != len(expected) {
		t.Fatalf("Tokenize failed: expected %v got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Tokenize failed: token[%d] expected %q got %q", i, expected[i], got[i])
		}
	}
}

// Tokenizing the space-joined output of a tokenization must be a fixed
// point: every emitted token is already lowercase, in-alphabet, long
// enough and not a stopword.
func TestTokenizeIdempotent(t *testing.T) {
	inputs := []string{
		"Carro Rápido, esportivo!",
		"The QUICK brown-fox jumps; over 42 lazy dogs?",
		"ação código informação",
	}
	for _, input := range inputs {
		first := Tokenize(input)
		second := Tokenize(strings.Join(first, " "))
		if len(first) != len(second) {
			t.Fatalf("Tokenize not idempotent for %q: %v vs %v", input, first, second)
		}
		for i := range first {
			if first[i] != second[i] {
				t.Errorf("Tokenize not idempotent for %q: token[%d] %q vs %q", input, i, first[i], second[i])
			}
		}
	}
}

func TestTokenizeEmptyAndAllFiltered(t *testing.T) {
	if got := Tokenize(""); len(got) != 0 {
		t.Errorf("Tokenize failed: expected no tokens for empty input, got %v", got)
	}
	if got := Tokenize("a an of 12 !!"); len(got) != 0 {
		t.Errorf("Tokenize failed: expected no tokens, got %v", got)
	}
}

func TestTokenizeStemmedReducesInflections(t *testing.T) {
	plain := Tokenize("carros velozes")
	stemmed := TokenizeStemmed("carros velozes")
	if len(plain) != len(stemmed) {
		t.Fatalf("TokenizeStemmed failed: expected same token count, got %v vs %v", plain, stemmed)
	}
	for i := range stemmed {
		if len(stemmed[i]) > len(plain[i]) {
			t.Errorf("TokenizeStemmed failed: stem %q longer than surface form %q", stemmed[i], plain[i])
		}
	}
}
