package fetcher

import (
	"strings"
	"testing"
)

const samplePage = `<html lang="en">
<head><title>  Sample Page  </title>
<meta property="article:published_time" content="2024-01-02T00:00:00Z">
</head>
<body>
<p>First paragraph.</p>
<p>Second paragraph.</p>
<a href="/about">About</a>
<a href="/about">About again</a>
<a href="https://other.example/x">External</a>
<a href="/contact?ref=footer#top">Contact</a>
</body>
</html>`

func TestParseExtractsTitleAndTextContent(t *testing.T) {
	page, err := Parse(samplePage, "https://example.com/", nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if page.Title != "Sample Page" {
		t.Errorf("Parse failed: expected title %q got %q", "Sample Page", page.Title)
	}
	if page.TextContent != "First paragraph. Second paragraph." {
		t.Errorf("Parse failed: unexpected text content %q", page.TextContent)
	}
}

func TestParseTitleDefaultsWhenAbsent(t *testing.T) {
	page, err := Parse(`<html><body><p>no title here</p></body></html>`, "https://example.com/", nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if page.Title != "No Title" {
		t.Errorf("Parse failed: expected default title, got %q", page.Title)
	}
}

func TestParseTruncatesTextContentTo500Chars(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 10; i++ {
		sb.WriteString("<p>")
		sb.WriteString(strings.Repeat("a", 80))
		sb.WriteString("</p>")
	}
	sb.WriteString("</body></html>")

	page, err := Parse(sb.String(), "https://example.com/", nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(page.TextContent) != 500 {
		t.Errorf("Parse failed: expected text content truncated to 500 chars, got %d", len(page.TextContent))
	}
}

func TestParsePublishDate(t *testing.T) {
	page, err := Parse(samplePage, "https://example.com/", nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if page.PublishDate != "2024-01-02T00:00:00Z" {
		t.Errorf("Parse failed: expected publish date match, got %q", page.PublishDate)
	}
}

func TestParseLanguageFromHTMLLangAttr(t *testing.T) {
	page, err := Parse(samplePage, "https://example.com/", nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if page.Language != "en" {
		t.Errorf("Parse failed: expected language %q got %q", "en", page.Language)
	}
}

func TestParseLanguageUnknownWhenShortAndNoLangAttr(t *testing.T) {
	page, err := Parse(`<html><body><p>hi</p></body></html>`, "https://example.com/", nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if page.Language != "unknown" {
		t.Errorf("Parse failed: expected unknown language got %q", page.Language)
	}
}

func TestParseLinksSameHostDedupedStripped(t *testing.T) {
	page, err := Parse(samplePage, "https://example.com/", nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	expected := []string{"https://example.com/about", "https://example.com/contact"}
	if len(page.LinksFound) != len(expected) {
		t.Fatalf("Parse failed: expected %d links got %d (%v)", len(expected), len(page.LinksFound), page.LinksFound)
	}
	for i, link := range expected {
		if page.LinksFound[i] != link {
			t.Errorf("Parse failed: expected link[%d]=%q got %q", i, link, page.LinksFound[i])
		}
	}
}
