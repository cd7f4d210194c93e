package fetcher

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxParagraphs  = 10
	maxTextContent = 500
)

// publishDateSelector pairs a CSS selector with the attribute to read the
// date from; an empty attr means "read the element's text instead".
type publishDateSelector struct {
	selector string
	attr     string
}

// publishDateSelectors is tried in order; the first match wins.
var publishDateSelectors = []publishDateSelector{
	{`meta[property="article:published_time"]`, "content"},
	{`meta[name="pubdate"]`, "content"},
	{`meta[name="publishdate"]`, "content"},
	{`meta[property="og:published_time"]`, "content"},
	{`time[datetime]`, "datetime"},
}

// LanguageDetector is the black-box statistical language identifier: any
// implementation exposing Detect(text) -> ISO 639-1-ish code is
// substitutable.
type LanguageDetector interface {
	Detect(text string) string
}

// ParsedPage is everything extracted from one fetched HTML document.
type ParsedPage struct {
	Title       string
	TextContent string
	PublishDate string
	Language    string
	LinksFound  []string
}

// Parse extracts title, text content, publish date, language and
// same-host outbound links from html fetched from sourceURL. detector may
// be nil, in which case pages lacking an <html lang> attribute are always
// reported as "unknown".
func Parse(html, sourceURL string, detector LanguageDetector) (ParsedPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ParsedPage{}, err
	}

	base, err := url.Parse(sourceURL)
	if err != nil {
		return ParsedPage{}, err
	}

	page := ParsedPage{
		Title:       extractTitle(doc),
		TextContent: extractTextContent(doc),
		PublishDate: extractPublishDate(doc),
		LinksFound:  extractLinks(doc, base),
	}
	page.Language = resolveLanguage(doc, page.TextContent, detector)
	return page, nil
}

func extractTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return "No Title"
	}
	return title
}

func extractTextContent(doc *goquery.Document) string {
	var parts []string
	doc.Find("p").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= maxParagraphs {
			return false
		}
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
		return true
	})
	joined := strings.Join(parts, " ")
	if len(joined) > maxTextContent {
		joined = joined[:maxTextContent]
	}
	return joined
}

func extractPublishDate(doc *goquery.Document) string {
	for _, sel := range publishDateSelectors {
		node := doc.Find(sel.selector).First()
		if node.Length() == 0 {
			continue
		}
		if sel.attr == "" {
			if text := strings.TrimSpace(node.Text()); text != "" {
				return text
			}
			continue
		}
		if val, ok := node.Attr(sel.attr); ok && strings.TrimSpace(val) != "" {
			return val
		}
	}
	return ""
}

func resolveLanguage(doc *goquery.Document, textContent string, detector LanguageDetector) string {
	if lang, ok := doc.Find("html").First().Attr("lang"); ok && strings.TrimSpace(lang) != "" {
		return lang
	}
	if len(textContent) > 50 && detector != nil {
		if lang := detector.Detect(textContent); lang != "" {
			return lang
		}
	}
	return "unknown"
}

// extractLinks walks every <a href>, resolves it against base, strips
// fragment and query, keeps only same-host results and deduplicates
// preserving first-seen order.
func extractLinks(doc *goquery.Document, base *url.URL) []string {
	var links []string
	seen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		resolved, ok := resolveAndStrip(base, href)
		if !ok || resolved.Hostname() != base.Hostname() {
			return
		}
		normalized := resolved.String()
		if _, dup := seen[normalized]; dup {
			return
		}
		seen[normalized] = struct{}{}
		links = append(links, normalized)
	})
	return links
}

func resolveAndStrip(base *url.URL, href string) (*url.URL, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawQuery = ""
	return resolved, true
}
