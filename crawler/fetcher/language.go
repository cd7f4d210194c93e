package fetcher

import "github.com/RadhiFadlillah/whatlanggo"

// WhatlanggoDetector implements LanguageDetector on top of whatlanggo's
// n-gram statistical language identification.
type WhatlanggoDetector struct{}

// Detect returns the ISO 639-1 code of the most likely language of text.
// An unreliable detection still returns its best guess: the caller
// already gated the call on text length, and whatlanggo's confidence
// signal is not part of the detection contract here.
func (WhatlanggoDetector) Detect(text string) string {
	info := whatlanggo.Detect(text)
	return info.Lang.Iso6391()
}
