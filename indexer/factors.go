package indexer

import (
	"net/url"
	"strings"
)

// LengthMode selects how a length-based factor maps its input onto
// [0, points].
type LengthMode string

const (
	// ModeRange scores linearly from 0 at min to points at max.
	ModeRange LengthMode = "range"
	// ModePreferShort awards full points at or below min, none at or
	// above max.
	ModePreferShort LengthMode = "prefer_short"
	// ModePreferLong awards no points at or below min, full points at
	// or above max.
	ModePreferLong LengthMode = "prefer_long"
)

// LengthFactor configures the url_length and content_length factors.
type LengthFactor struct {
	Enabled bool
	Points  float64
	Min     int
	Max     int
	Mode    LengthMode
}

// TLDFactor awards points when the document host carries one of the
// configured suffixes.
type TLDFactor struct {
	Enabled  bool
	Points   float64
	Suffixes []string
}

// AuthorityFactor awards points when enough distinct out-links point at
// hosts matching a configured authority domain substring.
type AuthorityFactor struct {
	Enabled bool
	Points  float64
	MinHits int
	Domains []string
}

// LanguageFactor awards points when either the URL carries a language
// marker for a target language or the detected document language matches
// one.
type LanguageFactor struct {
	Enabled bool
	Points  float64
	Targets []string
}

// FactorsSettings bundles every heuristic factor's configuration.
type FactorsSettings struct {
	URLLength     LengthFactor
	ContentLength LengthFactor
	TLD           TLDFactor
	Authority     AuthorityFactor
	Language      LanguageFactor
}

func defaultFactorsSettings() FactorsSettings {
	return FactorsSettings{
		URLLength: LengthFactor{
			Enabled: true, Points: 10, Min: 30, Max: 120, Mode: ModePreferShort,
		},
		ContentLength: LengthFactor{
			Enabled: true, Points: 10, Min: 100, Max: 500, Mode: ModePreferLong,
		},
		TLD: TLDFactor{
			Enabled: true, Points: 5,
			Suffixes: []string{".gov", ".edu", ".org", ".gov.br", ".edu.br", ".org.br"},
		},
		Authority: AuthorityFactor{
			Enabled: true, Points: 10, MinHits: 2,
			Domains: []string{"wikipedia.org", "github.com", "bbc.", "reuters.", ".gov", ".edu"},
		},
		Language: LanguageFactor{
			Enabled: true, Points: 8, Targets: []string{"pt", "en"},
		},
	}
}

// normalizeRange maps v onto [0,1]: 0 at or below min, 1 at or above
// max, linear in between.
func normalizeRange(v, min, max float64) float64 {
	if v <= min {
		return 0
	}
	if v >= max {
		return 1
	}
	return (v - min) / (max - min)
}

// scoreFactors evaluates every configured factor against doc, returning
// the raw sum of enabled scores and the per-factor breakdown. Disabled
// factors appear in the breakdown with a zero score so the audit trail
// always carries the full factor set.
func scoreFactors(doc Document, settings FactorsSettings) (float64, map[string]FactorResult) {
	breakdown := map[string]FactorResult{
		"url_length":         scoreLength(float64(len(doc.URL)), settings.URLLength),
		"content_length":     scoreLength(float64(len(doc.TextContent)), settings.ContentLength),
		"tld":                scoreTLD(doc.URL, settings.TLD),
		"authority_outlinks": scoreAuthority(doc.LinksFound, settings.Authority),
		"language":           scoreLanguage(doc.URL, doc.Language, settings.Language),
	}

	var raw float64
	for _, result := range breakdown {
		if result.Enabled {
			raw += result.Score
		}
	}
	return raw, breakdown
}

func scoreLength(length float64, f LengthFactor) FactorResult {
	result := FactorResult{
		Enabled: f.Enabled,
		Details: map[string]interface{}{
			"length": int(length),
			"mode":   string(f.Mode),
		},
	}
	if !f.Enabled {
		return result
	}

	norm := normalizeRange(length, float64(f.Min), float64(f.Max))
	switch f.Mode {
	case ModePreferShort:
		result.Score = f.Points * (1 - norm)
	case ModePreferLong, ModeRange:
		result.Score = f.Points * norm
	}
	return result
}

func scoreTLD(rawURL string, f TLDFactor) FactorResult {
	host := hostOf(rawURL)
	result := FactorResult{
		Enabled: f.Enabled,
		Details: map[string]interface{}{"host": host},
	}
	if !f.Enabled {
		return result
	}
	for _, suffix := range f.Suffixes {
		if strings.HasSuffix(host, suffix) {
			result.Score = f.Points
			result.Details["matched_suffix"] = suffix
			break
		}
	}
	return result
}

func scoreAuthority(links []string, f AuthorityFactor) FactorResult {
	result := FactorResult{Enabled: f.Enabled, Details: map[string]interface{}{}}
	if !f.Enabled {
		return result
	}

	hits := make(map[string]struct{})
	for _, link := range links {
		host := hostOf(link)
		for _, domain := range f.Domains {
			if strings.Contains(host, domain) {
				hits[link] = struct{}{}
				break
			}
		}
	}
	result.Details["hits"] = len(hits)
	result.Details["min_hits"] = f.MinHits
	if len(hits) >= f.MinHits {
		result.Score = f.Points
	}
	return result
}

func scoreLanguage(rawURL, docLang string, f LanguageFactor) FactorResult {
	result := FactorResult{
		Enabled: f.Enabled,
		Details: map[string]interface{}{"language": docLang},
	}
	if !f.Enabled {
		return result
	}

	lowered := strings.ToLower(rawURL)
	for _, target := range f.Targets {
		urlMarker := strings.Contains(lowered, "/"+target+"/") ||
			strings.Contains(lowered, "lang="+target) ||
			strings.Contains(lowered, "hl="+target)
		langMatch := docLang == target || strings.HasPrefix(docLang, target)
		if urlMarker || langMatch {
			result.Score = f.Points
			result.Details["matched_target"] = target
			result.Details["via_url"] = urlMarker
			break
		}
	}
	return result
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
