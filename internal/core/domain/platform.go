package domain

import (
	"sort"
	"strings"
)

// PlatformSignature describes one known webcast hosting platform by the
// literal markers that betray it: URL fragments, API host names and strings
// that appear in served documents.
type PlatformSignature struct {
	// Name identifies the platform (e.g. "MZ Group").
	Name string

	// Indicators are literal substrings matched against URLs and document
	// bodies.
	Indicators []string

	// Method is the discovery method to prefer for this platform.
	Method string

	// Confidence is the base confidence when every indicator matches.
	Confidence float64
}

// PlatformMatch is one detected platform with its evidence-scaled confidence.
type PlatformMatch struct {
	Name       string
	Method     string
	Confidence float64
}

// bodyEvidenceDiscount scales down matches found only in a document body;
// body text is weaker evidence than the URL itself.
const bodyEvidenceDiscount = 0.7

// DefaultPlatformSignatures covers the hosting platforms most Brazilian IR
// sites delegate their result-call media to.
var DefaultPlatformSignatures = []PlatformSignature{
	{
		Name: "MZ Group",
		Indicators: []string{
			"api.mziq.com",
			"mzfilemanager",
			"mziq.com",
			"categories.push",
			"central_de_resultados",
		},
		Method:     "platform-pattern",
		Confidence: 0.9,
	},
	{
		Name: "YouTube",
		Indicators: []string{
			"youtube.com",
			"youtu.be",
			"@channel",
			"youtube.com/embed",
		},
		Method:     "video-api",
		Confidence: 0.95,
	},
	{
		Name: "Zoom",
		Indicators: []string{
			"zoom.us",
			"zoom.com",
		},
		Method:     "link-scan",
		Confidence: 0.8,
	},
}

// DetectPlatform classifies a URL (and optionally an already-fetched
// document body) against the signature table. Confidence is the signature's
// base scaled by the fraction of indicators that matched; body-only matches
// are further discounted. A platform matched via the URL is not re-added
// from the body, keeping the stronger URL-based score.
//
// Pure and synchronous: no network access, no failure mode beyond an empty
// result, which means no known platform was detected.
func DetectPlatform(url, body string, signatures []PlatformSignature) []PlatformMatch {
	var detected []PlatformMatch
	urlLower := strings.ToLower(url)

	for _, sig := range signatures {
		matched := 0
		for _, ind := range sig.Indicators {
			if strings.Contains(urlLower, strings.ToLower(ind)) {
				matched++
			}
		}
		if matched > 0 {
			detected = append(detected, PlatformMatch{
				Name:       sig.Name,
				Method:     sig.Method,
				Confidence: sig.Confidence * float64(matched) / float64(len(sig.Indicators)),
			})
		}
	}

	if body != "" {
		bodyLower := strings.ToLower(body)
		for _, sig := range signatures {
			if hasMatch(detected, sig.Name) {
				continue
			}
			matched := 0
			for _, ind := range sig.Indicators {
				if strings.Contains(bodyLower, strings.ToLower(ind)) {
					matched++
				}
			}
			if matched > 0 {
				detected = append(detected, PlatformMatch{
					Name:       sig.Name,
					Method:     sig.Method,
					Confidence: sig.Confidence * float64(matched) / float64(len(sig.Indicators)) * bodyEvidenceDiscount,
				})
			}
		}
	}

	sort.SliceStable(detected, func(i, j int) bool {
		return detected[i].Confidence > detected[j].Confidence
	})

	return detected
}

func hasMatch(matches []PlatformMatch, name string) bool {
	for i := range matches {
		if matches[i].Name == name {
			return true
		}
	}
	return false
}
