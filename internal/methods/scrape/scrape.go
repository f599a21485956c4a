// Package scrape holds the helpers shared by the HTML-based discovery
// methods: URL resolution, media-type classification from a locator, link
// context extraction and Brazilian-format date parsing.
package scrape

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ristream/ricast/internal/core/domain"
)

// ResolveURL turns a possibly relative href into an absolute URL against
// the page it was found on. Unparseable input is returned as-is; a broken
// locator is still a dedup key.
func ResolveURL(pageURL, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// SourceTypeFor classifies a locator by its media extension.
func SourceTypeFor(locator string) domain.SourceType {
	lower := strings.ToLower(locator)
	switch {
	case strings.Contains(lower, ".mp3"),
		strings.Contains(lower, ".m4a"),
		strings.Contains(lower, ".wav"):
		return domain.SourceMediaFile
	}
	return domain.SourceExternalLink
}

// LinkContext returns the trimmed anchor text and the text of the row the
// anchor sits in. IR result pages are mostly tables, so the closest table
// row carries the quarter and event labels; list and card layouts fall back
// to the nearest block container.
func LinkContext(sel *goquery.Selection) (linkText, rowText string) {
	linkText = strings.TrimSpace(sel.Text())

	rowText = strings.TrimSpace(sel.Closest("tr").Text())
	if rowText == "" {
		rowText = strings.TrimSpace(sel.Closest("li, div, article").Text())
	}
	return linkText, rowText
}

var datePatterns = []struct {
	re        *regexp.Regexp
	yearFirst bool
}{
	{re: regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})`)},
	{re: regexp.MustCompile(`(\d{2})-(\d{2})-(\d{4})`)},
	{re: regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`), yearFirst: true},
}

// ParseDate extracts a calendar date from free text in the formats Brazilian
// IR pages use: DD/MM/YYYY, DD-MM-YYYY and ISO YYYY-MM-DD.
func ParseDate(text string) (time.Time, bool) {
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		var day, month, year int
		if p.yearFirst {
			year, _ = strconv.Atoi(m[1])
			month, _ = strconv.Atoi(m[2])
			day, _ = strconv.Atoi(m[3])
		} else {
			day, _ = strconv.Atoi(m[1])
			month, _ = strconv.Atoi(m[2])
			year, _ = strconv.Atoi(m[3])
		}

		if month < 1 || month > 12 || day < 1 || day > 31 {
			continue
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// EventDate picks the best event date available: an explicit date from the
// page, else the quarter's end corrected to never lie in the future, else
// now.
func EventDate(explicit time.Time, hasExplicit bool, quarterLabel string, year int, now time.Time) time.Time {
	if hasExplicit && !explicit.After(now) {
		return explicit
	}
	if q := domain.QuarterNumber(quarterLabel); q != 0 {
		return domain.QuarterEndDate(q, year, now)
	}
	return now
}
