// Package linkscan implements the generic anchor-scan discovery method: the
// low-confidence fallback that inspects every link on a company's IR page
// for direct audio or podcast locators. It assumes nothing about how the
// site is built, which is why it is always worth running and never worth
// trusting much.
package linkscan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ristream/ricast/internal/core/domain"
	"github.com/ristream/ricast/internal/core/ports/driven"
	"github.com/ristream/ricast/internal/logger"
	"github.com/ristream/ricast/internal/methods/scrape"
)

// MethodName identifies this method in outcomes and performance history.
const MethodName = "link-scan"

// methodConfidence is deliberately low: an anchor that merely smells like
// audio is weak evidence.
const methodConfidence = 0.5

// linkSelector matches anchors whose href hints at playable media.
const linkSelector = `a[href*=".mp3"], a[href*=".m4a"], a[href*="audio"], a[href*="podcast"]`

var _ driven.DiscoveryMethod = (*Method)(nil)

// Method scans a fetched IR page for audio-looking anchors.
type Method struct {
	fetcher driven.Fetcher
	now     func() time.Time
}

// New creates the link-scan method.
func New(fetcher driven.Fetcher) *Method {
	return &Method{fetcher: fetcher, now: time.Now}
}

// Name returns the method identifier.
func (m *Method) Name() string { return MethodName }

// Run fetches the company's IR page and scans its anchors. All failures are
// reported through the outcome; Run never returns an error and never panics.
func (m *Method) Run(ctx context.Context, company domain.Company) domain.MethodOutcome {
	start := time.Now()

	if !company.HasIRSite() {
		return domain.MethodOutcome{Method: MethodName, Elapsed: time.Since(start)}
	}

	res, err := m.fetcher.Fetch(ctx, company.IRSiteURL)
	if err != nil {
		return domain.MethodOutcome{
			Method:  MethodName,
			Err:     fmt.Sprintf("fetch %s: %v", company.IRSiteURL, err),
			Elapsed: time.Since(start),
		}
	}
	if res.StatusCode != 200 {
		return domain.MethodOutcome{
			Method:  MethodName,
			Err:     fmt.Sprintf("fetch %s: HTTP %d", company.IRSiteURL, res.StatusCode),
			Elapsed: time.Since(start),
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.Body))
	if err != nil {
		return domain.MethodOutcome{
			Method:  MethodName,
			Err:     fmt.Sprintf("parse %s: %v", company.IRSiteURL, err),
			Elapsed: time.Since(start),
		}
	}

	candidates := m.scan(doc, company)
	logger.Debug("link-scan %s: %d candidates", company.Ticker, len(candidates))

	return domain.MethodOutcome{
		Method:     MethodName,
		Success:    len(candidates) > 0,
		Candidates: candidates,
		Elapsed:    time.Since(start),
	}
}

func (m *Method) scan(doc *goquery.Document, company domain.Company) []domain.Candidate {
	now := m.now()
	seen := make(map[string]bool)
	var candidates []domain.Candidate

	doc.Find(linkSelector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}

		linkText, rowText := scrape.LinkContext(sel)
		text := strings.ToLower(linkText)

		if strings.Contains(text, "transcrição") ||
			strings.Contains(text, "transcricao") ||
			strings.Contains(text, "apresentação") ||
			strings.Contains(text, "apresentacao") ||
			strings.Contains(text, "pdf") {
			return
		}

		hrefLower := strings.ToLower(href)
		isAudio := strings.Contains(text, "áudio") ||
			strings.Contains(text, "audio") ||
			strings.Contains(text, "teleconferência") ||
			strings.Contains(text, "teleconferencia") ||
			strings.Contains(hrefLower, ".mp3") ||
			strings.Contains(hrefLower, ".m4a")
		if !isAudio {
			return
		}

		sourceURL := scrape.ResolveURL(company.IRSiteURL, href)
		if seen[sourceURL] {
			return
		}
		seen[sourceURL] = true

		quarter, year, found := domain.ExtractQuarter(linkText + " " + rowText)
		if !found {
			quarter = domain.QuarterUnknown
			year = now.Year()
		}

		title := strings.TrimSpace(linkText)
		if title == "" {
			title = "Áudio - " + quarter
		}

		candidates = append(candidates, domain.Candidate{
			Title:       title,
			SourceURL:   sourceURL,
			SourceType:  scrape.SourceTypeFor(sourceURL),
			EventDate:   scrape.EventDate(time.Time{}, false, quarter, year, now),
			Quarter:     quarter,
			Year:        year,
			ContentType: domain.ClassifyContent(linkText + " " + rowText),
			Method:      MethodName,
			Confidence:  methodConfidence,
		})
	})

	return candidates
}
