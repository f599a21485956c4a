// Package staticsite implements the static-document scraping discovery
// method: fetch a company's results page once, pick out audio links with CSS
// selectors, and fall back to a rendered copy of the page when the static
// document is too thin to be the real content.
package staticsite

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
const MethodName = "static-site"

const methodConfidence = 0.6

// renderThreshold is the document size below which a page that yielded no
// links is assumed to assemble its content with JavaScript.
const renderThreshold = 50000

const (
	defaultLinkSelector  = `a[href*=".mp3"], a[href*="webcast"], a[href*="audio"]`
	defaultTitleSelector = "h3, h4"
	defaultDateSelector  = ".data, .date, time"
)

// SiteConfig tunes the scrape for one company's site layout. The zero value
// uses the generic selectors, which work for most template-based IR sites.
type SiteConfig struct {
	// PagePath is appended to the company's IR site URL, e.g.
	// "/central-de-resultados".
	PagePath string

	// LinkSelector matches the audio anchors.
	LinkSelector string

	// TitleSelector finds a title near the anchor when the anchor text is
	// empty.
	TitleSelector string

	// DateSelector finds the event date near the anchor.
	DateSelector string
}

var _ driven.DiscoveryMethod = (*Method)(nil)

// Method scrapes one static document per company.
type Method struct {
	fetcher  driven.Fetcher
	renderer driven.PageRenderer
	configs  map[string]SiteConfig
	now      func() time.Time
}

// New creates the static-site method. renderer may be nil, in which case the
// rendered fallback is skipped. configs is keyed by ticker.
func New(fetcher driven.Fetcher, renderer driven.PageRenderer, configs map[string]SiteConfig) *Method {
	return &Method{
		fetcher:  fetcher,
		renderer: renderer,
		configs:  configs,
		now:      time.Now,
	}
}

// Name returns the method identifier.
func (m *Method) Name() string { return MethodName }

// Run fetches the company's results page and extracts audio candidates.
func (m *Method) Run(ctx context.Context, company domain.Company) domain.MethodOutcome {
	start := time.Now()

	if !company.HasIRSite() {
		return domain.MethodOutcome{Method: MethodName, Elapsed: time.Since(start)}
	}

	cfg := m.configs[company.Ticker]
	pageURL := strings.TrimSuffix(company.IRSiteURL, "/") + cfg.PagePath

	res, err := m.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return domain.MethodOutcome{
			Method:  MethodName,
			Err:     fmt.Sprintf("fetch %s: %v", pageURL, err),
			Elapsed: time.Since(start),
		}
	}
	if res.StatusCode != 200 {
		return domain.MethodOutcome{
			Method:  MethodName,
			Err:     fmt.Sprintf("fetch %s: HTTP %d", pageURL, res.StatusCode),
			Elapsed: time.Since(start),
		}
	}

	candidates, err := m.extract(res.Body, pageURL, company, cfg)
	if err != nil {
		return domain.MethodOutcome{
			Method:  MethodName,
			Err:     err.Error(),
			Elapsed: time.Since(start),
		}
	}

	// Thin documents with no matches usually mean the content is assembled
	// client-side; retry against the rendered page when a renderer exists.
	if len(candidates) == 0 && len(res.Body) < renderThreshold && m.renderer != nil {
		logger.Debug("static-site %s: no links in static document, rendering", company.Ticker)

		rendered, rerr := m.renderer.Render(ctx, pageURL)
		if rerr != nil {
			return domain.MethodOutcome{
				Method:  MethodName,
				Err:     fmt.Sprintf("render %s: %v", pageURL, rerr),
				Elapsed: time.Since(start),
			}
		}
		candidates, err = m.extract(rendered, pageURL, company, cfg)
		if err != nil {
			return domain.MethodOutcome{
				Method:  MethodName,
				Err:     err.Error(),
				Elapsed: time.Since(start),
			}
		}
	}

	logger.Debug("static-site %s: %d candidates", company.Ticker, len(candidates))
	return domain.MethodOutcome{
		Method:     MethodName,
		Success:    len(candidates) > 0,
		Candidates: candidates,
		Elapsed:    time.Since(start),
	}
}

func (m *Method) extract(body, pageURL string, company domain.Company, cfg SiteConfig) ([]domain.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	linkSelector := cfg.LinkSelector
	if linkSelector == "" {
		linkSelector = defaultLinkSelector
	}
	titleSelector := cfg.TitleSelector
	if titleSelector == "" {
		titleSelector = defaultTitleSelector
	}
	dateSelector := cfg.DateSelector
	if dateSelector == "" {
		dateSelector = defaultDateSelector
	}

	now := m.now()
	seen := make(map[string]bool)
	var candidates []domain.Candidate

	doc.Find(linkSelector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}

		sourceURL := scrape.ResolveURL(pageURL, href)
		if seen[sourceURL] {
			return
		}
		seen[sourceURL] = true

		container := sel.Closest("li, div, article")

		title := strings.TrimSpace(sel.Text())
		if title == "" {
			title, _ = sel.Attr("title")
		}
		if title == "" {
			title = strings.TrimSpace(container.Find(titleSelector).First().Text())
		}
		if title == "" {
			title = "Áudio - " + company.Ticker
		}

		dateText := strings.TrimSpace(container.Find(dateSelector).First().Text())
		eventDate, hasDate := scrape.ParseDate(dateText)

		quarter, year, found := domain.ExtractQuarter(title)
		if !found {
			quarter = domain.QuarterUnknown
			year = now.Year()
		}

		candidates = append(candidates, domain.Candidate{
			Title:       title,
			SourceURL:   sourceURL,
			SourceType:  scrape.SourceTypeFor(sourceURL),
			EventDate:   scrape.EventDate(eventDate, hasDate, quarter, year, now),
			Quarter:     quarter,
			Year:        year,
			ContentType: domain.ClassifyContent(title),
			Method:      MethodName,
			Confidence:  methodConfidence,
		})
	})

	return candidates, nil
}
