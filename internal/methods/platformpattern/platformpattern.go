// Package platformpattern implements the platform-pattern discovery method.
// Most Brazilian listed companies delegate their IR media hosting to a
// handful of platforms with recognisable URL shapes; once a platform is
// identified the links to its file API can be harvested directly, which is
// far more precise than generic scraping.
package platformpattern

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
const MethodName = "platform-pattern"

// configuredConfidence applies when the company carries a hand-checked
// platform configuration.
const configuredConfidence = 0.85

// autoDetectDiscount scales the detector's confidence when the platform was
// inferred from the IR URL rather than configured.
const autoDetectDiscount = 0.8

// defaultMinDetectConfidence is the detector score needed to attempt an
// unconfigured company.
const defaultMinDetectConfidence = 0.5

// renderThreshold mirrors the static method: a small document with none of
// the expected platform links probably builds its tables client-side.
const renderThreshold = 50000

// platformLinkSelector matches anchors pointing at the MZ file API.
const platformLinkSelector = `a[href*="api.mziq.com"], a[href*="mzfilemanager"]`

// directAudioSelector picks up plain audio files on the same page.
const directAudioSelector = `a[href$=".mp3"], a[href$=".m4a"], a[href$=".wav"]`

var defaultAudioKeywords = []string{
	"áudio",
	"audio",
	"teleconferência",
	"teleconferencia",
	"webcast",
	"podcast",
	"conference call",
	"earnings call",
}

var defaultExcludeKeywords = []string{
	"transcrição",
	"transcricao",
	"apresentação",
	"apresentacao",
	"release",
	"pdf",
}

// CompanyConfig is a hand-checked platform configuration for one company.
type CompanyConfig struct {
	// Name is the display name used when a link has no usable title.
	Name string

	// URLs are the result-center pages to harvest.
	URLs []string

	// AudioKeywords overrides the default include list.
	AudioKeywords []string

	// ExcludeKeywords overrides the default exclude list.
	ExcludeKeywords []string
}

var _ driven.DiscoveryMethod = (*Method)(nil)

// Method harvests platform file-API links from IR result pages.
type Method struct {
	fetcher    driven.Fetcher
	renderer   driven.PageRenderer
	configs    map[string]CompanyConfig
	signatures []domain.PlatformSignature
	minDetect  float64
	now        func() time.Time
}

// Option configures a Method.
type Option func(*Method)

// WithMinDetectConfidence sets the detector score needed to attempt an
// unconfigured company. Keep it aligned with the registry's selection
// threshold, or selected runs will bail out here.
func WithMinDetectConfidence(min float64) Option {
	return func(m *Method) {
		if min > 0 {
			m.minDetect = min
		}
	}
}

// New creates the platform-pattern method. renderer may be nil. configs is
// keyed by ticker; companies without a config are still attempted when the
// platform detector recognises their IR URL.
func New(fetcher driven.Fetcher, renderer driven.PageRenderer, configs map[string]CompanyConfig, opts ...Option) *Method {
	m := &Method{
		fetcher:    fetcher,
		renderer:   renderer,
		configs:    configs,
		signatures: domain.DefaultPlatformSignatures,
		minDetect:  defaultMinDetectConfidence,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the method identifier.
func (m *Method) Name() string { return MethodName }

// Run harvests every configured (or detected) results page for the company.
func (m *Method) Run(ctx context.Context, company domain.Company) domain.MethodOutcome {
	start := time.Now()

	cfg, confidence, ok := m.resolveConfig(company)
	if !ok {
		return domain.MethodOutcome{Method: MethodName, Elapsed: time.Since(start)}
	}

	var candidates []domain.Candidate
	var errs []string
	seen := make(map[string]bool)

	for _, pageURL := range cfg.URLs {
		found, err := m.harvest(ctx, pageURL, cfg, confidence, seen)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		candidates = append(candidates, found...)
	}

	outcome := domain.MethodOutcome{
		Method:     MethodName,
		Success:    len(candidates) > 0,
		Candidates: candidates,
		Elapsed:    time.Since(start),
	}
	// Pages that failed outright only count as an error when nothing was
	// harvested at all.
	if len(candidates) == 0 && len(errs) > 0 {
		outcome.Err = strings.Join(errs, "; ")
	}

	logger.Debug("platform-pattern %s: %d candidates", company.Ticker, len(candidates))
	return outcome
}

// resolveConfig returns the pages to harvest and the confidence to stamp on
// the results: the hand-checked config when present, otherwise an automatic
// config at a discounted detector confidence.
func (m *Method) resolveConfig(company domain.Company) (CompanyConfig, float64, bool) {
	if cfg, ok := m.configs[company.Ticker]; ok {
		if cfg.Name == "" {
			cfg.Name = company.Name
		}
		return cfg, configuredConfidence, true
	}

	if !company.HasIRSite() {
		return CompanyConfig{}, 0, false
	}
	for _, match := range domain.DetectPlatform(company.IRSiteURL, "", m.signatures) {
		if match.Method == MethodName && match.Confidence > m.minDetect {
			return CompanyConfig{
				Name: company.Name,
				URLs: []string{company.IRSiteURL},
			}, match.Confidence * autoDetectDiscount, true
		}
	}
	return CompanyConfig{}, 0, false
}

func (m *Method) harvest(
	ctx context.Context,
	pageURL string,
	cfg CompanyConfig,
	confidence float64,
	seen map[string]bool,
) ([]domain.Candidate, error) {
	res, err := m.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	if res.StatusCode != 200 {
		return nil, fmt.Errorf("fetch %s: HTTP %d", pageURL, res.StatusCode)
	}

	body := res.Body
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	// MZ result centers often push their file tables in with JavaScript;
	// when the static document shows the platform markers but no links,
	// only a rendered copy will do.
	if doc.Find(platformLinkSelector).Length() == 0 &&
		(strings.Contains(body, "categories.push") || len(body) < renderThreshold) &&
		m.renderer != nil {
		logger.Debug("platform-pattern: rendering %s", pageURL)

		rendered, rerr := m.renderer.Render(ctx, pageURL)
		if rerr != nil {
			return nil, fmt.Errorf("render %s: %w", pageURL, rerr)
		}
		body = rendered
		doc, err = goquery.NewDocumentFromReader(strings.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("parse rendered %s: %w", pageURL, err)
		}
	}

	audioKeywords := cfg.AudioKeywords
	if audioKeywords == nil {
		audioKeywords = defaultAudioKeywords
	}
	excludeKeywords := cfg.ExcludeKeywords
	if excludeKeywords == nil {
		excludeKeywords = defaultExcludeKeywords
	}

	now := m.now()
	var candidates []domain.Candidate

	doc.Find(platformLinkSelector).Each(func(_ int, sel *goquery.Selection) {
		if c, ok := m.candidateFromLink(sel, pageURL, cfg, confidence, audioKeywords, excludeKeywords, seen, now, true); ok {
			candidates = append(candidates, c)
		}
	})

	doc.Find(directAudioSelector).Each(func(_ int, sel *goquery.Selection) {
		if c, ok := m.candidateFromLink(sel, pageURL, cfg, confidence, audioKeywords, excludeKeywords, seen, now, false); ok {
			candidates = append(candidates, c)
		}
	})

	return candidates, nil
}

// candidateFromLink turns one anchor into a candidate, or rejects it.
// Platform file-API links go through the keyword filter; direct audio files
// only need a quarter.
func (m *Method) candidateFromLink(
	sel *goquery.Selection,
	pageURL string,
	cfg CompanyConfig,
	confidence float64,
	audioKeywords, excludeKeywords []string,
	seen map[string]bool,
	now time.Time,
	platformLink bool,
) (domain.Candidate, bool) {
	href, ok := sel.Attr("href")
	if !ok || href == "" {
		return domain.Candidate{}, false
	}

	sourceURL := scrape.ResolveURL(pageURL, href)
	if seen[sourceURL] {
		return domain.Candidate{}, false
	}

	linkText, rowText := scrape.LinkContext(sel)
	fullContext := strings.ToLower(linkText + " " + rowText)

	if platformLink {
		isAudio := containsAny(fullContext, audioKeywords)
		isExcluded := containsAny(fullContext, excludeKeywords)

		// No keyword either way: only rows that at least talk about
		// results are worth keeping.
		if !isAudio && !isExcluded &&
			!strings.Contains(fullContext, "resultado") &&
			!strings.Contains(fullContext, "earning") {
			return domain.Candidate{}, false
		}
		// Excluded material survives only when explicitly labelled audio.
		if isExcluded && !strings.Contains(fullContext, "áudio") && !strings.Contains(fullContext, "audio") {
			return domain.Candidate{}, false
		}
	}

	quarter, year, found := domain.ExtractQuarter(linkText + " " + rowText)
	if !found {
		logger.Debug("platform-pattern: no quarter in %q", linkText)
		return domain.Candidate{}, false
	}

	title := strings.TrimSpace(linkText)
	if title == "" {
		title = cfg.Name + " - " + quarter
	} else if len(title) < 30 && !strings.Contains(strings.ToLower(title), strings.ToLower(cfg.Name)) {
		title = cfg.Name + " - " + title
	}

	seen[sourceURL] = true

	// Platform file-API links serve the media file directly even without an
	// extension in the URL.
	sourceType := scrape.SourceTypeFor(sourceURL)
	if platformLink {
		sourceType = domain.SourceMediaFile
	}

	return domain.Candidate{
		Title:       title,
		Description: fmt.Sprintf("Teleconferência de resultados %s - %s", quarter, cfg.Name),
		SourceURL:   sourceURL,
		SourceType:  sourceType,
		EventDate:   domain.QuarterEndDate(domain.QuarterNumber(quarter), year, now),
		Quarter:     quarter,
		Year:        year,
		ContentType: domain.ClassifyContent(fullContext),
		Method:      MethodName,
		Confidence:  confidence,
	}, true
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
