package services

import (
	"github.com/ristream/ricast/internal/core/domain"
	"github.com/ristream/ricast/internal/core/ports/driven"
	"github.com/ristream/ricast/internal/logger"
)

// defaultMinPlatformConfidence is the detector confidence above which the
// platform-pattern method is attempted without a pre-registered config.
const defaultMinPlatformConfidence = 0.5

// MethodRegistry decides which discovery methods apply to a company.
// Selection is deterministic and side-effect-free; the order methods are
// returned in is the tie-break order used by consolidation.
type MethodRegistry struct {
	platformPattern driven.DiscoveryMethod
	videoAPI        driven.DiscoveryMethod
	staticSite      driven.DiscoveryMethod
	linkScan        driven.DiscoveryMethod

	// configuredTickers holds the tickers with a pre-registered
	// platform-pattern configuration.
	configuredTickers map[string]bool

	signatures    []domain.PlatformSignature
	minConfidence float64
}

// RegistryOption configures a MethodRegistry.
type RegistryOption func(*MethodRegistry)

// WithMinPlatformConfidence sets the detector confidence needed to select
// the platform-pattern method without a pre-registered config.
func WithMinPlatformConfidence(min float64) RegistryOption {
	return func(r *MethodRegistry) {
		if min > 0 {
			r.minConfidence = min
		}
	}
}

// NewMethodRegistry creates a registry over the four method variants.
// Any method may be nil, in which case it is never selected.
func NewMethodRegistry(
	platformPattern driven.DiscoveryMethod,
	videoAPI driven.DiscoveryMethod,
	staticSite driven.DiscoveryMethod,
	linkScan driven.DiscoveryMethod,
	configuredTickers []string,
	signatures []domain.PlatformSignature,
	opts ...RegistryOption,
) *MethodRegistry {
	tickers := make(map[string]bool, len(configuredTickers))
	for _, t := range configuredTickers {
		tickers[t] = true
	}
	if signatures == nil {
		signatures = domain.DefaultPlatformSignatures
	}
	r := &MethodRegistry{
		platformPattern:   platformPattern,
		videoAPI:          videoAPI,
		staticSite:        staticSite,
		linkScan:          linkScan,
		configuredTickers: tickers,
		signatures:        signatures,
		minConfidence:     defaultMinPlatformConfidence,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SelectMethods returns the methods applicable to a company:
//
//   - platform-pattern when a per-company configuration exists, or the
//     platform detector recognises the IR site URL with enough confidence
//   - video API only when a channel handle is present
//   - static scraping only when no per-company platform configuration
//     exists (a known-good specific method makes the generic attempt
//     redundant)
//   - link scan whenever an IR site URL exists, as a low-confidence
//     fallback
//
// When the company has a remembered best method it is moved to the front,
// so the strategy that worked last time also wins consolidation ties.
func (r *MethodRegistry) SelectMethods(company domain.Company) []driven.DiscoveryMethod {
	var methods []driven.DiscoveryMethod

	if r.platformPattern != nil && r.platformApplies(company) {
		methods = append(methods, r.platformPattern)
	}
	if r.videoAPI != nil && company.HasChannel() {
		methods = append(methods, r.videoAPI)
	}
	if r.staticSite != nil && company.HasIRSite() && !r.configuredTickers[company.Ticker] {
		methods = append(methods, r.staticSite)
	}
	if r.linkScan != nil && company.HasIRSite() {
		methods = append(methods, r.linkScan)
	}

	if company.BestMethod != "" {
		methods = promoteMethod(methods, company.BestMethod)
	}

	logger.Debug("Selected %d methods for %s", len(methods), company.Ticker)
	return methods
}

// platformApplies reports whether the platform-pattern method should run.
func (r *MethodRegistry) platformApplies(company domain.Company) bool {
	if r.configuredTickers[company.Ticker] {
		return true
	}
	if !company.HasIRSite() {
		return false
	}
	for _, match := range domain.DetectPlatform(company.IRSiteURL, "", r.signatures) {
		if match.Method == r.platformPattern.Name() && match.Confidence > r.minConfidence {
			return true
		}
	}
	return false
}

// promoteMethod moves the named method to the front, preserving the
// relative order of the rest.
func promoteMethod(methods []driven.DiscoveryMethod, name string) []driven.DiscoveryMethod {
	for i, m := range methods {
		if m.Name() == name && i > 0 {
			promoted := make([]driven.DiscoveryMethod, 0, len(methods))
			promoted = append(promoted, m)
			promoted = append(promoted, methods[:i]...)
			promoted = append(promoted, methods[i+1:]...)
			return promoted
		}
	}
	return methods
}
