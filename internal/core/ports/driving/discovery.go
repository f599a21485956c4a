package driving

import (
	"context"

	"github.com/ristream/ricast/internal/core/domain"
)

// Discoverer runs the adaptive multi-method discovery for companies.
type Discoverer interface {
	// Discover runs every applicable method for one company, consolidates
	// the outcomes and persists new candidates. The returned result always
	// reports what was tried and what went wrong; an error is returned
	// only for failures outside the methods themselves (unknown company,
	// store failures).
	Discover(ctx context.Context, companyID string) (*domain.ConsolidatedResult, error)

	// DiscoverAll runs discovery for every company in the catalog
	// sequentially, pausing between companies to avoid overloading source
	// sites. Per-company failures are collected into the summaries, not
	// returned as errors.
	DiscoverAll(ctx context.Context) ([]RunSummary, error)
}

// RunSummary is the per-company report of one batch discovery run.
type RunSummary struct {
	// CompanyID identifies the company.
	CompanyID string

	// Ticker is the company ticker, for display.
	Ticker string

	// NewCandidates is how many candidates were stored for the first time.
	NewCandidates int

	// TotalUnique is the number of unique candidates found this run.
	TotalUnique int

	// BestMethod is the best-performing method this run, if any.
	BestMethod string

	// Errors holds the failed methods' error descriptions.
	Errors []string
}
