package driven

import (
	"context"

	"github.com/ristream/ricast/internal/core/domain"
)

// DiscoveryMethod is one pluggable strategy for finding webcasts published
// by a company. Each variant (video API, static scraping, platform pattern,
// link scan) implements this single entry point.
//
// Run must never panic and has no error return: every failure - network,
// timeout, parse, quota - is caught inside the method and reported through
// the outcome's Err field with Success=false. A run that completes cleanly
// but finds nothing is also Success=false, so the consolidator can rank
// methods purely by yield.
//
// Methods receive read-only company metadata and must not share mutable
// state with concurrently running siblings.
type DiscoveryMethod interface {
	// Name returns the method's stable identifier, used as the candidate
	// provenance label and the best-method annotation.
	Name() string

	// Run executes the method for a company, honouring ctx cancellation
	// and deadline.
	Run(ctx context.Context, company domain.Company) domain.MethodOutcome
}
