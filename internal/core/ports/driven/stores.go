package driven

import (
	"context"

	"github.com/ristream/ricast/internal/core/domain"
)

// CompanyStore persists the company catalog.
type CompanyStore interface {
	// Get retrieves a company by ID.
	// Returns domain.ErrNotFound if the company doesn't exist.
	Get(ctx context.Context, id string) (*domain.Company, error)

	// GetByTicker retrieves a company by ticker symbol.
	// Returns domain.ErrNotFound if the company doesn't exist.
	GetByTicker(ctx context.Context, ticker string) (*domain.Company, error)

	// List returns all companies ordered by ticker.
	List(ctx context.Context) ([]domain.Company, error)

	// Save creates or updates a company.
	Save(ctx context.Context, company *domain.Company) error

	// SetBestMethod records the best-performing discovery method for a
	// company. This is the only write the discovery core performs on
	// companies.
	SetBestMethod(ctx context.Context, id, method string) error

	// Delete removes a company and its candidates.
	// Returns domain.ErrNotFound if the company doesn't exist.
	Delete(ctx context.Context, id string) error
}

// CandidateStore persists discovered candidates. It is the persistence
// gateway the discovery core hands consolidated results to; cross-run
// deduplication happens here via Exists before Insert.
type CandidateStore interface {
	// Exists reports whether a candidate with this source URL is already
	// stored for the company.
	Exists(ctx context.Context, companyID, sourceURL string) (bool, error)

	// Insert stores a new candidate for a company.
	Insert(ctx context.Context, companyID string, candidate *domain.Candidate) error

	// ListByCompany returns all stored candidates for a company, newest
	// event first.
	ListByCompany(ctx context.Context, companyID string) ([]domain.Candidate, error)
}

// PerformanceStore keeps a per-company history of method runs so the
// remembered best method is inspectable and survives restarts.
type PerformanceStore interface {
	// Record appends one method performance entry.
	Record(ctx context.Context, perf *domain.MethodPerformance) error

	// ListByCompany returns the recorded history for a company, newest
	// first.
	ListByCompany(ctx context.Context, companyID string) ([]domain.MethodPerformance, error)

	// Prune keeps only the most recent keep entries per company.
	Prune(ctx context.Context, keep int) error
}
