package domain

import "time"

// MethodOutcome is the result of running one discovery method once.
// An outcome is always produced, even when the method's underlying I/O
// fails: failure is data, never an unhandled fault.
type MethodOutcome struct {
	// Method names the discovery method that ran.
	Method string

	// Success is true only when the method produced at least one candidate
	// and encountered no error. A clean run with zero candidates is not a
	// success; this lets the consolidator rank methods purely by yield.
	Success bool

	// Candidates are the discovered records, possibly empty.
	Candidates []Candidate

	// Err is a human-readable description of the failure, empty on a
	// clean run.
	Err string

	// Elapsed is how long the method took.
	Elapsed time.Duration
}

// Yield returns the raw candidate count before any deduplication.
func (o *MethodOutcome) Yield() int {
	return len(o.Candidates)
}

// ConsolidatedResult is the per-company output of one discovery run.
// It is created fresh each run and never persisted verbatim; only its
// candidates and best-method label are.
type ConsolidatedResult struct {
	// CompanyID identifies the company this run was for.
	CompanyID string

	// Candidates is the deduplicated list, sorted descending by confidence.
	Candidates []Candidate

	// BestMethod is the method with the highest raw yield among successful
	// outcomes, ties broken by registry order. Empty when no method
	// succeeded.
	BestMethod string

	// Outcomes lists every method outcome in registry order, regardless of
	// completion order.
	Outcomes []MethodOutcome

	// Errors holds one description per failed outcome, in registry order.
	Errors []string
}

// MethodsAttempted returns the number of methods that ran.
func (r *ConsolidatedResult) MethodsAttempted() int {
	return len(r.Outcomes)
}

// MethodsSucceeded returns the number of methods that found candidates.
func (r *ConsolidatedResult) MethodsSucceeded() int {
	n := 0
	for i := range r.Outcomes {
		if r.Outcomes[i].Success {
			n++
		}
	}
	return n
}

// MethodPerformance is one persisted record of how a method performed for
// a company, kept so the remembered best method survives restarts.
type MethodPerformance struct {
	// CompanyID identifies the company.
	CompanyID string

	// Method names the discovery method.
	Method string

	// Success mirrors the outcome's success flag.
	Success bool

	// Candidates is the raw yield of the run.
	Candidates int

	// Elapsed is how long the method took.
	Elapsed time.Duration

	// RecordedAt is when the run finished.
	RecordedAt time.Time
}
