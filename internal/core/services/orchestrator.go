package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ristream/ricast/internal/core/domain"
	"github.com/ristream/ricast/internal/core/ports/driven"
	"github.com/ristream/ricast/internal/core/ports/driving"
	"github.com/ristream/ricast/internal/logger"
)

// Ensure DiscoveryOrchestrator implements the interface.
var _ driving.Discoverer = (*DiscoveryOrchestrator)(nil)

// defaultMethodTimeout bounds a single method run when no per-method
// timeout is configured.
const defaultMethodTimeout = 20 * time.Second

// defaultBatchDelay is the pause between companies in a batch run, so
// source sites are not hammered.
const defaultBatchDelay = 3 * time.Second

// defaultPerformanceKeep is how many performance rows are retained per
// company when no retention is configured.
const defaultPerformanceKeep = 100

// DiscoveryOrchestrator fans out every applicable discovery method for a
// company, tolerates partial failure, consolidates the outcomes and
// persists what survived. Methods run fully isolated: no failure, panic or
// slowness of one may block or cancel another.
type DiscoveryOrchestrator struct {
	companyStore     driven.CompanyStore
	candidateStore   driven.CandidateStore
	performanceStore driven.PerformanceStore
	registry         *MethodRegistry

	// methodTimeouts overrides the default per-method time budget,
	// keyed by method name.
	methodTimeouts  map[string]time.Duration
	batchDelay      time.Duration
	performanceKeep int
}

// OrchestratorOption configures a DiscoveryOrchestrator.
type OrchestratorOption func(*DiscoveryOrchestrator)

// WithMethodTimeout sets the time budget for one method.
func WithMethodTimeout(method string, timeout time.Duration) OrchestratorOption {
	return func(o *DiscoveryOrchestrator) {
		o.methodTimeouts[method] = timeout
	}
}

// WithBatchDelay sets the pause between companies in DiscoverAll.
func WithBatchDelay(delay time.Duration) OrchestratorOption {
	return func(o *DiscoveryOrchestrator) {
		o.batchDelay = delay
	}
}

// WithPerformanceHistory sets how many performance rows are retained per
// company.
func WithPerformanceHistory(keep int) OrchestratorOption {
	return func(o *DiscoveryOrchestrator) {
		if keep > 0 {
			o.performanceKeep = keep
		}
	}
}

// NewDiscoveryOrchestrator creates a discovery orchestrator.
// The performanceStore is optional - if nil, method performance history is
// not recorded.
func NewDiscoveryOrchestrator(
	companyStore driven.CompanyStore,
	candidateStore driven.CandidateStore,
	performanceStore driven.PerformanceStore,
	registry *MethodRegistry,
	opts ...OrchestratorOption,
) *DiscoveryOrchestrator {
	o := &DiscoveryOrchestrator{
		companyStore:     companyStore,
		candidateStore:   candidateStore,
		performanceStore: performanceStore,
		registry:         registry,
		methodTimeouts:   make(map[string]time.Duration),
		batchDelay:       defaultBatchDelay,
		performanceKeep:  defaultPerformanceKeep,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Discover runs every applicable method for one company.
func (o *DiscoveryOrchestrator) Discover(ctx context.Context, companyID string) (*domain.ConsolidatedResult, error) {
	result, _, err := o.discoverCompany(ctx, companyID)
	return result, err
}

// discoverCompany is the full run: select, fan out, consolidate, persist.
// Returns the result and the number of candidates stored for the first time.
func (o *DiscoveryOrchestrator) discoverCompany(ctx context.Context, companyID string) (*domain.ConsolidatedResult, int, error) {
	company, err := o.companyStore.Get(ctx, companyID)
	if err != nil {
		return nil, 0, fmt.Errorf("get company: %w", err)
	}

	logger.Section("Discovery: " + company.Ticker)

	methods := o.registry.SelectMethods(*company)
	outcomes := o.runAll(ctx, *company, methods)

	result := Consolidate(companyID, outcomes)
	logger.Info("%s: %d methods, %d succeeded, %d unique candidates, best=%q",
		company.Ticker, result.MethodsAttempted(), result.MethodsSucceeded(),
		len(result.Candidates), result.BestMethod)

	stored, err := o.persist(ctx, company, result)
	if err != nil {
		return nil, 0, err
	}

	return result, stored, nil
}

// runAll launches all methods concurrently and joins them. Outcomes are
// placed by registry index, so the listing order in the result is the
// registry order regardless of completion order.
func (o *DiscoveryOrchestrator) runAll(
	ctx context.Context,
	company domain.Company,
	methods []driven.DiscoveryMethod,
) []domain.MethodOutcome {
	outcomes := make([]domain.MethodOutcome, len(methods))

	var wg sync.WaitGroup
	for i, method := range methods {
		wg.Add(1)
		go func(i int, method driven.DiscoveryMethod) {
			defer wg.Done()
			outcomes[i] = o.runOne(ctx, company, method)
		}(i, method)
	}
	wg.Wait()

	return outcomes
}

// runOne executes a single method with its own timeout and panic isolation.
// A method that ignores its context and overruns the budget is abandoned;
// its slot still receives a timeout outcome so the join always completes.
func (o *DiscoveryOrchestrator) runOne(
	ctx context.Context,
	company domain.Company,
	method driven.DiscoveryMethod,
) domain.MethodOutcome {
	timeout := defaultMethodTimeout
	if t, ok := o.methodTimeouts[method.Name()]; ok {
		timeout = t
	}

	mctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan domain.MethodOutcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- domain.MethodOutcome{
					Method:  method.Name(),
					Success: false,
					Err:     fmt.Sprintf("method panicked: %v", r),
					Elapsed: time.Since(start),
				}
			}
		}()
		done <- method.Run(mctx, company)
	}()

	select {
	case outcome := <-done:
		logger.Debug("%s: success=%t candidates=%d elapsed=%s err=%q",
			outcome.Method, outcome.Success, outcome.Yield(), outcome.Elapsed, outcome.Err)
		return outcome
	case <-mctx.Done():
		logger.Debug("%s: abandoned after %s", method.Name(), timeout)
		return domain.MethodOutcome{
			Method:  method.Name(),
			Success: false,
			Err:     domain.ErrTimeout.Error(),
			Elapsed: time.Since(start),
		}
	}
}

// persist stores new candidates, updates the company's best method and
// records per-method performance. Individual candidate failures are
// collected into the result's error list rather than aborting the run.
func (o *DiscoveryOrchestrator) persist(
	ctx context.Context,
	company *domain.Company,
	result *domain.ConsolidatedResult,
) (int, error) {
	stored := 0
	for i := range result.Candidates {
		candidate := &result.Candidates[i]

		exists, err := o.candidateStore.Exists(ctx, company.ID, candidate.SourceURL)
		if err != nil {
			return stored, fmt.Errorf("check candidate: %w", err)
		}
		if exists {
			continue
		}

		if err := o.candidateStore.Insert(ctx, company.ID, candidate); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("store candidate %s: %v", candidate.SourceURL, err))
			continue
		}
		stored++
	}

	if result.BestMethod != "" {
		if err := o.companyStore.SetBestMethod(ctx, company.ID, result.BestMethod); err != nil {
			return stored, fmt.Errorf("record best method: %w", err)
		}
	}

	o.recordPerformance(ctx, company.ID, result.Outcomes)

	logger.Info("%s: %d new candidates stored", company.Ticker, stored)
	return stored, nil
}

// recordPerformance appends one history row per outcome. Best effort: a
// failing history store must not fail the discovery run.
func (o *DiscoveryOrchestrator) recordPerformance(ctx context.Context, companyID string, outcomes []domain.MethodOutcome) {
	if o.performanceStore == nil {
		return
	}

	now := time.Now()
	for i := range outcomes {
		perf := &domain.MethodPerformance{
			CompanyID:  companyID,
			Method:     outcomes[i].Method,
			Success:    outcomes[i].Success,
			Candidates: outcomes[i].Yield(),
			Elapsed:    outcomes[i].Elapsed,
			RecordedAt: now,
		}
		if err := o.performanceStore.Record(ctx, perf); err != nil {
			logger.Warn("Failed to record performance for %s: %v", outcomes[i].Method, err)
		}
	}

	if err := o.performanceStore.Prune(ctx, o.performanceKeep); err != nil {
		logger.Warn("Failed to prune performance history: %v", err)
	}
}

// DiscoverAll runs discovery for the whole catalog sequentially with a
// fixed delay between companies.
func (o *DiscoveryOrchestrator) DiscoverAll(ctx context.Context) ([]driving.RunSummary, error) {
	companies, err := o.companyStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}

	summaries := make([]driving.RunSummary, 0, len(companies))
	for i := range companies {
		company := &companies[i]

		result, stored, err := o.discoverCompany(ctx, company.ID)
		summary := driving.RunSummary{
			CompanyID: company.ID,
			Ticker:    company.Ticker,
		}
		if err != nil {
			summary.Errors = []string{err.Error()}
		} else {
			summary.NewCandidates = stored
			summary.TotalUnique = len(result.Candidates)
			summary.BestMethod = result.BestMethod
			summary.Errors = result.Errors
		}
		summaries = append(summaries, summary)

		if i < len(companies)-1 {
			select {
			case <-ctx.Done():
				return summaries, ctx.Err()
			case <-time.After(o.batchDelay):
			}
		}
	}

	return summaries, nil
}
