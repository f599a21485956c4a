package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ristream/ricast/internal/core/domain"
	"github.com/ristream/ricast/internal/core/ports/driven"
)

// Ensure PerformanceStore implements the interface.
var _ driven.PerformanceStore = (*PerformanceStore)(nil)

// PerformanceStore is an in-memory implementation of driven.PerformanceStore.
type PerformanceStore struct {
	mu      sync.RWMutex
	history map[string][]domain.MethodPerformance
}

// NewPerformanceStore creates a new in-memory performance store.
func NewPerformanceStore() *PerformanceStore {
	return &PerformanceStore{
		history: make(map[string][]domain.MethodPerformance),
	}
}

// Record appends one method performance entry.
func (s *PerformanceStore) Record(_ context.Context, perf *domain.MethodPerformance) error {
	if perf == nil || perf.CompanyID == "" || perf.Method == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[perf.CompanyID] = append(s.history[perf.CompanyID], *perf)
	return nil
}

// ListByCompany returns the recorded history, newest first.
func (s *PerformanceStore) ListByCompany(_ context.Context, companyID string) ([]domain.MethodPerformance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.MethodPerformance, len(s.history[companyID]))
	copy(result, s.history[companyID])
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].RecordedAt.After(result[j].RecordedAt)
	})
	return result, nil
}

// Prune keeps only the most recent keep entries per company.
func (s *PerformanceStore) Prune(_ context.Context, keep int) error {
	if keep < 0 {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for companyID, entries := range s.history {
		if len(entries) <= keep {
			continue
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].RecordedAt.After(entries[j].RecordedAt)
		})
		trimmed := make([]domain.MethodPerformance, keep)
		copy(trimmed, entries[:keep])
		s.history[companyID] = trimmed
	}
	return nil
}
