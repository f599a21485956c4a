package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ristream/ricast/internal/core/domain"
	"github.com/ristream/ricast/internal/core/ports/driven"
)

// Ensure CandidateStore implements the interface.
var _ driven.CandidateStore = (*CandidateStore)(nil)

// CandidateStore is an in-memory implementation of driven.CandidateStore.
type CandidateStore struct {
	mu sync.RWMutex
	// candidates is keyed by company ID, then source URL.
	candidates map[string]map[string]domain.Candidate
}

// NewCandidateStore creates a new in-memory candidate store.
func NewCandidateStore() *CandidateStore {
	return &CandidateStore{
		candidates: make(map[string]map[string]domain.Candidate),
	}
}

// Exists reports whether a candidate with this source URL is stored.
func (s *CandidateStore) Exists(_ context.Context, companyID, sourceURL string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.candidates[companyID][sourceURL]
	return ok, nil
}

// Insert stores a new candidate for a company.
func (s *CandidateStore) Insert(_ context.Context, companyID string, candidate *domain.Candidate) error {
	if candidate == nil {
		return domain.ErrInvalidInput
	}
	if err := candidate.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byURL, ok := s.candidates[companyID]
	if !ok {
		byURL = make(map[string]domain.Candidate)
		s.candidates[companyID] = byURL
	}
	if _, ok := byURL[candidate.SourceURL]; ok {
		return domain.ErrAlreadyExists
	}
	byURL[candidate.SourceURL] = *candidate
	return nil
}

// ListByCompany returns all stored candidates, newest event first.
func (s *CandidateStore) ListByCompany(_ context.Context, companyID string) ([]domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Candidate, 0, len(s.candidates[companyID]))
	for _, candidate := range s.candidates[companyID] {
		result = append(result, candidate)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EventDate.After(result[j].EventDate)
	})
	return result, nil
}
