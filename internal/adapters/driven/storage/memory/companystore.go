// Package memory provides in-memory implementations of the storage ports,
// used in tests and as a fallback when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ristream/ricast/internal/core/domain"
	"github.com/ristream/ricast/internal/core/ports/driven"
)

// Ensure CompanyStore implements the interface.
var _ driven.CompanyStore = (*CompanyStore)(nil)

// CompanyStore is an in-memory implementation of driven.CompanyStore.
type CompanyStore struct {
	mu        sync.RWMutex
	companies map[string]domain.Company
}

// NewCompanyStore creates a new in-memory company store.
func NewCompanyStore() *CompanyStore {
	return &CompanyStore{
		companies: make(map[string]domain.Company),
	}
}

// Get retrieves a company by ID.
func (s *CompanyStore) Get(_ context.Context, id string) (*domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	company, ok := s.companies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &company, nil
}

// GetByTicker retrieves a company by ticker symbol.
func (s *CompanyStore) GetByTicker(_ context.Context, ticker string) (*domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, company := range s.companies {
		if company.Ticker == ticker {
			return &company, nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns all companies ordered by ticker.
func (s *CompanyStore) List(_ context.Context) ([]domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Company, 0, len(s.companies))
	for _, company := range s.companies {
		result = append(result, company)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Ticker < result[j].Ticker
	})
	return result, nil
}

// Save stores or updates a company.
func (s *CompanyStore) Save(_ context.Context, company *domain.Company) error {
	if company == nil || company.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[company.ID] = *company
	return nil
}

// SetBestMethod records the best-performing discovery method.
func (s *CompanyStore) SetBestMethod(_ context.Context, id, method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	company, ok := s.companies[id]
	if !ok {
		return domain.ErrNotFound
	}
	company.BestMethod = method
	s.companies[id] = company
	return nil
}

// Delete removes a company.
func (s *CompanyStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.companies, id)
	return nil
}
