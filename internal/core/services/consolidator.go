package services

import (
	"sort"

	"github.com/ristream/ricast/internal/core/domain"
)

// Consolidate merges the outcomes of all discovery methods for one company
// into a deduplicated, confidence-ranked result.
//
// Candidates are flattened in registry order and deduplicated by source URL
// with first-occurrence-wins: identity equality implies identical underlying
// media, so confidence only matters for ranking non-duplicates. The
// surviving set is stably sorted descending by confidence, so candidates
// with equal confidence keep their flattening order.
//
// The best method is the successful outcome with the highest raw
// (pre-dedup) yield, ties broken by registry order.
//
// Pure, deterministic and total given well-formed outcomes.
func Consolidate(companyID string, outcomes []domain.MethodOutcome) *domain.ConsolidatedResult {
	result := &domain.ConsolidatedResult{
		CompanyID: companyID,
		Outcomes:  outcomes,
	}

	seen := make(map[string]bool)
	for i := range outcomes {
		for _, candidate := range outcomes[i].Candidates {
			if seen[candidate.SourceURL] {
				continue
			}
			seen[candidate.SourceURL] = true
			result.Candidates = append(result.Candidates, candidate)
		}
	}

	sort.SliceStable(result.Candidates, func(i, j int) bool {
		return result.Candidates[i].Confidence > result.Candidates[j].Confidence
	})

	bestYield := 0
	for i := range outcomes {
		if !outcomes[i].Success {
			if outcomes[i].Err != "" {
				result.Errors = append(result.Errors, outcomes[i].Method+": "+outcomes[i].Err)
			}
			continue
		}
		if outcomes[i].Yield() > bestYield {
			bestYield = outcomes[i].Yield()
			result.BestMethod = outcomes[i].Method
		}
	}

	return result
}
