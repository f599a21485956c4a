// Package domain defines the core business entities for ricast.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Company: A listed company whose investor-relations media is discovered
//   - Candidate: One discovered webcast before deduplication
//   - MethodOutcome: The result of running one discovery method
//   - ConsolidatedResult: The merged, ranked output of one discovery run
//
// It also holds the pure classification logic: platform detection over
// signature tables, quarter-label extraction and content-type
// classification from free text.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
