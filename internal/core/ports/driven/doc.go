// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DiscoveryMethod: One pluggable strategy for finding webcasts
//   - CompanyStore: Company catalog persistence
//   - CandidateStore: Discovered candidate persistence
//   - PerformanceStore: Per-company method performance history
//   - Fetcher: HTTP document retrieval
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - VideoAPI: Video-platform search client. Without it, the video API
//     method reports itself as not applicable.
//   - PageRenderer: Full page rendering for JavaScript-heavy IR sites.
//     Without it, the static scraping method skips its rendered fallback.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or method package
package driven
