// Package sqlite provides the SQLite-backed persistence adapter for the
// discovery catalog: companies, their discovered candidates and the
// per-method performance history. One Store owns the connection and hands
// out typed wrappers implementing the driven store ports. The schema is
// managed through embedded SQL migrations.
package sqlite
