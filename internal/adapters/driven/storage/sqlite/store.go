package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ristream/ricast/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/ristream/ricast/internal/core/domain"
	"github.com/ristream/ricast/internal/core/ports/driven"
)

// Store is the SQLite-backed catalog. It provides access to all store
// interfaces through wrapper types sharing one connection.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.ricast/data/catalog.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ricast", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "catalog.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CompanyStore returns a CompanyStore interface backed by this store.
func (s *Store) CompanyStore() driven.CompanyStore {
	return &companyStore{store: s}
}

// CandidateStore returns a CandidateStore interface backed by this store.
func (s *Store) CandidateStore() driven.CandidateStore {
	return &candidateStore{store: s}
}

// PerformanceStore returns a PerformanceStore interface backed by this store.
func (s *Store) PerformanceStore() driven.PerformanceStore {
	return &performanceStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Company Store ====================

type companyStore struct {
	store *Store
}

var _ driven.CompanyStore = (*companyStore)(nil)

const companyColumns = `id, ticker, name, sector, ir_site_url, channel_handle,
	best_method, created_at, updated_at`

// Save stores or updates a company.
func (s *companyStore) Save(ctx context.Context, company *domain.Company) error {
	if company == nil || company.Ticker == "" {
		return domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	if company.CreatedAt.IsZero() {
		company.CreatedAt = now
	}
	company.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO companies (id, ticker, name, sector, ir_site_url, channel_handle,
			best_method, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			ticker = excluded.ticker,
			name = excluded.name,
			sector = excluded.sector,
			ir_site_url = excluded.ir_site_url,
			channel_handle = excluded.channel_handle,
			best_method = excluded.best_method,
			updated_at = excluded.updated_at
	`, company.ID, company.Ticker, company.Name, company.Sector, company.IRSiteURL,
		company.ChannelHandle, company.BestMethod, company.CreatedAt, company.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving company: %w", err)
	}
	return nil
}

// Get retrieves a company by ID.
func (s *companyStore) Get(ctx context.Context, id string) (*domain.Company, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+companyColumns+" FROM companies WHERE id = ?", id)
	return scanCompany(row)
}

// GetByTicker retrieves a company by its ticker.
func (s *companyStore) GetByTicker(ctx context.Context, ticker string) (*domain.Company, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+companyColumns+" FROM companies WHERE ticker = ?", ticker)
	return scanCompany(row)
}

// List returns all companies ordered by ticker.
func (s *companyStore) List(ctx context.Context) ([]domain.Company, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+companyColumns+" FROM companies ORDER BY ticker")
	if err != nil {
		return nil, fmt.Errorf("querying companies: %w", err)
	}
	defer rows.Close()

	var companies []domain.Company //nolint:prealloc // size unknown from query
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.ID, &c.Ticker, &c.Name, &c.Sector, &c.IRSiteURL,
			&c.ChannelHandle, &c.BestMethod, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning company: %w", err)
		}
		companies = append(companies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating companies: %w", err)
	}

	return companies, nil
}

// SetBestMethod updates the remembered best discovery method.
func (s *companyStore) SetBestMethod(ctx context.Context, id, method string) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE companies SET best_method = ?, updated_at = ? WHERE id = ?
	`, method, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating best method: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a company and, through the foreign key, its candidates.
func (s *companyStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM companies WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting company: %w", err)
	}
	return nil
}

func scanCompany(row *sql.Row) (*domain.Company, error) {
	var c domain.Company
	if err := row.Scan(&c.ID, &c.Ticker, &c.Name, &c.Sector, &c.IRSiteURL,
		&c.ChannelHandle, &c.BestMethod, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning company: %w", err)
	}
	return &c, nil
}

// ==================== Candidate Store ====================

type candidateStore struct {
	store *Store
}

var _ driven.CandidateStore = (*candidateStore)(nil)

// Exists reports whether a candidate with this source URL is already stored
// for the company.
func (s *candidateStore) Exists(ctx context.Context, companyID, sourceURL string) (bool, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM candidates WHERE company_id = ? AND source_url = ?
	`, companyID, sourceURL).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking candidate: %w", err)
	}
	return count > 0, nil
}

// Insert stores a new candidate for a company.
func (s *candidateStore) Insert(ctx context.Context, companyID string, candidate *domain.Candidate) error {
	if candidate == nil {
		return domain.ErrInvalidInput
	}
	if err := candidate.Validate(); err != nil {
		return err
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO candidates (id, company_id, title, description, source_url,
			source_type, external_id, thumbnail_url, duration_seconds, event_date,
			quarter, year, content_type, method, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), companyID, candidate.Title, candidate.Description,
		candidate.SourceURL, string(candidate.SourceType), candidate.ExternalID,
		candidate.ThumbnailURL, candidate.DurationSeconds, candidate.EventDate.UTC(),
		candidate.Quarter, candidate.Year, string(candidate.ContentType),
		candidate.Method, candidate.Confidence, time.Now().UTC())

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("inserting candidate: %w", err)
	}
	return nil
}

// ListByCompany returns all stored candidates for a company, newest event
// first.
func (s *candidateStore) ListByCompany(ctx context.Context, companyID string) ([]domain.Candidate, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT title, description, source_url, source_type, external_id,
			thumbnail_url, duration_seconds, event_date, quarter, year,
			content_type, method, confidence
		FROM candidates
		WHERE company_id = ?
		ORDER BY event_date DESC
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	var candidates []domain.Candidate //nolint:prealloc // size unknown from query
	for rows.Next() {
		var c domain.Candidate
		var sourceType, contentType string
		if err := rows.Scan(&c.Title, &c.Description, &c.SourceURL, &sourceType,
			&c.ExternalID, &c.ThumbnailURL, &c.DurationSeconds, &c.EventDate,
			&c.Quarter, &c.Year, &contentType, &c.Method, &c.Confidence); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		c.SourceType = domain.SourceType(sourceType)
		c.ContentType = domain.ContentType(contentType)
		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating candidates: %w", err)
	}

	return candidates, nil
}

// ==================== Performance Store ====================

type performanceStore struct {
	store *Store
}

var _ driven.PerformanceStore = (*performanceStore)(nil)

// Record appends one method performance entry.
func (s *performanceStore) Record(ctx context.Context, perf *domain.MethodPerformance) error {
	if perf == nil || perf.CompanyID == "" || perf.Method == "" {
		return domain.ErrInvalidInput
	}

	recordedAt := perf.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO method_performance (id, company_id, method, success,
			candidates, elapsed_ms, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), perf.CompanyID, perf.Method, perf.Success,
		perf.Candidates, perf.Elapsed.Milliseconds(), recordedAt.UTC())

	if err != nil {
		return fmt.Errorf("recording performance: %w", err)
	}
	return nil
}

// ListByCompany returns the recorded history for a company, newest first.
func (s *performanceStore) ListByCompany(ctx context.Context, companyID string) ([]domain.MethodPerformance, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT company_id, method, success, candidates, elapsed_ms, recorded_at
		FROM method_performance
		WHERE company_id = ?
		ORDER BY recorded_at DESC
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("querying performance: %w", err)
	}
	defer rows.Close()

	var history []domain.MethodPerformance //nolint:prealloc // size unknown from query
	for rows.Next() {
		var p domain.MethodPerformance
		var elapsedMS int64
		if err := rows.Scan(&p.CompanyID, &p.Method, &p.Success, &p.Candidates,
			&elapsedMS, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning performance: %w", err)
		}
		p.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		history = append(history, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating performance: %w", err)
	}

	return history, nil
}

// Prune keeps only the most recent keep entries per company.
func (s *performanceStore) Prune(ctx context.Context, keep int) error {
	if keep < 0 {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM method_performance
		WHERE id NOT IN (
			SELECT id FROM method_performance AS recent
			WHERE recent.company_id = method_performance.company_id
			ORDER BY recent.recorded_at DESC
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning performance: %w", err)
	}
	return nil
}
