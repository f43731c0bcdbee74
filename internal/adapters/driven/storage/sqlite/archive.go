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

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/granola-sync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/granola-sync/internal/core/domain"
	"github.com/custodia-labs/granola-sync/internal/core/ports/driven"
)

// Ensure Archive implements the interface.
var _ driven.DeliveryArchive = (*Archive)(nil)

// Archive is a SQLite-backed journal of confirmed webhook deliveries.
type Archive struct {
	db   *sql.DB
	path string
}

// NewArchive creates the archive database under the given data
// directory. If dataDir is empty, defaults to ~/.granola-sync/data.
func NewArchive(dataDir string) (*Archive, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".granola-sync", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "archive.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	a := &Archive{
		db:   db,
		path: dbPath,
	}

	if err := a.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return a, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Path returns the database file path.
func (a *Archive) Path() string {
	return a.path
}

// Record journals one confirmed delivery.
func (a *Archive) Record(ctx context.Context, payload *domain.Payload) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO deliveries (run_id, document_id, title, customer, meeting_type, delivered_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, payload.SyncRunID, payload.DocumentID, payload.Title,
		payload.Customer, payload.MeetingType, payload.SyncedAt)

	if err != nil {
		return fmt.Errorf("recording delivery: %w", err)
	}
	return nil
}

// Recent returns the most recent deliveries, newest first.
func (a *Archive) Recent(ctx context.Context, limit int) ([]driven.DeliveryRecord, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT document_id, title, run_id, delivered_at
		FROM deliveries
		ORDER BY delivered_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying deliveries: %w", err)
	}
	defer rows.Close()

	var records []driven.DeliveryRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec driven.DeliveryRecord
		if err := rows.Scan(&rec.DocumentID, &rec.Title, &rec.SyncRunID, &rec.DeliveredAt); err != nil {
			return nil, fmt.Errorf("scanning delivery: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deliveries: %w", err)
	}

	return records, nil
}

// Summary aggregates the archive.
func (a *Archive) Summary(ctx context.Context) (*driven.ArchiveSummary, error) {
	var summary driven.ArchiveSummary
	err := a.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT run_id)
		FROM deliveries
	`).Scan(&summary.Deliveries, &summary.Runs)
	if err != nil {
		return nil, fmt.Errorf("summarising deliveries: %w", err)
	}

	// MAX() over a DATETIME column comes back as TEXT from the driver,
	// so the newest timestamp is read as a plain row instead.
	var last time.Time
	err = a.db.QueryRowContext(ctx, `
		SELECT delivered_at
		FROM deliveries
		ORDER BY delivered_at DESC, id DESC
		LIMIT 1
	`).Scan(&last)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("reading last delivery: %w", err)
	default:
		summary.LastDelivered = last
	}

	return &summary, nil
}

// migrate runs all pending migrations.
func (a *Archive) migrate(fsys embed.FS) error {
	_, err := a.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := a.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
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

		if _, err := a.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := a.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
