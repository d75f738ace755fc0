// Package pgstore is a PostgreSQL implementation of the attendee store, for
// deployments that have outgrown the spreadsheet. It preserves the sheet's
// position semantics through a serial row number.
package pgstore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dotuffour/retreat-portal/pkg/core/model"
	"github.com/dotuffour/retreat-portal/pkg/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store persists attendee records in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a PostgreSQL-backed store and verifies connectivity.
func New(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// RunMigrations executes all pending SQL migration files in order, tracking
// applied files in a schema_migrations table. Safe to run repeatedly.
func (s *Store) RunMigrations(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	rows, err := s.pool.Query(ctx, `SELECT filename FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("failed to query applied migrations: %w", err)
	}
	applied := make(map[string]bool)
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan migration filename: %w", err)
		}
		applied[filename] = true
	}
	rows.Close()

	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	for _, filename := range sqlFiles {
		if applied[filename] {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, "migrations/"+filename)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", filename, err)
		}

		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction for %s: %w", filename, err)
		}

		if _, err := tx.Exec(ctx, string(content)); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("failed to execute migration %s: %w", filename, err)
		}

		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (filename) VALUES ($1)`, filename); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("failed to record migration %s: %w", filename, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit migration %s: %w", filename, err)
		}
	}

	return nil
}

// ListAttendees returns every record in insertion order.
func (s *Store) ListAttendees(ctx context.Context) ([]model.AttendeeRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT position, id, submitted_at, full_name, phone, location,
		       ticket_kind, proof_image_url, status
		FROM attendees
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: query attendees: %v", model.ErrStoreRead, err)
	}
	defer rows.Close()

	records := make([]model.AttendeeRecord, 0)
	for rows.Next() {
		var r model.AttendeeRecord
		var ticketKind, status string
		if err := rows.Scan(&r.Position, &r.ID, &r.SubmittedAt, &r.FullName,
			&r.Phone, &r.Location, &ticketKind, &r.ProofImageURL, &status); err != nil {
			return nil, fmt.Errorf("%w: scan attendee: %v", model.ErrStoreRead, err)
		}
		// Present the serial as a sheet-style position: the sheet's first
		// data row is 2 because row 1 holds the header.
		r.Position++
		r.TicketKind = model.ParseTicketKind(ticketKind)
		r.Status = model.ParseStatus(status)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate attendees: %v", model.ErrStoreRead, err)
	}

	return records, nil
}

// AppendAttendees inserts the whole batch in one transaction.
func (s *Store) AppendAttendees(ctx context.Context, records []model.AttendeeRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", model.ErrStoreWrite, err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		_, err := tx.Exec(ctx, `
			INSERT INTO attendees (id, submitted_at, full_name, phone, location,
			                       ticket_kind, proof_image_url, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, r.ID, r.SubmittedAt, r.FullName, r.Phone, r.Location,
			string(r.TicketKind), r.ProofImageURL, string(r.Status))
		if err != nil {
			return fmt.Errorf("%w: insert attendee: %v", model.ErrStoreWrite, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", model.ErrStoreWrite, err)
	}

	return nil
}

// ListNames returns all full names for duplicate detection.
func (s *Store) ListNames(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT full_name FROM attendees ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%w: query names: %v", model.ErrStoreRead, err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: scan name: %v", model.ErrStoreRead, err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate names: %v", model.ErrStoreRead, err)
	}

	return names, nil
}

// Confirm sets the referenced record's status to Confirmed. Confirming an
// already-confirmed record is a no-op, matching the sheet's semantics.
func (s *Store) Confirm(ctx context.Context, ref store.Ref) error {
	var (
		tag pgconn.CommandTag
		err error
	)

	switch {
	case ref.ID != "":
		tag, err = s.pool.Exec(ctx, `
			UPDATE attendees SET status = $2 WHERE id = $1
		`, ref.ID, string(model.StatusConfirmed))
	case ref.Position >= 2:
		// Sheet positions start at 2 (row 1 is the header); the serial
		// column counts from 1.
		tag, err = s.pool.Exec(ctx, `
			UPDATE attendees SET status = $2 WHERE position = $1
		`, ref.Position-1, string(model.StatusConfirmed))
	default:
		return fmt.Errorf("%w: confirm requires an id or a data-row position", model.ErrValidation)
	}

	if err != nil {
		return fmt.Errorf("%w: update status: %v", model.ErrStoreWrite, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: no matching attendee", model.ErrNotFound)
	}

	return nil
}

var _ store.Store = (*Store)(nil)
