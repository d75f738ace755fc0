// Package store defines the persistence contract for attendee records.
// Implementations: sheetstore (Google Sheets, the system of record) and
// pgstore (PostgreSQL, for installations that outgrow the sheet).
package store

import (
	"context"

	"github.com/dotuffour/retreat-portal/pkg/core/model"
)

// Ref identifies a record for a status patch. ID is the preferred handle;
// Position is the legacy physical row number kept for compatibility with
// the original client contract. At least one must be set.
type Ref struct {
	ID       string
	Position int
}

// Store is the full persistence interface. Services depend on narrower
// per-service interfaces; this one is what backends implement and what the
// wiring layer passes around.
type Store interface {
	// ListAttendees returns every record in store order (oldest first).
	// An empty or header-only store yields an empty slice, not an error.
	ListAttendees(ctx context.Context) ([]model.AttendeeRecord, error)

	// AppendAttendees persists the whole batch in a single write. No
	// partial-row writes: the batch lands whole or not at all.
	AppendAttendees(ctx context.Context, records []model.AttendeeRecord) error

	// ListNames returns the full-name column for duplicate detection.
	ListNames(ctx context.Context) ([]string, error)

	// Confirm patches the referenced record's status to Confirmed. The
	// transition is one-way and idempotent in effect.
	Confirm(ctx context.Context, ref Ref) error
}
