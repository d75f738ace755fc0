package sheetstore

import (
	"context"
	"fmt"

	"github.com/dotuffour/retreat-portal/pkg/core/model"
	"github.com/dotuffour/retreat-portal/pkg/store"
)

// Fixed column layout of the registration tab. Row 1 is the header; the
// first data row is physical row 2.
const (
	colSubmittedAt = iota
	colFullName
	colPhone
	colLocation
	colTicketKind
	colProofImageURL
	colStatus
	colID

	columnCount = colID + 1
)

// firstDataRow is the physical row number of the first data row.
const firstDataRow = 2

// SheetsAPI is the subset of the sheets client the store needs. Satisfied
// by *sheetsclient.Client.
type SheetsAPI interface {
	GetValues(ctx context.Context, readRange string) ([][]interface{}, error)
	AppendRows(ctx context.Context, appendRange string, rows [][]interface{}) error
	UpdateCell(ctx context.Context, a1 string, value interface{}) error
}

// Store persists attendee records in a Google Sheets tab.
type Store struct {
	client SheetsAPI
	tab    string
}

// New creates a sheet-backed store over the given tab (e.g. "Sheet1").
func New(client SheetsAPI, tab string) *Store {
	return &Store{
		client: client,
		tab:    tab,
	}
}

// ListAttendees reads every row and maps each positionally into a record,
// substituting defaults for missing columns so malformed historical rows
// never break rendering.
func (s *Store) ListAttendees(ctx context.Context) ([]model.AttendeeRecord, error) {
	values, err := s.client.GetValues(ctx, s.dataRange())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreRead, err)
	}

	records := make([]model.AttendeeRecord, 0)
	if len(values) < firstDataRow {
		// Empty sheet or header only.
		return records, nil
	}

	for i := 1; i < len(values); i++ {
		row := values[i]
		records = append(records, model.AttendeeRecord{
			ID:            cell(row, colID),
			Position:      i + 1,
			SubmittedAt:   cell(row, colSubmittedAt),
			FullName:      cell(row, colFullName),
			Phone:         cell(row, colPhone),
			Location:      cell(row, colLocation),
			TicketKind:    model.ParseTicketKind(cell(row, colTicketKind)),
			ProofImageURL: cell(row, colProofImageURL),
			Status:        model.ParseStatus(cell(row, colStatus)),
		})
	}

	return records, nil
}

// AppendAttendees writes the whole batch in one append call.
func (s *Store) AppendAttendees(ctx context.Context, records []model.AttendeeRecord) error {
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{
			r.SubmittedAt,
			r.FullName,
			r.Phone,
			r.Location,
			string(r.TicketKind),
			r.ProofImageURL,
			string(r.Status),
			r.ID,
		})
	}

	if err := s.client.AppendRows(ctx, s.dataRange(), rows); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStoreWrite, err)
	}

	return nil
}

// ListNames returns the full-name column, skipping the header.
func (s *Store) ListNames(ctx context.Context) ([]string, error) {
	values, err := s.client.GetValues(ctx, fmt.Sprintf("%s!B%d:B", s.tab, firstDataRow))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreRead, err)
	}

	names := make([]string, 0, len(values))
	for _, row := range values {
		names = append(names, cell(row, 0))
	}

	return names, nil
}

// Confirm patches the status cell of the referenced row to Confirmed.
// References by ID are resolved to a physical row at write time, so logical
// identity stays decoupled from storage position.
func (s *Store) Confirm(ctx context.Context, ref store.Ref) error {
	row := ref.Position

	if ref.ID != "" {
		resolved, err := s.resolveRow(ctx, ref.ID)
		if err != nil {
			return err
		}
		row = resolved
	}

	if row < firstDataRow {
		return fmt.Errorf("%w: row %d is not a data row", model.ErrValidation, row)
	}

	a1 := fmt.Sprintf("%s!G%d", s.tab, row)
	if err := s.client.UpdateCell(ctx, a1, string(model.StatusConfirmed)); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStoreWrite, err)
	}

	return nil
}

// resolveRow scans the id column for the given record ID and returns its
// physical row number.
func (s *Store) resolveRow(ctx context.Context, id string) (int, error) {
	values, err := s.client.GetValues(ctx, fmt.Sprintf("%s!H%d:H", s.tab, firstDataRow))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrStoreRead, err)
	}

	for i, row := range values {
		if cell(row, 0) == id {
			return i + firstDataRow, nil
		}
	}

	return 0, fmt.Errorf("%w: id %s", model.ErrNotFound, id)
}

func (s *Store) dataRange() string {
	return fmt.Sprintf("%s!A:H", s.tab)
}

// cell returns the string value at idx, tolerating short rows and nil
// cells.
func cell(row []interface{}, idx int) string {
	if idx < 0 || idx >= len(row) || row[idx] == nil {
		return ""
	}
	if s, ok := row[idx].(string); ok {
		return s
	}
	return fmt.Sprint(row[idx])
}
