package model

import "strings"

// Status is the payment lifecycle state of an attendee record.
// The only transition is Pending -> Confirmed, triggered by an operator.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
)

// ParseStatus maps a stored cell value to a Status, defaulting to Pending
// so that malformed historical rows never break rendering.
func ParseStatus(s string) Status {
	if strings.EqualFold(strings.TrimSpace(s), string(StatusConfirmed)) {
		return StatusConfirmed
	}
	return StatusPending
}

// TicketKind determines the displayed price for a registrant.
type TicketKind string

const (
	TicketWorker  TicketKind = "Worker"
	TicketStudent TicketKind = "Student"

	// TicketGeneral is the fallback label for rows whose ticket column is
	// missing or unrecognised.
	TicketGeneral TicketKind = "General"
)

// ParseTicketKind maps a stored cell value to a TicketKind, falling back to
// TicketGeneral for anything unrecognised.
func ParseTicketKind(s string) TicketKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "worker":
		return TicketWorker
	case "student":
		return TicketStudent
	default:
		return TicketGeneral
	}
}

// Price returns the ticket price in whole currency units. Pricing is a
// display concern; nothing server-side enforces it.
func (t TicketKind) Price() int {
	switch t {
	case TicketWorker:
		return 150
	case TicketStudent:
		return 100
	default:
		return 150
	}
}

// AttendeeRecord is one registrant's data plus lifecycle status, i.e. one
// row in the store.
type AttendeeRecord struct {
	// ID is an immutable identifier assigned at creation time. It is the
	// preferred handle for later mutations; Position is kept for
	// compatibility with the original row-number contract.
	ID string `json:"id"`

	// Position is the 1-based physical row in the store (header occupies
	// row 1, so the first data row is 2). Assigned by the store, never by
	// the application.
	Position int `json:"rowIndex"`

	SubmittedAt   string     `json:"timestamp"`
	FullName      string     `json:"fullName"`
	Phone         string     `json:"phone"`
	Location      string     `json:"location"`
	TicketKind    TicketKind `json:"ticketType"`
	ProofImageURL string     `json:"paymentScreenshot"`
	Status        Status     `json:"status"`
}

// NormalizeName is the canonical form used for duplicate detection:
// lowercased and trimmed, nothing more.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
