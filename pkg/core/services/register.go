package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dotuffour/retreat-portal/pkg/core/model"
)

// submittedAtLayout mirrors the locale-formatted timestamps already in the
// sheet; changing it would make historical and new rows render differently.
const submittedAtLayout = "1/2/2006, 3:04:05 PM"

var validate = validator.New()

// Registrant is one attendee payload as submitted by the form, before the
// service assigns identity, timestamp, and status.
type Registrant struct {
	FullName      string `json:"fullName" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	Location      string `json:"location" validate:"required"`
	TicketKind    string `json:"ticketType"`
	ProofImageURL string `json:"paymentScreenshot"`
}

// RegisterStore defines the store operations registration needs.
type RegisterStore interface {
	ListNames(ctx context.Context) ([]string, error)
	AppendAttendees(ctx context.Context, records []model.AttendeeRecord) error
}

// RegisterResult reports what a successful registration wrote.
type RegisterResult struct {
	Count int
	IDs   []string
}

// Register validates and persists one or more registrants as a single
// atomic append. Duplicate names are rejected before anything is written,
// checked against the store and within the batch itself. A failed duplicate-check
// read is non-fatal: registration proceeds as if no names exist, because a
// flaky store must not block sign-ups.
func Register(ctx context.Context, store RegisterStore, logger *zap.Logger, registrants []Registrant) (*RegisterResult, error) {
	if len(registrants) == 0 {
		return nil, fmt.Errorf("%w: no registrants provided", model.ErrValidation)
	}

	for i, r := range registrants {
		if err := validate.Struct(r); err != nil {
			return nil, fmt.Errorf("%w: registrant %d: %v", model.ErrValidation, i+1, err)
		}
	}

	existing := make(map[string]bool)
	names, err := store.ListNames(ctx)
	if err != nil {
		logger.Warn("Duplicate check read failed, proceeding without it", zap.Error(err))
	} else {
		for _, name := range names {
			existing[model.NormalizeName(name)] = true
		}
	}

	seen := make(map[string]bool)
	for _, r := range registrants {
		normalized := model.NormalizeName(r.FullName)
		if existing[normalized] {
			return nil, fmt.Errorf("%w: %s", model.ErrDuplicate, r.FullName)
		}
		if seen[normalized] {
			return nil, fmt.Errorf("%w: %s appears twice in the batch", model.ErrDuplicate, r.FullName)
		}
		seen[normalized] = true
	}

	// One timestamp for the whole batch.
	submittedAt := time.Now().Format(submittedAtLayout)

	records := make([]model.AttendeeRecord, 0, len(registrants))
	ids := make([]string, 0, len(registrants))
	for _, r := range registrants {
		id := uuid.NewString()
		ids = append(ids, id)
		records = append(records, model.AttendeeRecord{
			ID:            id,
			SubmittedAt:   submittedAt,
			FullName:      r.FullName,
			Phone:         r.Phone,
			Location:      r.Location,
			TicketKind:    model.ParseTicketKind(r.TicketKind),
			ProofImageURL: r.ProofImageURL,
			Status:        model.StatusPending,
		})
	}

	if err := store.AppendAttendees(ctx, records); err != nil {
		return nil, err
	}

	logger.Info("Registered attendees",
		zap.Int("count", len(records)),
		zap.String("submitted_at", submittedAt))

	return &RegisterResult{Count: len(records), IDs: ids}, nil
}
