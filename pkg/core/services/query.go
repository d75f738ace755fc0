package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/dotuffour/retreat-portal/pkg/core/model"
)

// QueryStore defines the store operations the admin listing needs.
type QueryStore interface {
	ListAttendees(ctx context.Context) ([]model.AttendeeRecord, error)
}

// ListAttendees returns every record in store order (oldest first). Display
// ordering is the dashboard's concern. The result is never nil.
func ListAttendees(ctx context.Context, store QueryStore, logger *zap.Logger) ([]model.AttendeeRecord, error) {
	records, err := store.ListAttendees(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.AttendeeRecord{}
	}

	logger.Debug("Listed attendees", zap.Int("count", len(records)))

	return records, nil
}
