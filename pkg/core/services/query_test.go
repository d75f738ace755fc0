package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dotuffour/retreat-portal/pkg/core/model"
)

type fakeQueryStore struct {
	records []model.AttendeeRecord
	err     error
}

func (f *fakeQueryStore) ListAttendees(_ context.Context) ([]model.AttendeeRecord, error) {
	return f.records, f.err
}

func TestListAttendees_NeverNil(t *testing.T) {
	records, err := ListAttendees(context.Background(), &fakeQueryStore{}, zap.NewNop())

	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestListAttendees_PreservesStoreOrder(t *testing.T) {
	st := &fakeQueryStore{records: []model.AttendeeRecord{
		{Position: 2, FullName: "Jane Doe"},
		{Position: 3, FullName: "John Smith"},
	}}

	records, err := ListAttendees(context.Background(), st, zap.NewNop())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Jane Doe", records[0].FullName)
	assert.Equal(t, "John Smith", records[1].FullName)
}

func TestListAttendees_ReadFailureIsFatal(t *testing.T) {
	st := &fakeQueryStore{err: fmt.Errorf("%w: unreachable", model.ErrStoreRead)}

	_, err := ListAttendees(context.Background(), st, zap.NewNop())

	assert.ErrorIs(t, err, model.ErrStoreRead)
}
