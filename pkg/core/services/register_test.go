package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dotuffour/retreat-portal/pkg/core/model"
)

// fakeRegisterStore records appends and serves a canned name column.
type fakeRegisterStore struct {
	names     []string
	listErr   error
	appendErr error

	appended    []model.AttendeeRecord
	appendCalls int
}

func (f *fakeRegisterStore) ListNames(_ context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.names, nil
}

func (f *fakeRegisterStore) AppendAttendees(_ context.Context, records []model.AttendeeRecord) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appendCalls++
	f.appended = append(f.appended, records...)
	return nil
}

func validRegistrant(name string) Registrant {
	return Registrant{
		FullName:   name,
		Phone:      "0555",
		Location:   "Accra",
		TicketKind: "Student",
	}
}

func TestRegister_SingleSuccess(t *testing.T) {
	store := &fakeRegisterStore{names: []string{"Jane Doe", "John Smith"}}

	result, err := Register(context.Background(), store, zap.NewNop(), []Registrant{
		validRegistrant("Ama Owusu"),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	require.Len(t, result.IDs, 1)
	assert.NotEmpty(t, result.IDs[0])

	require.Len(t, store.appended, 1)
	rec := store.appended[0]
	assert.Equal(t, "Ama Owusu", rec.FullName)
	assert.Equal(t, model.StatusPending, rec.Status)
	assert.Equal(t, model.TicketStudent, rec.TicketKind)
	assert.NotEmpty(t, rec.SubmittedAt)
	assert.Equal(t, result.IDs[0], rec.ID)
}

func TestRegister_DuplicateNormalizedName(t *testing.T) {
	store := &fakeRegisterStore{names: []string{"Jane Doe", "John Smith"}}

	_, err := Register(context.Background(), store, zap.NewNop(), []Registrant{
		validRegistrant("  jane doe "),
	})

	assert.ErrorIs(t, err, model.ErrDuplicate)
	assert.Empty(t, store.appended)
}

func TestRegister_EmptyBatch(t *testing.T) {
	store := &fakeRegisterStore{}

	_, err := Register(context.Background(), store, zap.NewNop(), nil)

	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestRegister_MissingRequiredField(t *testing.T) {
	store := &fakeRegisterStore{}

	_, err := Register(context.Background(), store, zap.NewNop(), []Registrant{
		{FullName: "Ama Owusu", Location: "Accra"}, // no phone
	})

	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Empty(t, store.appended)
}

func TestRegister_BatchAppendsAllInOneCall(t *testing.T) {
	store := &fakeRegisterStore{}

	result, err := Register(context.Background(), store, zap.NewNop(), []Registrant{
		validRegistrant("Ama Owusu"),
		validRegistrant("Kofi Mensah"),
		validRegistrant("Esi Baah"),
	})

	require.NoError(t, err)
	assert.Equal(t, 3, result.Count)
	assert.Equal(t, 1, store.appendCalls)
	require.Len(t, store.appended, 3)

	// One shared timestamp for the whole batch.
	ts := store.appended[0].SubmittedAt
	for _, rec := range store.appended {
		assert.Equal(t, ts, rec.SubmittedAt)
		assert.Equal(t, model.StatusPending, rec.Status)
	}
}

func TestRegister_BatchCheckedAgainstStore(t *testing.T) {
	store := &fakeRegisterStore{names: []string{"Kofi Mensah"}}

	_, err := Register(context.Background(), store, zap.NewNop(), []Registrant{
		validRegistrant("Ama Owusu"),
		validRegistrant("KOFI MENSAH"),
	})

	assert.ErrorIs(t, err, model.ErrDuplicate)
	assert.Empty(t, store.appended)
}

func TestRegister_BatchInternalCollision(t *testing.T) {
	store := &fakeRegisterStore{}

	_, err := Register(context.Background(), store, zap.NewNop(), []Registrant{
		validRegistrant("Ama Owusu"),
		validRegistrant("ama owusu "),
	})

	assert.ErrorIs(t, err, model.ErrDuplicate)
	assert.Empty(t, store.appended)
}

func TestRegister_DuplicateCheckReadFailureIsNonFatal(t *testing.T) {
	store := &fakeRegisterStore{listErr: errors.New("store unreachable")}

	result, err := Register(context.Background(), store, zap.NewNop(), []Registrant{
		validRegistrant("Ama Owusu"),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	require.Len(t, store.appended, 1)
}

func TestRegister_AppendFailureIsFatal(t *testing.T) {
	store := &fakeRegisterStore{
		appendErr: fmt.Errorf("%w: quota", model.ErrStoreWrite),
	}

	_, err := Register(context.Background(), store, zap.NewNop(), []Registrant{
		validRegistrant("Ama Owusu"),
	})

	assert.ErrorIs(t, err, model.ErrStoreWrite)
}

func TestRegister_UnknownTicketKindFallsBack(t *testing.T) {
	store := &fakeRegisterStore{}

	_, err := Register(context.Background(), store, zap.NewNop(), []Registrant{
		{FullName: "Ama Owusu", Phone: "0555", Location: "Accra", TicketKind: "VIP"},
	})

	require.NoError(t, err)
	require.Len(t, store.appended, 1)
	assert.Equal(t, model.TicketGeneral, store.appended[0].TicketKind)
}
