package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinebook/cinebook/internal/model"
)

// fakeSlotAPI scripts the two calls the reconciler makes.
type fakeSlotAPI struct {
	mu      sync.Mutex
	details model.SlotDetails
	bookErr error

	bookings []model.BookingRequest
	fetches  int

	// release, when set, blocks Booking until closed.
	release chan struct{}
}

func (f *fakeSlotAPI) SlotDetails(ctx context.Context, slotID int) (model.SlotDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	return f.details, nil
}

func (f *fakeSlotAPI) Booking(ctx context.Context, req model.BookingRequest) (model.BookingResponse, error) {
	f.mu.Lock()
	release := f.release
	f.bookings = append(f.bookings, req)
	err := f.bookErr
	f.mu.Unlock()
	if release != nil {
		<-release
	}
	if err != nil {
		return model.BookingResponse{}, err
	}
	return model.BookingResponse{Message: "tickets booked successfully"}, nil
}

func seat(row, num int) model.Seat {
	return model.Seat{RowNumber: row, SeatNumber: num}
}

func slotState(booked ...model.Seat) model.SlotDetails {
	return model.SlotDetails{
		Slot:        model.Slot{ID: 7, Price: "200"},
		Cinema:      model.Cinema{ID: 1, Rows: 5, SeatsPerRow: 6},
		BookedSeats: booked,
	}
}

func TestApplyToggle(t *testing.T) {
	booked := []model.Seat{seat(1, 1)}

	// Select, then deselect: back where we started.
	sel := ApplyToggle(nil, booked, seat(1, 2))
	assert.Equal(t, []model.Seat{seat(1, 2)}, sel)
	sel = ApplyToggle(sel, booked, seat(1, 2))
	assert.Empty(t, sel)

	// Booked seats never enter the selection.
	sel = ApplyToggle(nil, booked, seat(1, 1))
	assert.Empty(t, sel)

	// Removal preserves the order of the remaining seats.
	sel = []model.Seat{seat(2, 1), seat(2, 2), seat(2, 3)}
	sel = ApplyToggle(sel, nil, seat(2, 2))
	assert.Equal(t, []model.Seat{seat(2, 1), seat(2, 3)}, sel)
}

func TestApplyToggleDoesNotMutateInput(t *testing.T) {
	orig := []model.Seat{seat(1, 2), seat(1, 3)}
	_ = ApplyToggle(orig, nil, seat(1, 2))
	assert.Equal(t, []model.Seat{seat(1, 2), seat(1, 3)}, orig)
}

func TestToggleSequence(t *testing.T) {
	api := &fakeSlotAPI{details: slotState(seat(1, 1))}
	r := NewReconciler(api)
	r.SetSlotState(api.details)

	r.Toggle(seat(1, 2))
	r.Toggle(seat(1, 1)) // booked, no-op
	r.Toggle(seat(1, 3))

	assert.Equal(t, []model.Seat{seat(1, 2), seat(1, 3)}, r.Selected())
	assert.Equal(t, 2, r.SelectedCount())
	assert.InDelta(t, 400, r.TotalAmount(), 0.001)
}

func TestTotalAmountTracksSelection(t *testing.T) {
	r := NewReconciler(&fakeSlotAPI{})
	r.SetSlotState(slotState())

	assert.Zero(t, r.TotalAmount())
	r.Toggle(seat(3, 1))
	r.Toggle(seat(3, 2))
	r.Toggle(seat(3, 3))
	assert.InDelta(t, 600, r.TotalAmount(), 0.001)
	r.Toggle(seat(3, 2))
	assert.InDelta(t, 400, r.TotalAmount(), 0.001)
	r.ClearSelection()
	assert.Zero(t, r.TotalAmount())
}

func TestSubmitSuccessClearsSelectionAndRefetches(t *testing.T) {
	api := &fakeSlotAPI{details: slotState()}
	r := NewReconciler(api)
	r.SetSlotState(api.details)
	r.Toggle(seat(2, 4))
	r.Toggle(seat(2, 5))

	// The refetch after booking reports the new seats as taken.
	api.mu.Lock()
	api.details = slotState(seat(2, 4), seat(2, 5))
	api.mu.Unlock()

	require.NoError(t, r.Submit(context.Background()))

	assert.Empty(t, r.Selected())
	assert.False(t, r.Submitting())
	assert.Equal(t, []model.Seat{seat(2, 4), seat(2, 5)}, r.BookedSeats())

	require.Len(t, api.bookings, 1)
	assert.Equal(t, 7, api.bookings[0].SlotID)
	assert.Equal(t, []model.Seat{seat(2, 4), seat(2, 5)}, api.bookings[0].Seats)
}

func TestSubmitFailureStillClearsSelection(t *testing.T) {
	api := &fakeSlotAPI{details: slotState(), bookErr: errors.New("409 conflict")}
	r := NewReconciler(api)
	r.SetSlotState(api.details)
	r.Toggle(seat(1, 4))

	err := r.Submit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBookingFailed)

	// Failure resolves to the viewing state like success does.
	assert.Empty(t, r.Selected())
	assert.False(t, r.Submitting())
}

func TestSubmitWithoutSlot(t *testing.T) {
	r := NewReconciler(&fakeSlotAPI{})
	r.Toggle(seat(1, 1))
	assert.ErrorIs(t, r.Submit(context.Background()), ErrInvalidSlot)
}

func TestSubmitWhileInFlight(t *testing.T) {
	api := &fakeSlotAPI{details: slotState(), release: make(chan struct{})}
	r := NewReconciler(api)
	r.SetSlotState(api.details)
	r.Toggle(seat(1, 2))

	done := make(chan error, 1)
	go func() { done <- r.Submit(context.Background()) }()

	// Wait for the first submit to reach the blocked Booking call.
	require.Eventually(t, r.Submitting, time.Second, time.Millisecond)

	assert.ErrorIs(t, r.Submit(context.Background()), ErrSubmitInFlight)

	close(api.release)
	require.NoError(t, <-done)
	assert.False(t, r.Submitting())
}

func TestRefreshKeepsSelection(t *testing.T) {
	api := &fakeSlotAPI{details: slotState()}
	r := NewReconciler(api)
	r.SetSlotState(api.details)
	r.Toggle(seat(4, 1))

	// Someone else books the selected seat; refresh reports it but
	// the local selection stays until the server arbitrates at submit.
	api.mu.Lock()
	api.details = slotState(seat(4, 1))
	api.mu.Unlock()

	require.NoError(t, r.Refresh(context.Background()))
	assert.Equal(t, []model.Seat{seat(4, 1)}, r.BookedSeats())
	assert.Equal(t, []model.Seat{seat(4, 1)}, r.Selected())
}

func TestRefreshWithoutSlot(t *testing.T) {
	r := NewReconciler(&fakeSlotAPI{})
	assert.ErrorIs(t, r.Refresh(context.Background()), ErrInvalidSlot)
}
