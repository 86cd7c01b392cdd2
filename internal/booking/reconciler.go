// Package booking reconciles the shopper's in-progress seat selection
// against the server-reported seat map for one showtime. Selection is
// purely local; the server only sees it at submit time and stays the
// sole arbiter of conflicts.
package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cinebook/cinebook/internal/model"
)

var (
	// ErrInvalidSlot is returned by Submit when no slot is loaded.
	// User-facing: "invalid slot, please refresh".
	ErrInvalidSlot = errors.New("invalid slot, please refresh")

	// ErrSubmitInFlight is returned when Submit is called while a
	// previous submission has not resolved yet.
	ErrSubmitInFlight = errors.New("booking already in progress")

	// ErrBookingFailed wraps any request failure during Submit.
	// User-facing: "booking failed, please try again".
	ErrBookingFailed = errors.New("booking failed, please try again")
)

// SlotAPI is the slice of the API client the reconciler depends on.
type SlotAPI interface {
	SlotDetails(ctx context.Context, slotID int) (model.SlotDetails, error)
	Booking(ctx context.Context, req model.BookingRequest) (model.BookingResponse, error)
}

// ApplyToggle returns the selection after toggling seat. A seat in
// booked is immutable from the client's perspective, so the toggle is
// a no-op; otherwise the seat is removed when present and appended
// when absent. Pure: the input slice is not mutated.
func ApplyToggle(selected, booked []model.Seat, seat model.Seat) []model.Seat {
	for _, b := range booked {
		if b == seat {
			return selected
		}
	}
	out := make([]model.Seat, 0, len(selected)+1)
	found := false
	for _, s := range selected {
		if s == seat {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, seat)
	}
	return out
}

// Reconciler tracks one showtime screen: the server's booked seats,
// the local selection and whether a submission is in flight. All
// methods are safe for concurrent use; the submitting flag is the only
// guard between user actions and an in-flight submission.
type Reconciler struct {
	api SlotAPI

	mu         sync.Mutex
	slotID     int
	price      float64
	booked     []model.Seat
	selected   []model.Seat
	submitting bool
}

// NewReconciler returns a reconciler with no slot loaded. Submit
// refuses to run until SetSlotState has seen a slot.
func NewReconciler(api SlotAPI) *Reconciler {
	return &Reconciler{api: api}
}

// SetSlotState replaces the server-reported half of the state from a
// fresh SlotDetails fetch. The local selection is kept as is: a seat
// that got booked elsewhere mid-selection is resolved by the server at
// submit time, not pruned here.
func (r *Reconciler) SetSlotState(details model.SlotDetails) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slotID = details.Slot.ID
	r.price = details.Slot.PriceValue()
	r.booked = append([]model.Seat(nil), details.BookedSeats...)
}

// Refresh refetches the slot details and applies them. Used by the
// polling loop and after a successful booking.
func (r *Reconciler) Refresh(ctx context.Context) error {
	r.mu.Lock()
	id := r.slotID
	r.mu.Unlock()
	if id == 0 {
		return ErrInvalidSlot
	}
	details, err := r.api.SlotDetails(ctx, id)
	if err != nil {
		return err
	}
	r.SetSlotState(details)
	return nil
}

// Toggle flips seat in the local selection. Toggling a booked seat is
// a no-op; toggling is allowed while a submission is in flight (the
// submission works on the snapshot it took).
func (r *Reconciler) Toggle(seat model.Seat) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = ApplyToggle(r.selected, r.booked, seat)
}

// ClearSelection empties the local selection.
func (r *Reconciler) ClearSelection() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = nil
}

// Selected returns a copy of the current selection.
func (r *Reconciler) Selected() []model.Seat {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Seat(nil), r.selected...)
}

// SelectedCount returns the number of currently selected seats.
func (r *Reconciler) SelectedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.selected)
}

// BookedSeats returns a copy of the server-reported booked seats.
func (r *Reconciler) BookedSeats() []model.Seat {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Seat(nil), r.booked...)
}

// Submitting reports whether a submission is in flight.
func (r *Reconciler) Submitting() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.submitting
}

// TotalAmount is count × slot price, recomputed on demand and never
// stored.
func (r *Reconciler) TotalAmount() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return float64(len(r.selected)) * r.price
}

// Submit sends the current selection as a booking.
//
// Guards run before any network call: ErrInvalidSlot when no slot is
// loaded, ErrSubmitInFlight when a submission is already running; in
// both cases the selection is left untouched. Otherwise the selection
// is snapshotted, the request sent, and on success the slot details
// are refetched so booked seats reflect the new reservation. The
// selection is cleared unconditionally after the attempt, success or
// failure, and the reconciler always returns to the viewing state.
func (r *Reconciler) Submit(ctx context.Context) error {
	r.mu.Lock()
	if r.slotID == 0 {
		r.mu.Unlock()
		return ErrInvalidSlot
	}
	if r.submitting {
		r.mu.Unlock()
		return ErrSubmitInFlight
	}
	r.submitting = true
	slotID := r.slotID
	seats := append([]model.Seat(nil), r.selected...)
	r.mu.Unlock()

	_, err := r.api.Booking(ctx, model.BookingRequest{SlotID: slotID, Seats: seats})
	if err == nil {
		// Best effort: the booking itself already succeeded.
		if details, ferr := r.api.SlotDetails(ctx, slotID); ferr == nil {
			r.SetSlotState(details)
		}
	}

	r.mu.Lock()
	r.selected = nil
	r.submitting = false
	r.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}
	return nil
}
