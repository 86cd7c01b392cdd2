package backend

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinebook/cinebook/internal/model"
)

func newBookedStore(t *testing.T) (*Store, int) {
	t.Helper()
	s := NewStore()
	require.NotEmpty(t, s.slots)
	return s, s.slots[0].ID
}

func TestBookSeatsConflicts(t *testing.T) {
	s, slotID := newBookedStore(t)
	u, err := s.createUser("A", "a@b.c", "", "hash")
	require.NoError(t, err)

	seats := []model.Seat{{RowNumber: 1, SeatNumber: 1}, {RowNumber: 1, SeatNumber: 2}}
	_, err = s.bookSeats(u.ID, slotID, seats)
	require.NoError(t, err)

	// Overlap with a committed booking.
	_, err = s.bookSeats(u.ID, slotID, []model.Seat{{RowNumber: 1, SeatNumber: 2}})
	assert.ErrorIs(t, err, errSeatConflict)

	// The same seat twice in one request.
	_, err = s.bookSeats(u.ID, slotID, []model.Seat{
		{RowNumber: 2, SeatNumber: 1},
		{RowNumber: 2, SeatNumber: 1},
	})
	assert.ErrorIs(t, err, errSeatConflict)

	// A failed booking commits nothing.
	assert.ElementsMatch(t, seats, s.bookedSeats(slotID))
}

func TestBookSeatsTotalAmount(t *testing.T) {
	s, slotID := newBookedStore(t)
	u, err := s.createUser("A", "a@b.c", "", "hash")
	require.NoError(t, err)

	slot, ok := s.slotByID(slotID)
	require.True(t, ok)

	tkt, err := s.bookSeats(u.ID, slotID, []model.Seat{
		{RowNumber: 1, SeatNumber: 1},
		{RowNumber: 1, SeatNumber: 2},
		{RowNumber: 1, SeatNumber: 3},
	})
	require.NoError(t, err)
	want := strconv.FormatFloat(3*slot.PriceValue(), 'f', -1, 64)
	assert.Equal(t, want, tkt.TotalAmount)
}

func TestCancelOwnershipAndState(t *testing.T) {
	s, slotID := newBookedStore(t)
	owner, err := s.createUser("A", "a@b.c", "", "hash")
	require.NoError(t, err)
	other, err := s.createUser("B", "b@b.c", "", "hash")
	require.NoError(t, err)

	tkt, err := s.bookSeats(owner.ID, slotID, []model.Seat{{RowNumber: 1, SeatNumber: 1}})
	require.NoError(t, err)

	// Only the owner can cancel.
	assert.ErrorIs(t, s.cancelTicket(other.ID, tkt.ID), errNotFound)
	require.NoError(t, s.cancelTicket(owner.ID, tkt.ID))

	// Already cancelled.
	assert.ErrorIs(t, s.cancelTicket(owner.ID, tkt.ID), errNotFound)
	assert.Empty(t, s.bookedSeats(slotID))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := NewStore()
	_, err := s.createUser("A", "a@b.c", "", "hash")
	require.NoError(t, err)
	_, err = s.createUser("B", "a@b.c", "", "hash")
	assert.ErrorIs(t, err, errEmailExists)
}

func TestRefreshLifecycle(t *testing.T) {
	s := NewStore()
	u, err := s.createUser("A", "a@b.c", "", "hash")
	require.NoError(t, err)

	s.storeRefresh("h1", u.ID, time.Now().Add(time.Hour))
	uid, err := s.validateRefresh("h1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)

	// Valid credentials are reusable until revoked.
	_, err = s.validateRefresh("h1")
	require.NoError(t, err)

	s.revokeRefresh("h1")
	_, err = s.validateRefresh("h1")
	assert.ErrorIs(t, err, errInvalidRefresh)

	// Expired records are rejected and dropped.
	s.storeRefresh("h2", u.ID, time.Now().Add(-time.Minute))
	_, err = s.validateRefresh("h2")
	assert.ErrorIs(t, err, errInvalidRefresh)
}

func TestTicketsForSortsNewestFirst(t *testing.T) {
	s, slotID := newBookedStore(t)
	u, err := s.createUser("A", "a@b.c", "", "hash")
	require.NoError(t, err)

	first, err := s.bookSeats(u.ID, slotID, []model.Seat{{RowNumber: 1, SeatNumber: 1}})
	require.NoError(t, err)
	second, err := s.bookSeats(u.ID, slotID, []model.Seat{{RowNumber: 1, SeatNumber: 2}})
	require.NoError(t, err)

	// Same wall-clock instant is possible; force distinct times.
	s.mu.Lock()
	for i := range s.tickets {
		if s.tickets[i].ID == second.ID {
			s.tickets[i].BookedAt = first.BookedAt.Add(time.Second)
		}
	}
	s.mu.Unlock()

	out := s.ticketsFor(u.ID, model.TicketConfirmed)
	require.Len(t, out, 2)
	assert.Equal(t, second.ID, out[0].ID)
	assert.Equal(t, first.ID, out[1].ID)
}
