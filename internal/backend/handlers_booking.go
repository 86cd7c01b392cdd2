package backend

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cinebook/cinebook/internal/model"
)

// SlotDetails assembles the seat-map payload: slot, movie, cinema grid
// and every committed seat. Public, so guests can preview a hall.
func (s *Server) SlotDetails(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	slot, ok := s.store.slotByID(id)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
	}
	movie := model.Movie{}
	for _, m := range s.store.moviesSnapshot() {
		if m.ID == slot.MovieID {
			movie = m
			break
		}
	}
	cinema, _ := s.store.cinemaByID(slot.CinemaID)
	booked := s.store.bookedSeats(id)
	if booked == nil {
		booked = []model.Seat{}
	}
	return c.JSON(http.StatusOK, model.SlotDetails{
		Slot:        slot.Slot,
		Movie:       movie,
		Cinema:      cinema,
		BookedSeats: booked,
	})
}

// CreateBooking commits a seat booking for the authenticated user.
// Conflicts are rejected with 409: whichever booking committed first
// owns the seats, later requests see them in booked_seats on the next
// refetch.
func (s *Server) CreateBooking(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req model.BookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SlotID == 0 || len(req.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot_id and seats are required"})
	}

	_, err := s.store.bookSeats(uid, req.SlotID, req.Seats)
	switch err {
	case nil:
	case errNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
	case errSeatOutOfGrid:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat outside the hall grid"})
	case errSeatConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "some seats are already booked"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
	return c.JSON(http.StatusCreated, model.BookingResponse{Message: "tickets booked successfully"})
}

// CancelTicket cancels one of the user's confirmed tickets.
func (s *Server) CancelTicket(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ticketID := c.Param("id")
	if err := s.store.cancelTicket(uid, ticketID); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	}
	return c.JSON(http.StatusOK, model.BookingResponse{Message: "ticket cancelled"})
}

// ListTickets pages through the user's confirmed tickets.
func (s *Server) ListTickets(c echo.Context) error {
	return s.listTickets(c, model.TicketConfirmed)
}

// ListHistory pages through the user's cancelled bookings.
func (s *Server) ListHistory(c echo.Context) error {
	return s.listTickets(c, model.TicketCancelled)
}

func (s *Server) listTickets(c echo.Context, status string) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	records := s.store.ticketsFor(uid, status)
	out := make([]model.Ticket, 0, len(records))
	for _, t := range records {
		out = append(out, s.store.ticketWire(t))
	}
	return c.JSON(http.StatusOK, paginate(c, out, s.cfg.PageSize))
}
