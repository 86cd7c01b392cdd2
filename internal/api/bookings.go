package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cinebook/cinebook/internal/model"
)

// SlotDetails fetches a showtime with its movie, cinema grid and the
// seats already committed by any shopper. Public: the seat map is
// browsable before login.
func (c *Client) SlotDetails(ctx context.Context, slotID int) (model.SlotDetails, error) {
	var out model.SlotDetails
	err := c.do(ctx, request{op: OpSlotDetails, method: http.MethodGet, path: fmt.Sprintf("%s%d/", routeSlotDetails, slotID)}, &out)
	return out, err
}

// Booking submits a seat booking. The server is the sole arbiter of
// conflicts; a rejection comes back as an *APIError.
func (c *Client) Booking(ctx context.Context, req model.BookingRequest) (model.BookingResponse, error) {
	var out model.BookingResponse
	err := c.do(ctx, request{op: OpBooking, method: http.MethodPost, path: routeBooking, json: req}, &out)
	return out, err
}

// CancelTicket cancels a confirmed ticket, freeing its seats.
func (c *Client) CancelTicket(ctx context.Context, ticketID string) (model.BookingResponse, error) {
	var out model.BookingResponse
	err := c.do(ctx, request{op: OpCancelTicket, method: http.MethodPatch, path: routeCancel + ticketID + "/"}, &out)
	return out, err
}

// Tickets lists the user's active tickets, paginated.
func (c *Client) Tickets(ctx context.Context, page int) (model.Page[model.Ticket], error) {
	var out model.Page[model.Ticket]
	err := c.do(ctx, request{op: OpTickets, method: http.MethodGet, path: routeTickets, query: pageQuery(page)}, &out)
	return out, err
}

// PastBookings lists cancelled and expired bookings, paginated.
func (c *Client) PastBookings(ctx context.Context, page int) (model.Page[model.Ticket], error) {
	var out model.Page[model.Ticket]
	err := c.do(ctx, request{op: OpPastBookings, method: http.MethodGet, path: routeHistory, query: pageQuery(page)}, &out)
	return out, err
}
