package model

// Seat identifies one seat inside a slot's seating grid. Both
// coordinates are 1-based; the (row, position) pair is the identity,
// there is no separate seat id on the wire.
//
// Fields:
//  RowNumber  – row of the grid.
//  SeatNumber – position of the seat within its row.
type Seat struct {
	RowNumber  int `json:"row_number"`
	SeatNumber int `json:"seat_number"`
}

// BookingRequest is the payload of POST /bookings/. Seats carries the
// shopper's selection materialized at submit time; the total amount is
// derived from the slot price and never sent.
type BookingRequest struct {
	SlotID int    `json:"slot_id"`
	Seats  []Seat `json:"seats"`
}

// BookingResponse acknowledges a successful booking.
type BookingResponse struct {
	Message string `json:"message"`
}
