package model

import "strconv"

// Slot is one showtime of a movie at a cinema. Price is a decimal
// string as served by the backend ("200", "249.50"); PriceValue
// parses it for client-side total computation.
type Slot struct {
	ID       int    `json:"id"`
	DateTime string `json:"date_time"`
	Price    string `json:"price"`
	Language int    `json:"language,omitempty"`
}

// PriceValue returns the numeric price, or 0 when the string does not
// parse. Display formatting keeps the wire string.
func (s Slot) PriceValue() float64 {
	v, err := strconv.ParseFloat(s.Price, 64)
	if err != nil {
		return 0
	}
	return v
}

// SlotDetails is the response of GET /bookings/slot-details/:id/: the
// slot plus its movie, the cinema (for grid dimensions) and every seat
// already committed by any shopper.
type SlotDetails struct {
	Slot        Slot   `json:"slot"`
	Movie       Movie  `json:"movie"`
	Cinema      Cinema `json:"cinema"`
	BookedSeats []Seat `json:"booked_seats"`
}

// MovieSlots groups the slots of one cinema in a slots-by-movie
// listing.
type MovieSlots struct {
	Cinema Cinema `json:"cinema"`
	Slots  []Slot `json:"slots"`
}

// CinemaSlots groups the slots of one movie in a slots-by-cinema
// listing.
type CinemaSlots struct {
	Movie Movie  `json:"movie"`
	Slots []Slot `json:"slots"`
}
