package model

// Ticket statuses. Cancelled tickets stay in the history listing;
// confirmed ones appear under active tickets.
const (
	TicketConfirmed = "CONFIRMED"
	TicketCancelled = "CANCELLED"
)

// Ticket is one finalized booking: the slot, its movie and cinema for
// display, the seats held and the amount paid.
type Ticket struct {
	ID          string `json:"id"`
	Slot        Slot   `json:"slot"`
	Movie       Movie  `json:"movie"`
	Cinema      Cinema `json:"cinema"`
	Seats       []Seat `json:"seats"`
	Status      string `json:"status"`
	TotalAmount string `json:"total_amount"`
	BookedAt    string `json:"booked_at,omitempty"`
}
