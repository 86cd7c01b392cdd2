package model

// Location is a city or area a cinema belongs to. The browse screens
// filter cinemas by these values.
type Location struct {
	ID       int    `json:"id"`
	Location string `json:"location"`
}

// Cinema describes a theatre, including the seating grid dimensions
// the seat map is rendered from. Every hall of a cinema shares the
// same Rows × SeatsPerRow layout.
type Cinema struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Rows        int      `json:"rows"`
	SeatsPerRow int      `json:"seats_per_row"`
	Location    Location `json:"location"`
}
