package model

// Page is the pagination envelope used by every list endpoint. Next
// and Previous are URLs, null at the edges; callers only test Next for
// nil to decide whether another page exists.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether another page follows this one.
func (p Page[T]) HasNext() bool { return p.Next != nil }
