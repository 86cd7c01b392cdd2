package backend

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cinebook/cinebook/internal/model"
)

var (
	errEmailExists    = errors.New("email already exists")
	errNotFound       = errors.New("not found")
	errInvalidRefresh = errors.New("invalid refresh")
	errSeatConflict   = errors.New("seat already booked")
	errSeatOutOfGrid  = errors.New("seat outside the hall grid")
)

type user struct {
	ID           int
	Name         string
	Email        string
	PhoneNumber  string
	ProfilePic   string
	PasswordHash string
}

func (u user) wire() model.User {
	return model.User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		ProfilePic:  u.ProfilePic,
	}
}

type refreshRecord struct {
	UserID    int
	ExpiresAt time.Time
}

// slotRecord joins a slot to its movie and cinema; the wire responses
// are assembled from the three.
type slotRecord struct {
	model.Slot
	MovieID  int
	CinemaID int
	Date     string // ISO date, for the by-date listings
}

type ticketRecord struct {
	ID          string
	UserID      int
	SlotID      int
	Seats       []model.Seat
	Status      string
	TotalAmount string
	BookedAt    time.Time
}

// Store is the backend's in-memory state. A single mutex covers
// everything: the demo backend serves one client under test and
// correctness beats granularity here. Booking conflicts are resolved
// under the same lock, first committed wins.
type Store struct {
	mu sync.Mutex

	nextUserID int
	users      map[int]*user
	byEmail    map[string]int
	refresh    map[string]refreshRecord // keyed by hash

	movies    []model.Movie
	genres    []model.Genre
	languages []model.Language
	locations []model.Location
	cinemas   []model.Cinema
	slots     []slotRecord

	tickets []ticketRecord
}

// NewStore returns a store preloaded with the demo catalog.
func NewStore() *Store {
	s := &Store{
		nextUserID: 1,
		users:      make(map[int]*user),
		byEmail:    make(map[string]int),
		refresh:    make(map[string]refreshRecord),
	}
	s.seed()
	return s
}

func (s *Store) createUser(name, email, phone, passwordHash string) (user, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(email)
	if _, ok := s.byEmail[key]; ok {
		return user{}, errEmailExists
	}
	u := &user{
		ID:           s.nextUserID,
		Name:         name,
		Email:        email,
		PhoneNumber:  phone,
		PasswordHash: passwordHash,
	}
	s.nextUserID++
	s.users[u.ID] = u
	s.byEmail[key] = u.ID
	return *u, nil
}

func (s *Store) userByEmail(email string) (user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return user{}, false
	}
	return *s.users[id], true
}

func (s *Store) userByID(id int) (user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return user{}, false
	}
	return *u, true
}

func (s *Store) updateUser(id int, name, phone, profilePic string) (user, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return user{}, errNotFound
	}
	if name != "" {
		u.Name = name
	}
	if phone != "" {
		u.PhoneNumber = phone
	}
	if profilePic != "" {
		u.ProfilePic = profilePic
	}
	return *u, nil
}

func (s *Store) storeRefresh(hash string, userID int, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh[hash] = refreshRecord{UserID: userID, ExpiresAt: expiresAt}
}

func (s *Store) validateRefresh(hash string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.refresh[hash]
	if !ok || time.Now().After(rec.ExpiresAt) {
		delete(s.refresh, hash)
		return 0, errInvalidRefresh
	}
	return rec.UserID, nil
}

func (s *Store) revokeRefresh(hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.refresh, hash)
}

func (s *Store) movieBySlug(slug string) (model.Movie, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.movies {
		if m.Slug == slug {
			return m, true
		}
	}
	return model.Movie{}, false
}

func (s *Store) cinemaByID(id int) (model.Cinema, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cinemas {
		if c.ID == id {
			return c, true
		}
	}
	return model.Cinema{}, false
}

func (s *Store) slotByID(id int) (slotRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sl := range s.slots {
		if sl.ID == id {
			return sl, true
		}
	}
	return slotRecord{}, false
}

// bookedSeats is the union of seats on every confirmed ticket of the
// slot. Callers must not hold the mutex.
func (s *Store) bookedSeats(slotID int) []model.Seat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookedSeatsLocked(slotID)
}

func (s *Store) bookedSeatsLocked(slotID int) []model.Seat {
	var out []model.Seat
	for _, t := range s.tickets {
		if t.SlotID == slotID && t.Status == model.TicketConfirmed {
			out = append(out, t.Seats...)
		}
	}
	return out
}

// bookSeats commits a booking atomically. Every requested seat must
// lie inside the cinema grid and be free; otherwise nothing is
// written and the conflicting state is reported.
func (s *Store) bookSeats(userID, slotID int, seats []model.Seat) (ticketRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var slot slotRecord
	found := false
	for _, sl := range s.slots {
		if sl.ID == slotID {
			slot, found = sl, true
			break
		}
	}
	if !found {
		return ticketRecord{}, errNotFound
	}
	var cinema model.Cinema
	for _, c := range s.cinemas {
		if c.ID == slot.CinemaID {
			cinema = c
			break
		}
	}

	taken := make(map[model.Seat]bool)
	for _, b := range s.bookedSeatsLocked(slotID) {
		taken[b] = true
	}
	for _, seat := range seats {
		if seat.RowNumber < 1 || seat.RowNumber > cinema.Rows ||
			seat.SeatNumber < 1 || seat.SeatNumber > cinema.SeatsPerRow {
			return ticketRecord{}, errSeatOutOfGrid
		}
		if taken[seat] {
			return ticketRecord{}, errSeatConflict
		}
		taken[seat] = true // also rejects duplicates within the request
	}

	total := float64(len(seats)) * slot.PriceValue()
	t := ticketRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		SlotID:      slotID,
		Seats:       append([]model.Seat(nil), seats...),
		Status:      model.TicketConfirmed,
		TotalAmount: strconv.FormatFloat(total, 'f', -1, 64),
		BookedAt:    time.Now().UTC(),
	}
	s.tickets = append(s.tickets, t)
	return t, nil
}

// cancelTicket flips a confirmed ticket of the user to cancelled,
// freeing its seats for the next shopper.
func (s *Store) cancelTicket(userID int, ticketID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tickets {
		t := &s.tickets[i]
		if t.ID == ticketID && t.UserID == userID {
			if t.Status != model.TicketConfirmed {
				return errNotFound
			}
			t.Status = model.TicketCancelled
			return nil
		}
	}
	return errNotFound
}

func (s *Store) moviesSnapshot() []model.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Movie(nil), s.movies...)
}

// ticketWire assembles the display payload for one ticket: the slot
// joined with its movie and cinema.
func (s *Store) ticketWire(t ticketRecord) model.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := model.Ticket{
		ID:          t.ID,
		Seats:       t.Seats,
		Status:      t.Status,
		TotalAmount: t.TotalAmount,
		BookedAt:    t.BookedAt.Format(time.RFC3339),
	}
	for _, sl := range s.slots {
		if sl.ID == t.SlotID {
			out.Slot = sl.Slot
			for _, m := range s.movies {
				if m.ID == sl.MovieID {
					out.Movie = m
					break
				}
			}
			for _, c := range s.cinemas {
				if c.ID == sl.CinemaID {
					out.Cinema = c
					break
				}
			}
			break
		}
	}
	return out
}

// ticketsFor lists the user's tickets with the given status, newest
// first.
func (s *Store) ticketsFor(userID int, status string) []ticketRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ticketRecord
	for _, t := range s.tickets {
		if t.UserID == userID && t.Status == status {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookedAt.After(out[j].BookedAt) })
	return out
}
