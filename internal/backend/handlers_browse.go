package backend

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinebook/cinebook/internal/model"
)

// paginate slices items into the page envelope. Next/Previous are
// relative URLs preserving the request's other query parameters.
func paginate[T any](c echo.Context, items []T, pageSize int) model.Page[T] {
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	out := model.Page[T]{Count: len(items), Results: []T{}}
	start := (page - 1) * pageSize
	if start < len(items) {
		end := start + pageSize
		if end > len(items) {
			end = len(items)
		}
		out.Results = items[start:end]
	}
	pageURL := func(n int) *string {
		q := c.Request().URL.Query()
		q.Set("page", strconv.Itoa(n))
		u := c.Request().URL.Path + "?" + q.Encode()
		return &u
	}
	if page*pageSize < len(items) {
		out.Next = pageURL(page + 1)
	}
	if page > 1 {
		out.Previous = pageURL(page - 1)
	}
	return out
}

func idSet(csv string) map[int]bool {
	if csv == "" {
		return nil
	}
	out := make(map[int]bool)
	for _, part := range strings.Split(csv, ",") {
		if id, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			out[id] = true
		}
	}
	return out
}

// ListMovies filters the catalog by languages, genres, cinema and
// slot date, then paginates.
func (s *Server) ListMovies(c echo.Context) error {
	languages := idSet(c.QueryParam("languages"))
	genres := idSet(c.QueryParam("genres"))
	cinemaID, _ := strconv.Atoi(c.QueryParam("cinema"))
	slotDate := c.QueryParam("slot_date")

	s.store.mu.Lock()
	movies := append([]model.Movie(nil), s.store.movies...)
	slots := append([]slotRecord(nil), s.store.slots...)
	s.store.mu.Unlock()

	var out []model.Movie
	for _, m := range movies {
		if languages != nil && !anyLanguage(m, languages) {
			continue
		}
		if genres != nil && !anyGenre(m, genres) {
			continue
		}
		if cinemaID > 0 || slotDate != "" {
			if !hasMatchingSlot(slots, m.ID, cinemaID, slotDate) {
				continue
			}
		}
		out = append(out, m)
	}
	return c.JSON(http.StatusOK, paginate(c, out, s.cfg.PageSize))
}

func anyLanguage(m model.Movie, want map[int]bool) bool {
	for _, l := range m.Languages {
		if want[l.ID] {
			return true
		}
	}
	return false
}

func anyGenre(m model.Movie, want map[int]bool) bool {
	for _, g := range m.Genres {
		if want[g.ID] {
			return true
		}
	}
	return false
}

func hasMatchingSlot(slots []slotRecord, movieID, cinemaID int, date string) bool {
	for _, sl := range slots {
		if sl.MovieID != movieID {
			continue
		}
		if cinemaID > 0 && sl.CinemaID != cinemaID {
			continue
		}
		if date != "" && sl.Date != date {
			continue
		}
		return true
	}
	return false
}

// GetMovie returns one movie by slug.
func (s *Server) GetMovie(c echo.Context) error {
	m, ok := s.store.movieBySlug(c.Param("slug"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}
	return c.JSON(http.StatusOK, m)
}

// LatestMovies lists released movies, newest release first.
func (s *Server) LatestMovies(c echo.Context) error {
	return c.JSON(http.StatusOK, paginate(c, s.moviesByRelease(false), s.cfg.PageSize))
}

// UpcomingMovies lists movies releasing after today, soonest first.
func (s *Server) UpcomingMovies(c echo.Context) error {
	return c.JSON(http.StatusOK, paginate(c, s.moviesByRelease(true), s.cfg.PageSize))
}

func (s *Server) moviesByRelease(upcoming bool) []model.Movie {
	today := time.Now().Format("2006-01-02")
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	var out []model.Movie
	for _, m := range s.store.movies {
		if (m.ReleaseDate > today) == upcoming {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if upcoming {
			return out[i].ReleaseDate < out[j].ReleaseDate
		}
		return out[i].ReleaseDate > out[j].ReleaseDate
	})
	return out
}

// ListGenres returns all genre tags.
func (s *Server) ListGenres(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return c.JSON(http.StatusOK, s.store.genres)
}

// ListLanguages returns all screening languages.
func (s *Server) ListLanguages(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return c.JSON(http.StatusOK, s.store.languages)
}

// MovieSlots lists a movie's slots on a date, grouped by cinema.
func (s *Server) MovieSlots(c echo.Context) error {
	m, ok := s.store.movieBySlug(c.Param("slug"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}
	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	byCinema := make(map[int][]model.Slot)
	for _, sl := range s.store.slots {
		if sl.MovieID == m.ID && sl.Date == date {
			byCinema[sl.CinemaID] = append(byCinema[sl.CinemaID], sl.Slot)
		}
	}
	out := []model.MovieSlots{}
	for _, cin := range s.store.cinemas {
		if slots, ok := byCinema[cin.ID]; ok {
			out = append(out, model.MovieSlots{Cinema: cin, Slots: slots})
		}
	}
	return c.JSON(http.StatusOK, out)
}

// ListCinemas lists cinemas, optionally filtered by location name.
func (s *Server) ListCinemas(c echo.Context) error {
	location := strings.ToLower(c.QueryParam("location"))
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	out := []model.Cinema{}
	for _, cin := range s.store.cinemas {
		if location != "" && strings.ToLower(cin.Location.Location) != location {
			continue
		}
		out = append(out, cin)
	}
	return c.JSON(http.StatusOK, out)
}

// GetCinema returns one cinema by id.
func (s *Server) GetCinema(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema id"})
	}
	cin, ok := s.store.cinemaByID(id)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "cinema not found"})
	}
	return c.JSON(http.StatusOK, cin)
}

// CinemaSlots lists a cinema's slots on a date, grouped by movie.
func (s *Server) CinemaSlots(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema id"})
	}
	if _, ok := s.store.cinemaByID(id); !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "cinema not found"})
	}
	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	byMovie := make(map[int][]model.Slot)
	for _, sl := range s.store.slots {
		if sl.CinemaID == id && sl.Date == date {
			byMovie[sl.MovieID] = append(byMovie[sl.MovieID], sl.Slot)
		}
	}
	out := []model.CinemaSlots{}
	for _, m := range s.store.movies {
		if slots, ok := byMovie[m.ID]; ok {
			out = append(out, model.CinemaSlots{Movie: m, Slots: slots})
		}
	}
	return c.JSON(http.StatusOK, out)
}

// ListLocations returns the filterable cities.
func (s *Server) ListLocations(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return c.JSON(http.StatusOK, s.store.locations)
}
