package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/cinebook/cinebook/internal/model"
)

const isoDate = "2006-01-02"

// MovieFilters narrows the movie listing. Zero values mean "no
// filter"; Languages and Genres are comma-separated id lists as the
// backend expects them.
type MovieFilters struct {
	Languages string
	Genres    string
	Cinema    string
	SlotDate  string
}

func (f MovieFilters) query(page int) url.Values {
	q := pageQuery(page)
	if f.Languages != "" {
		q.Set("languages", f.Languages)
	}
	if f.Genres != "" {
		q.Set("genres", f.Genres)
	}
	if f.Cinema != "" {
		q.Set("cinema", f.Cinema)
	}
	if f.SlotDate != "" {
		q.Set("slot_date", f.SlotDate)
	}
	return q
}

// Movies lists movies, paginated and optionally filtered.
func (c *Client) Movies(ctx context.Context, filters MovieFilters, page int) (model.Page[model.Movie], error) {
	var out model.Page[model.Movie]
	err := c.do(ctx, request{op: OpMovies, method: http.MethodGet, path: routeMovies, query: filters.query(page)}, &out)
	return out, err
}

// Movie fetches one movie by its slug.
func (c *Client) Movie(ctx context.Context, slug string) (model.Movie, error) {
	var out model.Movie
	err := c.do(ctx, request{op: OpMovie, method: http.MethodGet, path: routeMovies + slug + "/"}, &out)
	return out, err
}

// LatestMovies lists recently released movies.
func (c *Client) LatestMovies(ctx context.Context, page int) (model.Page[model.Movie], error) {
	var out model.Page[model.Movie]
	err := c.do(ctx, request{op: OpLatestMovies, method: http.MethodGet, path: routeLatestMovies, query: pageQuery(page)}, &out)
	return out, err
}

// UpcomingMovies lists movies releasing soon.
func (c *Client) UpcomingMovies(ctx context.Context, page int) (model.Page[model.Movie], error) {
	var out model.Page[model.Movie]
	err := c.do(ctx, request{op: OpUpcomingMovies, method: http.MethodGet, path: routeUpcomingMovies, query: pageQuery(page)}, &out)
	return out, err
}

// Genres lists all genre tags.
func (c *Client) Genres(ctx context.Context) ([]model.Genre, error) {
	var out []model.Genre
	err := c.do(ctx, request{op: OpGenres, method: http.MethodGet, path: routeGenres}, &out)
	return out, err
}

// Languages lists all screening languages.
func (c *Client) Languages(ctx context.Context) ([]model.Language, error) {
	var out []model.Language
	err := c.do(ctx, request{op: OpLanguages, method: http.MethodGet, path: routeLanguages}, &out)
	return out, err
}

// MovieSlots lists a movie's showtimes grouped by cinema. An empty
// date defaults to today, matching the browse screens.
func (c *Client) MovieSlots(ctx context.Context, slug, date string) ([]model.MovieSlots, error) {
	if date == "" {
		date = time.Now().Format(isoDate)
	}
	q := url.Values{}
	q.Set("date", date)
	var out []model.MovieSlots
	err := c.do(ctx, request{op: OpMovieSlots, method: http.MethodGet, path: routeMovies + slug + "/movie-slots/", query: q}, &out)
	return out, err
}
