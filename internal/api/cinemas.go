package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cinebook/cinebook/internal/model"
)

// Cinemas lists cinemas, optionally filtered by location.
func (c *Client) Cinemas(ctx context.Context, location string) ([]model.Cinema, error) {
	q := url.Values{}
	if location != "" {
		q.Set("location", location)
	}
	var out []model.Cinema
	err := c.do(ctx, request{op: OpCinemas, method: http.MethodGet, path: routeCinemas, query: q}, &out)
	return out, err
}

// Cinema fetches one cinema by id.
func (c *Client) Cinema(ctx context.Context, id int) (model.Cinema, error) {
	var out model.Cinema
	err := c.do(ctx, request{op: OpCinema, method: http.MethodGet, path: fmt.Sprintf("%s%d/", routeCinemas, id)}, &out)
	return out, err
}

// CinemaSlots lists a cinema's showtimes grouped by movie. An empty
// date defaults to today.
func (c *Client) CinemaSlots(ctx context.Context, id int, date string) ([]model.CinemaSlots, error) {
	if date == "" {
		date = time.Now().Format(isoDate)
	}
	q := url.Values{}
	q.Set("date", date)
	var out []model.CinemaSlots
	err := c.do(ctx, request{op: OpCinemaSlots, method: http.MethodGet, path: fmt.Sprintf("%s%d/movie-slots/", routeCinemas, id), query: q}, &out)
	return out, err
}

// Locations lists the cities cinemas can be filtered by.
func (c *Client) Locations(ctx context.Context) ([]model.Location, error) {
	var out []model.Location
	err := c.do(ctx, request{op: OpLocations, method: http.MethodGet, path: routeLocations}, &out)
	return out, err
}
