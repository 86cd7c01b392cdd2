package backend

import (
	"fmt"
	"time"

	"github.com/cinebook/cinebook/internal/model"
)

// seed loads a small demo catalog: enough movies, cinemas and slots
// for every browse and booking flow to have data, with slots spread
// over today and tomorrow so the default date filters match.
func (s *Store) seed() {
	s.languages = []model.Language{
		{ID: 1, Language: "hindi"},
		{ID: 2, Language: "english"},
		{ID: 3, Language: "tamil"},
	}
	s.genres = []model.Genre{
		{ID: 1, Genre: "drama"},
		{ID: 2, Genre: "action"},
		{ID: 3, Genre: "comedy"},
		{ID: 4, Genre: "thriller"},
	}
	s.locations = []model.Location{
		{ID: 1, Location: "gurugram"},
		{ID: 2, Location: "delhi"},
	}
	s.cinemas = []model.Cinema{
		{ID: 1, Name: "PVR Cyber Hub", Rows: 5, SeatsPerRow: 6, Location: s.locations[0]},
		{ID: 2, Name: "INOX Saket", Rows: 8, SeatsPerRow: 10, Location: s.locations[1]},
	}

	today := time.Now()
	past := today.AddDate(0, 0, -14).Format("2006-01-02")
	future := today.AddDate(0, 1, 0).Format("2006-01-02")
	s.movies = []model.Movie{
		{
			ID: 1, Name: "Pippa", Slug: "pippa",
			Description: "A war drama set in 1971.",
			ReleaseDate: past,
			Languages:   []model.Language{s.languages[0]},
			Genres:      []model.Genre{s.genres[0], s.genres[1]},
		},
		{
			ID: 2, Name: "Midnight Run", Slug: "midnight-run",
			Description: "A bounty hunter escorts an accountant cross-country.",
			ReleaseDate: past,
			Languages:   []model.Language{s.languages[1]},
			Genres:      []model.Genre{s.genres[2], s.genres[1]},
		},
		{
			ID: 3, Name: "Maanagaram", Slug: "maanagaram",
			Description: "Interwoven lives collide over one night in the city.",
			ReleaseDate: past,
			Languages:   []model.Language{s.languages[2]},
			Genres:      []model.Genre{s.genres[3]},
		},
		{
			ID: 4, Name: "Second Act", Slug: "second-act",
			Description: "Not released yet.",
			ReleaseDate: future,
			Languages:   []model.Language{s.languages[1]},
			Genres:      []model.Genre{s.genres[0]},
		},
	}

	id := 0
	for day := 0; day < 2; day++ {
		date := today.AddDate(0, 0, day)
		for _, showHour := range []int{13, 18, 21} {
			for movie := 1; movie <= 3; movie++ {
				for cinema := 1; cinema <= 2; cinema++ {
					id++
					start := time.Date(date.Year(), date.Month(), date.Day(), showHour, 30, 0, 0, time.Local)
					s.slots = append(s.slots, slotRecord{
						Slot: model.Slot{
							ID:       id,
							DateTime: start.Format(time.RFC3339),
							Price:    fmt.Sprint(150 + 50*cinema),
							Language: s.movies[movie-1].Languages[0].ID,
						},
						MovieID:  movie,
						CinemaID: cinema,
						Date:     date.Format("2006-01-02"),
					})
				}
			}
		}
	}
}
