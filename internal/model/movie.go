package model

// Language is a spoken language a movie is screened in.
type Language struct {
	ID       int    `json:"id"`
	Language string `json:"language"`
}

// Genre classifies a movie.
type Genre struct {
	ID    int    `json:"id"`
	Genre string `json:"genre"`
}

// Movie describes a film as served by the movie endpoints. Slug is the
// URL identifier used by the detail and slots-by-movie routes.
//
// Fields:
//  ID          – numeric identifier.
//  Name        – display title.
//  Slug        – URL-safe identifier, unique per movie.
//  Description – synopsis text.
//  PosterURL   – absolute URL of the poster image.
//  ReleaseDate – ISO date (YYYY-MM-DD).
//  Languages   – languages the movie is screened in.
//  Genres      – genre tags.
type Movie struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	PosterURL   string     `json:"poster_url,omitempty"`
	ReleaseDate string     `json:"release_date,omitempty"`
	Languages   []Language `json:"languages,omitempty"`
	Genres      []Genre    `json:"genres,omitempty"`
}
