// Package backend is an in-process reference implementation of the
// booking API the client talks to. It keeps everything in memory so
// the demo command and the tests run with zero external services; an
// optional Redis speeds up public browsing via a response cache.
package backend

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/cinebook/cinebook/internal/config"
)

// Server wires the store and handlers into an Echo instance.
type Server struct {
	cfg   config.Backend
	store *Store
	echo  *echo.Echo
}

// New builds a fully routed server. rdb may be nil; public-GET caching
// is then disabled.
func New(cfg config.Backend, rdb *redis.Client) *Server {
	s := &Server{cfg: cfg, store: NewStore(), echo: echo.New()}
	s.echo.HideBanner = true
	s.routes(rdb)
	return s
}

func (s *Server) routes(rdb *redis.Client) {
	e := s.echo
	e.Use(echomw.Recover())

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	users := e.Group("/users")
	users.POST("/register/", s.Register)
	users.POST("/login/", s.Login)
	users.POST("/refresh/", s.Refresh)
	users.POST("/logout/", s.Logout)
	profile := users.Group("/profile", jwtAuth(s.cfg.JWTSecret))
	profile.GET("/", s.Profile)
	profile.PATCH("/", s.UpdateProfile)

	cache := responseCache(s.cfg.Cache, rdb)
	movies := e.Group("/movies", cache)
	movies.GET("/", s.ListMovies)
	movies.GET("/latest/", s.LatestMovies)
	movies.GET("/upcoming/", s.UpcomingMovies)
	movies.GET("/genres/", s.ListGenres)
	movies.GET("/languages/", s.ListLanguages)
	movies.GET("/:slug/", s.GetMovie)
	movies.GET("/:slug/movie-slots/", s.MovieSlots)

	cinemas := e.Group("/cinemas", cache)
	cinemas.GET("/", s.ListCinemas)
	cinemas.GET("/locations/", s.ListLocations)
	cinemas.GET("/:id/", s.GetCinema)
	cinemas.GET("/:id/movie-slots/", s.CinemaSlots)

	bookings := e.Group("/bookings")
	// The seat map must always be live: never cached, booked seats are
	// what shoppers poll for.
	bookings.GET("/slot-details/:id/", s.SlotDetails)
	auth := bookings.Group("", jwtAuth(s.cfg.JWTSecret))
	auth.POST("/", s.CreateBooking)
	auth.PATCH("/cancel/:id/", s.CancelTicket)
	auth.GET("/tickets/", s.ListTickets)
	auth.GET("/history/", s.ListHistory)
}

// Handler exposes the routed server for httptest.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves until the listener fails.
func (s *Server) Start(addr string) error {
	log.Printf("reference backend listening on %s", addr)
	return s.echo.Start(addr)
}
