package api

// Operation names one logical API call. The interceptor keys off the
// operation, not the URL, so two calls hitting the same path can still
// differ in auth behavior.
type Operation string

const (
	OpRegister      Operation = "registerUser"
	OpLogin         Operation = "loginUser"
	OpLogout        Operation = "logout"
	OpRefreshToken  Operation = "refreshToken"
	OpUserDetails   Operation = "userDetails"
	OpUpdateProfile Operation = "updateUserDetails"

	OpMovies         Operation = "movies"
	OpMovie          Operation = "movie"
	OpLatestMovies   Operation = "latestMovies"
	OpUpcomingMovies Operation = "upcomingMovies"
	OpGenres         Operation = "genres"
	OpLanguages      Operation = "languages"
	OpMovieSlots     Operation = "slotsByMovieSlug"

	OpCinemas     Operation = "cinemas"
	OpCinema      Operation = "cinema"
	OpCinemaSlots Operation = "slotsByCinema"
	OpLocations   Operation = "locations"

	OpSlotDetails  Operation = "slotDetails"
	OpBooking      Operation = "booking"
	OpCancelTicket Operation = "cancelTicket"
	OpTickets      Operation = "tickets"
	OpPastBookings Operation = "pastBookings"
)

// authOperations is the fixed set of operations that require a bearer
// token. Membership is static; operations outside the set never get an
// Authorization header and never trigger refresh logic, so public
// browsing stays free of auth overhead.
var authOperations = map[Operation]bool{
	OpUserDetails:   true,
	OpUpdateProfile: true,
	OpBooking:       true,
	OpCancelTicket:  true,
	OpTickets:       true,
	OpPastBookings:  true,
}

// RequiresAuth reports whether op belongs to the authenticated set.
func RequiresAuth(op Operation) bool { return authOperations[op] }

// Backend route paths, grouped the way the server groups them.
const (
	routeRegister = "/users/register/"
	routeLogin    = "/users/login/"
	routeLogout   = "/users/logout/"
	routeRefresh  = "/users/refresh/"
	routeProfile  = "/users/profile/"

	routeMovies         = "/movies/"
	routeLatestMovies   = "/movies/latest/"
	routeUpcomingMovies = "/movies/upcoming/"
	routeGenres         = "/movies/genres/"
	routeLanguages      = "/movies/languages/"

	routeCinemas   = "/cinemas/"
	routeLocations = "/cinemas/locations/"

	routeSlotDetails = "/bookings/slot-details/"
	routeBooking     = "/bookings/"
	routeCancel      = "/bookings/cancel/"
	routeTickets     = "/bookings/tickets/"
	routeHistory     = "/bookings/history/"
)
