package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/cinebook/cinebook/internal/api"
	"github.com/cinebook/cinebook/internal/backend"
	"github.com/cinebook/cinebook/internal/booking"
	"github.com/cinebook/cinebook/internal/config"
	"github.com/cinebook/cinebook/internal/model"
	"github.com/cinebook/cinebook/internal/poll"
	"github.com/cinebook/cinebook/internal/session"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: cinebook <command> [flags]

commands:
  demo          run the in-memory reference backend
  movies        list movies (browse filters via flags)
  movie         show one movie by slug
  cinemas       list cinemas, optionally by location
  cinema-slots  list slots at a cinema
  seats         show the seat map for a slot
  register      create an account
  login         verify credentials
  profile       show the signed-in profile
  book          reserve seats on a slot
  cancel        cancel a ticket
  tickets       list confirmed bookings
  history       list cancelled bookings
  watch         poll the seat map for a slot until interrupted`)
	os.Exit(2)
}

func main() {
	_ = godotenv.Load()
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
	}
	cmd, args := os.Args[1], os.Args[2:]

	if cmd == "demo" {
		runDemo()
		return
	}

	if err := runClient(cmd, args); err != nil {
		log.Fatalf("cinebook %s: %v", cmd, err)
	}
}

func runDemo() {
	cfg := config.LoadBackend()
	rdb := config.NewRedisClient()
	srv := backend.New(cfg, rdb)
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func newClient() (*api.Client, config.Client, error) {
	cfg := config.LoadClient()
	c, err := api.New(cfg.BaseURL, session.New())
	if err != nil {
		return nil, cfg, err
	}
	c.SetTimeout(cfg.Timeout)
	return c, cfg, nil
}

// signIn logs in when credentials are given, so the authenticated
// commands work in a single process run.
func signIn(ctx context.Context, c *api.Client, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("email and password are required")
	}
	_, err := c.Login(ctx, email, password)
	return err
}

func runClient(cmd string, args []string) error {
	c, cfg, err := newClient()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	var (
		email    = fs.String("email", "", "account email")
		password = fs.String("password", "", "account password")
		page     = fs.Int("page", 1, "result page")
		date     = fs.String("date", "", "slot date (YYYY-MM-DD, default today)")
	)

	switch cmd {
	case "movies":
		var f api.MovieFilters
		fs.StringVar(&f.Languages, "languages", "", "comma-separated language ids")
		fs.StringVar(&f.Genres, "genres", "", "comma-separated genre ids")
		fs.StringVar(&f.Cinema, "cinema", "", "cinema id filter")
		fs.Parse(args)
		f.SlotDate = *date
		out, err := c.Movies(ctx, f, *page)
		if err != nil {
			return err
		}
		return dump(out)

	case "movie":
		fs.Parse(args)
		if fs.NArg() != 1 {
			return fmt.Errorf("usage: cinebook movie <slug>")
		}
		out, err := c.Movie(ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		return dump(out)

	case "cinemas":
		location := fs.String("location", "", "location slug filter")
		fs.Parse(args)
		out, err := c.Cinemas(ctx, *location)
		if err != nil {
			return err
		}
		return dump(out)

	case "cinema-slots":
		fs.Parse(args)
		id, err := intArg(fs, "cinema-slots <cinema-id>")
		if err != nil {
			return err
		}
		out, err := c.CinemaSlots(ctx, id, *date)
		if err != nil {
			return err
		}
		return dump(out)

	case "seats":
		fs.Parse(args)
		id, err := intArg(fs, "seats <slot-id>")
		if err != nil {
			return err
		}
		out, err := c.SlotDetails(ctx, id)
		if err != nil {
			return err
		}
		printSeatMap(out)
		return nil

	case "register":
		name := fs.String("name", "", "display name")
		phone := fs.String("phone", "", "phone number")
		fs.Parse(args)
		out, err := c.Register(ctx, api.RegisterRequest{
			Name:        *name,
			Email:       *email,
			Password:    *password,
			PhoneNumber: *phone,
		})
		if err != nil {
			return err
		}
		return dump(out.User)

	case "login":
		fs.Parse(args)
		if err := signIn(ctx, c, *email, *password); err != nil {
			return err
		}
		fmt.Println("credentials ok")
		return nil

	case "profile":
		fs.Parse(args)
		if err := signIn(ctx, c, *email, *password); err != nil {
			return err
		}
		out, err := c.UserDetails(ctx)
		if err != nil {
			return err
		}
		return dump(out)

	case "book":
		slot := fs.Int("slot", 0, "slot id")
		seats := fs.String("seats", "", "seats as row:seat pairs, e.g. 1:4,1:5")
		fs.Parse(args)
		if err := signIn(ctx, c, *email, *password); err != nil {
			return err
		}
		return runBook(ctx, c, *slot, *seats)

	case "cancel":
		fs.Parse(args)
		if err := signIn(ctx, c, *email, *password); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return fmt.Errorf("usage: cinebook cancel <ticket-id>")
		}
		out, err := c.CancelTicket(ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		fmt.Println(out.Message)
		return nil

	case "tickets":
		fs.Parse(args)
		if err := signIn(ctx, c, *email, *password); err != nil {
			return err
		}
		out, err := c.Tickets(ctx, *page)
		if err != nil {
			return err
		}
		return dump(out)

	case "history":
		fs.Parse(args)
		if err := signIn(ctx, c, *email, *password); err != nil {
			return err
		}
		out, err := c.PastBookings(ctx, *page)
		if err != nil {
			return err
		}
		return dump(out)

	case "watch":
		fs.Parse(args)
		id, err := intArg(fs, "watch <slot-id>")
		if err != nil {
			return err
		}
		return runWatch(ctx, c, cfg, id)

	default:
		usage()
		return nil
	}
}

// runBook drives a full selection round through the reconciler, the
// same path an interactive UI would take.
func runBook(ctx context.Context, c *api.Client, slotID int, seatSpec string) error {
	seats, err := parseSeats(seatSpec)
	if err != nil {
		return err
	}
	if slotID <= 0 || len(seats) == 0 {
		return fmt.Errorf("usage: cinebook book -slot <id> -seats 1:4,1:5 -email ... -password ...")
	}

	r := booking.NewReconciler(c)
	details, err := c.SlotDetails(ctx, slotID)
	if err != nil {
		return err
	}
	r.SetSlotState(details)
	for _, s := range seats {
		r.Toggle(s)
	}
	if r.SelectedCount() != len(seats) {
		return fmt.Errorf("some requested seats are already booked")
	}
	fmt.Printf("booking %d seat(s), total %.0f\n", r.SelectedCount(), r.TotalAmount())
	if err := r.Submit(ctx); err != nil {
		return err
	}
	fmt.Println("booked")
	return nil
}

func runWatch(ctx context.Context, c *api.Client, cfg config.Client, slotID int) error {
	details, err := c.SlotDetails(ctx, slotID)
	if err != nil {
		return err
	}
	printSeatMap(details)

	p := poll.New(cfg.PollInterval, func(ctx context.Context) error {
		d, err := c.SlotDetails(ctx, slotID)
		if err != nil {
			return err
		}
		printSeatMap(d)
		return nil
	})
	p.Run(ctx)
	return nil
}

func printSeatMap(d model.SlotDetails) {
	booked := make(map[model.Seat]bool, len(d.BookedSeats))
	for _, s := range d.BookedSeats {
		booked[s] = true
	}
	fmt.Printf("%s @ %s, %s (%s)\n", d.Movie.Name, d.Cinema.Name, d.Slot.DateTime, d.Slot.Price)
	for row := 1; row <= d.Cinema.Rows; row++ {
		var b strings.Builder
		fmt.Fprintf(&b, "row %2d  ", row)
		for seat := 1; seat <= d.Cinema.SeatsPerRow; seat++ {
			if booked[model.Seat{RowNumber: row, SeatNumber: seat}] {
				b.WriteString(" x")
			} else {
				b.WriteString(" .")
			}
		}
		fmt.Println(b.String())
	}
}

func parseSeats(spec string) ([]model.Seat, error) {
	if spec == "" {
		return nil, nil
	}
	var seats []model.Seat
	for _, part := range strings.Split(spec, ",") {
		var s model.Seat
		if _, err := fmt.Sscanf(strings.TrimSpace(part), "%d:%d", &s.RowNumber, &s.SeatNumber); err != nil {
			return nil, fmt.Errorf("bad seat %q, want row:seat", part)
		}
		seats = append(seats, s)
	}
	return seats, nil
}

func dump(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func intArg(fs *flag.FlagSet, usage string) (int, error) {
	if fs.NArg() != 1 {
		return 0, fmt.Errorf("usage: cinebook %s", usage)
	}
	var n int
	if _, err := fmt.Sscanf(fs.Arg(0), "%d", &n); err != nil || n <= 0 {
		return 0, fmt.Errorf("usage: cinebook %s", usage)
	}
	return n, nil
}
