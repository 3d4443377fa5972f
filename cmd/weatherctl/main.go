// Command weatherctl drives the dashboard headlessly: it signs in, loads the
// home page and performs one user action against it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"weather-dashboard/internal/apperr"
	"weather-dashboard/internal/config"
	"weather-dashboard/internal/models"
	"weather-dashboard/internal/observability"
	"weather-dashboard/internal/page"
)

const usage = `usage: weatherctl [flags] <command> [args]

commands:
  list                     show the saved locations
  add <name> <lat> <lon>   save a location
  remove <name>            delete a location
  clear                    delete every saved location
  forecast <name>          show the forecast for a location
`

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	baseURL := flag.String("url", "http://localhost:8080", "Dashboard base URL")
	username := flag.String("user", "", "Username to sign in with")
	password := flag.String("password", "", "Password to sign in with")
	logLevel := flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall command timeout")
	requestTimeout := flag.Duration("request-timeout", cfg.HTTPClientTimeout, "Per-request HTTP timeout")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *username == "" || *password == "" || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := observability.NewLogger(os.Stderr, *logLevel, "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	jar, err := cookiejar.New(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := page.New(page.Options{
		BaseURL:    *baseURL,
		HTTPClient: &http.Client{Jar: jar, Timeout: *requestTimeout},
		Logger:     logger,
	})
	defer p.Close()

	if err := p.Login(ctx, *username, *password); err != nil {
		fmt.Fprintf(os.Stderr, "Error signing in: %v\n", err)
		os.Exit(1)
	}
	if err := p.Start(ctx); err != nil {
		exit(err)
	}

	if err := run(ctx, os.Stdout, p, flag.Args()); err != nil {
		exit(err)
	}
}

// session is the part of page.Page the commands use.
type session interface {
	Locations() []models.Location
	AddLocation(ctx context.Context, loc models.Location) error
	Remove(ctx context.Context, name string) error
	Clear(ctx context.Context) error
	Forecast(ctx context.Context, name string) (page.ForecastView, error)
}

var errUsage = errors.New("invalid command")

func run(ctx context.Context, w io.Writer, s session, args []string) error {
	cmd, args := args[0], args[1:]
	switch {
	case cmd == "list" && len(args) == 0:
		printLocations(w, s.Locations())
		return nil

	case cmd == "add" && len(args) == 3:
		loc := models.Location{Name: args[0], Lat: args[1], Lon: args[2]}
		if err := s.AddLocation(ctx, loc); err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved %s.\n", loc.Name)
		return nil

	case cmd == "remove" && len(args) == 1:
		if err := s.Remove(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(w, "Removed %s.\n", args[0])
		return nil

	case cmd == "clear" && len(args) == 0:
		count := len(s.Locations())
		if err := s.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintf(w, "Removed %d locations.\n", count)
		return nil

	case cmd == "forecast" && len(args) == 1:
		view, err := s.Forecast(ctx, args[0])
		if err != nil {
			return err
		}
		if view.Error != "" {
			return errors.New(view.Error)
		}
		printForecast(w, view)
		return nil
	}
	return fmt.Errorf("%w: %s", errUsage, cmd)
}

func printLocations(w io.Writer, locations []models.Location) {
	if len(locations) == 0 {
		fmt.Fprintln(w, "No locations saved.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLAT\tLON")
	for _, loc := range locations {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", loc.Name, loc.Lat, loc.Lon)
	}
	tw.Flush()
}

func printForecast(w io.Writer, view page.ForecastView) {
	fmt.Fprintf(w, "Forecast for %s (%s, %s)\n", view.Location.Name, view.Location.Lat, view.Location.Lon)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tWEATHER\tTEMP\tWIND")
	for _, d := range view.Days {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Date, d.Weather, d.TempRange, d.WindSpeed)
	}
	tw.Flush()
	fmt.Fprintf(w, "Image: %s\n", view.ImageURL)
}

func exit(err error) {
	var nav *page.NavigationError
	var invalid *apperr.ValidationError
	switch {
	case errors.As(err, &nav):
		fmt.Fprintf(os.Stderr, "Session ended, the page moved to %s\n", nav.URL)
	case errors.As(err, &invalid):
		fmt.Fprintf(os.Stderr, "Rejected:\n%v\n", err)
	case errors.Is(err, errUsage):
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		flag.Usage()
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
