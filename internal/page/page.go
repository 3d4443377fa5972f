// Package page runs the home page headlessly: it loads the server-rendered
// HTML, wires the location list and forecast controllers to the DOM, and
// exposes the user actions a browser would perform.
package page

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"weather-dashboard/internal/ajax"
	"weather-dashboard/internal/apiclient"
	"weather-dashboard/internal/dom"
	"weather-dashboard/internal/eventloop"
	"weather-dashboard/internal/forecast"
	"weather-dashboard/internal/locationlist"
	"weather-dashboard/internal/models"
)

const (
	// HomePath serves the location dashboard.
	HomePath = "/"

	// LogoutURLAttr on <body> names the logout hook target.
	LogoutURLAttr = "data-logout-url"

	defaultLogoutPath = "/logout"
)

// ErrNotReady is returned by actions issued before the page has loaded.
var ErrNotReady = errors.New("page: not loaded")

// NavigationError reports that the page navigated away, ending its lifetime.
type NavigationError struct {
	URL string
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("page: navigated to %s", e.URL)
}

// Options configure a Page.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Clock      clockwork.Clock
	Logger     zerolog.Logger

	// DataURL overrides the forecast data endpoint advertised by the page.
	DataURL string
}

// Page owns the event loop and everything that runs on it.
type Page struct {
	opts   Options
	loop   *eventloop.Loop
	client *apiclient.Client
	logger zerolog.Logger

	ctx      context.Context
	doc      *dom.Document
	cache    *dom.Cache
	coord    *ajax.Coordinator
	list     *locationlist.Controller
	forecast *forecast.Controller

	ready    bool
	buffered []models.Location

	loadErr     error
	fatalErr    error
	navigatedTo string
	lastSync    time.Time
}

// New creates a page for the server at opts.BaseURL. The HTTP client should
// carry a cookie jar.
func New(opts Options) *Page {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	p := &Page{
		opts:   opts,
		loop:   eventloop.New(),
		logger: opts.Logger.With().Str("component", "page").Logger(),
	}
	p.client = apiclient.NewClient(opts.BaseURL, opts.HTTPClient, p.loop, p, opts.Logger)
	p.client.SetHooks(apiclient.Hooks{
		Before: func() { p.logger.Debug().Msg("api call issued") },
		After:  func() { p.lastSync = p.opts.Clock.Now() },
	})
	return p
}

// Login obtains a session before the page is loaded.
func (p *Page) Login(ctx context.Context, username, password string) error {
	return p.client.Login(ctx, username, password)
}

// Start loads the page. The location list is requested at once; its result is
// held until the document has been parsed and wired.
func (p *Page) Start(ctx context.Context) error {
	p.ctx = ctx
	p.coord = ajax.NewCoordinator(ctx)
	p.client.GetLocations(ctx, p.locationsLoaded, p.locationsFailed)

	p.loop.Go(func() func() {
		body, err := p.client.FetchPage(ctx, HomePath)
		return func() {
			p.domReady(body, err)
		}
	})
	return p.settle(ctx)
}

// Close cancels any outstanding forecast request.
func (p *Page) Close() {
	if p.coord != nil {
		p.coord.Stop()
	}
}

// Navigate ends the page's lifetime. Only the first navigation counts.
func (p *Page) Navigate(target string) {
	if p.navigatedTo != "" {
		return
	}
	p.logger.Info().Str("url", target).Msg("navigating away")
	p.navigatedTo = target
	if p.coord != nil {
		p.coord.Stop()
	}
}

// LastSync returns when the backend last accepted a call.
func (p *Page) LastSync() time.Time {
	return p.lastSync
}

func (p *Page) locationsLoaded(resp apiclient.Response) {
	if !p.ready {
		p.buffered = append(p.buffered, resp.Locations...)
		return
	}
	for _, loc := range resp.Locations {
		p.list.AddLocationToList(loc, false)
	}
}

func (p *Page) locationsFailed(err error) {
	p.logger.Error().Err(err).Msg("loading locations failed")
	if errors.Is(err, context.Canceled) || p.navigatedTo != "" {
		return
	}
	p.logout(err)
}

func (p *Page) domReady(body []byte, err error) {
	if err != nil {
		p.loadErr = fmt.Errorf("page: load %s: %w", HomePath, err)
		return
	}
	doc, err := dom.Parse(bytes.NewReader(body))
	if err != nil {
		p.loadErr = fmt.Errorf("page: parse %s: %w", HomePath, err)
		return
	}

	p.doc = doc
	p.cache = dom.NewCache(doc)
	p.list = locationlist.NewController(p.ctx, p.cache, doc, p.client, locationlist.Hooks{
		Logout: p.logout,
		Fatal:  p.fatal,
	}, p.opts.Logger)
	p.list.Wire()

	p.forecast = p.newForecast()
	p.forecast.Wire(p.list)

	p.ready = true
	for _, loc := range p.buffered {
		p.list.AddLocationToList(loc, false)
	}
	p.buffered = nil
	p.logger.Debug().Int("locations", p.list.Len()).Msg("page ready")
}

func (p *Page) newForecast() *forecast.Controller {
	panel := p.doc.GetElementByID(forecast.PanelID)
	dataURL := p.opts.DataURL
	if dataURL == "" {
		dataURL = dom.Attr(panel, forecast.DataURLAttr)
	}

	fetcher := forecast.NewClient(p.opts.HTTPClient, dataURL, p.opts.Clock)
	images := dom.NewImageLoader(p.opts.HTTPClient, p.loop, p.doc)
	return forecast.NewController(p.cache, p.loop, p.coord, fetcher, images, forecast.Options{
		ImageURL:    dom.Attr(panel, forecast.ImageURLAttr),
		ImageLat:    dom.Attr(panel, forecast.ImageLatAttr),
		Placeholder: p.resolve(dom.Attr(panel, forecast.PlaceholderAttr)),
	}, p.opts.Logger)
}

// logout is the page's error-and-session-invalidation path.
func (p *Page) logout(err error) {
	p.logger.Warn().Err(err).Msg("logging out after backend failure")
	target := defaultLogoutPath
	if p.doc != nil {
		if u := dom.Attr(p.doc.Body(), LogoutURLAttr); u != "" {
			target = u
		}
	}
	p.Navigate(p.resolve(target))
}

// resolve makes a site-relative path absolute against the server.
func (p *Page) resolve(ref string) string {
	base, err := url.Parse(p.client.BaseURL() + "/")
	if err != nil {
		return ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}

func (p *Page) fatal(err error) {
	p.logger.Error().Err(err).Msg("fatal page error")
	if p.fatalErr == nil {
		p.fatalErr = err
	}
}

// settle runs the loop until nothing is pending and reports how the page
// ended up.
func (p *Page) settle(ctx context.Context) error {
	if err := p.loop.RunUntilIdle(ctx); err != nil {
		return fmt.Errorf("page: run: %w", err)
	}
	switch {
	case p.fatalErr != nil:
		return p.fatalErr
	case p.navigatedTo != "":
		return &NavigationError{URL: p.navigatedTo}
	case p.loadErr != nil:
		return p.loadErr
	}
	return nil
}

// act runs fn on the loop once the page is usable and waits for everything it
// started to finish.
func (p *Page) act(ctx context.Context, fn func()) error {
	if p.navigatedTo != "" {
		return &NavigationError{URL: p.navigatedTo}
	}
	if !p.ready {
		return ErrNotReady
	}
	p.loop.Post(fn)
	return p.settle(ctx)
}
