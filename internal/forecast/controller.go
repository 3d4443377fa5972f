// Package forecast drives the forecast panel: one cancellable data request and
// one image load per selected location, revealed together.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"weather-dashboard/internal/ajax"
	"weather-dashboard/internal/apperr"
	"weather-dashboard/internal/dom"
	"weather-dashboard/internal/eventloop"
	"weather-dashboard/internal/models"
)

// State is the position of the current request in its lifecycle.
type State int

const (
	StateIdle State = iota
	StatePending
	StateDataReady
	StateImageReady
	StateDisplayed
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateDataReady:
		return "data ready"
	case StateImageReady:
		return "image ready"
	case StateDisplayed:
		return "displayed"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Fetcher loads the forecast data for a location.
type Fetcher interface {
	Fetch(ctx context.Context, loc models.Location) ([]Day, error)
}

// ImageSource points an image element at a URL and reports the outcome as a
// load or error event.
type ImageSource interface {
	SetSource(img *html.Node, src string)
}

// Selection yields the location the forecast button applies to.
type Selection interface {
	Selected() (models.Location, bool)
}

// Options configure a Controller.
type Options struct {
	// ImageURL is the image endpoint; ImageLat is the fixed latitude sent
	// with every image request.
	ImageURL string
	ImageLat string

	// Placeholder is shown when the image fails to load.
	Placeholder string
}

// Controller owns the readiness flags of the current forecast request. All
// methods must be called from the page's event loop.
type Controller struct {
	dom     dom.Accessor
	loop    eventloop.Poster
	coord   *ajax.Coordinator
	fetcher Fetcher
	images  ImageSource
	opts    Options
	logger  zerolog.Logger

	state        State
	dataReady    bool
	imageReady   bool
	currentImage string
	days         []Day
}

// NewController creates an idle controller.
func NewController(accessor dom.Accessor, loop eventloop.Poster, coord *ajax.Coordinator, fetcher Fetcher, images ImageSource, opts Options, logger zerolog.Logger) *Controller {
	return &Controller{
		dom:     accessor,
		loop:    loop,
		coord:   coord,
		fetcher: fetcher,
		images:  images,
		opts:    opts,
		logger:  logger,
	}
}

// Wire registers the document listeners for the forecast button, the image
// element and the error dialog.
func (c *Controller) Wire(selection Selection) {
	c.dom.AddEventListenerToDocument(dom.EventClick, func(ev *dom.Event) {
		switch dom.Attr(ev.Target, "id") {
		case ButtonID:
			loc, ok := selection.Selected()
			if !ok {
				c.logger.Debug().Msg("forecast requested without a selected location")
				return
			}
			c.Request(loc)
		case DialogCloseID:
			c.closeDialog()
		case SendReportID:
			c.sendReport()
		}
	})
	c.dom.AddEventListenerToDocument(dom.EventLoad, c.handleImage)
	c.dom.AddEventListenerToDocument(dom.EventError, c.handleImage)
}

// State returns the lifecycle state of the current request.
func (c *Controller) State() State {
	return c.state
}

// Days returns the rows of the last accepted data response.
func (c *Controller) Days() []Day {
	return c.days
}

// Request starts a forecast for loc. Both readiness flags are reset, the
// loading indicator replaces the panel, and any in-flight data request is
// cancelled.
func (c *Controller) Request(loc models.Location) {
	c.dataReady = false
	c.imageReady = false
	c.days = nil
	c.state = StatePending
	c.showLoading()

	ctx := c.coord.IssueCancellation()
	id := c.coord.NextRequestID()

	c.currentImage = c.imageURL(loc)
	if img := c.dom.GetElementByID(ImageID); img != nil {
		c.images.SetSource(img, c.currentImage)
	}

	c.loop.Go(func() func() {
		days, err := c.fetcher.Fetch(ctx, loc)
		return func() {
			c.handleData(id, days, err)
		}
	})
}

func (c *Controller) handleData(id uint64, days []Day, err error) {
	if !c.coord.IsCurrent(id) {
		c.logger.Debug().Uint64("request_id", id).Msg("dropping stale forecast response")
		return
	}
	if err != nil {
		if apperr.IsCancelled(err) {
			return
		}
		c.fail(err)
		return
	}

	c.days = days
	c.renderDays(days)
	c.dataReady = true
	c.advance()
}

// handleImage treats an error as ready, swapping in the placeholder. Events
// for an image URL other than the current one belong to an abandoned request
// and are ignored.
func (c *Controller) handleImage(ev *dom.Event) {
	if dom.Attr(ev.Target, "id") != ImageID {
		return
	}
	if ev.Source != c.currentImage {
		c.logger.Debug().Str("src", ev.Source).Msg("dropping stale image event")
		return
	}
	if c.state == StateIdle || c.state == StateError {
		return
	}

	if ev.Type == dom.EventError {
		c.logger.Warn().Str("src", ev.Source).Msg("forecast image failed to load, using placeholder")
		dom.SetAttr(ev.Target, "src", c.opts.Placeholder)
	}
	c.imageReady = true
	c.advance()
}

// advance derives the state from the flags. The panel is shown only when both
// are set.
func (c *Controller) advance() {
	switch {
	case c.dataReady && c.imageReady:
		c.state = StateDisplayed
		c.show(LoadingID, false)
		c.show(PanelID, true)
	case c.dataReady:
		c.state = StateDataReady
	case c.imageReady:
		c.state = StateImageReady
	}
}

func (c *Controller) fail(err error) {
	c.logger.Error().Err(err).Msg("forecast request failed")
	c.state = StateError
	c.show(PanelID, false)
	c.show(LoadingID, false)

	if text := c.dom.GetElementByID(DialogTextID); text != nil {
		dom.SetTextContent(text, ErrorMessage(err))
	}
	if status := c.dom.GetElementByID(ReportStatusID); status != nil {
		dom.SetTextContent(status, "")
	}
	c.show(DialogID, true)
}

func (c *Controller) showLoading() {
	c.show(PanelID, false)
	c.show(DialogID, false)
	c.show(LoadingID, true)
}

func (c *Controller) closeDialog() {
	c.show(DialogID, false)
}

// sendReport only acknowledges the click; nothing is transmitted.
func (c *Controller) sendReport() {
	if status := c.dom.GetElementByID(ReportStatusID); status != nil {
		dom.SetTextContent(status, "Thank you, the report has been noted.")
	}
	c.logger.Info().Msg("error report acknowledged")
}

func (c *Controller) show(id string, visible bool) {
	n := c.dom.GetElementByID(id)
	if n == nil {
		return
	}
	if visible {
		dom.Show(n)
	} else {
		dom.Hide(n)
	}
}

func (c *Controller) renderDays(days []Day) {
	body := c.dom.GetElementByID(DaysID)
	if body == nil {
		return
	}
	dom.RemoveChildren(body)

	for _, d := range days {
		tr := c.dom.CreateElement("tr")
		for _, cell := range []string{d.Date, d.Weather, d.TempRange, d.WindSpeed} {
			td := c.dom.CreateElement("td")
			dom.SetTextContent(td, cell)
			dom.Append(tr, td)
		}
		dom.Append(body, tr)
	}
}

func (c *Controller) imageURL(loc models.Location) string {
	query := url.Values{
		"lon":     {loc.Lon},
		"lat":     {c.opts.ImageLat},
		"ac":      {"0"},
		"lang":    {"en"},
		"unit":    {"metric"},
		"output":  {"internal"},
		"tzshift": {"0"},
	}.Encode()

	u, err := url.Parse(c.opts.ImageURL)
	if err != nil {
		return c.opts.ImageURL + "?" + query
	}
	u.RawQuery = query
	return u.String()
}

// ErrorMessage is the dialog text for a failed data request.
func ErrorMessage(err error) string {
	var (
		netErr       *apperr.NetworkError
		statusErr    *apperr.StatusError
		malformedErr *apperr.MalformedResponseError
	)

	switch {
	case errors.As(err, &netErr):
		return "The weather service could not be reached. Check your connection and try again."
	case errors.As(err, &statusErr) && statusErr.StatusCode >= 400 && statusErr.StatusCode < 500:
		return fmt.Sprintf("The weather service rejected the request (status %d).", statusErr.StatusCode)
	case errors.As(err, &statusErr) && statusErr.StatusCode >= 500:
		return fmt.Sprintf("The weather service is unavailable (status %d). Try again later.", statusErr.StatusCode)
	case errors.As(err, &malformedErr):
		return "The weather service sent a forecast that could not be read."
	default:
		return "Something went wrong while loading the forecast."
	}
}
