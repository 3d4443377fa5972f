// Package locationlist keeps the user's locations in memory and mirrors them
// into the rendered list.
package locationlist

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"weather-dashboard/internal/apiclient"
	"weather-dashboard/internal/apperr"
	"weather-dashboard/internal/dom"
	"weather-dashboard/internal/models"
)

// Backend is the part of the API client the list needs.
type Backend interface {
	AddLocation(ctx context.Context, loc models.Location, onSuccess func(apiclient.Response), onError func(error))
	RemoveLocationsByNames(ctx context.Context, names []string, onSuccess func(apiclient.Response), onError func(error))
}

// Hooks are the page-level reactions the controller cannot handle itself.
type Hooks struct {
	// Logout is the error-and-session-invalidation path taken when a backend
	// call for the list fails.
	Logout func(err error)

	// Fatal receives invariant violations such as a delete count mismatch.
	Fatal func(err error)
}

// Controller owns the name-keyed location map and the list rows. All methods
// must be called from the page's event loop.
type Controller struct {
	ctx       context.Context
	dom       dom.Accessor
	events    dom.Dispatcher
	backend   Backend
	hooks     Hooks
	logger    zerolog.Logger
	locations map[string]models.Location
	selected  string
}

// NewController creates a controller over the rendered list.
func NewController(ctx context.Context, accessor dom.Accessor, events dom.Dispatcher, backend Backend, hooks Hooks, logger zerolog.Logger) *Controller {
	return &Controller{
		ctx:       ctx,
		dom:       accessor,
		events:    events,
		backend:   backend,
		hooks:     hooks,
		logger:    logger,
		locations: make(map[string]models.Location),
	}
}

// AddLocationToList upserts loc. With updateBackend the change is saved first
// and applied only once the backend accepts it. A row is appended only when
// no row for the name exists yet.
func (c *Controller) AddLocationToList(loc models.Location, updateBackend bool) {
	if !updateBackend {
		c.upsert(loc)
		return
	}

	c.backend.AddLocation(c.ctx, loc, func(apiclient.Response) {
		c.upsert(loc)
	}, c.backendFailed)
}

func (c *Controller) upsert(loc models.Location) {
	c.locations[loc.Name] = loc

	if c.findRow(loc.Name) == nil {
		if list := c.list(); list != nil {
			dom.Append(list, c.newRow(loc))
		}
	}
	c.restyle()

	if c.selected == loc.Name {
		c.renderDetails(loc)
	}
}

// RemoveLocation deletes a single row.
func (c *Controller) RemoveLocation(name string) {
	c.RemoveLocationsByNames([]string{name})
}

// RemoveLocationsByNames deletes the named locations on the backend and, once
// it succeeds, drops their rows and map entries. Repeated names are sent once.
// A deleted-row count that differs from the number of distinct names is
// reported through Hooks.Fatal.
func (c *Controller) RemoveLocationsByNames(names []string) {
	names = distinct(names)
	if len(names) == 0 {
		return
	}

	c.backend.RemoveLocationsByNames(c.ctx, names, func(resp apiclient.Response) {
		for _, name := range names {
			c.drop(name)
		}
		c.restyle()
		c.checkDeleted(resp.Message, len(names))
	}, c.backendFailed)
}

// ClearList deletes every location and restores the empty-list placeholder.
func (c *Controller) ClearList() {
	names := c.Names()
	if len(names) == 0 {
		c.resetList()
		return
	}

	c.backend.RemoveLocationsByNames(c.ctx, names, func(resp apiclient.Response) {
		c.resetList()
		c.checkDeleted(resp.Message, len(names))
	}, c.backendFailed)
}

// DisplayLocationDetails selects the row for name and shows its coordinates.
// Every other row is deselected.
func (c *Controller) DisplayLocationDetails(name string) {
	loc, ok := c.locations[name]
	if !ok {
		return
	}

	for _, row := range c.rows() {
		dom.ToggleClass(row, SelectedClass, dom.Attr(row, NameAttr) == name)
	}
	c.selected = name
	c.renderDetails(loc)
}

// Selected returns the selected location.
func (c *Controller) Selected() (models.Location, bool) {
	loc, ok := c.locations[c.selected]
	return loc, ok
}

// Location returns the stored location for name.
func (c *Controller) Location(name string) (models.Location, bool) {
	loc, ok := c.locations[name]
	return loc, ok
}

// Names returns the stored names in sorted order.
func (c *Controller) Names() []string {
	names := make([]string, 0, len(c.locations))
	for name := range c.locations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of stored locations.
func (c *Controller) Len() int {
	return len(c.locations)
}

// distinct returns names without repeats, keeping first occurrences in order.
func distinct(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func (c *Controller) backendFailed(err error) {
	if apperr.IsCancelled(err) {
		return
	}
	c.logger.Error().Err(err).Msg("location backend call failed")
	// The client already navigated away for an expired session.
	if errors.Is(err, apperr.ErrAccessDenied) {
		return
	}
	if c.hooks.Logout != nil {
		c.hooks.Logout(err)
	}
}

func (c *Controller) checkDeleted(message string, requested int) {
	deleted, err := strconv.Atoi(strings.TrimSpace(message))
	if err != nil {
		c.fatal(&apperr.FatalInvariantError{Message: fmt.Sprintf("unreadable deleted count %q", message)})
		return
	}
	if deleted != requested {
		c.fatal(&apperr.FatalInvariantError{
			Message: fmt.Sprintf("requested %d deletions but backend deleted %d rows", requested, deleted),
		})
	}
}

func (c *Controller) fatal(err error) {
	c.logger.Error().Err(err).Msg("location list invariant violated")
	if c.hooks.Fatal == nil {
		panic(err)
	}
	c.hooks.Fatal(err)
}

func (c *Controller) drop(name string) {
	delete(c.locations, name)
	dom.Remove(c.findRow(name))
	if c.selected == name {
		c.clearSelection()
	}
}

func (c *Controller) resetList() {
	if list := c.list(); list != nil {
		dom.RemoveChildren(list)
	}
	clear(c.locations)
	c.clearSelection()
	c.restyle()
}

func (c *Controller) clearSelection() {
	c.selected = ""
	if details := c.dom.GetElementByID(DetailsID); details != nil {
		dom.Hide(details)
	}
}

func (c *Controller) renderDetails(loc models.Location) {
	details := c.dom.GetElementByID(DetailsID)
	if details == nil {
		return
	}
	setText(c.dom.GetElementByID(DetailsNameID), loc.Name)
	setText(c.dom.GetElementByID(DetailsLatID), loc.Lat)
	setText(c.dom.GetElementByID(DetailsLonID), loc.Lon)
	dom.Show(details)
}

func setText(n *html.Node, text string) {
	if n != nil {
		dom.SetTextContent(n, text)
	}
}

// restyle recomputes the edge affordances from row positions and toggles the
// placeholder.
func (c *Controller) restyle() {
	rows := c.rows()
	last := len(rows) - 1
	for i, row := range rows {
		dom.ToggleClass(row, RoundedTopClass, i == 0)
		dom.ToggleClass(row, NoTopBorderClass, i == 0)
		dom.ToggleClass(row, RoundedBottomClass, i == last)
	}

	if placeholder := c.dom.GetElementByID(PlaceholderID); placeholder != nil {
		if len(rows) == 0 {
			dom.Show(placeholder)
		} else {
			dom.Hide(placeholder)
		}
	}
}

func (c *Controller) list() *html.Node {
	return c.dom.QuerySelector("#"+ListID, false)
}

func (c *Controller) rows() []*html.Node {
	list := c.list()
	if list == nil {
		return nil
	}
	var rows []*html.Node
	for _, child := range dom.Children(list) {
		if dom.HasClass(child, RowClass) {
			rows = append(rows, child)
		}
	}
	return rows
}

func (c *Controller) findRow(name string) *html.Node {
	for _, row := range c.rows() {
		if dom.Attr(row, NameAttr) == name {
			return row
		}
	}
	return nil
}

func (c *Controller) newRow(loc models.Location) *html.Node {
	row := c.dom.CreateElement("li")
	dom.AddClass(row, RowClass)
	dom.SetAttr(row, NameAttr, loc.Name)

	nameButton := c.dom.CreateElement("button")
	dom.SetAttr(nameButton, "type", "button")
	dom.AddClass(nameButton, NameButtonClass)
	dom.SetTextContent(nameButton, loc.Name)

	deleteButton := c.dom.CreateElement("button")
	dom.SetAttr(deleteButton, "type", "button")
	dom.AddClass(deleteButton, DeleteButtonClass)
	dom.SetAttr(deleteButton, "aria-label", "Delete "+loc.Name)
	dom.SetTextContent(deleteButton, "Delete")

	dom.Append(row, nameButton, deleteButton)
	return row
}
