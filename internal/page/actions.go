package page

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"weather-dashboard/internal/apperr"
	"weather-dashboard/internal/dom"
	"weather-dashboard/internal/forecast"
	"weather-dashboard/internal/locationlist"
	"weather-dashboard/internal/models"
)

// ErrUnknownLocation is returned when an action names a location that has no
// row on the page.
var ErrUnknownLocation = errors.New("page: unknown location")

// ForecastView is what the forecast panel shows once a request settles.
type ForecastView struct {
	Location models.Location
	State    forecast.State
	Days     []forecast.Day
	ImageURL string
	Error    string
}

// Locations returns the listed locations in name order.
func (p *Page) Locations() []models.Location {
	if !p.ready {
		return nil
	}
	names := p.list.Names()
	out := make([]models.Location, 0, len(names))
	for _, name := range names {
		loc, _ := p.list.Location(name)
		out = append(out, loc)
	}
	return out
}

// AddLocation fills in and submits the add form. Rejected input is reported
// as the joined *apperr.ValidationError of every flagged field.
func (p *Page) AddLocation(ctx context.Context, loc models.Location) error {
	var invalid error
	err := p.act(ctx, func() {
		fields := map[string]string{
			locationlist.NameInputID: loc.Name,
			locationlist.LatInputID:  loc.Lat,
			locationlist.LonInputID:  loc.Lon,
		}
		for id, value := range fields {
			if in := p.cache.GetElementByID(id); in != nil {
				dom.SetValue(in, value)
			}
		}
		p.doc.Dispatch(&dom.Event{Type: dom.EventSubmit, Target: p.cache.GetElementByID(locationlist.FormID)})
		invalid = p.validationErrors()
	})
	if err != nil {
		return err
	}
	return invalid
}

func (p *Page) validationErrors() error {
	var errs []error
	for _, field := range []struct{ id, name string }{
		{locationlist.NameInputID, locationlist.NameInput},
		{locationlist.LatInputID, locationlist.LatInput},
		{locationlist.LonInputID, locationlist.LonInput},
	} {
		if msg := dom.TextContent(p.cache.GetErrorElement(field.id, false)); msg != "" {
			errs = append(errs, &apperr.ValidationError{Field: field.name, Message: msg})
		}
	}
	return errors.Join(errs...)
}

// Select clicks the name of a row, showing its details.
func (p *Page) Select(ctx context.Context, name string) error {
	return p.clickRow(ctx, name, locationlist.NameButtonClass)
}

// Remove clicks the delete button of a row.
func (p *Page) Remove(ctx context.Context, name string) error {
	return p.clickRow(ctx, name, locationlist.DeleteButtonClass)
}

// Clear clicks the clear-list button.
func (p *Page) Clear(ctx context.Context) error {
	return p.act(ctx, func() {
		p.click(p.cache.GetElementByID(locationlist.ClearButtonID))
	})
}

// Forecast selects name, clicks the forecast button and waits for both the
// data and the image to settle.
func (p *Page) Forecast(ctx context.Context, name string) (ForecastView, error) {
	if err := p.Select(ctx, name); err != nil {
		return ForecastView{}, err
	}
	if err := p.act(ctx, func() {
		p.click(p.cache.GetElementByID(forecast.ButtonID))
	}); err != nil {
		return ForecastView{}, err
	}

	loc, _ := p.list.Selected()
	view := ForecastView{
		Location: loc,
		State:    p.forecast.State(),
		Days:     p.forecast.Days(),
		ImageURL: dom.Attr(p.cache.GetElementByID(forecast.ImageID), "src"),
	}
	if dialog := p.cache.GetElementByID(forecast.DialogID); dialog != nil && !dom.IsHidden(dialog) {
		view.Error = dom.TextContent(p.cache.GetElementByID(forecast.DialogTextID))
	}
	return view, nil
}

func (p *Page) clickRow(ctx context.Context, name, class string) error {
	var missing bool
	err := p.act(ctx, func() {
		button := p.rowButton(name, class)
		if button == nil {
			missing = true
			return
		}
		p.click(button)
	})
	if err != nil {
		return err
	}
	if missing {
		return fmt.Errorf("%w: %q", ErrUnknownLocation, name)
	}
	return nil
}

func (p *Page) rowButton(name, class string) *html.Node {
	for _, row := range p.cache.GetElementsByClassName(locationlist.RowClass, true) {
		if dom.Attr(row, locationlist.NameAttr) != name {
			continue
		}
		for _, child := range dom.Children(row) {
			if dom.HasClass(child, class) {
				return child
			}
		}
	}
	return nil
}

func (p *Page) click(target *html.Node) {
	if target == nil {
		return
	}
	p.doc.Dispatch(&dom.Event{Type: dom.EventClick, Target: target})
}
