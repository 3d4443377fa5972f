package locationlist

import (
	"strings"

	"golang.org/x/net/html"

	"weather-dashboard/internal/dom"
	"weather-dashboard/internal/models"
	"weather-dashboard/internal/validation"
)

// Wire registers the document listeners for the form and the list.
func (c *Controller) Wire() {
	c.dom.AddEventListenerToDocument(dom.EventSubmit, func(ev *dom.Event) {
		if dom.Attr(ev.Target, "id") == FormID {
			c.SubmitForm()
		}
	})
	c.dom.AddEventListenerToDocument(dom.EventKeyUp, func(ev *dom.Event) {
		if c.isFormInput(ev.Target) {
			c.ValidateInput(ev.Target, ev.SuppressEmpty)
		}
	})
	c.dom.AddEventListenerToDocument(dom.EventClick, c.handleClick)
}

func (c *Controller) handleClick(ev *dom.Event) {
	target := ev.Target
	if dom.Attr(target, "id") == ClearButtonID {
		c.ClearList()
		return
	}

	row := dom.Closest(target, RowClass)
	if row == nil {
		return
	}
	name := dom.Attr(row, NameAttr)

	switch {
	case dom.Closest(target, DeleteButtonClass) != nil:
		c.RemoveLocation(name)
	case dom.Closest(target, NameButtonClass) != nil:
		c.DisplayLocationDetails(name)
	}
}

// SubmitForm validates every input and, when all pass, saves the location
// and clears the form.
func (c *Controller) SubmitForm() {
	inputs := c.inputs()

	valid := true
	for _, in := range inputs {
		if in == nil {
			return
		}
		if !c.ValidateInput(in, false) {
			valid = false
		}
	}
	if !valid {
		return
	}

	loc := models.Location{
		Name: inputValue(inputs[0]),
		Lat:  inputValue(inputs[1]),
		Lon:  inputValue(inputs[2]),
	}
	c.AddLocationToList(loc, true)
	c.resetForm(inputs)
}

// ValidateInput shows or clears the error text next to in and reports
// whether its value is acceptable. With suppressEmpty an empty value shows no
// error.
func (c *Controller) ValidateInput(in *html.Node, suppressEmpty bool) bool {
	value := inputValue(in)

	var message string
	switch dom.Attr(in, "name") {
	case NameInput:
		message = validation.NameErrorMessage(value)
	case LatInput:
		message = validation.ErrorMessage(validation.LatLonErrorSummary(value, validation.Lat), validation.Lat)
	case LonInput:
		message = validation.ErrorMessage(validation.LatLonErrorSummary(value, validation.Lon), validation.Lon)
	}
	valid := message == ""
	if suppressEmpty && value == "" {
		message = ""
	}

	if errEl := c.dom.GetErrorElement(dom.Attr(in, "id"), false); errEl != nil {
		dom.SetTextContent(errEl, message)
	}
	dom.ToggleClass(in, InvalidClass, message != "")
	return valid
}

// resetForm empties the inputs and fires a synthetic keyup on each so stale
// error text is cleared without flagging the now-empty values.
func (c *Controller) resetForm(inputs []*html.Node) {
	for _, in := range inputs {
		dom.SetValue(in, "")
		c.events.Dispatch(&dom.Event{Type: dom.EventKeyUp, Target: in, SuppressEmpty: true})
	}
}

func (c *Controller) inputs() []*html.Node {
	return []*html.Node{
		c.dom.GetInputByName(NameInput, false),
		c.dom.GetInputByName(LatInput, false),
		c.dom.GetInputByName(LonInput, false),
	}
}

func (c *Controller) isFormInput(n *html.Node) bool {
	for _, in := range c.inputs() {
		if in != nil && in == n {
			return true
		}
	}
	return false
}

func inputValue(in *html.Node) string {
	return strings.TrimSpace(dom.Value(in))
}
