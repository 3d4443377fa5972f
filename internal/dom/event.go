package dom

import "golang.org/x/net/html"

// Event types dispatched by the page.
const (
	EventClick  = "click"
	EventSubmit = "submit"
	EventKeyUp  = "keyup"
	EventLoad   = "load"
	EventError  = "error"
)

// Event is a dispatched DOM event.
type Event struct {
	Type   string
	Target *html.Node

	// Source is the URL an image load or error event refers to.
	Source string

	// SuppressEmpty is set on the synthetic keyup sent after an input is
	// cleared programmatically, so an empty value does not show an error.
	SuppressEmpty bool
}

// Listener handles a dispatched event.
type Listener func(ev *Event)

// AddEventListener registers fn for every event of eventType dispatched on
// the document, whatever its target.
func (d *Document) AddEventListener(eventType string, fn Listener) {
	d.listeners[eventType] = append(d.listeners[eventType], fn)
}

// Dispatch delivers ev to the listeners registered for its type, in
// registration order.
func (d *Document) Dispatch(ev *Event) {
	for _, fn := range d.listeners[ev.Type] {
		fn(ev)
	}
}
