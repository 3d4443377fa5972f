package dom

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"weather-dashboard/internal/eventloop"
)

// Dispatcher delivers events to document listeners.
type Dispatcher interface {
	Dispatch(ev *Event)
}

// ImageLoader plays the part of an <img> element: pointing it at a URL starts
// a fetch that ends in a load or error event on the element. Loads cannot be
// cancelled.
type ImageLoader struct {
	client *http.Client
	loop   eventloop.Poster
	events Dispatcher
}

// NewImageLoader creates a loader dispatching through events on loop.
func NewImageLoader(client *http.Client, loop eventloop.Poster, events Dispatcher) *ImageLoader {
	return &ImageLoader{client: client, loop: loop, events: events}
}

// SetSource points img at src and starts loading it.
func (l *ImageLoader) SetSource(img *html.Node, src string) {
	SetAttr(img, "src", src)

	l.loop.Go(func() func() {
		eventType := EventLoad
		if err := l.fetch(src); err != nil {
			eventType = EventError
		}
		return func() {
			l.events.Dispatch(&Event{Type: eventType, Target: img, Source: src})
		}
	})
}

func (l *ImageLoader) fetch(src string) error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, src, nil)
	if err != nil {
		return fmt.Errorf("create image request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("image request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image request: status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return fmt.Errorf("image request: unexpected content type %q", ct)
	}

	_, err = io.Copy(io.Discard, resp.Body)
	return err
}
