package dom

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"weather-dashboard/internal/eventloop"
)

const testPage = `<!DOCTYPE html>
<html><body>
<form id="location-form">
  <div class="form-field">
    <label for="location-name">Name</label>
    <input id="location-name" name="name" value="">
    <span class="error-message"></span>
  </div>
  <div class="form-field">
    <input id="location-lat" name="lat" value="">
    <span class="error-message"></span>
  </div>
</form>
<ul id="location-list">
  <li class="location-row" data-name="Paris"><button class="location-name">Paris</button></li>
  <li class="location-row" data-name="Oslo"><button class="location-name">Oslo</button></li>
</ul>
</body></html>`

// countingSource records how often each lookup reaches the document.
type countingSource struct {
	*Document
	calls map[string]int
}

func newCountingSource(t *testing.T) *countingSource {
	doc, err := ParseString(testPage)
	require.NoError(t, err)
	return &countingSource{Document: doc, calls: map[string]int{}}
}

func (s *countingSource) GetElementByID(id string) *html.Node {
	s.calls["id"]++
	return s.Document.GetElementByID(id)
}

func (s *countingSource) QuerySelector(sel string) *html.Node {
	s.calls["query"]++
	return s.Document.QuerySelector(sel)
}

func (s *countingSource) QuerySelectorAll(sel string) []*html.Node {
	s.calls["queryAll"]++
	return s.Document.QuerySelectorAll(sel)
}

func (s *countingSource) GetElementsByClassName(class string) []*html.Node {
	s.calls["class"]++
	return s.Document.GetElementsByClassName(class)
}

func (s *countingSource) FormInputs() []*html.Node {
	s.calls["inputs"]++
	return s.Document.FormInputs()
}

func TestDocument_Lookups(t *testing.T) {
	doc, err := ParseString(testPage)
	require.NoError(t, err)

	list := doc.GetElementByID("location-list")
	require.NotNil(t, list)
	assert.Equal(t, "ul", list.Data)

	rows := doc.GetElementsByClassName("location-row")
	assert.Len(t, rows, 2)

	oslo := doc.QuerySelector(`li[data-name="Oslo"]`)
	require.NotNil(t, oslo)
	assert.Equal(t, "Oslo", TextContent(oslo))

	assert.Len(t, doc.QuerySelectorAll("#location-list > li"), 2)
	assert.Len(t, doc.FormInputs(), 2)
	assert.Nil(t, doc.QuerySelector("[[invalid"))
}

func TestCache_MemoizesByKey(t *testing.T) {
	src := newCountingSource(t)
	c := NewCache(src)

	first := c.QuerySelector("#location-list", false)
	second := c.QuerySelector("#location-list", false)
	assert.Same(t, first, second)
	assert.Equal(t, 1, src.calls["query"])

	c.QuerySelector("#location-list", true)
	assert.Equal(t, 2, src.calls["query"])

	c.GetElementsByClassName("location-row", false)
	c.GetElementsByClassName("location-row", false)
	assert.Equal(t, 1, src.calls["class"])

	c.QuerySelectorAll("li", false)
	c.QuerySelectorAll("li", false)
	assert.Equal(t, 1, src.calls["queryAll"])
}

func TestCache_GetElementByIDIsNeverCached(t *testing.T) {
	src := newCountingSource(t)
	c := NewCache(src)

	c.GetElementByID("location-list")
	c.GetElementByID("location-list")
	assert.Equal(t, 2, src.calls["id"])
}

func TestCache_RefreshSeesNewElements(t *testing.T) {
	src := newCountingSource(t)
	c := NewCache(src)

	rows := c.GetElementsByClassName("location-row", false)
	require.Len(t, rows, 2)

	li := c.CreateElement("li")
	AddClass(li, "location-row")
	Append(src.GetElementByID("location-list"), li)

	assert.Len(t, c.GetElementsByClassName("location-row", false), 2)
	assert.Len(t, c.GetElementsByClassName("location-row", true), 3)
}

func TestCache_GetInputByNameUsesInputSnapshot(t *testing.T) {
	src := newCountingSource(t)
	c := NewCache(src)

	name := c.GetInputByName("name", false)
	require.NotNil(t, name)
	assert.Equal(t, "location-name", Attr(name, "id"))

	lat := c.GetInputByName("lat", false)
	require.NotNil(t, lat)
	assert.Equal(t, 1, src.calls["inputs"])

	c.GetInputByName("name", false)
	assert.Equal(t, 1, src.calls["inputs"])

	c.GetInputByName("name", true)
	assert.Equal(t, 2, src.calls["inputs"])
}

func TestCache_GetErrorElement(t *testing.T) {
	src := newCountingSource(t)
	c := NewCache(src)

	errEl := c.GetErrorElement("location-lat", false)
	require.NotNil(t, errEl)
	assert.True(t, HasClass(errEl, ErrorClass))
	assert.Same(t, src.Document.GetElementByID("location-lat").Parent, errEl.Parent)

	c.GetErrorElement("location-lat", false)
	assert.Equal(t, 1, src.calls["id"])

	assert.Nil(t, c.GetErrorElement("missing", false))
}

func TestCache_Invalidate(t *testing.T) {
	src := newCountingSource(t)
	c := NewCache(src)

	c.QuerySelector("ul", false)
	c.Invalidate()
	c.QuerySelector("ul", false)
	assert.Equal(t, 2, src.calls["query"])
}

func TestElementHelpers(t *testing.T) {
	doc, err := ParseString(`<html><body><div id="x" class="a b"></div></body></html>`)
	require.NoError(t, err)
	el := doc.GetElementByID("x")

	AddClass(el, "c")
	assert.Equal(t, []string{"a", "b", "c"}, Classes(el))
	AddClass(el, "c")
	assert.Equal(t, []string{"a", "b", "c"}, Classes(el))

	RemoveClass(el, "b")
	assert.False(t, HasClass(el, "b"))

	ToggleClass(el, "selected", true)
	assert.True(t, HasClass(el, "selected"))
	ToggleClass(el, "selected", false)
	assert.False(t, HasClass(el, "selected"))

	Hide(el)
	assert.True(t, IsHidden(el))
	Show(el)
	assert.False(t, IsHidden(el))

	SetTextContent(el, "hello")
	assert.Equal(t, "hello", TextContent(el))
	SetTextContent(el, "")
	assert.Nil(t, el.FirstChild)

	var b strings.Builder
	require.NoError(t, doc.Render(&b))
	assert.Contains(t, b.String(), `id="x"`)
}

func TestTreeHelpers(t *testing.T) {
	doc, err := ParseString(testPage)
	require.NoError(t, err)
	list := doc.GetElementByID("location-list")

	li := doc.CreateElement("li")
	AddClass(li, "location-row")
	button := doc.CreateElement("button")
	AddClass(button, "location-name")
	SetTextContent(button, "Rome & Co")
	Append(li, button)
	Append(list, li)

	assert.Len(t, Children(list), 3)
	assert.Equal(t, "Rome & Co", TextContent(li))
	assert.Same(t, li, Closest(button, "location-row"))
	assert.Same(t, button, Closest(button, "location-name"))
	assert.Nil(t, Closest(button, "missing"))

	Remove(li)
	assert.Len(t, Children(list), 2)
	assert.Nil(t, li.Parent)

	RemoveChildren(list)
	assert.Empty(t, Children(list))
	assert.Empty(t, doc.GetElementsByClassName("location-row"))
}

func TestElementHelpers_NilNode(t *testing.T) {
	assert.Equal(t, "", Attr(nil, "id"))
	assert.False(t, HasAttr(nil, "hidden"))
	assert.False(t, HasClass(nil, "selected"))
	assert.Nil(t, Closest(nil, "location-row"))
	assert.Empty(t, Children(nil))
	Remove(nil)
}

func TestDocument_DispatchInRegistrationOrder(t *testing.T) {
	doc, err := ParseString(testPage)
	require.NoError(t, err)

	var order []string
	doc.AddEventListener(EventClick, func(*Event) { order = append(order, "first") })
	doc.AddEventListener(EventClick, func(*Event) { order = append(order, "second") })
	doc.AddEventListener(EventKeyUp, func(*Event) { order = append(order, "keyup") })

	doc.Dispatch(&Event{Type: EventClick})
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestImageLoader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok.png" {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	doc, err := ParseString(`<html><body><img id="img"></body></html>`)
	require.NoError(t, err)
	img := doc.GetElementByID("img")

	var events []*Event
	doc.AddEventListener(EventLoad, func(ev *Event) { events = append(events, ev) })
	doc.AddEventListener(EventError, func(ev *Event) { events = append(events, ev) })

	loop := eventloop.New()
	loader := NewImageLoader(&http.Client{Timeout: 5 * time.Second}, loop, doc)

	loader.SetSource(img, srv.URL+"/ok.png")
	assert.Equal(t, srv.URL+"/ok.png", Attr(img, "src"))
	require.NoError(t, loop.RunUntilIdle(context.Background()))

	loader.SetSource(img, srv.URL+"/missing.png")
	require.NoError(t, loop.RunUntilIdle(context.Background()))

	require.Len(t, events, 2)
	assert.Equal(t, EventLoad, events[0].Type)
	assert.Same(t, img, events[0].Target)
	assert.Equal(t, srv.URL+"/ok.png", events[0].Source)
	assert.Equal(t, EventError, events[1].Type)
}
