package dom

import "golang.org/x/net/html"

// ErrorClass marks the element that displays an input's validation message.
const ErrorClass = "error-message"

// Accessor is the lookup surface the page controllers use. Every method with
// a refresh flag returns its memoized result unless refresh is true.
type Accessor interface {
	GetElementByID(id string) *html.Node
	QuerySelector(selector string, refresh bool) *html.Node
	QuerySelectorAll(selector string, refresh bool) []*html.Node
	GetElementsByClassName(class string, refresh bool) []*html.Node
	GetInputByName(name string, refresh bool) *html.Node
	GetErrorElement(inputID string, refresh bool) *html.Node
	CreateElement(tag string) *html.Node
	AddEventListenerToDocument(eventType string, fn Listener)
}

// keyed memoizes values by lookup key.
type keyed[T any] struct {
	entries map[string]T
}

func newKeyed[T any]() *keyed[T] {
	return &keyed[T]{entries: make(map[string]T)}
}

func (k *keyed[T]) get(key string, refresh bool, resolve func() T) T {
	if v, ok := k.entries[key]; ok && !refresh {
		return v
	}
	v := resolve()
	k.entries[key] = v
	return v
}

func (k *keyed[T]) invalidate() {
	clear(k.entries)
}

// Cache memoizes lookups against a Source. GetElementByID, CreateElement and
// AddEventListenerToDocument always go to the source.
type Cache struct {
	src Source

	selector    *keyed[*html.Node]
	selectorAll *keyed[[]*html.Node]
	classes     *keyed[[]*html.Node]
	inputs      *keyed[*html.Node]
	errors      *keyed[*html.Node]

	formInputs []*html.Node
	haveInputs bool
}

var _ Accessor = (*Cache)(nil)

// NewCache creates an empty cache over src.
func NewCache(src Source) *Cache {
	return &Cache{
		src:         src,
		selector:    newKeyed[*html.Node](),
		selectorAll: newKeyed[[]*html.Node](),
		classes:     newKeyed[[]*html.Node](),
		inputs:      newKeyed[*html.Node](),
		errors:      newKeyed[*html.Node](),
	}
}

func (c *Cache) GetElementByID(id string) *html.Node {
	return c.src.GetElementByID(id)
}

func (c *Cache) QuerySelector(selector string, refresh bool) *html.Node {
	return c.selector.get(selector, refresh, func() *html.Node {
		return c.src.QuerySelector(selector)
	})
}

func (c *Cache) QuerySelectorAll(selector string, refresh bool) []*html.Node {
	return c.selectorAll.get(selector, refresh, func() []*html.Node {
		return c.src.QuerySelectorAll(selector)
	})
}

func (c *Cache) GetElementsByClassName(class string, refresh bool) []*html.Node {
	return c.classes.get(class, refresh, func() []*html.Node {
		return c.src.GetElementsByClassName(class)
	})
}

// GetInputByName finds a form input by its name attribute within the cached
// snapshot of all form inputs. refresh re-reads the snapshot too.
func (c *Cache) GetInputByName(name string, refresh bool) *html.Node {
	return c.inputs.get(name, refresh, func() *html.Node {
		for _, in := range c.allInputs(refresh) {
			if Attr(in, "name") == name {
				return in
			}
		}
		return nil
	})
}

func (c *Cache) allInputs(refresh bool) []*html.Node {
	if !c.haveInputs || refresh {
		c.formInputs = c.src.FormInputs()
		c.haveInputs = true
	}
	return c.formInputs
}

// GetErrorElement returns the sibling of the input that carries ErrorClass.
// Callers can rely on exactly one such sibling.
func (c *Cache) GetErrorElement(inputID string, refresh bool) *html.Node {
	return c.errors.get(inputID, refresh, func() *html.Node {
		input := c.src.GetElementByID(inputID)
		if input == nil || input.Parent == nil {
			return nil
		}
		for _, sibling := range Children(input.Parent) {
			if sibling != input && HasClass(sibling, ErrorClass) {
				return sibling
			}
		}
		return nil
	})
}

func (c *Cache) CreateElement(tag string) *html.Node {
	return c.src.CreateElement(tag)
}

func (c *Cache) AddEventListenerToDocument(eventType string, fn Listener) {
	c.src.AddEventListener(eventType, fn)
}

// Invalidate drops every memoized lookup.
func (c *Cache) Invalidate() {
	c.selector.invalidate()
	c.selectorAll.invalidate()
	c.classes.invalidate()
	c.inputs.invalidate()
	c.errors.invalidate()
	c.formInputs = nil
	c.haveInputs = false
}
