package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// wrap selects a single node. A nil node gives an empty selection.
func wrap(n *html.Node) *goquery.Selection {
	if n == nil {
		return &goquery.Selection{}
	}
	return goquery.NewDocumentFromNode(n).Selection
}

func first(s *goquery.Selection) *html.Node {
	if s.Length() == 0 {
		return nil
	}
	return s.Get(0)
}

// Attr returns the value of attribute key, or "".
func Attr(n *html.Node, key string) string {
	return wrap(n).AttrOr(key, "")
}

// HasAttr reports whether attribute key is present.
func HasAttr(n *html.Node, key string) bool {
	_, ok := wrap(n).Attr(key)
	return ok
}

// SetAttr sets or replaces attribute key.
func SetAttr(n *html.Node, key, val string) {
	wrap(n).SetAttr(key, val)
}

// RemoveAttr deletes attribute key if present.
func RemoveAttr(n *html.Node, key string) {
	wrap(n).RemoveAttr(key)
}

// Classes returns the entries of the class attribute.
func Classes(n *html.Node) []string {
	return strings.Fields(Attr(n, "class"))
}

func HasClass(n *html.Node, class string) bool {
	return wrap(n).HasClass(class)
}

func AddClass(n *html.Node, class string) {
	wrap(n).AddClass(class)
}

func RemoveClass(n *html.Node, class string) {
	wrap(n).RemoveClass(class)
}

// ToggleClass adds class when on is true and removes it otherwise.
func ToggleClass(n *html.Node, class string, on bool) {
	if on {
		AddClass(n, class)
	} else {
		RemoveClass(n, class)
	}
}

// Show and Hide flip the hidden attribute.
func Show(n *html.Node) { RemoveAttr(n, "hidden") }
func Hide(n *html.Node) { SetAttr(n, "hidden", "") }

// IsHidden reports whether the hidden attribute is set.
func IsHidden(n *html.Node) bool {
	return HasAttr(n, "hidden")
}

// Value returns the value of a form input.
func Value(n *html.Node) string {
	return Attr(n, "value")
}

// SetValue sets the value of a form input.
func SetValue(n *html.Node, v string) {
	SetAttr(n, "value", v)
}

// TextContent concatenates every text node below n.
func TextContent(n *html.Node) string {
	return wrap(n).Text()
}

// SetTextContent replaces the children of n with text. Empty text leaves n
// without children.
func SetTextContent(n *html.Node, text string) {
	sel := wrap(n)
	sel.Empty()
	if text != "" {
		sel.SetText(text)
	}
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	wrap(n).Empty()
}

// Append adds children to the end of n, detaching them from any previous
// parent.
func Append(n *html.Node, children ...*html.Node) {
	wrap(n).AppendNodes(children...)
}

// Remove detaches n from its parent.
func Remove(n *html.Node) {
	wrap(n).Remove()
}

// Children returns the element children of n.
func Children(n *html.Node) []*html.Node {
	return wrap(n).Children().Nodes
}

// Closest returns n or its nearest ancestor carrying class.
func Closest(n *html.Node, class string) *html.Node {
	return first(wrap(n).Closest("." + class))
}
