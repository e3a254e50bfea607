package dom

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// QueryAll returns every element matching sel in the document and,
// recursively, in every open shadow root. Combinators do not cross shadow
// boundaries, matching how the page itself scopes selectors.
func (d *Document) QueryAll(sel cascadia.Selector) []*html.Node {
	return d.queryScope(d.Root, sel)
}

// QueryFirst returns the first deep match of sel.
func (d *Document) QueryFirst(sel cascadia.Selector) (*html.Node, bool) {
	matches := d.QueryAll(sel)
	if len(matches) == 0 {
		return nil, false
	}
	return matches[0], true
}

func (d *Document) queryScope(scope *html.Node, sel cascadia.Selector) []*html.Node {
	if scope == nil {
		return nil
	}
	matches := sel.MatchAll(scope)
	d.walk(scope, func(n *html.Node) {
		if root, ok := d.shadows[n]; ok {
			matches = append(matches, d.queryScope(root, sel)...)
		}
	})
	return matches
}

// walk visits element nodes of one scope in document order.
func (d *Document) walk(n *html.Node, fn func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			fn(c)
		}
		d.walk(c, fn)
	}
}

// Closest returns the nearest inclusive ancestor of n with the given tag,
// crossing shadow boundaries.
func (d *Document) Closest(n *html.Node, a atom.Atom) (*html.Node, bool) {
	for cur := n; cur != nil; cur = d.Parent(cur) {
		if cur.Type == html.ElementNode && cur.DataAtom == a {
			return cur, true
		}
	}
	return nil, false
}

// Contains reports whether n is an inclusive descendant of ancestor,
// crossing shadow boundaries.
func (d *Document) Contains(ancestor, n *html.Node) bool {
	for cur := n; cur != nil; cur = d.Parent(cur) {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// IsVisible reports whether n is rendered: non-zero size, not display:none
// or visibility:hidden, not fully transparent, and not inside an
// aria-hidden subtree or an undisplayed ancestor.
func (d *Document) IsVisible(n *html.Node) bool {
	l := d.layout(n)
	if l.Width <= 0 || l.Height <= 0 {
		return false
	}
	switch l.Visibility {
	case "hidden", "collapse":
		return false
	}
	if l.Opacity <= 0 {
		return false
	}

	for cur := n; cur != nil; cur = d.Parent(cur) {
		if cur.Type != html.ElementNode {
			continue
		}
		if strings.EqualFold(Attr(cur, "aria-hidden"), "true") {
			return false
		}
		if d.layout(cur).Display == "none" {
			return false
		}
	}
	return true
}

// IsDisabled reports whether a control refuses activation.
func IsDisabled(n *html.Node) bool {
	return HasAttr(n, "disabled") || strings.EqualFold(Attr(n, "aria-disabled"), "true")
}
