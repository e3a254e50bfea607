// Package dom models a page's element tree, including open shadow roots,
// well enough to find the chat composer and its submit control.
package dom

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodeRef is the index a page snapshot assigned to an element. It is only
// valid for actions against the snapshot it came from.
type NodeRef int

// NoRef marks nodes that did not come from a page snapshot.
const NoRef NodeRef = -1

// Layout is the rendered state of an element.
type Layout struct {
	Width      float64 `json:"w"`
	Height     float64 `json:"h"`
	Display    string  `json:"display"`
	Visibility string  `json:"visibility"`
	Opacity    float64 `json:"opacity"`
}

// Document is an element tree with its shadow roots kept as separate
// query scopes.
type Document struct {
	Root *html.Node

	shadows map[*html.Node]*html.Node // host -> shadow root
	hosts   map[*html.Node]*html.Node // shadow root -> host
	layouts map[*html.Node]Layout
	refs    map[*html.Node]NodeRef
	values  map[*html.Node]string
}

func newDocument(root *html.Node) *Document {
	return &Document{
		Root:    root,
		shadows: make(map[*html.Node]*html.Node),
		hosts:   make(map[*html.Node]*html.Node),
		layouts: make(map[*html.Node]Layout),
		refs:    make(map[*html.Node]NodeRef),
		values:  make(map[*html.Node]string),
	}
}

// Parse builds a Document from markup. Layout comes from inline styles and
// the hidden attribute; elements without either are treated as rendered.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return newDocument(root), nil
}

// ParseString is Parse for a string.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// AttachShadow parses markup as the open shadow root of host.
func (d *Document) AttachShadow(host *html.Node, markup string) (*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("parse shadow root: %w", err)
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	d.shadows[host] = root
	d.hosts[root] = host
	return root, nil
}

// SetLayout overrides the rendered state of n.
func (d *Document) SetLayout(n *html.Node, l Layout) {
	d.layouts[n] = l
}

// SetValue records the current text of a form control or editable element.
func (d *Document) SetValue(n *html.Node, v string) {
	d.values[n] = v
}

// Ref returns the snapshot index of n, or NoRef.
func (d *Document) Ref(n *html.Node) NodeRef {
	if ref, ok := d.refs[n]; ok {
		return ref
	}
	return NoRef
}

// ShadowRoot returns the shadow root hosted by n.
func (d *Document) ShadowRoot(n *html.Node) (*html.Node, bool) {
	root, ok := d.shadows[n]
	return root, ok
}

// Parent returns the parent of n, stepping from a shadow root's top-level
// children to the host element.
func (d *Document) Parent(n *html.Node) *html.Node {
	if n.Parent == nil {
		return nil
	}
	if host, ok := d.hosts[n.Parent]; ok {
		return host
	}
	return n.Parent
}

// Value returns the current text of n: the recorded value when known,
// otherwise its text content.
func (d *Document) Value(n *html.Node) string {
	if v, ok := d.values[n]; ok {
		return v
	}
	if n.DataAtom == atom.Input {
		return Attr(n, "value")
	}
	var b strings.Builder
	collectText(n, &b)
	return b.String()
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// Attr returns the value of an attribute, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether n carries the attribute.
func HasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// SnapshotNode is the wire form of one element in a page snapshot. The
// page prunes subtrees that contain nothing the locators look for, so
// ancestor chains are complete but siblings may be missing.
type SnapshotNode struct {
	Ref      NodeRef         `json:"ref"`
	Tag      string          `json:"tag"`
	Attrs    [][2]string     `json:"attrs"`
	Box      *Layout         `json:"box,omitempty"`
	Value    *string         `json:"value,omitempty"`
	Children []*SnapshotNode `json:"children,omitempty"`
	Shadow   []*SnapshotNode `json:"shadow,omitempty"`
}

// Snapshot is what the page returns for one capture.
type Snapshot struct {
	URL   string        `json:"url"`
	Title string        `json:"title"`
	Root  *SnapshotNode `json:"root"`
}

// DecodeSnapshot parses a page snapshot.
func DecodeSnapshot(data []byte) (*Document, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return FromSnapshot(&snap), nil
}

// FromSnapshot builds a Document from a decoded snapshot.
func FromSnapshot(snap *Snapshot) *Document {
	d := newDocument(&html.Node{Type: html.DocumentNode})
	if snap != nil && snap.Root != nil {
		d.Root.AppendChild(d.build(snap.Root))
	}
	return d
}

func (d *Document) build(sn *SnapshotNode) *html.Node {
	tag := strings.ToLower(sn.Tag)
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for _, kv := range sn.Attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: strings.ToLower(kv[0]), Val: kv[1]})
	}
	d.refs[n] = sn.Ref
	if sn.Box != nil {
		d.layouts[n] = *sn.Box
	}
	if sn.Value != nil {
		d.values[n] = *sn.Value
	}

	for _, child := range sn.Children {
		n.AppendChild(d.build(child))
	}
	if len(sn.Shadow) > 0 {
		root := &html.Node{Type: html.DocumentNode}
		for _, child := range sn.Shadow {
			root.AppendChild(d.build(child))
		}
		d.shadows[n] = root
		d.hosts[root] = n
	}
	return n
}

// layout returns the recorded layout of n, or one derived from its inline
// style when the document was parsed from markup.
func (d *Document) layout(n *html.Node) Layout {
	if l, ok := d.layouts[n]; ok {
		return l
	}

	l := Layout{Width: 1, Height: 1, Opacity: 1}
	if HasAttr(n, "hidden") {
		l.Display = "none"
	}
	for _, decl := range strings.Split(Attr(n, "style"), ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		value = strings.ToLower(strings.TrimSpace(value))
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "display":
			l.Display = value
		case "visibility":
			l.Visibility = value
		case "opacity":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				l.Opacity = f
			}
		case "width":
			if strings.HasPrefix(value, "0") && strings.TrimLeft(value, "0px") == "" {
				l.Width = 0
			}
		case "height":
			if strings.HasPrefix(value, "0") && strings.TrimLeft(value, "0px") == "" {
				l.Height = 0
			}
		}
	}
	return l
}
