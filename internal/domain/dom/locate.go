package dom

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// EditorKind tells the page which insertion primitive applies.
type EditorKind string

const (
	// EditorEditable is a contenteditable rich-text composer.
	EditorEditable EditorKind = "editable"
	// EditorTextControl is a textarea or input.
	EditorTextControl EditorKind = "text"
)

// EditorSelectors are tried in order, most specific first.
var EditorSelectors = []string{
	`form div[contenteditable="true"][data-testid="prompt-textarea"]`,
	`form div#prompt-textarea[contenteditable="true"]`,
	`div#prompt-textarea[contenteditable="true"]`,
	`form div.ProseMirror[contenteditable="true"]`,
	`[contenteditable="true"][role="textbox"]`,
	`textarea#prompt-textarea`,
	`form textarea`,
	`textarea`,
}

// SubmitSelectors locate the send control, most specific first.
var SubmitSelectors = []string{
	`button[data-testid="send-button"]`,
	`form button[type="submit"]`,
	`button[aria-label="Send prompt"]`,
	`button[type="submit"]`,
}

// StopSelectors match the control shown while a response is generating.
var StopSelectors = []string{
	`button[data-testid="stop-button"]`,
	`button[aria-label="Stop streaming"]`,
	`button[aria-label="Stop generating"]`,
}

var (
	editorMatchers = compileAll(EditorSelectors)
	submitMatchers = compileAll(SubmitSelectors)
	stopMatchers   = compileAll(StopSelectors)
	editableInForm = cascadia.MustCompile(`[contenteditable="true"]`)
)

type compiled struct {
	source string
	sel    cascadia.Selector
}

func compileAll(sources []string) []compiled {
	out := make([]compiled, 0, len(sources))
	for _, s := range sources {
		out = append(out, compiled{source: s, sel: cascadia.MustCompile(s)})
	}
	return out
}

// Editor is the located composer.
type Editor struct {
	Node     *html.Node
	Ref      NodeRef
	Kind     EditorKind
	Selector string
	// Substituted is set when a hidden text control was swapped for the
	// visible rich-text editor sharing its form.
	Substituted bool
}

// Control is a located button.
type Control struct {
	Node     *html.Node
	Ref      NodeRef
	Selector string
	Enabled  bool
}

// LocateEditor finds the composer. Only visible elements qualify. When a
// selector only matches hidden text controls, the first visible
// contenteditable in the same form stands in for them.
func LocateEditor(d *Document) (Editor, bool) {
	for _, m := range editorMatchers {
		matches := d.QueryAll(m.sel)
		if len(matches) == 0 {
			continue
		}
		for _, n := range matches {
			if d.IsVisible(n) {
				return d.editor(n, m.source, false), true
			}
		}
		for _, n := range matches {
			if !isTextControl(n) {
				continue
			}
			if sub, ok := d.visibleEditableInForm(n); ok {
				return d.editor(sub, m.source, true), true
			}
		}
	}
	return Editor{}, false
}

func (d *Document) visibleEditableInForm(n *html.Node) (*html.Node, bool) {
	form, ok := d.Closest(n, atom.Form)
	if !ok {
		return nil, false
	}
	for _, candidate := range d.queryScope(form, editableInForm) {
		if d.IsVisible(candidate) {
			return candidate, true
		}
	}
	// The form's own scope misses editables inside shadow roots attached
	// below it; widen to the whole document and keep those under the form.
	for _, candidate := range d.QueryAll(editableInForm) {
		if d.Contains(form, candidate) && d.IsVisible(candidate) {
			return candidate, true
		}
	}
	return nil, false
}

func (d *Document) editor(n *html.Node, selector string, substituted bool) Editor {
	kind := EditorEditable
	if isTextControl(n) {
		kind = EditorTextControl
	}
	return Editor{
		Node:        n,
		Ref:         d.Ref(n),
		Kind:        kind,
		Selector:    selector,
		Substituted: substituted,
	}
}

func isTextControl(n *html.Node) bool {
	return n.DataAtom == atom.Textarea || n.DataAtom == atom.Input
}

// LocateSubmit finds the send control, preferring a visible match.
func LocateSubmit(d *Document) (Control, bool) {
	return locateControl(d, submitMatchers)
}

// LocateStop finds the stop-generating control.
func LocateStop(d *Document) (Control, bool) {
	return locateControl(d, stopMatchers)
}

func locateControl(d *Document, matchers []compiled) (Control, bool) {
	for _, m := range matchers {
		matches := d.QueryAll(m.sel)
		if len(matches) == 0 {
			continue
		}
		pick := matches[0]
		for _, n := range matches {
			if d.IsVisible(n) {
				pick = n
				break
			}
		}
		return Control{
			Node:     pick,
			Ref:      d.Ref(pick),
			Selector: m.source,
			Enabled:  !IsDisabled(pick),
		}, true
	}
	return Control{}, false
}

// SubmissionConfirmed reports whether the page shows that a prompt was
// sent: the composer is empty again, or a stop control appeared.
func SubmissionConfirmed(d *Document) bool {
	if stop, ok := LocateStop(d); ok && d.IsVisible(stop.Node) {
		return true
	}
	editor, ok := LocateEditor(d)
	if !ok {
		return false
	}
	return strings.TrimSpace(d.Value(editor.Node)) == ""
}
