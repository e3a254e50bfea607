package dom_test

import (
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/bnema/promptcast/internal/domain/dom"
)

func mustParse(t *testing.T, markup string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(markup)
	require.NoError(t, err)
	return doc
}

func first(t *testing.T, doc *dom.Document, selector string) *html.Node {
	t.Helper()
	n, ok := doc.QueryFirst(cascadia.MustCompile(selector))
	require.True(t, ok, "no match for %s", selector)
	return n
}

func TestLocateEditor_PrefersMostSpecificSelector(t *testing.T) {
	doc := mustParse(t, `<body>
		<textarea id="other"></textarea>
		<form><div contenteditable="true" data-testid="prompt-textarea" id="composer"></div></form>
	</body>`)

	editor, ok := dom.LocateEditor(doc)
	require.True(t, ok)
	assert.Equal(t, "composer", dom.Attr(editor.Node, "id"))
	assert.Equal(t, dom.EditorEditable, editor.Kind)
	assert.Equal(t, dom.EditorSelectors[0], editor.Selector)
	assert.False(t, editor.Substituted)
}

func TestLocateEditor_SkipsInvisibleMatches(t *testing.T) {
	doc := mustParse(t, `<body>
		<form><div contenteditable="true" data-testid="prompt-textarea" style="display:none"></div></form>
		<textarea id="plain"></textarea>
	</body>`)

	editor, ok := dom.LocateEditor(doc)
	require.True(t, ok)
	assert.Equal(t, "plain", dom.Attr(editor.Node, "id"))
	assert.Equal(t, dom.EditorTextControl, editor.Kind)
}

func TestLocateEditor_SubstitutesHiddenTextareaWithFormEditable(t *testing.T) {
	doc := mustParse(t, `<body><form>
		<textarea id="prompt-textarea" style="display:none"></textarea>
		<div contenteditable="true" id="rich"></div>
	</form></body>`)

	editor, ok := dom.LocateEditor(doc)
	require.True(t, ok)
	assert.Equal(t, "rich", dom.Attr(editor.Node, "id"))
	assert.True(t, editor.Substituted)
	assert.Equal(t, dom.EditorEditable, editor.Kind)
}

func TestLocateEditor_FindsEditorInsideShadowRoot(t *testing.T) {
	doc := mustParse(t, `<body><chat-app id="host"></chat-app></body>`)
	host := first(t, doc, "#host")
	_, err := doc.AttachShadow(host, `<form><div contenteditable="true" data-testid="prompt-textarea" id="deep"></div></form>`)
	require.NoError(t, err)

	editor, ok := dom.LocateEditor(doc)
	require.True(t, ok)
	assert.Equal(t, "deep", dom.Attr(editor.Node, "id"))
}

func TestLocateEditor_AriaHiddenAncestorHides(t *testing.T) {
	doc := mustParse(t, `<body><div aria-hidden="true"><textarea></textarea></div></body>`)
	_, ok := dom.LocateEditor(doc)
	assert.False(t, ok)
}

func TestLocateEditor_NothingFound(t *testing.T) {
	doc := mustParse(t, `<body><p>loading</p></body>`)
	_, ok := dom.LocateEditor(doc)
	assert.False(t, ok)
}

func TestQueryAll_CombinatorsDoNotCrossShadowBoundary(t *testing.T) {
	doc := mustParse(t, `<body><form><x-host id="host"></x-host></form></body>`)
	host := first(t, doc, "#host")
	_, err := doc.AttachShadow(host, `<textarea id="inner"></textarea>`)
	require.NoError(t, err)

	assert.Empty(t, doc.QueryAll(cascadia.MustCompile("form textarea")))
	assert.Len(t, doc.QueryAll(cascadia.MustCompile("textarea")), 1)

	inner := first(t, doc, "#inner")
	form, ok := doc.Closest(inner, atom.Form)
	assert.True(t, ok, "ancestor lookup crosses the shadow boundary")
	assert.Equal(t, "form", form.Data)
	assert.True(t, doc.Contains(host, inner))
}

func TestIsVisible_UsesLayout(t *testing.T) {
	doc := mustParse(t, `<body><button id="b">Send</button></body>`)
	b := first(t, doc, "#b")
	assert.True(t, doc.IsVisible(b))

	doc.SetLayout(b, dom.Layout{Width: 0, Height: 20, Opacity: 1})
	assert.False(t, doc.IsVisible(b))

	doc.SetLayout(b, dom.Layout{Width: 20, Height: 20, Opacity: 0})
	assert.False(t, doc.IsVisible(b))

	doc.SetLayout(b, dom.Layout{Width: 20, Height: 20, Opacity: 1, Visibility: "hidden"})
	assert.False(t, doc.IsVisible(b))
}

func TestLocateSubmit_ReportsDisabledState(t *testing.T) {
	doc := mustParse(t, `<body><form><button data-testid="send-button" disabled>Send</button></form></body>`)
	ctrl, ok := dom.LocateSubmit(doc)
	require.True(t, ok)
	assert.False(t, ctrl.Enabled)

	doc = mustParse(t, `<body><form><button type="submit" aria-disabled="false">Go</button></form></body>`)
	ctrl, ok = dom.LocateSubmit(doc)
	require.True(t, ok)
	assert.True(t, ctrl.Enabled)
	assert.Equal(t, `form button[type="submit"]`, ctrl.Selector)

	_, ok = dom.LocateSubmit(mustParse(t, `<body><div></div></body>`))
	assert.False(t, ok)
}

func TestSubmissionConfirmed(t *testing.T) {
	pending := mustParse(t, `<body><form><div contenteditable="true" data-testid="prompt-textarea"><p>hello</p></div></form></body>`)
	assert.False(t, dom.SubmissionConfirmed(pending))

	cleared := mustParse(t, `<body><form><div contenteditable="true" data-testid="prompt-textarea"><p></p></div></form></body>`)
	assert.True(t, dom.SubmissionConfirmed(cleared))

	generating := mustParse(t, `<body><form>
		<div contenteditable="true" data-testid="prompt-textarea">hello</div>
		<button data-testid="stop-button"></button>
	</form></body>`)
	assert.True(t, dom.SubmissionConfirmed(generating))
}
