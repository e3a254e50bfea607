package dom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/promptcast/internal/domain/dom"
)

const snapshotJSON = `{
  "url": "https://chatgpt.com/",
  "title": "ChatGPT",
  "root": {"ref": 3, "tag": "HTML", "attrs": [], "box": {"w": 800, "h": 600, "display": "block", "visibility": "visible", "opacity": 1},
    "children": [
      {"ref": 2, "tag": "BODY", "attrs": [], "box": {"w": 800, "h": 600, "display": "block", "visibility": "visible", "opacity": 1},
        "children": [
          {"ref": 1, "tag": "APP-SHELL", "attrs": [["id", "shell"]], "box": {"w": 800, "h": 600, "display": "block", "visibility": "visible", "opacity": 1},
            "shadow": [
              {"ref": 0, "tag": "FORM", "attrs": [], "box": {"w": 800, "h": 80, "display": "block", "visibility": "visible", "opacity": 1},
                "children": [
                  {"ref": 4, "tag": "DIV", "attrs": [["contenteditable", "true"], ["data-testid", "prompt-textarea"]],
                   "box": {"w": 700, "h": 40, "display": "block", "visibility": "visible", "opacity": 1}, "value": "draft"},
                  {"ref": 5, "tag": "BUTTON", "attrs": [["data-testid", "send-button"]],
                   "box": {"w": 30, "h": 30, "display": "inline-block", "visibility": "visible", "opacity": 1}}
                ]}
            ]}
        ]}
    ]}
}`

func TestDecodeSnapshot_BuildsDeepTreeWithRefs(t *testing.T) {
	doc, err := dom.DecodeSnapshot([]byte(snapshotJSON))
	require.NoError(t, err)

	editor, ok := dom.LocateEditor(doc)
	require.True(t, ok)
	assert.Equal(t, dom.NodeRef(4), editor.Ref)
	assert.Equal(t, "draft", doc.Value(editor.Node))

	submit, ok := dom.LocateSubmit(doc)
	require.True(t, ok)
	assert.Equal(t, dom.NodeRef(5), submit.Ref)
	assert.True(t, submit.Enabled)

	assert.False(t, dom.SubmissionConfirmed(doc))
}

func TestDecodeSnapshot_EmptyRoot(t *testing.T) {
	doc, err := dom.DecodeSnapshot([]byte(`{"url":"about:blank","title":"","root":null}`))
	require.NoError(t, err)
	_, ok := dom.LocateEditor(doc)
	assert.False(t, ok)
}

func TestDecodeSnapshot_RejectsGarbage(t *testing.T) {
	_, err := dom.DecodeSnapshot([]byte(`not json`))
	assert.Error(t, err)
}

func TestRef_ParsedNodesHaveNoRef(t *testing.T) {
	doc := mustParse(t, `<body><textarea id="t"></textarea></body>`)
	assert.Equal(t, dom.NoRef, doc.Ref(first(t, doc, "#t")))
}
