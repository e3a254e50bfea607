package chrome

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeScript_EncodesArguments(t *testing.T) {
	script := nodeScript(7, insertBody, "editable", "say \"hi\"\n<b>")

	assert.True(t, strings.HasPrefix(script, "((ref, a0, a1) => {"))
	assert.Contains(t, script, `})(7, "editable", "say \"hi\"\n\u003cb\u003e")`)
	assert.Contains(t, script, "return { stale: true };")
}

func TestInsertBody_AlwaysInserts(t *testing.T) {
	assert.NotContains(t, insertBody, "endsWith", "existing editor content never short-circuits an insertion")
	assert.NotContains(t, insertBody, "'present'")
	assert.Contains(t, insertBody, "if (!replace) range.collapse(false);")
	assert.Contains(t, insertBody, "el.textContent = text;", "the fallback replaces the text content")
}

func TestNodeScript_NoArguments(t *testing.T) {
	script := nodeScript(0, clickBody)
	assert.True(t, strings.HasPrefix(script, "((ref) => {"))
	assert.True(t, strings.HasSuffix(script, "})(0)"))
}

func TestArmScript(t *testing.T) {
	assert.Equal(t,
		`(window.__promptcastBridge ? window.__promptcastBridge.arm(["Ctrl+Shift+S","Alt+1"]) : null)`,
		armScript([]string{"Ctrl+Shift+S", "Alt+1"}))
	assert.Contains(t, armScript(nil), ".arm([])")
}

func TestSetMenuScript(t *testing.T) {
	script := setMenuScript([]menuItem{
		{ID: "menu:research", Title: "Research"},
		{ID: "menu:research:action:summarize", ParentID: "menu:research", Title: "Summarize"},
	})
	assert.Contains(t, script, `{"id":"menu:research","title":"Research"}`)
	assert.Contains(t, script, `"parentId":"menu:research"`)
	assert.Contains(t, setMenuScript(nil), ".setMenu([])")
}

func TestToastScript_QuotesMessage(t *testing.T) {
	script := toastScript(`"Explain" failed`)
	assert.True(t, strings.HasSuffix(script, `})("\"Explain\" failed")`))
}

func TestBridgeScript_GuardsAndBinding(t *testing.T) {
	assert.Contains(t, bridgeScript, "window.top !== window")
	assert.Contains(t, bridgeScript, "window."+BindingName+"(")
	assert.Contains(t, bridgeScript, "emit('ready'")
}
