package chrome

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/promptcast/internal/domain/dom"
)

// BindingName is the Runtime binding pages call to reach the daemon.
const BindingName = "__promptcastEmit"

// nodesKey is the registry of elements captured by the last snapshot.
const nodesKey = `Symbol.for('promptcast.nodes')`

// bridgeScript runs in every document. It reports when it loaded, and on
// the first arm call attaches a capture-phase keydown listener that only
// intercepts the armed chords. It also hosts the selection menu overlay.
const bridgeScript = `(() => {
  if (window.__promptcastBridge || window.top !== window) { return; }
  const loadedAt = performance.now();
  const emit = (type, payload) => {
    try { window.` + BindingName + `(JSON.stringify({ type, payload })); } catch (e) {}
  };

  const normalize = (code) => {
    if (/^Key[A-Z]$/.test(code)) return code.slice(3);
    if (/^Digit[0-9]$/.test(code)) return code.slice(5);
    if (code.startsWith('Arrow')) return code.slice(5);
    return code;
  };
  const chord = (e) => {
    const parts = [];
    if (e.ctrlKey) parts.push('Ctrl');
    if (e.altKey) parts.push('Alt');
    if (e.shiftKey) parts.push('Shift');
    if (e.metaKey) parts.push('Meta');
    parts.push(normalize(e.code || ''));
    return parts.join('+');
  };
  const isEditable = (el) => {
    if (!el || el.nodeType !== 1) return false;
    const tag = el.localName;
    return tag === 'input' || tag === 'textarea' || el.isContentEditable === true;
  };
  const selectionText = () => {
    const sel = window.getSelection();
    return sel ? sel.toString() : '';
  };

  let armed = new Set();
  let attachedAt = 0;
  const onKey = (e) => {
    if (e.repeat || !e.code) return;
    const target = (e.composedPath && e.composedPath()[0]) || e.target;
    if (isEditable(target)) return;
    if (!armed.has(chord(e))) return;
    e.preventDefault();
    e.stopPropagation();
    emit('keydown', {
      code: e.code, key: e.key,
      ctrl: e.ctrlKey, alt: e.altKey, shift: e.shiftKey, meta: e.metaKey,
      targetTag: target && target.localName ? target.localName.toUpperCase() : '',
      selection: selectionText(),
      ts: performance.now(),
    });
  };

  let entries = [];
  let overlay = null;
  const closeMenu = () => {
    if (overlay) { overlay.remove(); overlay = null; }
  };
  const openMenu = (x, y, text) => {
    closeMenu();
    const host = document.createElement('promptcast-menu');
    host.style.cssText = 'position:fixed;z-index:2147483647;left:' + x + 'px;top:' + y + 'px;';
    const root = host.attachShadow({ mode: 'closed' });
    const style = document.createElement('style');
    style.textContent = '.m{font:13px system-ui,sans-serif;background:#1f1f1f;color:#eee;border:1px solid #444;' +
      'border-radius:6px;padding:4px 0;min-width:220px;box-shadow:0 4px 16px rgba(0,0,0,.4)}' +
      '.h{padding:4px 12px;color:#999;font-size:11px;text-transform:uppercase}' +
      '.i{padding:6px 16px;cursor:pointer}.i:hover{background:#2d6cdf}';
    root.appendChild(style);
    const list = document.createElement('div');
    list.className = 'm';
    for (const parent of entries.filter((e) => !e.parentId)) {
      const h = document.createElement('div');
      h.className = 'h';
      h.textContent = parent.title;
      list.appendChild(h);
      for (const child of entries.filter((e) => e.parentId === parent.id)) {
        const item = document.createElement('div');
        item.className = 'i';
        item.textContent = child.title;
        item.addEventListener('mousedown', (ev) => {
          ev.preventDefault();
          ev.stopPropagation();
          closeMenu();
          emit('menuClick', { entryId: child.id, selectionText: text });
        });
        list.appendChild(item);
      }
    }
    root.appendChild(list);
    document.documentElement.appendChild(host);
    overlay = host;
  };

  document.addEventListener('contextmenu', (e) => {
    const text = selectionText();
    if (!text.trim() || !entries.some((en) => en.parentId)) return;
    e.preventDefault();
    openMenu(e.clientX, e.clientY, text);
  }, true);
  document.addEventListener('mousedown', (e) => {
    if (overlay && !e.composedPath().includes(overlay)) closeMenu();
  }, true);
  document.addEventListener('keydown', (e) => {
    if (overlay && e.key === 'Escape') closeMenu();
  }, true);

  window.__promptcastBridge = {
    arm(list) {
      armed = new Set(list || []);
      let first = false;
      if (!attachedAt) {
        window.addEventListener('keydown', onKey, true);
        attachedAt = performance.now();
        first = true;
      }
      return { loadedAt, attachedAt, first };
    },
    setMenu(list) {
      entries = Array.isArray(list) ? list : [];
      if (!entries.length) closeMenu();
      return entries.length;
    },
  };
  emit('ready', { loadedAt, url: location.href });
})()`

// snapshotScript serializes the elements the locators care about, their
// ancestors and open shadow roots, and records every element by index.
const snapshotScript = `(() => {
  const nodes = [];
  window[` + nodesKey + `] = nodes;
  const INTERESTING = 'form,textarea,input,button,[contenteditable],[data-testid]';
  const keep = new Set();
  const up = (n) => n.parentElement || (n.parentNode instanceof ShadowRoot ? n.parentNode.host : null);
  const mark = (el) => {
    for (let n = el; n && !keep.has(n); n = up(n)) keep.add(n);
  };
  const scan = (root) => {
    root.querySelectorAll(INTERESTING).forEach(mark);
    root.querySelectorAll('*').forEach((el) => { if (el.shadowRoot) scan(el.shadowRoot); });
  };
  scan(document);

  const valueOf = (el) => {
    if (el.localName === 'textarea' || el.localName === 'input') return String(el.value || '');
    if (el.isContentEditable) return String(el.innerText || '');
    return null;
  };
  const build = (el) => {
    const cs = getComputedStyle(el);
    const r = el.getBoundingClientRect();
    const node = {
      ref: nodes.push(el) - 1,
      tag: el.localName,
      attrs: Array.from(el.attributes, (a) => [a.name, a.value]),
      box: { w: r.width, h: r.height, display: cs.display, visibility: cs.visibility, opacity: parseFloat(cs.opacity) },
    };
    const v = valueOf(el);
    if (v !== null) node.value = v.slice(0, 2000);
    const kids = [];
    for (const c of el.children) if (keep.has(c)) kids.push(build(c));
    if (kids.length) node.children = kids;
    if (el.shadowRoot) {
      const sk = [];
      for (const c of el.shadowRoot.children) if (keep.has(c)) sk.push(build(c));
      if (sk.length) node.shadow = sk;
    }
    return node;
  };
  return { url: location.href, title: document.title, root: build(document.documentElement) };
})()`

// nodeScript wraps body in a function receiving the snapshot element for
// ref as el. A detached element yields {stale:true}.
func nodeScript(ref dom.NodeRef, body string, args ...any) string {
	encoded := make([]any, 0, len(args)+1)
	encoded = append(encoded, int(ref))
	for _, a := range args {
		b, err := json.Marshal(a)
		if err != nil {
			b = []byte("null")
		}
		encoded = append(encoded, string(b))
	}
	params := "ref"
	values := "%d"
	for i := range args {
		params += fmt.Sprintf(", a%d", i)
		values += ", %s"
	}
	return fmt.Sprintf(`((`+params+`) => {
  const el = (window[`+nodesKey+`] || [])[ref];
  if (!el || !el.isConnected) return { stale: true };
  `+body+`
})(`+values+`)`, encoded...)
}

const insertBody = `const kind = a0, text = a1, replace = a2;
  const fire = () => {
    el.dispatchEvent(new Event('input', { bubbles: true }));
    el.dispatchEvent(new Event('change', { bubbles: true }));
  };
  el.focus();
  if (kind === 'editable') {
    const sel = window.getSelection();
    const range = document.createRange();
    range.selectNodeContents(el);
    if (!replace) range.collapse(false);
    sel.removeAllRanges();
    sel.addRange(range);
    let method = 'insertText';
    let ok = false;
    try { ok = document.execCommand('insertText', false, text); } catch (e) { ok = false; }
    if (!ok) {
      el.textContent = text;
      method = 'textContent';
    }
    fire();
    return { ok: true, method };
  }
  const proto = el.localName === 'textarea' ? HTMLTextAreaElement.prototype : HTMLInputElement.prototype;
  const desc = Object.getOwnPropertyDescriptor(proto, 'value');
  if (desc && desc.set) { desc.set.call(el, text); } else { el.value = text; }
  fire();
  return { ok: true, method: 'nativeSetter' };`

const clickBody = `el.scrollIntoView({ block: 'center' });
  el.click();
  return { ok: true };`

const enterBody = `el.focus();
  const init = { key: 'Enter', code: 'Enter', keyCode: 13, which: 13, bubbles: true, cancelable: true, composed: true };
  try {
    el.dispatchEvent(new KeyboardEvent('keydown', init));
    el.dispatchEvent(new KeyboardEvent('keypress', init));
    el.dispatchEvent(new KeyboardEvent('keyup', init));
  } catch (e) {
    return { ok: false };
  }
  return { ok: true };`

const requestSubmitBody = `let form = el.closest('form');
  for (let root = el.getRootNode(); !form && root && root.host; root = root.host.getRootNode()) {
    form = root.host.closest('form');
  }
  if (!form) return { ok: false };
  if (typeof form.requestSubmit === 'function') { form.requestSubmit(); } else { form.submit(); }
  return { ok: true };`

// toastScript shows a dismissable notice without blocking the page.
func toastScript(message string) string {
	b, _ := json.Marshal(message)
	return `((msg) => {
  const host = document.createElement('promptcast-toast');
  host.style.cssText = 'position:fixed;z-index:2147483647;right:16px;bottom:16px;';
  const root = host.attachShadow({ mode: 'closed' });
  const box = document.createElement('div');
  box.style.cssText = 'font:14px system-ui,sans-serif;background:#b3261e;color:#fff;padding:12px 16px;' +
    'border-radius:8px;box-shadow:0 4px 16px rgba(0,0,0,.35);max-width:360px;cursor:pointer';
  box.textContent = msg;
  box.addEventListener('click', () => host.remove());
  root.appendChild(box);
  document.documentElement.appendChild(host);
  setTimeout(() => host.remove(), 8000);
  return true;
})(` + string(b) + `)`
}

// armScript re-arms the keydown listener with a shortcut list.
func armScript(shortcuts []string) string {
	if shortcuts == nil {
		shortcuts = []string{}
	}
	b, _ := json.Marshal(shortcuts)
	return `(window.__promptcastBridge ? window.__promptcastBridge.arm(` + string(b) + `) : null)`
}

// setMenuScript replaces the selection menu entries of a page.
func setMenuScript(items []menuItem) string {
	if items == nil {
		items = []menuItem{}
	}
	b, _ := json.Marshal(items)
	return `(window.__promptcastBridge ? window.__promptcastBridge.setMenu(` + string(b) + `) : -1)`
}
