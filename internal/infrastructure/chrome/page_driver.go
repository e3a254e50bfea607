package chrome

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/promptcast/internal/application/port"
	"github.com/bnema/promptcast/internal/domain/dom"
	"github.com/bnema/promptcast/internal/domain/entity"
)

// evaluator runs a script in a tab and returns its raw JSON result.
type evaluator interface {
	evaluate(ctx context.Context, id entity.TabID, script string, out *[]byte) error
}

// PageDriver implements port.PageDriver with Runtime.evaluate.
type PageDriver struct {
	eval evaluator
}

var _ port.PageDriver = (*PageDriver)(nil)

// NewPageDriver creates a driver over the sessions of a browser.
func NewPageDriver(sessions *SessionManager) *PageDriver {
	return &PageDriver{eval: sessions}
}

// nodeResult is what node scripts return.
type nodeResult struct {
	Stale  bool   `json:"stale"`
	OK     bool   `json:"ok"`
	Method string `json:"method"`
}

func (p *PageDriver) run(ctx context.Context, id entity.TabID, script string) (nodeResult, error) {
	var raw []byte
	if err := p.eval.evaluate(ctx, id, script, &raw); err != nil {
		return nodeResult{}, err
	}
	var res nodeResult
	if len(raw) == 0 || string(raw) == "null" {
		return res, errors.New("page returned no result")
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return res, fmt.Errorf("decode page result: %w", err)
	}
	if res.Stale {
		return res, port.ErrStaleNode
	}
	return res, nil
}

// Snapshot captures the pruned element tree of a tab.
func (p *PageDriver) Snapshot(ctx context.Context, id entity.TabID) (*dom.Document, error) {
	var raw []byte
	if err := p.eval.evaluate(ctx, id, snapshotScript, &raw); err != nil {
		return nil, err
	}
	return dom.DecodeSnapshot(raw)
}

// InsertText places text in the editor at ref, replacing its contents when
// replace is set.
func (p *PageDriver) InsertText(ctx context.Context, id entity.TabID, ref dom.NodeRef, kind dom.EditorKind, text string, replace bool) (string, error) {
	res, err := p.run(ctx, id, nodeScript(ref, insertBody, string(kind), text, replace))
	if err != nil {
		return "", err
	}
	if !res.OK {
		return "", errors.New("insertion rejected by page")
	}
	return res.Method, nil
}

// Click activates the control at ref.
func (p *PageDriver) Click(ctx context.Context, id entity.TabID, ref dom.NodeRef) error {
	_, err := p.run(ctx, id, nodeScript(ref, clickBody))
	return err
}

// PressEnter dispatches a synthetic Enter on the node at ref.
func (p *PageDriver) PressEnter(ctx context.Context, id entity.TabID, ref dom.NodeRef) (bool, error) {
	res, err := p.run(ctx, id, nodeScript(ref, enterBody))
	if err != nil {
		return false, err
	}
	return res.OK, nil
}

// RequestSubmit submits the form enclosing ref, crossing shadow hosts.
func (p *PageDriver) RequestSubmit(ctx context.Context, id entity.TabID, ref dom.NodeRef) (bool, error) {
	res, err := p.run(ctx, id, nodeScript(ref, requestSubmitBody))
	if err != nil {
		return false, err
	}
	return res.OK, nil
}

// Alert shows a toast in the page.
func (p *PageDriver) Alert(ctx context.Context, id entity.TabID, message string) error {
	var raw []byte
	return p.eval.evaluate(ctx, id, toastScript(message), &raw)
}
