package port

import (
	"context"
	"errors"

	"github.com/bnema/promptcast/internal/domain/dom"
	"github.com/bnema/promptcast/internal/domain/entity"
)

// ErrStaleNode is returned when a node reference from an earlier snapshot
// no longer points at a connected element.
var ErrStaleNode = errors.New("node is no longer attached")

// PageDriver reads and manipulates the document of a tab.
type PageDriver interface {
	// Snapshot captures the element tree, including open shadow roots.
	// Node references stay valid until the next snapshot of the same tab.
	Snapshot(ctx context.Context, id entity.TabID) (*dom.Document, error)
	// InsertText places text in an editor and fires input events. With
	// replace set the editor contents are overwritten instead of appended
	// to. It returns the insertion primitive used.
	InsertText(ctx context.Context, id entity.TabID, ref dom.NodeRef, kind dom.EditorKind, text string, replace bool) (string, error)
	// Click activates a control.
	Click(ctx context.Context, id entity.TabID, ref dom.NodeRef) error
	// PressEnter dispatches a synthetic Enter keydown/keyup on a node.
	PressEnter(ctx context.Context, id entity.TabID, ref dom.NodeRef) (bool, error)
	// RequestSubmit submits the form enclosing a node.
	RequestSubmit(ctx context.Context, id entity.TabID, ref dom.NodeRef) (bool, error)
	// Alert shows a non-blocking alert in the page.
	Alert(ctx context.Context, id entity.TabID, message string) error
}
