package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RunAllActionID is the pseudo action id that runs every enabled action
// of a menu.
const RunAllActionID = "runAll"

// ActionRef identifies what to execute.
type ActionRef struct {
	MenuID   string `json:"menuId,omitempty"`
	ActionID string `json:"actionId"`
}

// RunAllRef builds a Run All reference for a menu.
func RunAllRef(menuID string) ActionRef {
	return ActionRef{MenuID: menuID, ActionID: RunAllActionID}
}

// IsRunAll reports whether the reference targets Run All.
func (r ActionRef) IsRunAll() bool {
	return r.ActionID == RunAllActionID
}

func (r ActionRef) String() string {
	if r.MenuID == "" {
		return r.ActionID
	}
	return r.MenuID + "/" + r.ActionID
}

// UnmarshalJSON accepts the structured form as well as a bare action id
// string from pre-menu senders.
func (r *ActionRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = ActionRef{ActionID: id}
		return nil
	}

	type plain ActionRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("action reference: %w", err)
	}
	*r = ActionRef(p)
	return nil
}

// ExecutionRequest asks the dispatcher to run an action on selected text.
type ExecutionRequest struct {
	Ref           ActionRef `json:"actionRef"`
	SelectionText string    `json:"selectionText"`
	// Source names the surface the request came from (shortcut, menu, api).
	Source string `json:"source,omitempty"`
}

// ShortcutBinding associates a canonical shortcut with the action it fires.
type ShortcutBinding struct {
	Shortcut string
	Ref      ActionRef
}

// MarshalJSON encodes the binding as a [shortcut, ref] pair.
func (b ShortcutBinding) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{b.Shortcut, b.Ref})
}

// UnmarshalJSON decodes a [shortcut, ref] pair.
func (b *ShortcutBinding) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("shortcut binding: want 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &b.Shortcut); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &b.Ref)
}
