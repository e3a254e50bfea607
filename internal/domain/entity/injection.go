package entity

import "time"

// TabID identifies a browser tab.
type TabID string

// InjectionState is the last state an injection attempt reached.
type InjectionState string

const (
	StateSearching    InjectionState = "searching"
	StateFound        InjectionState = "found"
	StateInserted     InjectionState = "inserted"
	StateSubmitting   InjectionState = "submitting"
	StateSubmitted    InjectionState = "submitted"
	StateSubmitFailed InjectionState = "submit_failed"
	StateNotFound     InjectionState = "not_found"
	StateSkipped      InjectionState = "skipped"
)

// InjectionAttempt describes one try at placing a prompt into a tab.
type InjectionAttempt struct {
	TabID      TabID
	Prompt     string
	AutoSubmit bool
	RequestID  string
	Label      string
	Retry      bool
}

// InjectionResult reports what an attempt achieved.
type InjectionResult struct {
	Inserted  bool           `json:"inserted"`
	Submitted bool           `json:"submitted"`
	Skipped   bool           `json:"skipped,omitempty"`
	State     InjectionState `json:"state"`
	// Method records which insertion primitive was used.
	Method string `json:"method,omitempty"`
}

// Failed reports whether the attempt should count as a failure. Skipped
// duplicates never fail; submission only matters when it was requested.
func (r InjectionResult) Failed(autoSubmit bool) bool {
	if r.Skipped {
		return false
	}
	if !r.Inserted {
		return true
	}
	return autoSubmit && !r.Submitted
}

// AttemptOutcome classifies a recorded attempt.
type AttemptOutcome string

const (
	OutcomeSucceeded AttemptOutcome = "succeeded"
	OutcomeFailed    AttemptOutcome = "failed"
	OutcomeSkipped   AttemptOutcome = "skipped"
	OutcomeError     AttemptOutcome = "error"
)

// AttemptRecord is the persisted history row of one injection attempt.
type AttemptRecord struct {
	ID         int64          `json:"id"`
	RequestID  string         `json:"request_id"`
	MenuID     string         `json:"menu_id"`
	ActionID   string         `json:"action_id"`
	Label      string         `json:"label"`
	TabID      TabID          `json:"tab_id"`
	Retry      bool           `json:"retry"`
	Fallback   bool           `json:"fallback"`
	State      InjectionState `json:"state"`
	Inserted   bool           `json:"inserted"`
	Submitted  bool           `json:"submitted"`
	Outcome    AttemptOutcome `json:"outcome"`
	Error      string         `json:"error,omitempty"`
	PromptLen  int            `json:"prompt_len"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}

// Duration is the wall time the attempt took.
func (a *AttemptRecord) Duration() time.Duration {
	return a.FinishedAt.Sub(a.StartedAt)
}

// MenuEntry is one item of the selection context menu.
type MenuEntry struct {
	ID       string     `json:"id"`
	ParentID string     `json:"parentId,omitempty"`
	Title    string     `json:"title"`
	Ref      *ActionRef `json:"ref,omitempty"`
}
