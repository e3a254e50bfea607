package port

import "context"

// Urgency mirrors the desktop notification urgency levels.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notifier shows a desktop notification outside the browser.
type Notifier interface {
	Notify(ctx context.Context, summary, body string, urgency Urgency) error
}
