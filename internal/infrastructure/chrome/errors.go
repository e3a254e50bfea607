package chrome

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/bnema/promptcast/internal/application/port"
)

// ErrBridgeMissing is returned when a page has not run the bridge script.
var ErrBridgeMissing = errors.New("page bridge not installed")

// closedMarkers are protocol error fragments reported for targets that
// went away mid-command. Navigation during an evaluate ("Inspected target
// navigated or closed", "Cannot find context with specified id") is left
// unclassified so callers poll again on the new document.
var closedMarkers = []string{
	"No target with given id",
	"Target closed",
	"No session with given id",
	"Session with given id not found",
}

// classify maps protocol and context failures onto port errors. tabDone
// is the tab context's own error, if it ended.
func classify(err error, tabDone error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, port.ErrTabClosed) || errors.Is(err, port.ErrStaleNode) {
		return err
	}
	if tabDone != nil || errors.Is(err, chromedp.ErrInvalidContext) || errors.Is(err, chromedp.ErrChannelClosed) {
		return fmt.Errorf("%w: %v", port.ErrTabClosed, err)
	}
	msg := err.Error()
	for _, marker := range closedMarkers {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %v", port.ErrTabClosed, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("page did not respond: %w", err)
	}
	return err
}
