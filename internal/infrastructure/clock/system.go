// Package clock provides the wall clock used outside tests.
package clock

import (
	"time"

	"github.com/bnema/promptcast/internal/application/port"
)

// System implements port.Clock with the time package.
type System struct{}

var _ port.Clock = System{}

func (System) Now() time.Time { return time.Now() }

func (System) After(d time.Duration) <-chan time.Time { return time.After(d) }
