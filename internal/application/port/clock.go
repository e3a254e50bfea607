package port

import "time"

// Clock abstracts time so polling loops can run on a fake clock in tests.
type Clock interface {
	Now() time.Time
	// After returns a channel that receives once d has elapsed.
	After(d time.Duration) <-chan time.Time
}
