package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/promptcast/internal/testutil"
)

func TestRequestGuard(t *testing.T) {
	clock := testutil.NewAutoClock()
	g := NewRequestGuard(clock, 10*time.Second)

	dup, _ := g.IsDuplicate("tab-1", "req-1")
	assert.False(t, dup)

	dup, reason := g.IsDuplicate("tab-1", "req-1")
	assert.True(t, dup)
	assert.Contains(t, reason, "req-1")

	dup, _ = g.IsDuplicate("tab-2", "req-1")
	assert.False(t, dup, "scopes are independent")

	dup, _ = g.IsDuplicate("tab-1", "req-1:retry")
	assert.False(t, dup)

	<-clock.After(10 * time.Second)
	dup, _ = g.IsDuplicate("tab-1", "req-1")
	assert.False(t, dup, "window elapsed")
}

func TestRequestGuard_EmptyIDAndForget(t *testing.T) {
	g := NewRequestGuard(testutil.NewAutoClock(), 0)

	dup, _ := g.IsDuplicate("tab-1", "")
	assert.False(t, dup)
	dup, _ = g.IsDuplicate("tab-1", "")
	assert.False(t, dup)

	g.IsDuplicate("tab-1", "req-1")
	g.Forget("tab-1", "req-1")
	dup, _ = g.IsDuplicate("tab-1", "req-1")
	assert.False(t, dup)
}
