package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_Short(t *testing.T) {
	assert.Equal(t, "v1.2.0 (abcdef1)", Info{Version: "v1.2.0", Commit: "abcdef1234"}.Short())
	assert.Equal(t, "dev", Info{Version: "dev", Commit: "unknown"}.Short())
	assert.Equal(t, "dev", Info{Version: "dev"}.Short())
}

func TestRepoURL(t *testing.T) {
	assert.Contains(t, RepoURL(), "promptcast")
}
