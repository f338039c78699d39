package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	old := GitSHA
	GitSHA = "abc123"
	defer func() { GitSHA = old }()

	info := Get("vedalipi")

	assert.Equal(t, "vedalipi", info.Service)
	assert.Equal(t, BuildVersion, info.Version)
	assert.Equal(t, "abc123", info.GitSHA, "linker value wins over build info")
	assert.Equal(t, runtime.Version(), info.GoVersion)
}
