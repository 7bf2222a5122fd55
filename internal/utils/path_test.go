// internal/utils/path_test.go

package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteJoin(t *testing.T) {
	assert.Equal(t, "/tmp/img.png", RemoteJoin("/tmp", "img.png"))
	assert.Equal(t, "/tmp/img.png", RemoteJoin("/tmp/", "img.png"))
	assert.Equal(t, "/img.png", RemoteJoin("/", "img.png"))
}

func TestExpandUser(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, ExpandUser("~"))
	assert.Equal(t, filepath.Join(home, ".ssh", "id_rsa"), ExpandUser("~/.ssh/id_rsa"))
	assert.Equal(t, "/etc/ssh", ExpandUser("/etc/ssh"))
	assert.Equal(t, "~alice/x", ExpandUser("~alice/x"))
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "'/tmp/plain.png'", ShellQuote("/tmp/plain.png"))
	assert.Equal(t, "'/tmp/with space.png'", ShellQuote("/tmp/with space.png"))
	assert.Equal(t, `'/tmp/o'\''brien.png'`, ShellQuote("/tmp/o'brien.png"))
	assert.Equal(t, "'$(rm -rf /)'", ShellQuote("$(rm -rf /)"))
}
