// internal/detector/parser_test.go

package detector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartPaste/internal/sshconfig"
)

func aliasResolver(t *testing.T, content string) *sshconfig.Resolver {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return sshconfig.NewResolver(path)
}

func TestParseFlagsAndDestination(t *testing.T) {
	desc, ok := ParseInvocation([]string{"ssh", "-l", "bob", "-p", "2222", "myhost"}, nil)
	require.True(t, ok)
	assert.Equal(t, "bob", desc.Username)
	assert.Equal(t, "myhost", desc.Hostname)
	assert.Equal(t, 2222, desc.Port)
}

func TestParseUserAtHost(t *testing.T) {
	desc, ok := ParseInvocation([]string{"ssh", "alice@server.example.com"}, nil)
	require.True(t, ok)
	assert.Equal(t, "alice", desc.Username)
	assert.Equal(t, "server.example.com", desc.Hostname)
	assert.Equal(t, 0, desc.Port)
}

func TestParseFullPathBinary(t *testing.T) {
	_, ok := ParseInvocation([]string{"/usr/bin/ssh", "host"}, nil)
	assert.True(t, ok)
}

func TestParseRejectsNonSSH(t *testing.T) {
	_, ok := ParseInvocation([]string{"scp", "file", "host:/tmp"}, nil)
	assert.False(t, ok)

	_, ok = ParseInvocation([]string{"sshd", "-D"}, nil)
	assert.False(t, ok)

	_, ok = ParseInvocation(nil, nil)
	assert.False(t, ok)
}

func TestParseNoDestination(t *testing.T) {
	_, ok := ParseInvocation([]string{"ssh", "-v"}, nil)
	assert.False(t, ok)
}

func TestParseOptionArgumentsConsumed(t *testing.T) {
	// Wartości po -o/-i/-F nie mogą zostać wzięte za cel
	desc, ok := ParseInvocation([]string{
		"ssh", "-o", "StrictHostKeyChecking=no", "-i", "key.pem", "-F", "altconfig", "real-host",
	}, nil)
	require.True(t, ok)
	assert.Equal(t, "real-host", desc.Hostname)
}

func TestParseInvalidPortUnset(t *testing.T) {
	desc, ok := ParseInvocation([]string{"ssh", "-p", "99999", "host"}, nil)
	require.True(t, ok)
	assert.Equal(t, 0, desc.Port)
}

func TestParseStopsAtRemoteCommand(t *testing.T) {
	desc, ok := ParseInvocation([]string{"ssh", "host", "ls", "-la", "evil@ignored"}, nil)
	require.True(t, ok)
	assert.Equal(t, "host", desc.Hostname)
}

func TestParseAliasExpansion(t *testing.T) {
	aliases := aliasResolver(t, `
Host work
    HostName work.example.com
    User deploy
    Port 2201
`)

	desc, ok := ParseInvocation([]string{"ssh", "work"}, aliases)
	require.True(t, ok)
	assert.Equal(t, "work.example.com", desc.Hostname)
	assert.Equal(t, "deploy", desc.Username)
	assert.Equal(t, 2201, desc.Port)
}

func TestParseAliasExplicitFlagsWin(t *testing.T) {
	aliases := aliasResolver(t, `
Host work
    HostName work.example.com
    User deploy
    Port 2201
`)

	// Jawne -l i -p mają pierwszeństwo przed aliasem
	desc, ok := ParseInvocation([]string{"ssh", "-l", "root", "-p", "22", "work"}, aliases)
	require.True(t, ok)
	assert.Equal(t, "work.example.com", desc.Hostname)
	assert.Equal(t, "root", desc.Username)
	assert.Equal(t, 22, desc.Port)
}

func TestParseDefaultUsername(t *testing.T) {
	desc, ok := ParseInvocation([]string{"ssh", "bare-host"}, nil)
	require.True(t, ok)
	assert.Equal(t, CurrentUsername(), desc.Username)
	assert.NotEmpty(t, desc.Username)
}
