// internal/detector/detector_test.go

package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartPaste/internal/apperr"
	"smartPaste/internal/models"
	"smartPaste/internal/proctree"
)

type fakeSnapshot struct {
	procs map[int32]models.ProcessInfo
	env   map[int32][]string
}

func (f *fakeSnapshot) Process(pid int32) (models.ProcessInfo, error) {
	info, ok := f.procs[pid]
	if !ok {
		return models.ProcessInfo{}, apperr.New(apperr.ProcessUnavailable, "no such process", nil)
	}
	return info, nil
}

func (f *fakeSnapshot) Environ(pid int32) ([]string, error) {
	env, ok := f.env[pid]
	if !ok {
		return nil, apperr.New(apperr.ProcessUnavailable, "no such process", nil)
	}
	return env, nil
}

func TestCurrentDetectsSSHAncestor(t *testing.T) {
	snap := &fakeSnapshot{procs: map[int32]models.ProcessInfo{
		100: {PID: 100, Name: "zsh", ParentPID: 50},
		50:  {PID: 50, Name: "ssh", Argv: []string{"ssh", "-p", "2222", "alice@example.com"}, ParentPID: 10},
		10:  {PID: 10, Name: "login", ParentPID: 0},
	}}

	r := NewResolver(nil, snap, proctree.DefaultMaxDepth)
	ctx := r.Current(100)

	require.True(t, ctx.IsRemote)
	assert.Equal(t, "alice", ctx.Username)
	assert.Equal(t, "example.com", ctx.Hostname)
	assert.Equal(t, 2222, ctx.Port)
	assert.Equal(t, int32(50), ctx.SourcePID)
}

func TestCurrentNearestSSHWins(t *testing.T) {
	// Zagnieżdżone ssh: powłoka w drugim skoku ma widzieć bliższy cel
	snap := &fakeSnapshot{procs: map[int32]models.ProcessInfo{
		100: {PID: 100, Name: "zsh", ParentPID: 60},
		60:  {PID: 60, Name: "ssh", Argv: []string{"ssh", "inner-host"}, ParentPID: 50},
		50:  {PID: 50, Name: "ssh", Argv: []string{"ssh", "outer-host"}, ParentPID: 1},
		1:   {PID: 1, Name: "launchd", ParentPID: 0},
	}}

	ctx := NewResolver(nil, snap, proctree.DefaultMaxDepth).Current(100)
	require.True(t, ctx.IsRemote)
	assert.Equal(t, "inner-host", ctx.Hostname)
}

func TestCurrentSkipsHopWithoutArgv(t *testing.T) {
	// Proces bez dostępnego argv (częściowa migawka) nie przerywa
	// przejścia — ssh wyżej w łańcuchu ma być znalezione
	snap := &fakeSnapshot{procs: map[int32]models.ProcessInfo{
		100: {PID: 100, Name: "zsh", ParentPID: 50},
		50:  {PID: 50, ParentPID: 40},
		40:  {PID: 40, Name: "ssh", Argv: []string{"ssh", "upstream"}, ParentPID: 1},
		1:   {PID: 1, Name: "launchd", ParentPID: 0},
	}}

	ctx := NewResolver(nil, snap, proctree.DefaultMaxDepth).Current(100)
	require.True(t, ctx.IsRemote)
	assert.Equal(t, "upstream", ctx.Hostname)
}

func TestCurrentLocalWithoutSSH(t *testing.T) {
	snap := &fakeSnapshot{
		procs: map[int32]models.ProcessInfo{
			100: {PID: 100, Name: "zsh", ParentPID: 1},
			1:   {PID: 1, Name: "launchd", ParentPID: 0},
		},
		env: map[int32][]string{100: {"TERM=xterm-256color"}},
	}

	ctx := NewResolver(nil, snap, proctree.DefaultMaxDepth).Current(100)
	assert.False(t, ctx.IsRemote)
	assert.Equal(t, models.LocalHostname, ctx.Hostname)
}

func TestCurrentInboundSessionTreatedAsLocal(t *testing.T) {
	// Markery SSH_CLIENT bez wychodzącego ssh oznaczają, że to my jesteśmy
	// zdalnym końcem — wysyłka obrazów nie ma dokąd iść
	snap := &fakeSnapshot{
		procs: map[int32]models.ProcessInfo{
			100: {PID: 100, Name: "bash", ParentPID: 90},
			90:  {PID: 90, Name: "sshd", ParentPID: 1},
			1:   {PID: 1, Name: "init", ParentPID: 0},
		},
		env: map[int32][]string{100: {"SSH_CLIENT=10.0.0.5 52412 22", "TERM=xterm"}},
	}

	ctx := NewResolver(nil, snap, proctree.DefaultMaxDepth).Current(100)
	assert.False(t, ctx.IsRemote)
}

func TestCurrentNoPID(t *testing.T) {
	snap := &fakeSnapshot{}
	ctx := NewResolver(nil, snap, proctree.DefaultMaxDepth).Current(0)
	assert.False(t, ctx.IsRemote)
}
