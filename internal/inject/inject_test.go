// internal/inject/inject_test.go

package inject

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextPicksScriptPerApp(t *testing.T) {
	var lastScript string
	i := &Injector{
		runScript: func(script string) ([]byte, error) {
			lastScript = script
			return nil, nil
		},
	}

	require.NoError(t, i.Text("iTerm2", "echo hi"))
	assert.Contains(t, lastScript, "write text")

	require.NoError(t, i.Text("Terminal", "echo hi"))
	assert.Contains(t, lastScript, "do script")

	require.NoError(t, i.Text("Alacritty", "echo hi"))
	assert.Contains(t, lastScript, "keystroke")
}

func TestTextEscapesQuotesAndBackslashes(t *testing.T) {
	var lastScript string
	i := &Injector{
		runScript: func(script string) ([]byte, error) {
			lastScript = script
			return nil, nil
		},
	}

	require.NoError(t, i.Text("Terminal", `say "hi" \ bye`))
	assert.Contains(t, lastScript, `say \"hi\" \\ bye`)
}

func TestTextReportsScriptFailure(t *testing.T) {
	i := &Injector{
		runScript: func(script string) ([]byte, error) {
			return nil, errors.New("osascript exited 1")
		},
	}
	assert.Error(t, i.Text("Terminal", "x"))
}

func TestFrontmostApp(t *testing.T) {
	i := &Injector{
		runScript: func(script string) ([]byte, error) {
			return []byte("iTerm2\n"), nil
		},
	}

	app, ok := i.FrontmostApp()
	require.True(t, ok)
	assert.Equal(t, "iTerm2", app)
}

func TestFrontmostShellPIDFindsShellOnTTY(t *testing.T) {
	i := &Injector{
		runScript: func(script string) ([]byte, error) {
			if strings.Contains(script, "frontmost") {
				return []byte("Terminal\n"), nil
			}
			return []byte("/dev/ttys003\n"), nil
		},
		runPS: func(tty string) ([]byte, error) {
			assert.Equal(t, "ttys003", tty)
			return []byte("  501 login\n  502 -zsh\n  733 vim\n"), nil
		},
	}

	pid, ok := i.FrontmostShellPID()
	require.True(t, ok)
	assert.Equal(t, int32(502), pid)
}

func TestFrontmostShellPIDUnknownApp(t *testing.T) {
	i := &Injector{
		runScript: func(script string) ([]byte, error) {
			return []byte("Safari\n"), nil
		},
	}

	_, ok := i.FrontmostShellPID()
	assert.False(t, ok)
}
