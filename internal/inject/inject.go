// internal/inject/inject.go

package inject

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"smartPaste/internal/apperr"
)

// shellNames to nazwy procesów uznawane za powłokę przy szukaniu
// procesu pierwszego planu po tty.
var shellNames = []string{"zsh", "bash", "fish", "sh", "tcsh", "ksh"}

// Injector dostarcza tekst do aplikacji terminalowej pierwszego planu
// przez AppleScript. Znane terminale dostają dedykowane ścieżki (wpis
// wprost do sesji), pozostałe — symulowane klawisze.
type Injector struct {
	runScript func(script string) ([]byte, error)
	runPS     func(tty string) ([]byte, error)
}

// New tworzy injector używający systemowego osascript.
func New() *Injector {
	return &Injector{
		runScript: func(script string) ([]byte, error) {
			return exec.Command("osascript", "-e", script).Output()
		},
		runPS: func(tty string) ([]byte, error) {
			return exec.Command("ps", "-t", tty, "-o", "pid=,comm=").Output()
		},
	}
}

// FrontmostApp zwraca nazwę aplikacji pierwszego planu.
func (i *Injector) FrontmostApp() (string, bool) {
	script := `
		tell application "System Events"
			set frontApp to name of first application process whose frontmost is true
		end tell
		return frontApp
	`
	output, err := i.runScript(script)
	if err != nil {
		return "", false
	}

	name := strings.TrimSpace(string(output))
	return name, name != ""
}

// Text dostarcza tekst do podanej aplikacji terminalowej.
func (i *Injector) Text(appName, text string) error {
	escaped := escapeScriptString(text)

	var script string
	switch {
	case strings.Contains(appName, "iTerm"):
		script = fmt.Sprintf(`
			tell application "iTerm2"
				tell current session of current tab of current window
					write text "%s"
				end tell
			end tell
		`, escaped)
	case strings.Contains(appName, "Terminal"):
		script = fmt.Sprintf(`
			tell application "Terminal"
				do script "%s" in selected tab of front window
			end tell
		`, escaped)
	default:
		// Terminal bez dedykowanej obsługi — symulowane klawisze
		script = fmt.Sprintf(`
			tell application "System Events"
				keystroke "%s"
			end tell
		`, escaped)
	}

	if _, err := i.runScript(script); err != nil {
		return apperr.New(apperr.ClipboardError,
			fmt.Sprintf("failed to inject text into %s", appName), err)
	}
	return nil
}

// FrontmostShellPID znajduje PID powłoki w aktywnej karcie terminala
// pierwszego planu: najpierw tty karty z AppleScriptu, potem powłoka
// siedząca na tym tty.
func (i *Injector) FrontmostShellPID() (int32, bool) {
	app, ok := i.FrontmostApp()
	if !ok {
		return 0, false
	}

	tty, ok := i.frontmostTTY(app)
	if !ok {
		return 0, false
	}

	output, err := i.runPS(tty)
	if err != nil {
		return 0, false
	}

	for _, line := range strings.Split(string(output), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		comm := strings.TrimPrefix(fields[1], "-") // powłoki logowania mają prefiks "-"
		for _, shell := range shellNames {
			if comm == shell {
				pid, err := strconv.ParseInt(fields[0], 10, 32)
				if err != nil {
					continue
				}
				return int32(pid), true
			}
		}
	}

	return 0, false
}

// frontmostTTY pyta aktywny terminal o tty bieżącej karty.
func (i *Injector) frontmostTTY(appName string) (string, bool) {
	var script string
	switch {
	case strings.Contains(appName, "iTerm"):
		script = `tell application "iTerm2" to tty of current session of current tab of current window`
	case strings.Contains(appName, "Terminal"):
		script = `tell application "Terminal" to tty of selected tab of front window`
	default:
		return "", false
	}

	output, err := i.runScript(script)
	if err != nil {
		return "", false
	}

	tty := strings.TrimSpace(string(output))
	if tty == "" {
		return "", false
	}
	// ps -t oczekuje nazwy bez prefiksu /dev/
	return strings.TrimPrefix(tty, "/dev/"), true
}

// escapeScriptString zabezpiecza wartość wstawianą do literału AppleScript.
func escapeScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
