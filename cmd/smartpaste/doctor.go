// cmd/smartpaste/doctor.go

package main

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"smartPaste/internal/apperr"
	"smartPaste/internal/inject"
	"smartPaste/internal/models"
	"smartPaste/internal/transfer"
)

var doctorProbe string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check local prerequisites and optionally probe an SSH host",
	RunE:  runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorProbe, "probe", "",
		"probe SSH connectivity to user@host[:port]")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	failed := false

	report := func(name string, err error) {
		if err != nil {
			failed = true
			fmt.Printf("  [FAIL] %s: %v\n", name, err)
			return
		}
		fmt.Printf("  [ OK ] %s\n", name)
	}

	fmt.Println("smartpaste doctor")

	manager, err := loadConfig()
	report("configuration", err)

	report("osascript available", checkOsascript())
	report("clipboard readable", checkClipboard())
	report("foreground app query", checkForegroundApp())

	if doctorProbe != "" && manager != nil {
		report("ssh probe "+doctorProbe, probeSSH(doctorProbe, manager.Config().SSHTimeout()))
	}

	if failed {
		return fmt.Errorf("some checks failed")
	}
	fmt.Println("All checks passed")
	return nil
}

func checkOsascript() error {
	_, err := exec.LookPath("osascript")
	return err
}

func checkClipboard() error {
	_, err := clipboard.ReadAll()
	return err
}

// checkForegroundApp weryfikuje dostęp do System Events — jego brak
// oznacza zwykle nieudzielone uprawnienia Accessibility.
func checkForegroundApp() error {
	if _, ok := inject.New().FrontmostApp(); !ok {
		return fmt.Errorf("cannot query System Events (grant Accessibility permission?)")
	}
	return nil
}

// probeSSH łączy się z podanym hostem metodami bezhasłowymi, a przy
// odmowie uwierzytelnienia ponawia jednokrotnie z hasłem z terminala.
func probeSSH(target string, timeout time.Duration) error {
	ctx, err := parseProbeTarget(target)
	if err != nil {
		return err
	}

	client := transfer.NewClient(transfer.Options{Timeout: timeout})
	err = client.Connect(ctx)
	if err == nil {
		defer client.Close()
		_, err = client.Exec("true")
		return err
	}

	if !apperr.IsKind(err, apperr.AuthenticationFailed) {
		return err
	}

	password, perr := readPassword(fmt.Sprintf("Password for %s@%s: ", ctx.Username, ctx.Hostname))
	if perr != nil {
		return err
	}

	client = transfer.NewClient(transfer.Options{Timeout: timeout, Password: password})
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()
	_, err = client.Exec("true")
	return err
}

// parseProbeTarget rozbiera user@host[:port].
func parseProbeTarget(target string) (models.ConnectionContext, error) {
	username := ""
	hostPart := target
	if at := strings.Index(target, "@"); at >= 0 {
		username = target[:at]
		hostPart = target[at+1:]
	}

	host := hostPart
	port := 0
	if colon := strings.LastIndex(hostPart, ":"); colon >= 0 {
		host = hostPart[:colon]
		p, err := strconv.Atoi(hostPart[colon+1:])
		if err != nil || p < 1 || p > 65535 {
			return models.ConnectionContext{}, fmt.Errorf("invalid port in %q", target)
		}
		port = p
	}

	if host == "" {
		return models.ConnectionContext{}, fmt.Errorf("missing host in %q", target)
	}
	if username == "" {
		username = os.Getenv("USER")
	}

	return models.ConnectionContext{
		IsRemote: true,
		Username: username,
		Hostname: host,
		Port:     port,
	}, nil
}

// readPassword czyta hasło bez echa z bieżącego terminala.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(data), nil
}
