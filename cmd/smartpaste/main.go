// cmd/smartpaste/main.go

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "smartpaste",
	Short: "Context-aware clipboard paste for terminals",
	Long: `smartpaste watches for paste shortcuts in terminal applications and
routes clipboard content according to the shell's connection context:
text is pasted as-is, images are uploaded to the remote host of an
active SSH session (or staged locally) and the resulting path is
injected into the terminal.`,
	Version: version,
}

func main() {
	rootCmd.AddCommand(runCmd, contextCmd, statusCmd, doctorCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
