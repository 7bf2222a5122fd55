// cmd/smartpaste/context.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"smartPaste/internal/detector"
	"smartPaste/internal/inject"
	"smartPaste/internal/models"
	"smartPaste/internal/proctree"
	"smartPaste/internal/sshconfig"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Print the connection context of the foreground terminal shell",
	RunE:  runContext,
}

func runContext(cmd *cobra.Command, args []string) error {
	ctx := resolveForegroundContext()

	if ctx.IsRemote {
		fmt.Printf("remote\t%s\n", ctx.String())
		fmt.Printf("  user: %s\n", ctx.Username)
		fmt.Printf("  host: %s\n", ctx.Hostname)
		fmt.Printf("  port: %d\n", ctx.EffectivePort())
		fmt.Printf("  ssh pid: %d\n", ctx.SourcePID)
	} else {
		fmt.Println("local\tno outgoing SSH session detected")
	}
	return nil
}

// resolveForegroundContext wyznacza kontekst powłoki pierwszego planu.
// Nieznaleziona powłoka daje kontekst lokalny.
func resolveForegroundContext() models.ConnectionContext {
	aliases := sshconfig.NewResolver(sshconfig.DefaultSources()...)
	resolver := detector.NewResolver(aliases, proctree.NewSnapshot(), proctree.DefaultMaxDepth)

	var pid int32
	if p, ok := inject.New().FrontmostShellPID(); ok {
		pid = p
	}
	return resolver.Current(pid)
}
