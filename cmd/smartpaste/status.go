// cmd/smartpaste/status.go

package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"smartPaste/internal/models"
	"smartPaste/internal/ui"
)

var statusWatch bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show active configuration and the current connection context",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false,
		"refresh the status view continuously")
}

func runStatus(cmd *cobra.Command, args []string) error {
	manager, err := loadConfig()
	if err != nil {
		return err
	}
	cfg := manager.Config()

	if statusWatch {
		model := ui.NewStatusModel(cfg, func() models.ConnectionContext {
			return resolveForegroundContext()
		})
		_, err := tea.NewProgram(model).Run()
		return err
	}

	ctx := resolveForegroundContext()
	fmt.Printf("config: %s\n", manager.ConfigPath())
	fmt.Printf("enabled: %v\n", cfg.Enabled)
	fmt.Printf("terminal apps: %v\n", cfg.TerminalApps)
	fmt.Printf("max file size: %d MB\n", cfg.MaxFileSizeMB)
	fmt.Printf("paste cooldown: %s\n", cfg.PasteCooldown())
	if ctx.IsRemote {
		fmt.Printf("context: remote (%s)\n", ctx.String())
	} else {
		fmt.Println("context: local")
	}
	return nil
}
