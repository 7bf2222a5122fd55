// cmd/smartpaste/run.go

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"smartPaste/internal/clipboard"
	"smartPaste/internal/config"
	"smartPaste/internal/detector"
	"smartPaste/internal/dispatch"
	"smartPaste/internal/inject"
	"smartPaste/internal/keyboard"
	"smartPaste/internal/proctree"
	"smartPaste/internal/sshconfig"
	"smartPaste/internal/transfer"
)

// cleanupSweepInterval to częstotliwość przebiegów sprzątania; wiek
// graniczny plików pochodzi z konfiguracji.
const cleanupSweepInterval = time.Hour

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the paste interception daemon",
	RunE:  runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	manager, err := loadConfig()
	if err != nil {
		return err
	}
	cfg := manager.Config()

	logger, closeLog, err := newLogger(manager, cfg.DebugMode)
	if err != nil {
		return err
	}
	defer closeLog()

	injector := inject.New()
	controller := buildController(cfg, logger, injector)

	interceptor := keyboard.NewInterceptor(keyboard.NewHookSource(), keyboard.Config{
		AllowList:     cfg.TerminalApps,
		Cooldown:      cfg.PasteCooldown(),
		ForegroundApp: injector.FrontmostApp,
	})
	if !cfg.Enabled {
		interceptor.Disable()
	}

	// Brak hooka klawiatury to jedyny fatalny błąd startu — reszta
	// kolaboratorów zawodzi per wklejenie
	if err := interceptor.Start(); err != nil {
		return fmt.Errorf("failed to start keyboard hook: %v", err)
	}
	defer interceptor.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	janitor := dispatch.NewJanitor(cfg.LocalTempDir, cfg.CleanupMaxAge(), cleanupSweepInterval, logger)
	go janitor.Run(ctx)

	// Sygnały z interceptora są lekkie; właściwa obsługa wklejenia idzie
	// we własnej goroutine, żeby wolny transfer nie opóźniał kolejnych
	go func() {
		for range interceptor.Requests() {
			go controller.HandlePaste()
		}
	}()

	logger.Info("daemon started",
		"config", manager.ConfigPath(),
		"enabled", cfg.Enabled,
		"terminal_apps", cfg.TerminalApps)
	fmt.Println("smartpaste is running, press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	stats := controller.Stats()
	logger.Info("shutting down",
		"signal", sig.String(),
		"text_pastes", stats.TextPastes,
		"remote_uploads", stats.RemoteUploads,
		"local_images", stats.LocalImages,
		"failed_uploads", stats.FailedUploads,
		"rejected", stats.Rejected)
	fmt.Println("\nStopping smartpaste...")
	return nil
}

// loadConfig wczytuje konfigurację z domyślnej ścieżki, tworząc plik z
// wartościami domyślnymi przy pierwszym uruchomieniu.
func loadConfig() (*config.Manager, error) {
	configPath, err := config.GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}

	manager := config.NewManager(configPath)
	if err := manager.Load(); err != nil {
		return nil, err
	}
	return manager, nil
}

// buildController składa pełny tor wklejania z produkcyjnych komponentów.
func buildController(cfg *config.Config, logger *slog.Logger, injector *inject.Injector) *dispatch.Controller {
	aliases := sshconfig.NewResolver(sshconfig.DefaultSources()...)
	resolver := detector.NewResolver(aliases, proctree.NewSnapshot(), proctree.DefaultMaxDepth)

	reader := clipboard.NewReader(cfg.LocalTempDir)
	dialer := transfer.DialerFor(transfer.Options{Timeout: cfg.SSHTimeout()})
	orchestrator := transfer.NewOrchestrator(dialer, logger)

	return dispatch.NewController(cfg, dispatch.Deps{
		Resolver:      resolver,
		Uploader:      orchestrator,
		Logger:        logger,
		ReadClipboard: reader.Read,
		FrontmostApp:  injector.FrontmostApp,
		FrontmostPID:  injector.FrontmostShellPID,
		InjectText:    injector.Text,
	})
}

// newLogger otwiera plikowy logger JSON w katalogu logów; w trybie debug
// wpisy idą też na stderr.
func newLogger(manager *config.Manager, debug bool) (*slog.Logger, func(), error) {
	logsDir, err := manager.LogsDir()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %v", err)
	}

	logFile, err := os.OpenFile(filepath.Join(logsDir, "smartpaste.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %v", err)
	}

	level := slog.LevelInfo
	var out io.Writer = logFile
	if debug {
		level = slog.LevelDebug
		out = io.MultiWriter(logFile, os.Stderr)
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	return logger, func() { logFile.Close() }, nil
}
