// internal/dispatch/cleanup.go

package dispatch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"smartPaste/internal/clipboard"
)

// Janitor okresowo usuwa stare zrzuty obrazów z katalogu przejściowego.
// Cudze pliki w tym katalogu są zostawiane w spokoju.
type Janitor struct {
	dir      string
	maxAge   time.Duration
	interval time.Duration
	logger   *slog.Logger
}

// NewJanitor tworzy sprzątacza katalogu przejściowego.
func NewJanitor(dir string, maxAge, interval time.Duration, logger *slog.Logger) *Janitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		dir:      dir,
		maxAge:   maxAge,
		interval: interval,
		logger:   logger,
	}
}

// Run sprząta cyklicznie aż do anulowania kontekstu. Pierwszy przebieg
// idzie od razu, kolejne co interval.
func (j *Janitor) Run(ctx context.Context) {
	j.Sweep()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep()
		}
	}
}

// Sweep wykonuje jeden przebieg sprzątania i zwraca liczbę usuniętych
// plików.
func (j *Janitor) Sweep() int {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			j.logger.Warn("cleanup sweep failed", "dir", j.dir, "error", err)
		}
		return 0
	}

	cutoff := time.Now().Add(-j.maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !clipboard.IsStagedImage(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		fullPath := filepath.Join(j.dir, entry.Name())
		if err := os.Remove(fullPath); err != nil {
			j.logger.Warn("failed to remove stale file", "path", fullPath, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		j.logger.Info("cleanup removed stale files", "dir", j.dir, "count", removed)
	}
	return removed
}
