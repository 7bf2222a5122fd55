// internal/dispatch/dispatch.go

package dispatch

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"smartPaste/internal/apperr"
	"smartPaste/internal/config"
	"smartPaste/internal/models"
	"smartPaste/internal/utils"
)

// ContextResolver wyznacza kontekst połączenia dla powłoki o podanym PID.
type ContextResolver interface {
	Current(pid int32) models.ConnectionContext
}

// Uploader wysyła plik pod zdalną ścieżkę z ponowieniami.
type Uploader interface {
	UploadWithRetry(localPath, remotePath string, ctx models.ConnectionContext, maxRetries int) models.TransferResult
}

// Stats to liczniki pracy kontrolera od startu procesu.
type Stats struct {
	TextPastes    int
	LocalImages   int
	RemoteUploads int
	FailedUploads int
	Rejected      int
	LastActivity  time.Time
}

// Controller spina cały tor wklejania: czyta schowek, rozstrzyga kontekst,
// zleca wysyłkę i wstrzykuje wynik do terminala. Jedno wywołanie
// HandlePaste obsługuje jeden sygnał z interceptora; wywołania idą we
// własnych goroutine'ach konsumenta, więc stan współdzielony jest pod
// mutexem.
type Controller struct {
	cfg      *config.Config
	resolver ContextResolver
	uploader Uploader
	logger   *slog.Logger

	// Kolaboratorzy systemowi wydzieleni jako funkcje dla testów.
	readClipboard func() (models.ClipboardContent, error)
	frontmostApp  func() (string, bool)
	frontmostPID  func() (int32, bool)
	injectText    func(appName, text string) error

	mu    sync.Mutex
	stats Stats
}

// Deps to komplet kolaboratorów kontrolera.
type Deps struct {
	Resolver      ContextResolver
	Uploader      Uploader
	Logger        *slog.Logger
	ReadClipboard func() (models.ClipboardContent, error)
	FrontmostApp  func() (string, bool)
	FrontmostPID  func() (int32, bool)
	InjectText    func(appName, text string) error
}

// NewController tworzy kontroler wklejania.
func NewController(cfg *config.Config, deps Deps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		cfg:           cfg,
		resolver:      deps.Resolver,
		uploader:      deps.Uploader,
		logger:        logger,
		readClipboard: deps.ReadClipboard,
		frontmostApp:  deps.FrontmostApp,
		frontmostPID:  deps.FrontmostPID,
		injectText:    deps.InjectText,
	}
}

// HandlePaste obsługuje jeden sygnał wklejenia. Pusty schowek to no-op;
// tekst idzie do terminala bez rozstrzygania kontekstu; obraz jest
// walidowany rozmiarem i zależnie od kontekstu wysyłany albo kopiowany
// lokalnie, a do terminala trafia ścieżka docelowa.
func (c *Controller) HandlePaste() {
	content, err := c.readClipboard()
	if err != nil {
		c.logger.Error("clipboard read failed", "error", err)
		return
	}
	if content.IsEmpty() {
		c.logger.Debug("clipboard empty, nothing to paste")
		return
	}

	app, ok := c.frontmostApp()
	if !ok {
		c.logger.Warn("cannot determine foreground application")
		return
	}

	c.touch()

	if content.Kind == models.ClipboardText {
		c.handleText(app, content.Text)
		return
	}
	c.handleImage(app, content.ImagePath)
}

// handleText wkleja tekst wprost — tekst nie wymaga transferu niezależnie
// od tego, czy powłoka jest lokalna czy zdalna.
func (c *Controller) handleText(app, text string) {
	if err := c.injectText(app, text); err != nil {
		c.logger.Error("text injection failed", "app", app, "error", err)
		return
	}
	c.bump(func(s *Stats) { s.TextPastes++ })
	c.logger.Info("text pasted", "app", app, "chars", len(text))
}

// handleImage rozstrzyga kontekst powłoki i dostarcza obraz pod ścieżkę
// widoczną z tej powłoki.
func (c *Controller) handleImage(app, imagePath string) {
	info, err := os.Stat(imagePath)
	if err != nil {
		c.logger.Error("staged image unavailable", "path", imagePath, "error", err)
		return
	}

	// Limit włącznie: plik dokładnie na granicy przechodzi
	if info.Size() > c.cfg.MaxFileSizeBytes() {
		c.bump(func(s *Stats) { s.Rejected++ })
		c.logger.Warn("image rejected",
			"path", imagePath,
			"error", apperr.New(apperr.OversizedArtifact,
				fmt.Sprintf("image is %d bytes, limit %d", info.Size(), c.cfg.MaxFileSizeBytes()), nil))
		c.inject(app, fmt.Sprintf("# Image too large: %.1fMB (max: %dMB)",
			float64(info.Size())/(1024*1024), c.cfg.MaxFileSizeMB))
		return
	}

	var pid int32
	if c.frontmostPID != nil {
		if p, ok := c.frontmostPID(); ok {
			pid = p
		}
	}

	job := models.PasteJob{
		Content: imagePath,
		IsImage: true,
		Context: c.resolver.Current(pid),
	}

	if job.Context.IsRemote {
		c.uploadAndInject(app, job)
		return
	}
	c.stageLocally(app, job.Content)
}

// uploadAndInject wysyła obraz na zdalny host i wstrzykuje zdalną ścieżkę.
func (c *Controller) uploadAndInject(app string, job models.PasteJob) {
	imagePath := job.Content
	remotePath := utils.RemoteJoin(c.cfg.RemoteTempDir, filepath.Base(imagePath))

	result := c.uploader.UploadWithRetry(imagePath, remotePath, job.Context, c.cfg.SCPRetryCount)
	if !result.Success {
		c.bump(func(s *Stats) { s.FailedUploads++ })
		c.logger.Error("upload failed",
			"host", job.Context.Hostname,
			"attempts", result.Attempts,
			"error", result.Error)
		c.inject(app, fmt.Sprintf("# Upload failed: %s", result.Error))
		return
	}

	c.bump(func(s *Stats) { s.RemoteUploads++ })
	c.logger.Info("image uploaded",
		"host", job.Context.Hostname,
		"remote_path", result.RemotePath,
		"bytes", result.Bytes,
		"attempts", result.Attempts,
		"elapsed", result.Elapsed)
	c.inject(app, result.RemotePath)
}

// stageLocally upewnia się, że obraz leży w katalogu przejściowym, i
// wstrzykuje jego lokalną ścieżkę.
func (c *Controller) stageLocally(app, imagePath string) {
	stagedPath := imagePath
	if filepath.Dir(imagePath) != filepath.Clean(c.cfg.LocalTempDir) {
		target := filepath.Join(c.cfg.LocalTempDir, filepath.Base(imagePath))
		if err := copyFile(imagePath, target); err != nil {
			c.logger.Error("failed to stage image locally", "error", err)
			return
		}
		stagedPath = target
	}

	c.bump(func(s *Stats) { s.LocalImages++ })
	c.logger.Info("image staged locally", "path", stagedPath)
	c.inject(app, stagedPath)
}

func (c *Controller) inject(app, text string) {
	if err := c.injectText(app, text); err != nil {
		c.logger.Error("injection failed", "app", app, "error", err)
	}
}

// Stats zwraca kopię bieżących liczników.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Controller) bump(update func(*Stats)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	update(&c.stats)
}

func (c *Controller) touch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.LastActivity = time.Now()
}

// copyFile kopiuje plik do miejsca docelowego, tworząc katalog po drodze.
func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return apperr.New(apperr.ClipboardError, "failed to create staging directory", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %v", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy to %s: %v", dst, err)
	}
	return nil
}
