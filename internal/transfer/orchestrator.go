// internal/transfer/orchestrator.go

package transfer

import (
	"fmt"
	"log/slog"
	"path"
	"time"

	"smartPaste/internal/apperr"
	"smartPaste/internal/models"
	"smartPaste/internal/utils"
)

// defaultRetryDelay to stały odstęp między ponowieniami transferu.
const defaultRetryDelay = time.Second

// Session to pojedyncza sesja transferowa do zdalnego hosta.
type Session interface {
	EnsureDir(dir string) error
	Upload(localPath, remotePath string) (int64, error)
	FileExists(remotePath string) (bool, error)
	Close() error
}

// Dialer otwiera sesję transferową dla kontekstu połączenia.
type Dialer func(ctx models.ConnectionContext) (Session, error)

// DialerFor zwraca Dialer budujący klientów SSH z podanymi opcjami.
func DialerFor(opts Options) Dialer {
	return func(ctx models.ConnectionContext) (Session, error) {
		client := NewClient(opts)
		if err := client.Connect(ctx); err != nil {
			return nil, err
		}
		return client, nil
	}
}

// Orchestrator prowadzi pełną sekwencję wysyłki: połączenie, utworzenie
// katalogu, transfer i weryfikację, z ponowieniami całej sekwencji.
type Orchestrator struct {
	dial       Dialer
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewOrchestrator tworzy orkiestrator nad podanym dialerem.
func NewOrchestrator(dial Dialer, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		dial:       dial,
		retryDelay: defaultRetryDelay,
		logger:     logger,
	}
}

// UploadWithRetry wysyła plik pod zdalną ścieżkę, ponawiając całą sekwencję
// do maxRetries dodatkowych razy ze stałym odstępem. Próby idą sekwencyjnie;
// przy porażce raportowany jest tylko ostatni błąd. Sukces wymaga zarówno
// udanego transferu jak i pozytywnej weryfikacji.
func (o *Orchestrator) UploadWithRetry(localPath, remotePath string, ctx models.ConnectionContext, maxRetries int) models.TransferResult {
	start := time.Now()
	if maxRetries < 0 {
		maxRetries = 0
	}

	var lastErr error
	attempts := 0
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(o.retryDelay)
		}
		attempts++

		written, err := o.attempt(localPath, remotePath, ctx)
		if err == nil {
			o.logger.Info("upload complete",
				"remote_path", remotePath,
				"bytes", written,
				"attempts", attempts)
			return models.TransferResult{
				Success:    true,
				RemotePath: remotePath,
				Elapsed:    time.Since(start),
				Bytes:      written,
				Attempts:   attempts,
			}
		}

		lastErr = err
		o.logger.Warn("upload attempt failed",
			"remote_path", remotePath,
			"attempt", attempts,
			"error", err)
	}

	return models.TransferResult{
		Success:    false,
		RemotePath: remotePath,
		Error:      lastErr.Error(),
		Elapsed:    time.Since(start),
		Attempts:   attempts,
	}
}

// attempt wykonuje jedną pełną sekwencję wysyłki na świeżej sesji.
func (o *Orchestrator) attempt(localPath, remotePath string, ctx models.ConnectionContext) (int64, error) {
	session, err := o.dial(ctx)
	if err != nil {
		return 0, err
	}
	defer session.Close()

	// Katalog docelowy zwykle już istnieje — błąd mkdir nie przerywa próby
	if err := session.EnsureDir(path.Dir(utils.ToRemotePath(remotePath))); err != nil {
		o.logger.Debug("remote mkdir failed, continuing", "error", err)
	}

	written, err := session.Upload(localPath, remotePath)
	if err != nil {
		return written, err
	}

	exists, err := session.FileExists(remotePath)
	if err != nil {
		return written, err
	}
	if !exists {
		return written, apperr.New(apperr.VerificationFailed,
			fmt.Sprintf("remote file %s missing after transfer", remotePath), nil)
	}

	return written, nil
}
