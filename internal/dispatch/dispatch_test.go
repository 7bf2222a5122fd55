// internal/dispatch/dispatch_test.go

package dispatch

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartPaste/internal/config"
	"smartPaste/internal/models"
)

type fakeResolver struct {
	ctx   models.ConnectionContext
	calls int
}

func (f *fakeResolver) Current(pid int32) models.ConnectionContext {
	f.calls++
	return f.ctx
}

type fakeUploader struct {
	result     models.TransferResult
	localPath  string
	remotePath string
	retries    int
	calls      int
}

func (f *fakeUploader) UploadWithRetry(localPath, remotePath string, ctx models.ConnectionContext, maxRetries int) models.TransferResult {
	f.calls++
	f.localPath = localPath
	f.remotePath = remotePath
	f.retries = maxRetries
	f.result.RemotePath = remotePath
	return f.result
}

type harness struct {
	cfg        *config.Config
	controller *Controller
	resolver   *fakeResolver
	uploader   *fakeUploader
	clip       models.ClipboardContent
	clipErr    error
	injected   []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.LocalTempDir = t.TempDir()
	cfg.MaxFileSizeMB = 1

	h := &harness{
		cfg:      cfg,
		resolver: &fakeResolver{ctx: models.LocalContext("alice")},
		uploader: &fakeUploader{result: models.TransferResult{Success: true}},
	}
	h.controller = NewController(cfg, Deps{
		Resolver:      h.resolver,
		Uploader:      h.uploader,
		ReadClipboard: func() (models.ClipboardContent, error) { return h.clip, h.clipErr },
		FrontmostApp:  func() (string, bool) { return "Terminal", true },
		FrontmostPID:  func() (int32, bool) { return 100, true },
		InjectText: func(app, text string) error {
			h.injected = append(h.injected, text)
			return nil
		},
	})
	return h
}

func (h *harness) stageImage(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(h.cfg.LocalTempDir, "clipboard_image_test.png")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0xAB}, size), 0644))
	return path
}

func TestEmptyClipboardIsNoOp(t *testing.T) {
	h := newHarness(t)
	h.clip = models.ClipboardContent{Kind: models.ClipboardEmpty}

	h.controller.HandlePaste()

	assert.Empty(t, h.injected)
	assert.Zero(t, h.resolver.calls)
}

func TestTextPastedWithoutContextResolution(t *testing.T) {
	h := newHarness(t)
	h.clip = models.ClipboardContent{Kind: models.ClipboardText, Text: "ls -la"}

	h.controller.HandlePaste()

	require.Equal(t, []string{"ls -la"}, h.injected)
	// Tekst nie wymaga transferu, więc kontekst nie jest rozstrzygany
	assert.Zero(t, h.resolver.calls)
	assert.Zero(t, h.uploader.calls)
	assert.Equal(t, 1, h.controller.Stats().TextPastes)
}

func TestLocalImageInjectsStagedPath(t *testing.T) {
	h := newHarness(t)
	path := h.stageImage(t, 128)
	h.clip = models.ClipboardContent{Kind: models.ClipboardImage, ImagePath: path}

	h.controller.HandlePaste()

	require.Equal(t, []string{path}, h.injected)
	assert.Zero(t, h.uploader.calls)
	assert.Equal(t, 1, h.controller.Stats().LocalImages)
}

func TestLocalImageOutsideStagingIsCopied(t *testing.T) {
	h := newHarness(t)
	src := filepath.Join(t.TempDir(), "clipboard_image_elsewhere.png")
	require.NoError(t, os.WriteFile(src, []byte("png"), 0644))
	h.clip = models.ClipboardContent{Kind: models.ClipboardImage, ImagePath: src}

	h.controller.HandlePaste()

	want := filepath.Join(h.cfg.LocalTempDir, "clipboard_image_elsewhere.png")
	require.Equal(t, []string{want}, h.injected)
	assert.FileExists(t, want)
}

func TestRemoteImageUploadedAndPathInjected(t *testing.T) {
	h := newHarness(t)
	h.resolver.ctx = models.ConnectionContext{
		IsRemote: true, Username: "alice", Hostname: "example.com",
	}
	path := h.stageImage(t, 128)
	h.clip = models.ClipboardContent{Kind: models.ClipboardImage, ImagePath: path}

	h.controller.HandlePaste()

	require.Equal(t, 1, h.uploader.calls)
	assert.Equal(t, path, h.uploader.localPath)
	assert.Equal(t, "/tmp/clipboard_image_test.png", h.uploader.remotePath)
	assert.Equal(t, h.cfg.SCPRetryCount, h.uploader.retries)
	require.Equal(t, []string{"/tmp/clipboard_image_test.png"}, h.injected)
	assert.Equal(t, 1, h.controller.Stats().RemoteUploads)
}

func TestRemoteUploadFailureInjectsComment(t *testing.T) {
	h := newHarness(t)
	h.resolver.ctx = models.ConnectionContext{IsRemote: true, Username: "alice", Hostname: "example.com"}
	h.uploader.result = models.TransferResult{Success: false, Error: "connection refused"}
	path := h.stageImage(t, 128)
	h.clip = models.ClipboardContent{Kind: models.ClipboardImage, ImagePath: path}

	h.controller.HandlePaste()

	require.Len(t, h.injected, 1)
	assert.Equal(t, "# Upload failed: connection refused", h.injected[0])
	assert.Equal(t, 1, h.controller.Stats().FailedUploads)
}

func TestImageAtSizeLimitAccepted(t *testing.T) {
	h := newHarness(t)
	path := h.stageImage(t, 1024*1024) // dokładnie na granicy
	h.clip = models.ClipboardContent{Kind: models.ClipboardImage, ImagePath: path}

	h.controller.HandlePaste()

	require.Equal(t, []string{path}, h.injected)
	assert.Zero(t, h.controller.Stats().Rejected)
}

func TestOversizedImageRejected(t *testing.T) {
	h := newHarness(t)
	path := h.stageImage(t, 1024*1024+1)
	h.clip = models.ClipboardContent{Kind: models.ClipboardImage, ImagePath: path}

	h.controller.HandlePaste()

	require.Len(t, h.injected, 1)
	assert.Contains(t, h.injected[0], "# Image too large")
	assert.Equal(t, 1, h.controller.Stats().Rejected)
	assert.Zero(t, h.uploader.calls)
	assert.Zero(t, h.resolver.calls)
}

func TestUnknownForegroundAppAborts(t *testing.T) {
	h := newHarness(t)
	h.clip = models.ClipboardContent{Kind: models.ClipboardText, Text: "x"}
	h.controller.frontmostApp = func() (string, bool) { return "", false }

	h.controller.HandlePaste()
	assert.Empty(t, h.injected)
}
