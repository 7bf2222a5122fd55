// internal/clipboard/clipboard.go

package clipboard

import (
	"crypto/md5"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"smartPaste/internal/apperr"
	"smartPaste/internal/models"
)

// imageFilePrefix to prefiks plików obrazów zapisywanych do katalogu
// przejściowego; sprzątanie rozpoznaje po nim nasze pliki.
const imageFilePrefix = "clipboard_image_"

// Reader czyta zawartość schowka systemowego. Obrazy mają pierwszeństwo
// przed tekstem i są materializowane jako pliki PNG w katalogu
// przejściowym.
type Reader struct {
	stagingDir string

	// runScript wykonuje skrypt AppleScript; wydzielone dla testów.
	runScript func(script string) ([]byte, error)
}

// NewReader tworzy czytnik schowka zapisujący obrazy do stagingDir.
func NewReader(stagingDir string) *Reader {
	return &Reader{
		stagingDir: stagingDir,
		runScript:  runOsascript,
	}
}

func runOsascript(script string) ([]byte, error) {
	return exec.Command("osascript", "-e", script).Output()
}

// Read zwraca bieżącą zawartość schowka. Przy obecności zarówno obrazu
// jak i tekstu wygrywa obraz.
func (r *Reader) Read() (models.ClipboardContent, error) {
	if runtime.GOOS == "darwin" && r.hasImage() {
		imagePath, err := r.saveImage()
		if err != nil {
			return models.ClipboardContent{}, err
		}
		return models.ClipboardContent{Kind: models.ClipboardImage, ImagePath: imagePath}, nil
	}

	text, err := clipboard.ReadAll()
	if err != nil {
		return models.ClipboardContent{}, apperr.New(apperr.ClipboardError, "failed to read clipboard text", err)
	}
	if text == "" {
		return models.ClipboardContent{Kind: models.ClipboardEmpty}, nil
	}

	return models.ClipboardContent{Kind: models.ClipboardText, Text: text}, nil
}

// hasImage sprawdza czy schowek zawiera dane obrazkowe (PNG lub TIFF).
func (r *Reader) hasImage() bool {
	output, err := r.runScript(`clipboard info`)
	if err != nil {
		return false
	}
	info := string(output)
	return strings.Contains(info, "«class PNGf»") || strings.Contains(info, "TIFF picture")
}

// saveImage zapisuje obraz ze schowka jako plik PNG. Nazwa pliku zawiera
// znacznik czasu i skrót zawartości, więc kolejne zrzuty tego samego
// obrazu nie kolidują.
func (r *Reader) saveImage() (string, error) {
	if err := os.MkdirAll(r.stagingDir, 0755); err != nil {
		return "", apperr.New(apperr.ClipboardError,
			fmt.Sprintf("failed to create staging directory %s", r.stagingDir), err)
	}

	tmpPath := filepath.Join(r.stagingDir,
		fmt.Sprintf("%s%s.png", imageFilePrefix, time.Now().Format("20060102_150405")))

	script := fmt.Sprintf(`
		set imgData to the clipboard as «class PNGf»
		set f to open for access POSIX file "%s" with write permission
		write imgData to f
		close access f
	`, escapeScriptString(tmpPath))

	if _, err := r.runScript(script); err != nil {
		os.Remove(tmpPath)
		return "", apperr.New(apperr.ClipboardError, "failed to save clipboard image", err)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", apperr.New(apperr.ClipboardError, "failed to read saved image", err)
	}

	hash := fmt.Sprintf("%x", md5.Sum(data))[:8]
	finalPath := filepath.Join(r.stagingDir,
		fmt.Sprintf("%s%s_%s.png", imageFilePrefix, time.Now().Format("20060102_150405"), hash))
	if err := os.Rename(tmpPath, finalPath); err != nil {
		// Zmiana nazwy to kosmetyka; oryginalny plik jest kompletny
		return tmpPath, nil
	}

	return finalPath, nil
}

// IsStagedImage sprawdza czy nazwa pliku wygląda na nasz zrzut obrazu.
func IsStagedImage(name string) bool {
	return strings.HasPrefix(name, imageFilePrefix)
}

// escapeScriptString zabezpiecza wartość wstawianą do literału AppleScript.
func escapeScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
