// internal/utils/path.go

package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ToRemotePath konwertuje ścieżkę lokalną na format zdalny (forward slash).
func ToRemotePath(path string) string {
	if runtime.GOOS == "windows" {
		return strings.ReplaceAll(path, "\\", "/")
	}
	return path
}

// RemoteJoin łączy zdalny katalog bazowy z nazwą pliku, zawsze
// z użyciem forward slashy niezależnie od systemu lokalnego.
func RemoteJoin(baseDir, name string) string {
	baseDir = strings.TrimRight(ToRemotePath(baseDir), "/")
	if baseDir == "" {
		baseDir = "/"
		return baseDir + name
	}
	return baseDir + "/" + name
}

// ExpandUser rozwija prefiks "~" do katalogu domowego użytkownika.
func ExpandUser(path string) string {
	if path == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// ShellQuote opakowuje argument w pojedyncze cudzysłowy na potrzeby
// zdalnych poleceń (mkdir -p, test -f). Pojedynczy cudzysłów w ścieżce
// jest zamykany, escapowany i otwierany ponownie.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
