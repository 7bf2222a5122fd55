// internal/sshconfig/sshconfig.go

package sshconfig

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"smartPaste/internal/utils"
)

// HostAlias to pojedynczy wpis aliasu z konfiguracji klienta OpenSSH.
type HostAlias struct {
	Alias         string
	Hostname      string
	User          string
	Port          int // 0 oznacza brak wpisu Port
	IdentityFiles []string
}

// Resolver trzyma aliasy wczytane raz przy starcie; potem jest tylko
// do odczytu i może być bezpiecznie współdzielony między goroutine'ami.
type Resolver struct {
	entries map[string]*HostAlias
}

// DefaultSources zwraca standardowe źródła konfiguracji SSH w kolejności
// przetwarzania: konfiguracja użytkownika, potem systemowa.
func DefaultSources() []string {
	return []string{
		"~/.ssh/config",
		"/etc/ssh/ssh_config",
	}
}

// NewResolver parsuje podane źródła. Nieczytelne źródło nie jest błędem —
// resolver działa dalej z tym, co udało się wczytać.
func NewResolver(paths ...string) *Resolver {
	r := &Resolver{entries: make(map[string]*HostAlias)}
	for _, p := range paths {
		fileEntries, err := parseFile(utils.ExpandUser(p))
		if err != nil {
			continue
		}
		r.merge(fileEntries)
	}
	return r
}

// Resolve zwraca wpis dla dokładnie podanego aliasu (case-sensitive).
func (r *Resolver) Resolve(alias string) (*HostAlias, bool) {
	e, ok := r.entries[alias]
	return e, ok
}

// Len zwraca liczbę znanych aliasów.
func (r *Resolver) Len() int {
	return len(r.entries)
}

// merge nanosi wpisy z późniejszego źródła na wcześniejsze. Nadpisywane
// są pojedyncze klucze, nie całe bloki.
func (r *Resolver) merge(fileEntries map[string]*HostAlias) {
	for alias, e := range fileEntries {
		prev, ok := r.entries[alias]
		if !ok {
			r.entries[alias] = e
			continue
		}
		if e.Hostname != "" {
			prev.Hostname = e.Hostname
		}
		if e.User != "" {
			prev.User = e.User
		}
		if e.Port > 0 {
			prev.Port = e.Port
		}
		if len(e.IdentityFiles) > 0 {
			prev.IdentityFiles = append([]string(nil), e.IdentityFiles...)
		}
	}
}

// parseFile skanuje jedno źródło z góry na dół. Linia zaczynająca się od
// słowa kluczowego Host (bez rozróżniania wielkości liter) otwiera nowy
// blok nazwany drugim tokenem; każda kolejna niepusta linia przed
// następnym Host to para "klucz wartość". Linie przed pierwszym Host,
// puste i komentarze (#) są pomijane. Zduplikowany blok aliasu w obrębie
// jednego pliku wygrywa jako całość (ostatnia definicja).
func parseFile(path string) (map[string]*HostAlias, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries := make(map[string]*HostAlias)
	var current *HostAlias

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := splitKeyVal(line)
		if !ok {
			continue
		}

		if strings.EqualFold(key, "host") {
			alias := firstToken(value)
			if alias == "" || !isLiteralAlias(alias) {
				// Wzorce z metaznakami nie podlegają dokładnemu wyszukiwaniu
				current = nil
				continue
			}
			current = &HostAlias{Alias: alias}
			entries[alias] = current
			continue
		}

		if current == nil {
			continue
		}

		switch strings.ToLower(key) {
		case "hostname":
			current.Hostname = value
		case "user":
			current.User = value
		case "port":
			if p, err := strconv.Atoi(value); err == nil && p >= 1 && p <= 65535 {
				current.Port = p
			}
		case "identityfile":
			current.IdentityFiles = append(current.IdentityFiles, value)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// splitKeyVal dzieli linię na klucz i wartość po pierwszym ciągu białych znaków.
func splitKeyVal(line string) (key, value string, ok bool) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return "", "", false
	}
	key = line[:i]
	value = strings.TrimSpace(line[i+1:])
	if key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// isLiteralAlias odrzuca wzorce hostów z metaznakami OpenSSH — wymagane
// są wyłącznie dokładne dopasowania aliasów.
func isLiteralAlias(p string) bool {
	if p == "" || strings.HasPrefix(p, "!") {
		return false
	}
	return !strings.ContainsAny(p, "*?[]")
}
