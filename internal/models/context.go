// internal/models/context.go

package models

import "fmt"

// LocalHostname to stała nazwa hosta używana dla kontekstu lokalnego.
const LocalHostname = "localhost"

// DefaultSSHPort to domyślny port SSH używany gdy kontekst nie określa innego.
const DefaultSSHPort = 22

// ConnectionContext opisuje czy aktywna sesja terminala jest lokalna,
// czy tunelowana przez wychodzące połączenie SSH. Instancja jest tworzona
// raz na cykl wklejania i nigdy nie jest modyfikowana.
type ConnectionContext struct {
	IsRemote  bool
	Username  string
	Hostname  string
	Port      int   // 0 oznacza brak jawnego portu
	SourcePID int32 // PID procesu ssh, z którego wyciągnięto kontekst (0 = nieznany)
}

// LocalContext tworzy kontekst lokalny dla podanego użytkownika.
func LocalContext(username string) ConnectionContext {
	return ConnectionContext{
		IsRemote: false,
		Username: username,
		Hostname: LocalHostname,
	}
}

// EffectivePort zwraca port kontekstu lub domyślny port SSH.
func (c ConnectionContext) EffectivePort() int {
	if c.Port > 0 {
		return c.Port
	}
	return DefaultSSHPort
}

// Addr zwraca adres w formacie host:port do nawiązania połączenia.
func (c ConnectionContext) Addr() string {
	return fmt.Sprintf("%s:%d", c.Hostname, c.EffectivePort())
}

// String zwraca czytelny opis kontekstu.
func (c ConnectionContext) String() string {
	if !c.IsRemote {
		return fmt.Sprintf("local (%s@%s)", c.Username, c.Hostname)
	}
	return fmt.Sprintf("ssh %s@%s:%d", c.Username, c.Hostname, c.EffectivePort())
}
