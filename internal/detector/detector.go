// internal/detector/detector.go

package detector

import (
	"strings"

	"smartPaste/internal/models"
	"smartPaste/internal/proctree"
	"smartPaste/internal/sshconfig"
)

// Strategy próbuje wyznaczyć kontekst połączenia dla procesu pierwszego
// planu. Zwraca (ctx, true) przy trafieniu; resolver bierze pierwszy
// obecny wynik z uporządkowanej listy strategii.
type Strategy func(pid int32) (models.ConnectionContext, bool)

// Resolver wyznacza ConnectionContext dla aktualnej powłoki pierwszego
// planu: najpierw przejście po przodkach w poszukiwaniu wywołania ssh,
// potem sonda markerów środowiskowych, na końcu kontekst lokalny.
type Resolver struct {
	aliases    *sshconfig.Resolver
	walker     *proctree.Walker
	snap       proctree.Snapshot
	strategies []Strategy
}

// NewResolver tworzy resolver kontekstu.
func NewResolver(aliases *sshconfig.Resolver, snap proctree.Snapshot, maxDepth int) *Resolver {
	r := &Resolver{
		aliases: aliases,
		walker:  proctree.NewWalker(snap, maxDepth),
		snap:    snap,
	}
	r.strategies = []Strategy{
		r.fromAncestry,
		r.fromEnvironMarkers,
	}
	return r
}

// Current zwraca kontekst dla powłoki o podanym PID. Brak PID oznacza
// kontekst lokalny. Wynik jest tworzony raz na cykl i nie jest mutowany.
func (r *Resolver) Current(pid int32) models.ConnectionContext {
	if pid <= 0 {
		return models.LocalContext(CurrentUsername())
	}

	for _, strategy := range r.strategies {
		if ctx, ok := strategy(pid); ok {
			return ctx
		}
	}

	return models.LocalContext(CurrentUsername())
}

// fromAncestry przechodzi łańcuch przodków (najbliższy najpierw) i bierze
// pierwsze rozpoznane wywołanie ssh.
func (r *Resolver) fromAncestry(pid int32) (models.ConnectionContext, bool) {
	for _, proc := range r.walker.Ancestors(pid) {
		desc, ok := ParseInvocation(proc.Argv, r.aliases)
		if !ok {
			continue
		}
		return models.ConnectionContext{
			IsRemote:  true,
			Username:  desc.Username,
			Hostname:  desc.Hostname,
			Port:      desc.Port,
			SourcePID: proc.PID,
		}, true
	}
	return models.ConnectionContext{}, false
}

// fromEnvironMarkers sprawdza markery sesji SSH w środowisku procesu.
// SSH_CLIENT/SSH_CONNECTION bez wychodzącego procesu ssh oznacza, że to
// my jesteśmy zdalnym końcem cudzego połączenia — wysyłka w drugą stronę
// nie ma sensu, więc taki przypadek traktujemy jako kontekst lokalny.
func (r *Resolver) fromEnvironMarkers(pid int32) (models.ConnectionContext, bool) {
	env, err := r.snap.Environ(pid)
	if err != nil {
		return models.ConnectionContext{}, false
	}

	for _, kv := range env {
		if strings.HasPrefix(kv, "SSH_CLIENT=") || strings.HasPrefix(kv, "SSH_CONNECTION=") {
			return models.LocalContext(CurrentUsername()), true
		}
	}

	return models.ConnectionContext{}, false
}
