// internal/keyboard/interceptor.go

package keyboard

import (
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// EventKind rozróżnia wciśnięcie od zwolnienia klawisza.
type EventKind int

const (
	KeyDown EventKind = iota
	KeyUp
)

// Event to pojedyncze surowe zdarzenie klawiatury.
type Event struct {
	Kind EventKind
	Code uint16
}

// EventSource dostarcza strumień zdarzeń klawiatury z systemu.
type EventSource interface {
	Start() (<-chan Event, error)
	Stop()
}

// Config opisuje zachowanie interceptora.
type Config struct {
	// AllowList to nazwy aplikacji terminalowych, w których wklejanie
	// jest przechwytywane (dopasowanie dokładne lub podciąg).
	AllowList []string

	// Cooldown to minimalny odstęp między zaakceptowanymi wyzwoleniami.
	Cooldown time.Duration

	ModifierCodes []uint16
	TriggerCode   uint16

	// ForegroundApp zwraca nazwę aplikacji pierwszego planu. Błąd
	// kolaboratora (false) oznacza "nie przechwytuj".
	ForegroundApp func() (string, bool)
}

// DefaultModifierCodes zwraca kody modyfikatora wyzwalającego dla
// bieżącego systemu (Cmd na macOS, Ctrl na Linuksie).
func DefaultModifierCodes() []uint16 {
	if runtime.GOOS == "darwin" {
		return []uint16{54, 55} // prawy i lewy Command
	}
	return []uint16{37, 105} // lewy i prawy Control (X11)
}

// DefaultTriggerCode zwraca kod klawisza V dla bieżącego systemu.
func DefaultTriggerCode() uint16 {
	if runtime.GOOS == "darwin" {
		return 9
	}
	return 55
}

// Interceptor konsumuje strumień zdarzeń klawiatury i emituje dokładnie
// jeden sygnał wklejenia na fizyczne wyzwolenie. Obsługa zdarzenia nigdy
// nie blokuje na konsumencie — przekazanie idzie przez buforowany kanał,
// a właściwa praca wklejania dzieje się w osobnej goroutine konsumenta.
type Interceptor struct {
	cfg    Config
	source EventSource
	state  *KeyState

	requests chan struct{}
	enabled  atomic.Bool

	stopOnce sync.Once
	done     chan struct{}
}

// NewInterceptor tworzy interceptor nad podanym źródłem zdarzeń.
func NewInterceptor(source EventSource, cfg Config) *Interceptor {
	if len(cfg.ModifierCodes) == 0 {
		cfg.ModifierCodes = DefaultModifierCodes()
	}
	if cfg.TriggerCode == 0 {
		cfg.TriggerCode = DefaultTriggerCode()
	}
	it := &Interceptor{
		cfg:      cfg,
		source:   source,
		state:    NewKeyState(),
		requests: make(chan struct{}, 4),
		done:     make(chan struct{}),
	}
	it.enabled.Store(true)
	return it
}

// Start uruchamia subskrypcję zdarzeń. Niemożność wystartowania
// subskrypcji to jedyny błąd fatalny dla startu całego procesu.
func (it *Interceptor) Start() error {
	events, err := it.source.Start()
	if err != nil {
		return err
	}

	go it.loop(events)
	return nil
}

// Stop zatrzymuje nasłuch i zamyka kanał sygnałów.
func (it *Interceptor) Stop() {
	it.stopOnce.Do(func() {
		it.source.Stop()
		close(it.done)
	})
}

// Requests zwraca kanał sygnałów wklejenia.
func (it *Interceptor) Requests() <-chan struct{} {
	return it.requests
}

// Enable włącza przechwytywanie.
func (it *Interceptor) Enable() { it.enabled.Store(true) }

// Disable wyłącza przechwytywanie bez zatrzymywania nasłuchu.
func (it *Interceptor) Disable() { it.enabled.Store(false) }

// Enabled sprawdza czy przechwytywanie jest aktywne.
func (it *Interceptor) Enabled() bool { return it.enabled.Load() }

func (it *Interceptor) loop(events <-chan Event) {
	for {
		select {
		case <-it.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			it.handleEvent(ev, time.Now())
		}
	}
}

// handleEvent wykonuje jedno przejście maszyny stanów. Odrzucone
// wyzwolenia (brak modyfikatora, aplikacja spoza listy, okno cooldownu,
// przechwytywanie wyłączone) są konsumowane bez sygnału i bez zmiany
// stanu.
func (it *Interceptor) handleEvent(ev Event, now time.Time) {
	isModifier := it.isModifier(ev.Code)

	switch ev.Kind {
	case KeyUp:
		it.state.KeyUp(ev.Code, isModifier)
		return
	case KeyDown:
		it.state.KeyDown(ev.Code, isModifier)
	}

	if ev.Code != it.cfg.TriggerCode || isModifier {
		return
	}
	if !it.enabled.Load() {
		return
	}

	// Test przynależności aplikacji wykonywany synchronicznie w momencie
	// wyzwolenia; awaria kolaboratora oznacza brak przechwycenia.
	if !it.foregroundAllowed() {
		return
	}

	if !it.state.AttemptTrigger(now, it.cfg.Cooldown) {
		return
	}

	select {
	case it.requests <- struct{}{}:
	default:
		// Konsument nie nadąża — zdarzenie przepada zamiast blokować
		// strumień klawiatury
	}
}

func (it *Interceptor) isModifier(code uint16) bool {
	for _, m := range it.cfg.ModifierCodes {
		if code == m {
			return true
		}
	}
	return false
}

func (it *Interceptor) foregroundAllowed() bool {
	if it.cfg.ForegroundApp == nil {
		return false
	}
	app, ok := it.cfg.ForegroundApp()
	if !ok || app == "" {
		return false
	}
	for _, allowed := range it.cfg.AllowList {
		if app == allowed || strings.Contains(app, allowed) {
			return true
		}
	}
	return false
}
