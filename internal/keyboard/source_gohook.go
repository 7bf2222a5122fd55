// internal/keyboard/source_gohook.go

package keyboard

import (
	"errors"
	"sync"

	hook "github.com/robotn/gohook"
)

// HookSource to źródło zdarzeń oparte o globalny hook systemowy.
// Wymaga uprawnień dostępności (macOS) — ich brak objawia się pustym
// strumieniem, co wykrywa polecenie doctor.
type HookSource struct {
	mu      sync.Mutex
	started bool
	out     chan Event
	done    chan struct{}
}

// NewHookSource tworzy nowe źródło zdarzeń.
func NewHookSource() *HookSource {
	return &HookSource{}
}

// Start uruchamia hook i tłumaczy jego zdarzenia na Event. Zdarzenia
// inne niż klawiaturowe (mysz, scroll) są odfiltrowywane.
func (h *HookSource) Start() (<-chan Event, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started {
		return nil, errors.New("hook source already started")
	}
	h.started = true
	h.out = make(chan Event, 64)
	h.done = make(chan struct{})

	raw := hook.Start()

	go func() {
		defer close(h.out)
		for {
			select {
			case <-h.done:
				return
			case ev, ok := <-raw:
				if !ok {
					return
				}
				switch ev.Kind {
				case hook.KeyDown, hook.KeyHold:
					h.emit(Event{Kind: KeyDown, Code: ev.Rawcode})
				case hook.KeyUp:
					h.emit(Event{Kind: KeyUp, Code: ev.Rawcode})
				}
			}
		}
	}()

	return h.out, nil
}

// Stop zatrzymuje hook systemowy.
func (h *HookSource) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.started {
		return
	}
	h.started = false
	close(h.done)
	hook.End()
}

func (h *HookSource) emit(ev Event) {
	select {
	case h.out <- ev:
	default:
		// Przepełniony bufor nie może zatrzymać strumienia klawiatury
	}
}
