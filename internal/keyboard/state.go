// internal/keyboard/state.go

package keyboard

import (
	"sync"
	"time"
)

// KeyState to stan nasłuchu klawiatury: zbiór wciśniętych klawiszy, flaga
// modyfikatora i czas ostatniego zaakceptowanego wyzwolenia. Maszyna
// stanów Idle / ModifierHeld / Cooldown jest zakodowana w polach:
// modifierHeld rozróżnia Idle od ModifierHeld, a lastTrigger wyznacza
// okno Cooldown. Decyzja o wyzwoleniu i aktualizacja czasu to jedna
// operacja pod mutexem — sprawdzenie cooldownu jest odczytem-modyfikacją
// i bez synchronizacji szybki podwójny trigger mógłby przejść dwa razy.
type KeyState struct {
	mu           sync.Mutex
	pressed      map[uint16]struct{}
	modifierHeld bool
	lastTrigger  time.Time
}

// NewKeyState tworzy pusty stan klawiatury.
func NewKeyState() *KeyState {
	return &KeyState{
		pressed: make(map[uint16]struct{}),
	}
}

// KeyDown odnotowuje wciśnięcie klawisza.
func (s *KeyState) KeyDown(code uint16, isModifier bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pressed[code] = struct{}{}
	if isModifier {
		s.modifierHeld = true
	}
}

// KeyUp odnotowuje zwolnienie klawisza.
func (s *KeyState) KeyUp(code uint16, isModifier bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pressed, code)
	if isModifier {
		s.modifierHeld = false
	}
}

// ModifierHeld sprawdza czy modyfikator jest aktualnie wciśnięty.
func (s *KeyState) ModifierHeld() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modifierHeld
}

// AttemptTrigger atomowo sprawdza warunki wyzwolenia i — przy akceptacji —
// zapisuje czas. Zwraca true dokładnie raz na okno cooldownu: wyzwolenia
// bez wciśniętego modyfikatora albo wewnątrz okna są odrzucane.
func (s *KeyState) AttemptTrigger(now time.Time, cooldown time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.modifierHeld {
		return false
	}
	if !s.lastTrigger.IsZero() && now.Sub(s.lastTrigger) < cooldown {
		return false
	}

	s.lastTrigger = now
	return true
}
