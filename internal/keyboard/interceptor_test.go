// internal/keyboard/interceptor_test.go

package keyboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testModifier = uint16(55)
	testTrigger  = uint16(9)
)

func newTestInterceptor(app string, appOK bool) *Interceptor {
	return NewInterceptor(nil, Config{
		AllowList:     []string{"Terminal", "iTerm2"},
		Cooldown:      500 * time.Millisecond,
		ModifierCodes: []uint16{testModifier},
		TriggerCode:   testTrigger,
		ForegroundApp: func() (string, bool) { return app, appOK },
	})
}

func drainSignals(it *Interceptor) int {
	count := 0
	for {
		select {
		case <-it.Requests():
			count++
		default:
			return count
		}
	}
}

func pressCombo(it *Interceptor, at time.Time) {
	it.handleEvent(Event{Kind: KeyDown, Code: testModifier}, at)
	it.handleEvent(Event{Kind: KeyDown, Code: testTrigger}, at)
	it.handleEvent(Event{Kind: KeyUp, Code: testTrigger}, at)
	it.handleEvent(Event{Kind: KeyUp, Code: testModifier}, at)
}

func TestTriggerEmitsSingleSignal(t *testing.T) {
	it := newTestInterceptor("Terminal", true)

	pressCombo(it, time.Now())
	assert.Equal(t, 1, drainSignals(it))
}

func TestRapidTriggersCollapsedByCooldown(t *testing.T) {
	it := newTestInterceptor("iTerm2", true)

	base := time.Now()
	pressCombo(it, base)
	pressCombo(it, base.Add(100*time.Millisecond))
	pressCombo(it, base.Add(200*time.Millisecond))

	// Trzy fizyczne wciśnięcia w oknie cooldownu to jeden sygnał
	assert.Equal(t, 1, drainSignals(it))
}

func TestTriggerAcceptedAfterCooldown(t *testing.T) {
	it := newTestInterceptor("Terminal", true)

	base := time.Now()
	pressCombo(it, base)
	pressCombo(it, base.Add(600*time.Millisecond))

	assert.Equal(t, 2, drainSignals(it))
}

func TestNoSignalWithoutModifier(t *testing.T) {
	it := newTestInterceptor("Terminal", true)

	now := time.Now()
	it.handleEvent(Event{Kind: KeyDown, Code: testTrigger}, now)
	assert.Equal(t, 0, drainSignals(it))
}

func TestNoSignalAfterModifierReleased(t *testing.T) {
	it := newTestInterceptor("Terminal", true)

	now := time.Now()
	it.handleEvent(Event{Kind: KeyDown, Code: testModifier}, now)
	it.handleEvent(Event{Kind: KeyUp, Code: testModifier}, now)
	it.handleEvent(Event{Kind: KeyDown, Code: testTrigger}, now)

	assert.Equal(t, 0, drainSignals(it))
}

func TestNoSignalForDisallowedApp(t *testing.T) {
	it := newTestInterceptor("Safari", true)

	pressCombo(it, time.Now())
	assert.Equal(t, 0, drainSignals(it))
}

func TestSubstringAppMatch(t *testing.T) {
	// "iTerm2" z listy pasuje do pełnej nazwy procesu
	it := newTestInterceptor("iTerm2 Nightly", true)

	pressCombo(it, time.Now())
	assert.Equal(t, 1, drainSignals(it))
}

func TestForegroundFailureMeansNoIntercept(t *testing.T) {
	it := newTestInterceptor("", false)

	pressCombo(it, time.Now())
	assert.Equal(t, 0, drainSignals(it))
}

func TestDisabledInterceptorIgnoresTriggers(t *testing.T) {
	it := newTestInterceptor("Terminal", true)
	it.Disable()

	pressCombo(it, time.Now())
	require.Equal(t, 0, drainSignals(it))

	it.Enable()
	pressCombo(it, time.Now().Add(time.Second))
	assert.Equal(t, 1, drainSignals(it))
}

func TestAttemptTriggerAtomicUnderCooldown(t *testing.T) {
	state := NewKeyState()
	state.KeyDown(testModifier, true)

	base := time.Now()
	cooldown := 500 * time.Millisecond

	assert.True(t, state.AttemptTrigger(base, cooldown))
	assert.False(t, state.AttemptTrigger(base.Add(10*time.Millisecond), cooldown))
	assert.False(t, state.AttemptTrigger(base.Add(499*time.Millisecond), cooldown))
	assert.True(t, state.AttemptTrigger(base.Add(500*time.Millisecond), cooldown))
}
