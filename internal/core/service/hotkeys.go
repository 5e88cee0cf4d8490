package service

import (
	"strings"
	"time"

	"github.com/example/monitorctl/internal/core/domain"

	"go.uber.org/zap"
)

// retriggerCooldown suppresses the key-repeat storm while a chord is held.
const retriggerCooldown = 100 * time.Millisecond

type binding struct {
	action    string
	chord     map[domain.Key]struct{}
	lastFired time.Time
}

// Matcher tracks the set of currently held keys and resolves complete chords
// to action names. It is pure state machine territory: the hotkey actor owns
// one and feeds it key events from its mailbox, so no locking here.
type Matcher struct {
	bindings []binding
	pressed  map[domain.Key]struct{}
	now      func() time.Time
	logger   *zap.Logger
}

func NewMatcher(logger *zap.Logger) *Matcher {
	return &Matcher{
		pressed: map[domain.Key]struct{}{},
		now:     time.Now,
		logger:  logger.With(zap.String("component", "hotkeys")),
	}
}

// SetBindings replaces the active bindings. Unrecognized tokens are dropped
// from a binding's chord with a warning; a binding is only discarded when no
// usable token remains.
func (m *Matcher) SetBindings(spec map[string][]string) {
	m.bindings = m.bindings[:0]
	for action, tokens := range spec {
		chord, dropped := parseChord(tokens)
		if len(dropped) > 0 {
			m.logger.Warn("dropping unknown key tokens",
				zap.String("action", action), zap.Strings("tokens", dropped))
		}
		if len(chord) == 0 {
			continue
		}
		m.bindings = append(m.bindings, binding{action: action, chord: chord})
	}
}

// KeyDown records a press and returns the actions of every binding whose
// chord is a subset of the held keys. A binding will not fire again until its
// cooldown elapses, so OS key repeat while the chord is held does not
// retrigger it.
func (m *Matcher) KeyDown(key domain.Key) []string {
	m.pressed[key] = struct{}{}
	now := m.now()

	var fired []string
	for i := range m.bindings {
		b := &m.bindings[i]
		if !m.chordHeld(b.chord) {
			continue
		}
		if now.Sub(b.lastFired) < retriggerCooldown {
			continue
		}
		b.lastFired = now
		fired = append(fired, b.action)
	}
	return fired
}

// KeyUp records a release. Unknown keys are ignored.
func (m *Matcher) KeyUp(key domain.Key) {
	delete(m.pressed, key)
}

// Reset drops all held-key state, e.g. after the input device reconnects.
func (m *Matcher) Reset() {
	m.pressed = map[domain.Key]struct{}{}
}

func (m *Matcher) chordHeld(chord map[domain.Key]struct{}) bool {
	for k := range chord {
		if _, ok := m.pressed[k]; !ok {
			return false
		}
	}
	return true
}

// parseChord maps binding tokens to keys, case-insensitively. Modifier names
// and the arrow keys have symbolic tokens; anything else must be a single
// character. Unrecognized tokens are returned, not fatal.
func parseChord(tokens []string) (map[domain.Key]struct{}, []string) {
	chord := make(map[domain.Key]struct{}, len(tokens))
	var dropped []string
	for _, token := range tokens {
		switch lower := strings.ToLower(token); lower {
		case "ctrl":
			chord[domain.KeyCtrl] = struct{}{}
		case "alt":
			chord[domain.KeyAlt] = struct{}{}
		case "shift":
			chord[domain.KeyShift] = struct{}{}
		case "up":
			chord[domain.KeyUp] = struct{}{}
		case "down":
			chord[domain.KeyDown] = struct{}{}
		default:
			if len(lower) != 1 {
				dropped = append(dropped, token)
				continue
			}
			chord[domain.Key(lower)] = struct{}{}
		}
	}
	return chord, dropped
}
