package service

import (
	"testing"
	"time"

	"github.com/example/monitorctl/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMatcher(t *testing.T) (*Matcher, *time.Time) {
	t.Helper()
	now := time.Unix(1000, 0)
	m := NewMatcher(zap.NewNop())
	m.now = func() time.Time { return now }
	m.SetBindings(domain.DefaultSettings().Hotkeys)
	return m, &now
}

func TestChordFiresOnLastKey(t *testing.T) {
	m, _ := newTestMatcher(t)

	assert.Empty(t, m.KeyDown(domain.KeyCtrl))
	assert.Empty(t, m.KeyDown(domain.KeyAlt))
	fired := m.KeyDown(domain.Key("1"))
	require.Equal(t, []string{domain.ActionDayProfile}, fired)
}

func TestChordOrderDoesNotMatter(t *testing.T) {
	m, _ := newTestMatcher(t)

	m.KeyDown(domain.Key("2"))
	m.KeyDown(domain.KeyAlt)
	fired := m.KeyDown(domain.KeyCtrl)
	require.Contains(t, fired, domain.ActionNightProfile)
}

func TestIncompleteChordDoesNotFire(t *testing.T) {
	m, _ := newTestMatcher(t)

	assert.Empty(t, m.KeyDown(domain.KeyCtrl))
	assert.Empty(t, m.KeyDown(domain.Key("1")))
}

func TestUnboundKeyIgnored(t *testing.T) {
	m, _ := newTestMatcher(t)

	assert.Empty(t, m.KeyDown(domain.Key("x")))
	m.KeyUp(domain.Key("x"))
}

func TestRepeatSuppressedWithinCooldown(t *testing.T) {
	m, now := newTestMatcher(t)

	m.KeyDown(domain.KeyCtrl)
	m.KeyDown(domain.KeyAlt)
	require.NotEmpty(t, m.KeyDown(domain.KeyUp))

	// OS key repeat while the chord is held
	*now = now.Add(20 * time.Millisecond)
	assert.Empty(t, m.KeyDown(domain.KeyUp))

	*now = now.Add(retriggerCooldown)
	assert.NotEmpty(t, m.KeyDown(domain.KeyUp))
}

func TestReleaseAndPressRetriggers(t *testing.T) {
	m, now := newTestMatcher(t)

	m.KeyDown(domain.KeyCtrl)
	m.KeyDown(domain.KeyAlt)
	require.NotEmpty(t, m.KeyDown(domain.Key("3")))

	m.KeyUp(domain.Key("3"))
	*now = now.Add(retriggerCooldown + time.Millisecond)
	assert.Equal(t, []string{domain.ActionGamingProfile}, m.KeyDown(domain.Key("3")))
}

func TestResetDropsHeldKeys(t *testing.T) {
	m, _ := newTestMatcher(t)

	m.KeyDown(domain.KeyCtrl)
	m.KeyDown(domain.KeyAlt)
	m.Reset()
	assert.Empty(t, m.KeyDown(domain.Key("1")))
}

func TestUnknownTokenDroppedFromChord(t *testing.T) {
	m := NewMatcher(zap.NewNop())
	m.SetBindings(map[string][]string{
		"bad": {"ctrl", "super"},
	})

	// "super" is dropped, the binding survives as plain ctrl
	assert.Equal(t, []string{"bad"}, m.KeyDown(domain.KeyCtrl))
}

func TestBindingWithNoUsableTokensDiscarded(t *testing.T) {
	m := NewMatcher(zap.NewNop())
	m.SetBindings(map[string][]string{
		"ghost": {"super", "hyper"},
	})

	assert.Empty(t, m.KeyDown(domain.KeyCtrl))
	assert.Empty(t, m.KeyDown(domain.Key("g")))
}

func TestTokensAreCaseInsensitive(t *testing.T) {
	m := NewMatcher(zap.NewNop())
	m.SetBindings(map[string][]string{
		"combo": {"Ctrl", "Alt", "A"},
	})

	m.KeyDown(domain.KeyCtrl)
	m.KeyDown(domain.KeyAlt)
	assert.Equal(t, []string{"combo"}, m.KeyDown(domain.Key("a")))
}

func TestHeldChordRefiresOnUnrelatedKeyAfterCooldown(t *testing.T) {
	m, now := newTestMatcher(t)

	m.KeyDown(domain.KeyCtrl)
	m.KeyDown(domain.KeyAlt)
	require.Equal(t, []string{domain.ActionDayProfile}, m.KeyDown(domain.Key("1")))

	// chord still held; an unrelated press within the cooldown stays quiet
	assert.Empty(t, m.KeyDown(domain.Key("x")))

	*now = now.Add(retriggerCooldown + time.Millisecond)
	assert.Equal(t, []string{domain.ActionDayProfile}, m.KeyDown(domain.Key("y")))
}

func TestSetBindingsReplacesPrevious(t *testing.T) {
	m, _ := newTestMatcher(t)
	m.SetBindings(map[string][]string{
		domain.ActionDayProfile: {"shift", "d"},
	})

	m.KeyDown(domain.KeyCtrl)
	m.KeyDown(domain.KeyAlt)
	assert.Empty(t, m.KeyDown(domain.Key("1")))

	m.Reset()
	m.KeyDown(domain.KeyShift)
	assert.Equal(t, []string{domain.ActionDayProfile}, m.KeyDown(domain.Key("d")))
}
