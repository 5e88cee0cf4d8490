package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/monitorctl/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSettingsDefaultsWhenMissing(t *testing.T) {
	store := NewSettingsStore(t.TempDir(), zap.NewNop())
	require.NoError(t, store.Load())

	s := store.Get()
	assert.True(t, s.AutoApplyOnStartup)
	assert.Equal(t, "day", s.DefaultProfile)
	assert.True(t, s.HotkeysEnabled)
	assert.Len(t, s.Hotkeys, 5)
}

func TestSettingsRoundTrip(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	store := NewSettingsStore(dir, zap.NewNop())
	require.NoError(store.Load())

	s := store.Get()
	s.DefaultProfile = "night"
	s.Schedules = map[string]string{"night": "0 0 21 * * *"}
	require.NoError(store.Update(s))

	store2 := NewSettingsStore(dir, zap.NewNop())
	require.NoError(store2.Load())
	assert.Equal(t, "night", store2.Get().DefaultProfile)
	assert.Equal(t, "0 0 21 * * *", store2.Get().Schedules["night"])
}

func TestSettingsPreservesUnknownKeys(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	doc := `{"default_profile":"gaming","future_option":{"nested":true}}`
	require.NoError(os.WriteFile(filepath.Join(dir, "settings.json"), []byte(doc), 0o644))

	store := NewSettingsStore(dir, zap.NewNop())
	require.NoError(store.Load())
	assert.Equal(t, "gaming", store.Get().DefaultProfile)
	assert.Contains(t, store.Get().ExtraKeys(), "future_option")

	require.NoError(store.Update(store.Get()))

	data, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	require.NoError(err)
	assert.Contains(t, string(data), "future_option")
	assert.Contains(t, string(data), "nested")
}

func TestSettingsMalformedDocumentUsesDefaults(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	require.NoError(os.WriteFile(filepath.Join(dir, "settings.json"), []byte("oops"), 0o644))

	store := NewSettingsStore(dir, zap.NewNop())
	require.NoError(store.Load())
	assert.Equal(t, domain.DefaultSettings().DefaultProfile, store.Get().DefaultProfile)
}
