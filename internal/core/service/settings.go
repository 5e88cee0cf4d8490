package service

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/example/monitorctl/internal/core/domain"

	"go.uber.org/zap"
)

const settingsFileName = "settings.json"

// SettingsStore persists the service settings document. Unknown keys written
// by other tools round-trip untouched (domain.Settings keeps them aside).
type SettingsStore struct {
	dir      string
	settings domain.Settings
	logger   *zap.Logger
}

func NewSettingsStore(dir string, logger *zap.Logger) *SettingsStore {
	return &SettingsStore{
		dir:      dir,
		settings: domain.DefaultSettings(),
		logger:   logger.With(zap.String("component", "settings")),
	}
}

// Load reads the persisted document, falling back to defaults when the file
// is missing or malformed.
func (s *SettingsStore) Load() error {
	data, err := os.ReadFile(s.settingsPath())
	if os.IsNotExist(err) {
		s.settings = domain.DefaultSettings()
		return nil
	}
	if err != nil {
		return err
	}
	var decoded domain.Settings
	if err := json.Unmarshal(data, &decoded); err != nil {
		s.logger.Warn("settings document malformed, using defaults", zap.Error(err))
		s.settings = domain.DefaultSettings()
		return nil
	}
	s.settings = decoded
	return nil
}

func (s *SettingsStore) Get() domain.Settings {
	return s.settings
}

// Update replaces the whole document and persists it.
func (s *SettingsStore) Update(settings domain.Settings) error {
	s.settings = settings
	return s.save()
}

func (s *SettingsStore) save() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.settingsPath(), data, 0o644)
}

func (s *SettingsStore) settingsPath() string {
	return filepath.Join(s.dir, settingsFileName)
}
