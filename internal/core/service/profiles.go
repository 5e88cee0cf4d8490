package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/example/monitorctl/internal/core/domain"
	"github.com/example/monitorctl/internal/core/port"
	"github.com/example/monitorctl/pkg/ddc"

	"go.uber.org/zap"
)

const profilesFileName = "profiles.json"

// ProfileManager owns the named profile collection and reconciles it against
// whatever monitors are physically present. All methods are called from a
// single owner (the profile actor), so no internal locking.
type ProfileManager struct {
	dir        string
	controller port.MonitorController
	profiles   map[string]domain.Profile
	logger     *zap.Logger
}

func NewProfileManager(dir string, controller port.MonitorController, logger *zap.Logger) *ProfileManager {
	return &ProfileManager{
		dir:        dir,
		controller: controller,
		profiles:   map[string]domain.Profile{},
		logger:     logger.With(zap.String("component", "profiles")),
	}
}

// Load reads the persisted document. A malformed document is not an error:
// availability wins and the built-in defaults are bootstrapped instead.
func (m *ProfileManager) Load() error {
	path := m.profilesPath()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		m.BootstrapDefaults()
		return nil
	}
	if err != nil {
		return err
	}
	var decoded map[string]domain.Profile
	if err := json.Unmarshal(data, &decoded); err != nil {
		m.logger.Warn("profiles document malformed, bootstrapping defaults", zap.Error(err))
		m.BootstrapDefaults()
		return nil
	}
	m.profiles = decoded
	return nil
}

func (m *ProfileManager) save() error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m.profiles, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.profilesPath(), data, 0o644)
}

// BootstrapDefaults detects the current monitors and synthesizes the three
// built-in profiles for them. When detection fails the store stays empty.
func (m *ProfileManager) BootstrapDefaults() {
	monitors, err := m.controller.DetectMonitors()
	if err != nil {
		m.logger.Warn("bootstrap: monitor detection failed, starting empty", zap.Error(err))
		m.profiles = map[string]domain.Profile{}
		return
	}

	defaults := []struct {
		name        string
		description string
		brightness  int
		contrast    int
	}{
		{"day", "Bright settings for daytime use", 80, 75},
		{"night", "Dim settings for nighttime use", 20, 60},
		{"gaming", "Maximum brightness and contrast for gaming", 100, 90},
	}

	m.profiles = map[string]domain.Profile{}
	for _, d := range defaults {
		settings := make([]domain.MonitorSettings, 0, len(monitors))
		for _, mon := range monitors {
			settings = append(settings, domain.MonitorSettings{
				Bus:        mon.Bus,
				Brightness: d.brightness,
				Contrast:   d.contrast,
				Name:       mon.Name,
			})
		}
		m.profiles[d.name] = domain.Profile{
			Name:        d.name,
			Description: d.description,
			Monitors:    settings,
		}
	}
	if err := m.save(); err != nil {
		m.logger.Error("bootstrap: persist failed", zap.Error(err))
	}
}

// Snapshot captures the live brightness/contrast of every readable monitor
// under name, overwriting an existing profile. Returns false without touching
// the store when detection fails or no monitor yields a usable reading.
func (m *ProfileManager) Snapshot(name, description string) bool {
	monitors, err := m.controller.DetectMonitors()
	if err != nil {
		m.logger.Warn("snapshot: detection failed", zap.Error(err))
		return false
	}

	var captured []domain.MonitorSettings
	for _, mon := range monitors {
		brightness, err := m.controller.GetBrightness(mon)
		if err != nil {
			continue
		}
		contrast, err := m.controller.GetContrast(mon)
		if err != nil {
			continue
		}
		captured = append(captured, domain.MonitorSettings{
			Bus:        mon.Bus,
			Brightness: snapshotPercent(brightness),
			Contrast:   snapshotPercent(contrast),
			Name:       mon.Name,
		})
	}
	if len(captured) == 0 {
		return false
	}

	m.profiles[name] = domain.Profile{
		Name:        name,
		Description: description,
		Monitors:    captured,
	}
	if err := m.save(); err != nil {
		m.logger.Error("snapshot: persist failed", zap.Error(err))
	}
	return true
}

// Apply reconciles the named profile against the currently detected monitors.
// Best-effort and partial: entries whose bus is gone are skipped silently, a
// failing set is recorded and the sweep continues, and the returned flag only
// says whether everything attempted succeeded.
func (m *ProfileManager) Apply(name string) bool {
	profile, ok := m.profiles[name]
	if !ok {
		return false
	}

	monitors, err := m.controller.DetectMonitors()
	if err != nil {
		m.logger.Warn("apply: detection failed", zap.String("profile", name), zap.Error(err))
		return false
	}
	monitorMap := make(map[int]int, len(monitors))
	for i, mon := range monitors {
		monitorMap[mon.Bus] = i
	}

	success := true
	for _, ms := range profile.Monitors {
		idx, present := monitorMap[ms.Bus]
		if !present {
			// monitor presumed disconnected
			continue
		}
		mon := monitors[idx]
		if err := m.controller.SetBrightness(mon, ms.Brightness); err != nil {
			m.logger.Warn("apply: brightness set failed", zap.Int("bus", ms.Bus), zap.Error(err))
			success = false
			continue
		}
		if err := m.controller.SetContrast(mon, ms.Contrast); err != nil {
			m.logger.Warn("apply: contrast set failed", zap.Int("bus", ms.Bus), zap.Error(err))
			success = false
		}
	}
	return success
}

// Delete removes and persists. False when the profile does not exist.
func (m *ProfileManager) Delete(name string) bool {
	if _, ok := m.profiles[name]; !ok {
		return false
	}
	delete(m.profiles, name)
	if err := m.save(); err != nil {
		m.logger.Error("delete: persist failed", zap.Error(err))
	}
	return true
}

func (m *ProfileManager) Get(name string) (domain.Profile, bool) {
	p, ok := m.profiles[name]
	return p, ok
}

// List returns profiles sorted by name for stable presentation.
func (m *ProfileManager) List() []domain.Profile {
	names := make([]string, 0, len(m.profiles))
	for name := range m.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]domain.Profile, 0, len(names))
	for _, name := range names {
		out = append(out, m.profiles[name])
	}
	return out
}

func (m *ProfileManager) profilesPath() string {
	return filepath.Join(m.dir, profilesFileName)
}

// snapshotPercent converts a raw reading to a percentage. Some monitors
// report a zero maximum for readable features; 50 is a safe midpoint there.
func snapshotPercent(v ddc.FeatureValue) int {
	if v.Maximum <= 0 {
		return 50
	}
	return v.Percent()
}
