package domain

import "encoding/json"

// Settings is the process-wide configuration bag persisted to settings.json.
// Keys written by newer versions survive a load/save cycle through the extra
// map, so older documents are never destroyed by an upgrade or downgrade.
type Settings struct {
	AutoApplyOnStartup bool                `json:"-"`
	DefaultProfile     string              `json:"-"`
	HotkeysEnabled     bool                `json:"-"`
	Hotkeys            map[string][]string `json:"-"`
	// Schedules maps a profile name to a cron expression that applies it.
	Schedules map[string]string `json:"-"`

	extra map[string]json.RawMessage
}

// DefaultSettings matches the document written on first start.
func DefaultSettings() Settings {
	return Settings{
		AutoApplyOnStartup: true,
		DefaultProfile:     "day",
		HotkeysEnabled:     true,
		Hotkeys: map[string][]string{
			ActionDayProfile:     {"ctrl", "alt", "1"},
			ActionNightProfile:   {"ctrl", "alt", "2"},
			ActionGamingProfile:  {"ctrl", "alt", "3"},
			ActionBrightnessUp:   {"ctrl", "alt", "up"},
			ActionBrightnessDown: {"ctrl", "alt", "down"},
		},
		Schedules: map[string]string{},
	}
}

const (
	settingsKeyAutoApply      = "auto_apply_on_startup"
	settingsKeyDefaultProfile = "default_profile"
	settingsKeyHotkeysEnabled = "hotkeys_enabled"
	settingsKeyHotkeys        = "hotkeys"
	settingsKeySchedules      = "schedules"
)

func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = DefaultSettings()
	if v, ok := raw[settingsKeyAutoApply]; ok {
		if json.Unmarshal(v, &s.AutoApplyOnStartup) == nil {
			delete(raw, settingsKeyAutoApply)
		}
	}
	if v, ok := raw[settingsKeyDefaultProfile]; ok {
		if json.Unmarshal(v, &s.DefaultProfile) == nil {
			delete(raw, settingsKeyDefaultProfile)
		}
	}
	if v, ok := raw[settingsKeyHotkeysEnabled]; ok {
		if json.Unmarshal(v, &s.HotkeysEnabled) == nil {
			delete(raw, settingsKeyHotkeysEnabled)
		}
	}
	if v, ok := raw[settingsKeyHotkeys]; ok {
		var hk map[string][]string
		if json.Unmarshal(v, &hk) == nil {
			s.Hotkeys = hk
			delete(raw, settingsKeyHotkeys)
		}
	}
	if v, ok := raw[settingsKeySchedules]; ok {
		var sched map[string]string
		if json.Unmarshal(v, &sched) == nil {
			s.Schedules = sched
			delete(raw, settingsKeySchedules)
		}
	}
	// whatever remains is an unrecognized key; keep it for the next save
	s.extra = raw
	return nil
}

func (s Settings) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(s.extra)+5)
	for k, v := range s.extra {
		out[k] = v
	}
	put := func(key string, value any) error {
		b, err := json.Marshal(value)
		if err != nil {
			return err
		}
		out[key] = b
		return nil
	}
	if err := put(settingsKeyAutoApply, s.AutoApplyOnStartup); err != nil {
		return nil, err
	}
	if err := put(settingsKeyDefaultProfile, s.DefaultProfile); err != nil {
		return nil, err
	}
	if err := put(settingsKeyHotkeysEnabled, s.HotkeysEnabled); err != nil {
		return nil, err
	}
	if err := put(settingsKeyHotkeys, s.Hotkeys); err != nil {
		return nil, err
	}
	if err := put(settingsKeySchedules, s.Schedules); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// ExtraKeys lists preserved unknown keys, mainly for tests and diagnostics.
func (s Settings) ExtraKeys() []string {
	keys := make([]string, 0, len(s.extra))
	for k := range s.extra {
		keys = append(keys, k)
	}
	return keys
}
