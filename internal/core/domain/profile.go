package domain

// MonitorSettings is a stored snapshot of one monitor's targets, always in
// normalized percentages regardless of the raw maximum the hardware reported
// at capture time.
type MonitorSettings struct {
	Bus        int    `json:"bus"`
	Brightness int    `json:"brightness"`
	Contrast   int    `json:"contrast"`
	Name       string `json:"name"`
}

// Profile is a named bundle of per-monitor settings. Its monitor list may
// reference buses that are no longer present; reconciliation skips those.
type Profile struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Monitors    []MonitorSettings `json:"monitors"`
}

// Hotkey action names. These are the persisted identifiers in the settings
// document, so they never change.
const (
	ActionDayProfile     = "day_profile"
	ActionNightProfile   = "night_profile"
	ActionGamingProfile  = "gaming_profile"
	ActionBrightnessUp   = "brightness_up"
	ActionBrightnessDown = "brightness_down"
)

// Key is a normalized key token: "ctrl", "alt", "shift", "up", "down" or a
// single lowercase printable character.
type Key string

const (
	KeyCtrl  Key = "ctrl"
	KeyAlt   Key = "alt"
	KeyShift Key = "shift"
	KeyUp    Key = "up"
	KeyDown  Key = "down"
)

// KeyEvent is one press or release delivered by a key source.
type KeyEvent struct {
	Key   Key
	Press bool
}

// MonitorState is one monitor's live readings, used by the poller and the
// MQTT bridge.
type MonitorState struct {
	Bus           int    `json:"bus"`
	Name          string `json:"name"`
	BrightnessPct int    `json:"brightness"`
	ContrastPct   int    `json:"contrast"`
}
