package config

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	LogLevel zapcore.Level
	// ConfigDir holds the persisted profiles and settings documents.
	ConfigDir string `mapstructure:"config_dir"`

	DDC     DDCConfig     `mapstructure:"ddc"`
	MQTT    MQTTConfig    `mapstructure:"mqtt"`
	Hotkeys HotkeyConfig  `mapstructure:"hotkeys"`
	Monitor MonitorConfig `mapstructure:"monitor"`

	Port    uint `mapstructure:"port"`
	HttpLog bool `mapstructure:"http_log"`
}

type DDCConfig struct {
	// Command is the external DDC/CI adapter binary.
	Command              string `mapstructure:"command"`
	RequestTimeoutMillis uint32 `mapstructure:"request_timeout_millis"`
}

type MonitorConfig struct {
	PollIntervalMillis uint32 `mapstructure:"poll_interval_millis"`
}

type HotkeyConfig struct {
	// InputDevice is the evdev device the key listener reads, e.g.
	// /dev/input/event3. Empty disables the listener regardless of settings.
	InputDevice string `mapstructure:"input_device"`
}

type MQTTConfig struct {
	Enable            bool
	Host              string
	Port              int
	Username          string
	Password          string
	BaseTopic         string `mapstructure:"base_topic"`
	HADiscoveryEnable bool   `mapstructure:"ha_discovery_enable"`
	HADiscoveryTopic  string `mapstructure:"ha_discovery_topic"`
}

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	matches := baseTopicRegexp.FindAllStringSubmatch(lowerBaseTopic, 1)
	if len(matches) <= 0 {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}

// DefaultConfigDir resolves the per-user config root.
func DefaultConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "monitorctl")
}
