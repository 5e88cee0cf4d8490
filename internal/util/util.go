package util

import (
	"github.com/example/monitorctl/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel:  zap.DebugLevel,
		ConfigDir: "/tmp/monitorctl-test",
		DDC: config.DDCConfig{
			Command:              "ddcutil",
			RequestTimeoutMillis: 2000,
		},
		MQTT: config.MQTTConfig{
			Host:      "localhost",
			Port:      1883,
			BaseTopic: "monitorctl",
		},
		Monitor: config.MonitorConfig{
			PollIntervalMillis: 5000,
		},
		Port: 8080,
	}
}
