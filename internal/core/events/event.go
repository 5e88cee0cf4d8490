package events

import (
	"github.com/example/monitorctl/internal/core/domain"
)

// MonitorStateToUpdateEvents maps one monitor's live readings to entity
// update events for the MQTT bridge.
func MonitorStateToUpdateEvents(state domain.MonitorState) []any {
	var events []any

	// Brightness
	events = append(events, domain.InputNumberSensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
			Id: MonitorBrightnessId(state.Bus),
		},
		Value:    float64(state.BrightnessPct),
		Decimals: 0,
	})
	// Contrast
	events = append(events, domain.InputNumberSensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
			Id: MonitorContrastId(state.Bus),
		},
		Value:    float64(state.ContrastPct),
		Decimals: 0,
	})

	return events
}

func MonitorStatesToUpdateEvents(states []domain.MonitorState) []any {
	var events []any
	for _, state := range states {
		events = append(events, MonitorStateToUpdateEvents(state)...)
	}
	return events
}

func BridgeStateToUpdateEvent(online bool) domain.BridgeStateUpdateEvent {
	return domain.BridgeStateUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
			Id: SENSOR_ID_BRIDGE_STATE,
		},
		Value: online,
	}
}

func ActiveProfileToUpdateEvent(name string) domain.TextSensorUpdateEvent {
	return domain.TextSensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
			Id: SENSOR_ID_ACTIVE_PROFILE,
		},
		Value: name,
	}
}
