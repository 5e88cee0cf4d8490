package events

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/example/monitorctl/internal/core/domain"
	"github.com/example/monitorctl/pkg/ddc"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE    = "bridge"
	SENSOR_ID_ACTIVE_PROFILE  = "active_profile"
	DEVICE_CLASS_CONNECTIVITY = "connectivity"
	ENTITY_CLASS_DIAGNOSTIC   = "diagnostic"
	SENSOR_TYPE_SENSOR        = "sensor"
	SENSOR_TYPE_BINARY        = "binary_sensor"
	INPUT_NUMBER_MODE_SLIDER  = "slider"
)

// MonitorBrightnessId is the entity id for one monitor's brightness number.
// Ids are keyed by bus, which is stable for a given cable topology.
func MonitorBrightnessId(bus int) string {
	return fmt.Sprintf("monitor_%d_brightness", bus)
}

func MonitorContrastId(bus int) string {
	return fmt.Sprintf("monitor_%d_contrast", bus)
}

func ProfileButtonId(profile string) string {
	return fmt.Sprintf("profile_%s", profile)
}

func BridgeDevice(baseTopic string) domain.Device {
	return domain.Device{
		Id:           fmt.Sprintf("monitorctl_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "monitorctl",
		Model:        "DDC/CI bridge",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Monitorctl %s", md5HashShort(baseTopic)),
	}
}

// MonitorDevice maps a detected monitor to a discovery device. Serial is the
// preferred identity; monitors without one fall back to the bus number.
func MonitorDevice(bridge domain.Device, monitor ddc.Monitor) domain.Device {
	identity := monitor.Serial
	if identity == "" {
		identity = fmt.Sprintf("bus%d", monitor.Bus)
	}
	return domain.Device{
		Id:           fmt.Sprintf("mctl_monitor_%s", md5HashShort(identity)),
		Manufacturer: monitor.Manufacturer,
		Model:        monitor.Model,
		Name:         monitor.Name,
		ViaDevice:    bridge.Id,
	}
}

func IdDevice(device domain.Device) domain.Device {
	return domain.Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

func BridgeSensors(bridgeDevice domain.Device) []domain.GenericSensor {

	var sensors []domain.GenericSensor

	// Bridge connectivity
	sensors = append(sensors, domain.GenericSensor{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_BRIDGE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Connection state",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
	})

	// Last applied profile
	sensors = append(sensors, domain.GenericSensor{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_ACTIVE_PROFILE,
		SensorType:     SENSOR_TYPE_SENSOR,
		Name:           "Active profile",
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		Icon:           "mdi:monitor-star",
		UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_ACTIVE_PROFILE),
	})

	return sensors
}

// MonitorInputNumbers builds the settable brightness and contrast entities
// for one monitor.
func MonitorInputNumbers(monitorDevice domain.Device, monitor ddc.Monitor) []domain.GenericInputNumber {

	var inputNumbers []domain.GenericInputNumber

	// Brightness
	inputNumbers = append(inputNumbers, domain.GenericInputNumber{
		Device:   monitorDevice,
		Id:       MonitorBrightnessId(monitor.Bus),
		Name:     "Brightness",
		UniqueId: uniqueId(monitorDevice.Id, MonitorBrightnessId(monitor.Bus)),
		Icon:     "mdi:brightness-6",
		Max:      100,
		Min:      0,
		Step:     1,
		Mode:     INPUT_NUMBER_MODE_SLIDER,
	})

	// Contrast
	inputNumbers = append(inputNumbers, domain.GenericInputNumber{
		Device:   monitorDevice,
		Id:       MonitorContrastId(monitor.Bus),
		Name:     "Contrast",
		UniqueId: uniqueId(monitorDevice.Id, MonitorContrastId(monitor.Bus)),
		Icon:     "mdi:contrast-circle",
		Max:      100,
		Min:      0,
		Step:     1,
		Mode:     INPUT_NUMBER_MODE_SLIDER,
	})

	return inputNumbers
}

// ProfileButtons builds one press-to-apply button per stored profile, hung
// off the bridge device.
func ProfileButtons(bridgeDevice domain.Device, profiles []domain.Profile) []domain.GenericButton {

	var buttons []domain.GenericButton

	for _, p := range profiles {
		buttons = append(buttons, domain.GenericButton{
			Device:   bridgeDevice,
			Id:       ProfileButtonId(p.Name),
			Name:     fmt.Sprintf("Apply %s", p.Name),
			UniqueId: uniqueId(bridgeDevice.Id, ProfileButtonId(p.Name)),
			Icon:     "mdi:monitor-shimmer",
		})
	}

	return buttons
}

func uniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}

func md5HashShort(text string) string {
	hash := md5Hash(text)
	return hash[0:8]
}
