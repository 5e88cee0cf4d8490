package domain

import "github.com/example/monitorctl/pkg/ddc"

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_DDC          = "ddc"
	ACTOR_ID_PROFILE      = "profile"
	ACTOR_ID_HOTKEY       = "hotkey"
	ACTOR_ID_SCHEDULE     = "schedule"
	ACTOR_ID_MONITORFLOW  = "monitorflow"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

// DDC actor messages

type DetectMonitorsRequest struct {
	ActorRequestMixIn
}

type DetectMonitorsResponse struct {
	ActorResponseMixIn
	Monitors []ddc.Monitor
}

type GetFeatureRequest struct {
	ActorRequestMixIn
	Bus     int
	Feature ddc.Feature
}

type GetFeatureResponse struct {
	ActorResponseMixIn
	Bus     int
	Feature ddc.Feature
	Value   ddc.FeatureValue
}

type SetFeatureRequest struct {
	ActorRequestMixIn
	Bus     int
	Feature ddc.Feature
	Value   int
}

type SetFeatureResponse struct {
	ActorResponseMixIn
	Bus     int
	Feature ddc.Feature
}

type GetSupportedFeaturesRequest struct {
	ActorRequestMixIn
	Bus int
}

type GetSupportedFeaturesResponse struct {
	ActorResponseMixIn
	Bus      int
	Features []ddc.Feature
}

// ReadMonitorStatesRequest detects monitors and reads brightness/contrast for
// each one in a single pass. Monitors whose reads fail are omitted.
type ReadMonitorStatesRequest struct {
	ActorRequestMixIn
}

type ReadMonitorStatesResponse struct {
	ActorResponseMixIn
	States []MonitorState
}

// AdjustAllBrightnessRequest shifts every detected monitor's brightness by
// DeltaPct, clamped to [0,100]. Failing monitors are skipped.
type AdjustAllBrightnessRequest struct {
	ActorRequestMixIn
	DeltaPct int
}

type AdjustAllBrightnessResponse struct {
	ActorResponseMixIn
	Adjusted int
	Skipped  int
}

// Profile actor messages

type ApplyProfileRequest struct {
	ActorRequestMixIn
	Name string
}

type ApplyProfileResponse struct {
	ActorResponseMixIn
	Name    string
	Applied bool
}

type SnapshotProfileRequest struct {
	ActorRequestMixIn
	Name        string
	Description string
}

type SnapshotProfileResponse struct {
	ActorResponseMixIn
	Name    string
	Created bool
}

type DeleteProfileRequest struct {
	ActorRequestMixIn
	Name string
}

type DeleteProfileResponse struct {
	ActorResponseMixIn
	Name    string
	Deleted bool
}

type ListProfilesRequest struct {
	ActorRequestMixIn
}

type ListProfilesResponse struct {
	ActorResponseMixIn
	Profiles []Profile
}

// Settings messages (handled by the master)

type GetSettingsRequest struct {
	ActorRequestMixIn
}

type GetSettingsResponse struct {
	ActorResponseMixIn
	Settings Settings
}

type UpdateSettingsRequest struct {
	ActorRequestMixIn
	Settings Settings
}

type UpdateSettingsResponse struct {
	ActorResponseMixIn
}

// ReloadBindingsRequest tells the hotkey and schedule actors that settings
// changed and derived state must be rebuilt.
type ReloadBindingsRequest struct {
	ActorRequestMixIn
	Settings Settings
}

// MQTT actor messages

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors      []GenericSensor
	InputNumbers []GenericInputNumber
	Buttons      []GenericButton
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

// Health check

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
