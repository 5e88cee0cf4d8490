// Package ddc talks to external monitors over the DDC/CI control channel
// through an injected transport (the ddcutil binary by default). It owns the
// VCP feature catalog, the parsing of transport output and the monitor
// detection policy.
package ddc

import "fmt"

// Feature is a VCP feature code.
type Feature byte

const (
	FeatureBrightness  Feature = 0x10
	FeatureContrast    Feature = 0x12
	FeatureInputSource Feature = 0x60
	FeaturePowerMode   Feature = 0xD6
)

// KnownFeatures is the catalog of VCP codes this package understands.
// Extend it when new codes are needed; existing codes never change.
var KnownFeatures = []Feature{
	FeatureBrightness,
	FeatureContrast,
	FeatureInputSource,
	FeaturePowerMode,
}

func (f Feature) String() string {
	switch f {
	case FeatureBrightness:
		return "brightness"
	case FeatureContrast:
		return "contrast"
	case FeatureInputSource:
		return "input_source"
	case FeaturePowerMode:
		return "power_mode"
	default:
		return fmt.Sprintf("vcp_%02x", byte(f))
	}
}

// Hex returns the two-digit lowercase hex code used on the adapter command line.
func (f Feature) Hex() string {
	return fmt.Sprintf("%02x", byte(f))
}

// Monitor identifies one physical display for the duration of a detection
// pass. Bus numbers are unique among concurrently detected monitors but are
// not stable across cable or OS reconfiguration.
type Monitor struct {
	Bus          int    `json:"bus"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Serial       string `json:"serial,omitempty"`
}

// FeatureValue is the (current, maximum) pair returned by a feature read.
// When the adapter omits a maximum the codec assumes 100, so percentages
// computed from it may be approximate.
type FeatureValue struct {
	Current int `json:"current"`
	Maximum int `json:"maximum"`
}

// Percent normalizes the current value to 0..100. Returns 0 when the reported
// maximum is unusable.
func (v FeatureValue) Percent() int {
	if v.Maximum <= 0 {
		return 0
	}
	return int(float64(v.Current)/float64(v.Maximum)*100 + 0.5)
}
