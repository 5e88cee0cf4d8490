package port

import (
	"github.com/example/monitorctl/pkg/ddc"
)

// MonitorController is the feature-access surface the core depends on. The
// ddc.Controller implements it; tests substitute fakes.
type MonitorController interface {
	DetectMonitors() ([]ddc.Monitor, error)
	GetValue(monitor ddc.Monitor, feature ddc.Feature) (ddc.FeatureValue, error)
	SetValue(monitor ddc.Monitor, feature ddc.Feature, value int) error
	GetBrightness(monitor ddc.Monitor) (ddc.FeatureValue, error)
	SetBrightness(monitor ddc.Monitor, value int) error
	GetContrast(monitor ddc.Monitor) (ddc.FeatureValue, error)
	SetContrast(monitor ddc.Monitor, value int) error
	GetSupportedFeatures(monitor ddc.Monitor) []ddc.Feature
}
