package ddc

import (
	"fmt"

	"go.uber.org/zap"
)

// Controller is the stateless entry point for monitor access. Every call goes
// straight to the transport; nothing is cached, so two DetectMonitors calls
// may return different bus assignments if the topology changed in between.
type Controller struct {
	transport Transport
	logger    *zap.Logger
}

// NewController probes the transport once. A missing adapter surfaces here as
// ErrTransportUnavailable instead of failing every later call.
func NewController(transport Transport, logger *zap.Logger) (*Controller, error) {
	if err := transport.Probe(); err != nil {
		return nil, err
	}
	return &Controller{
		transport: transport,
		logger:    logger.With(zap.String("component", "ddc")),
	}, nil
}

// DetectMonitors re-enumerates the bus and returns fresh Monitor values, each
// with a non-empty name.
func (c *Controller) DetectMonitors() ([]Monitor, error) {
	out, err := c.transport.Detect()
	if err != nil {
		return nil, err
	}
	records := parseDetect(out)
	monitors := make([]Monitor, 0, len(records))
	for _, rec := range records {
		monitors = append(monitors, newMonitor(rec))
	}
	c.logger.Debug("detect", zap.Int("monitors", len(monitors)))
	return monitors, nil
}

func (c *Controller) GetValue(monitor Monitor, feature Feature) (FeatureValue, error) {
	out, err := c.transport.GetVCP(monitor.Bus, feature)
	if err != nil {
		return FeatureValue{}, err
	}
	return parseFeatureValue(out)
}

func (c *Controller) SetValue(monitor Monitor, feature Feature, value int) error {
	return c.transport.SetVCP(monitor.Bus, feature, value)
}

func (c *Controller) GetBrightness(monitor Monitor) (FeatureValue, error) {
	return c.GetValue(monitor, FeatureBrightness)
}

func (c *Controller) SetBrightness(monitor Monitor, value int) error {
	return c.SetValue(monitor, FeatureBrightness, value)
}

func (c *Controller) GetContrast(monitor Monitor) (FeatureValue, error) {
	return c.GetValue(monitor, FeatureContrast)
}

func (c *Controller) SetContrast(monitor Monitor, value int) error {
	return c.SetValue(monitor, FeatureContrast, value)
}

// GetSupportedFeatures queries monitor capabilities. On any transport failure
// it degrades to the common feature pair instead of failing the info query.
func (c *Controller) GetSupportedFeatures(monitor Monitor) []Feature {
	out, err := c.transport.Capabilities(monitor.Bus)
	if err != nil {
		c.logger.Debug("capabilities fallback", zap.Int("bus", monitor.Bus), zap.Error(err))
		return []Feature{FeatureBrightness, FeatureContrast}
	}
	return parseCapabilities(out)
}

// newMonitor applies the name fallback policy: monitor report, then
// manufacturer+model, then either alone, then a synthesized bus name.
func newMonitor(rec monitorRecord) Monitor {
	name := rec.name
	if name == "" || name == "Unknown" {
		mfg := usable(rec.manufacturer)
		model := usable(rec.model)
		switch {
		case mfg != "" && model != "":
			name = mfg + " " + model
		case model != "":
			name = model
		case mfg != "":
			name = mfg
		default:
			name = fmt.Sprintf("Monitor on bus %d", rec.bus)
		}
	}
	mfg := rec.manufacturer
	if mfg == "" {
		mfg = "Unknown"
	}
	model := rec.model
	if model == "" {
		model = "Unknown"
	}
	return Monitor{
		Bus:          rec.bus,
		Name:         name,
		Manufacturer: mfg,
		Model:        model,
		Serial:       rec.serial,
	}
}

func usable(s string) string {
	if s == "Unknown" {
		return ""
	}
	return s
}
