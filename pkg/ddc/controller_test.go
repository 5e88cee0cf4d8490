package ddc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testController(t *testing.T, transport Transport) *Controller {
	t.Helper()
	c, err := NewController(transport, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestControllerUnavailableTransport(t *testing.T) {
	tr := NewTestTransport()
	tr.ProbeErr = ErrTransportUnavailable

	_, err := NewController(tr, zap.NewNop())
	require.ErrorIs(t, err, ErrTransportUnavailable)
}

func TestDetectMonitors(t *testing.T) {

	require := require.New(t)

	c := testController(t, NewDualMonitorTransport())

	monitors, err := c.DetectMonitors()
	require.NoError(err)
	require.Len(monitors, 2)

	assert.Equal(t, 4, monitors[0].Bus)
	assert.Equal(t, "LG HDR 4K", monitors[0].Name)
	assert.Equal(t, 6, monitors[1].Bus)
	assert.Equal(t, "DELL U2720Q", monitors[1].Name)
	for _, m := range monitors {
		assert.NotEmpty(t, m.Name)
	}
}

func TestDetectMonitorsNameFallback(t *testing.T) {
	tr := NewTestTransport()
	tr.DetectOutput = `Display 1
   I2C bus:  /dev/i2c-3
   Monitor:  Unknown
   Mfg id:   ACM
   Model:    X34

Display 2
   I2C bus:  /dev/i2c-5
`
	c := testController(t, tr)

	monitors, err := c.DetectMonitors()
	require.NoError(t, err)
	require.Len(t, monitors, 2)

	assert.Equal(t, "ACM X34", monitors[0].Name)
	assert.Equal(t, "Monitor on bus 5", monitors[1].Name)
	assert.Equal(t, "Unknown", monitors[1].Manufacturer)
	assert.Equal(t, "Unknown", monitors[1].Model)
}

func TestGetSetBrightness(t *testing.T) {

	require := require.New(t)

	tr := NewDualMonitorTransport()
	c := testController(t, tr)

	monitor := Monitor{Bus: 4, Name: "LG HDR 4K"}

	v, err := c.GetBrightness(monitor)
	require.NoError(err)
	assert.Equal(t, FeatureValue{Current: 50, Maximum: 100}, v)

	require.NoError(c.SetBrightness(monitor, 80))

	v, err = c.GetBrightness(monitor)
	require.NoError(err)
	assert.Equal(t, 80, v.Current)

	calls := tr.SetCallsFor(4)
	require.Len(calls, 1)
	assert.Equal(t, SetCall{Bus: 4, Feature: FeatureBrightness, Value: 80}, calls[0])
}

func TestGetValueUnknownBus(t *testing.T) {
	c := testController(t, NewDualMonitorTransport())

	_, err := c.GetBrightness(Monitor{Bus: 42})
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 42, terr.Bus)
}

func TestSupportedFeatures(t *testing.T) {
	c := testController(t, NewDualMonitorTransport())

	features := c.GetSupportedFeatures(Monitor{Bus: 6})
	assert.Contains(t, features, FeatureBrightness)
	assert.Contains(t, features, FeatureContrast)
	assert.Contains(t, features, FeatureInputSource)
}

func TestSupportedFeaturesFallback(t *testing.T) {
	// a failing capabilities query degrades to the common pair
	c := testController(t, NewDualMonitorTransport())

	features := c.GetSupportedFeatures(Monitor{Bus: 42})
	assert.Equal(t, []Feature{FeatureBrightness, FeatureContrast}, features)
}
