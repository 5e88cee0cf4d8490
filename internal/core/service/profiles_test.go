package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/monitorctl/internal/core/domain"
	"github.com/example/monitorctl/pkg/ddc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T, transport *ddc.TestTransport) *ProfileManager {
	t.Helper()
	controller, err := ddc.NewController(transport, zap.NewNop())
	require.NoError(t, err)
	return NewProfileManager(t.TempDir(), controller, zap.NewNop())
}

func TestBootstrapDefaults(t *testing.T) {
	require := require.New(t)

	transport := ddc.NewDualMonitorTransport()
	mgr := newTestManager(t, transport)

	require.NoError(mgr.Load())

	profiles := mgr.List()
	require.Len(profiles, 3)

	for _, name := range []string{"day", "night", "gaming"} {
		p, ok := mgr.Get(name)
		require.True(ok, "missing builtin profile %s", name)
		require.Len(p.Monitors, 2)
		assert.Equal(t, 4, p.Monitors[0].Bus)
		assert.Equal(t, 6, p.Monitors[1].Bus)
	}

	day, _ := mgr.Get("day")
	assert.Equal(t, 80, day.Monitors[0].Brightness)
	assert.Equal(t, 75, day.Monitors[0].Contrast)

	night, _ := mgr.Get("night")
	assert.Equal(t, 20, night.Monitors[0].Brightness)
	assert.Equal(t, 60, night.Monitors[0].Contrast)

	gaming, _ := mgr.Get("gaming")
	assert.Equal(t, 100, gaming.Monitors[0].Brightness)
	assert.Equal(t, 90, gaming.Monitors[0].Contrast)
}

func TestLoadRoundTrip(t *testing.T) {
	require := require.New(t)

	transport := ddc.NewDualMonitorTransport()
	controller, err := ddc.NewController(transport, zap.NewNop())
	require.NoError(err)

	dir := t.TempDir()
	mgr := NewProfileManager(dir, controller, zap.NewNop())
	require.NoError(mgr.Load())
	require.True(mgr.Snapshot("movie", "dim for movies"))

	// a fresh manager over the same directory sees the persisted state
	mgr2 := NewProfileManager(dir, controller, zap.NewNop())
	require.NoError(mgr2.Load())

	p, ok := mgr2.Get("movie")
	require.True(ok)
	assert.Equal(t, "dim for movies", p.Description)
	require.Len(p.Monitors, 2)
	assert.Equal(t, 50, p.Monitors[0].Brightness)
	assert.Equal(t, 70, p.Monitors[0].Contrast)
}

func TestLoadMalformedDocumentBootstraps(t *testing.T) {
	require := require.New(t)

	transport := ddc.NewDualMonitorTransport()
	controller, err := ddc.NewController(transport, zap.NewNop())
	require.NoError(err)

	dir := t.TempDir()
	require.NoError(os.WriteFile(filepath.Join(dir, "profiles.json"), []byte("{not json"), 0o644))

	mgr := NewProfileManager(dir, controller, zap.NewNop())
	require.NoError(mgr.Load())
	require.Len(mgr.List(), 3)
}

func TestSnapshotSkipsUnreadableMonitors(t *testing.T) {
	require := require.New(t)

	transport := ddc.NewDualMonitorTransport()
	transport.FailBuses[6] = true
	mgr := newTestManager(t, transport)
	require.NoError(mgr.Load())

	require.True(mgr.Snapshot("partial", ""))

	p, ok := mgr.Get("partial")
	require.True(ok)
	require.Len(p.Monitors, 1)
	assert.Equal(t, 4, p.Monitors[0].Bus)
}

func TestSnapshotFailsWhenNothingReadable(t *testing.T) {
	require := require.New(t)

	transport := ddc.NewDualMonitorTransport()
	transport.FailBuses[4] = true
	transport.FailBuses[6] = true
	mgr := newTestManager(t, transport)
	require.NoError(mgr.Load())

	require.False(mgr.Snapshot("nothing", ""))
	_, ok := mgr.Get("nothing")
	require.False(ok)
}

func TestSnapshotZeroMaximumFallsBackToMidpoint(t *testing.T) {
	require := require.New(t)

	transport := ddc.NewDualMonitorTransport()
	transport.Values[4][ddc.FeatureBrightness] = ddc.FeatureValue{Current: 30, Maximum: 0}
	mgr := newTestManager(t, transport)
	require.NoError(mgr.Load())

	require.True(mgr.Snapshot("odd", ""))
	p, _ := mgr.Get("odd")
	assert.Equal(t, 50, p.Monitors[0].Brightness)
}

func TestApplySkipsAbsentBuses(t *testing.T) {
	require := require.New(t)

	transport := ddc.NewDualMonitorTransport()
	mgr := newTestManager(t, transport)
	require.NoError(mgr.Load())

	// monitor on bus 6 disappears after bootstrap
	transport.DetectOutput = `Display 1
   I2C bus:  /dev/i2c-4
   Monitor:  LG HDR 4K
   EDID synopsis:
      Mfg id:               LGD
      Model:                LG HDR 4K
      Serial number:        ABC123
`

	require.True(mgr.Apply("night"))

	assert.Len(t, transport.SetCallsFor(4), 2)
	assert.Empty(t, transport.SetCallsFor(6))

	v := transport.Values[4][ddc.FeatureBrightness]
	assert.Equal(t, 20, v.Current)
}

func TestApplyPartialFailureReportsFalse(t *testing.T) {
	require := require.New(t)

	transport := ddc.NewDualMonitorTransport()
	mgr := newTestManager(t, transport)
	require.NoError(mgr.Load())

	transport.FailBuses[6] = true

	require.False(mgr.Apply("day"))

	// the healthy monitor was still written
	assert.Len(t, transport.SetCallsFor(4), 2)
}

func TestApplyUnknownProfile(t *testing.T) {
	transport := ddc.NewDualMonitorTransport()
	mgr := newTestManager(t, transport)
	require.NoError(t, mgr.Load())

	assert.False(t, mgr.Apply("does-not-exist"))
	assert.Empty(t, transport.SetCalls)
}

func TestDelete(t *testing.T) {
	require := require.New(t)

	transport := ddc.NewDualMonitorTransport()
	mgr := newTestManager(t, transport)
	require.NoError(mgr.Load())

	require.True(mgr.Delete("gaming"))
	require.False(mgr.Delete("gaming"))
	require.Len(mgr.List(), 2)
}

func TestProfilesDocumentShape(t *testing.T) {
	require := require.New(t)

	transport := ddc.NewDualMonitorTransport()
	controller, err := ddc.NewController(transport, zap.NewNop())
	require.NoError(err)

	dir := t.TempDir()
	mgr := NewProfileManager(dir, controller, zap.NewNop())
	require.NoError(mgr.Load())

	data, err := os.ReadFile(filepath.Join(dir, "profiles.json"))
	require.NoError(err)

	var doc map[string]domain.Profile
	require.NoError(json.Unmarshal(data, &doc))
	require.Contains(doc, "day")
	require.Contains(doc, "night")
	require.Contains(doc, "gaming")
}
