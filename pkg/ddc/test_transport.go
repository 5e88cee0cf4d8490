package ddc

import (
	"errors"
	"fmt"
	"sync"
)

// TestTransport is a scripted in-memory transport for tests and dry runs.
// Feature values live in a per-bus map and SetVCP mutates them, so a test can
// read back what a sweep wrote.
type TestTransport struct {
	mu sync.Mutex

	DetectOutput string
	Values       map[int]map[Feature]FeatureValue
	CapsOutput   map[int]string

	// FailBuses makes every get/set against these buses fail.
	FailBuses map[int]bool
	// ProbeErr makes Probe fail, simulating a missing adapter binary.
	ProbeErr error

	SetCalls []SetCall
}

type SetCall struct {
	Bus     int
	Feature Feature
	Value   int
}

func NewTestTransport() *TestTransport {
	return &TestTransport{
		Values:     map[int]map[Feature]FeatureValue{},
		CapsOutput: map[int]string{},
		FailBuses:  map[int]bool{},
	}
}

// NewDualMonitorTransport is the common fixture: two monitors on buses 4 and 6
// with brightness and contrast at mid values.
func NewDualMonitorTransport() *TestTransport {
	t := NewTestTransport()
	t.DetectOutput = `Display 1
   I2C bus:  /dev/i2c-4
   Monitor:  LG HDR 4K
   EDID synopsis:
      Mfg id:               LGD
      Model:                LG HDR 4K
      Serial number:        ABC123

Display 2
   I2C bus:  /dev/i2c-6
   Monitor:  DELL U2720Q
   EDID synopsis:
      Mfg id:               DEL
      Model:                U2720Q
      Serial number:        XYZ789
`
	t.Values[4] = map[Feature]FeatureValue{
		FeatureBrightness: {Current: 50, Maximum: 100},
		FeatureContrast:   {Current: 70, Maximum: 100},
	}
	t.Values[6] = map[Feature]FeatureValue{
		FeatureBrightness: {Current: 40, Maximum: 100},
		FeatureContrast:   {Current: 65, Maximum: 100},
	}
	t.CapsOutput[4] = "VCP Features:\n   Feature: 10 (Brightness)\n   Feature: 12 (Contrast)\n"
	t.CapsOutput[6] = "VCP Features:\n   Feature: 10 (Brightness)\n   Feature: 12 (Contrast)\n   Feature: 60 (Input Source)\n"
	return t
}

func (t *TestTransport) Probe() error {
	return t.ProbeErr
}

func (t *TestTransport) Detect() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.DetectOutput == "" {
		return "", &TransportError{Op: "detect", Bus: -1, Err: errors.New("no displays")}
	}
	return t.DetectOutput, nil
}

func (t *TestTransport) GetVCP(bus int, feature Feature) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.FailBuses[bus] {
		return "", &TransportError{Op: "getvcp", Bus: bus, Err: errors.New("injected failure")}
	}
	values, ok := t.Values[bus]
	if !ok {
		return "", &TransportError{Op: "getvcp", Bus: bus, Err: errors.New("no such bus")}
	}
	v, ok := values[feature]
	if !ok {
		return "", &TransportError{Op: "getvcp", Bus: bus, Err: errors.New("unsupported feature")}
	}
	return fmt.Sprintf("VCP code 0x%s (%s): current value = %d, max value = %d",
		feature.Hex(), feature, v.Current, v.Maximum), nil
}

func (t *TestTransport) SetVCP(bus int, feature Feature, value int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.FailBuses[bus] {
		return &TransportError{Op: "setvcp", Bus: bus, Err: errors.New("injected failure")}
	}
	values, ok := t.Values[bus]
	if !ok {
		return &TransportError{Op: "setvcp", Bus: bus, Err: errors.New("no such bus")}
	}
	prev := values[feature]
	maximum := prev.Maximum
	if maximum == 0 {
		maximum = 100
	}
	values[feature] = FeatureValue{Current: value, Maximum: maximum}
	t.SetCalls = append(t.SetCalls, SetCall{Bus: bus, Feature: feature, Value: value})
	return nil
}

func (t *TestTransport) Capabilities(bus int) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out, ok := t.CapsOutput[bus]
	if !ok {
		return "", &TransportError{Op: "capabilities", Bus: bus, Err: errors.New("no such bus")}
	}
	return out, nil
}

// SetCallsFor filters recorded writes by bus.
func (t *TestTransport) SetCallsFor(bus int) []SetCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	var calls []SetCall
	for _, c := range t.SetCalls {
		if c.Bus == bus {
			calls = append(calls, c)
		}
	}
	return calls
}

// ensure interface compliance
var _ Transport = (*TestTransport)(nil)
