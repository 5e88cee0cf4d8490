package ddc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detectTwoDisplays = `
Display 1
   I2C bus:  /dev/i2c-4
   Monitor:  LG HDR 4K
   EDID synopsis:
      Mfg id:               LGD
      Model:                LG HDR 4K
      Product code:         1234
      Serial number:        ABC123

Display 2
   I2C bus:  /dev/i2c-6
   Monitor:  DELL U2720Q
   EDID synopsis:
      Mfg id:               DEL
      Model:                U2720Q
      Product code:         5678
      Serial number:        XYZ789
`

func TestParseDetectTwoDisplays(t *testing.T) {

	require := require.New(t)

	records := parseDetect(detectTwoDisplays)
	require.Len(records, 2)

	assert.Equal(t, 4, records[0].bus)
	assert.Equal(t, "LG HDR 4K", records[0].name)
	assert.Equal(t, "LGD", records[0].manufacturer)
	assert.Equal(t, "ABC123", records[0].serial)

	assert.Equal(t, 6, records[1].bus)
	assert.Equal(t, "DELL U2720Q", records[1].name)
	assert.Equal(t, "DEL", records[1].manufacturer)
	assert.Equal(t, "XYZ789", records[1].serial)
}

func TestParseDetectEmpty(t *testing.T) {
	assert.Empty(t, parseDetect("No displays detected"))
	assert.Empty(t, parseDetect(""))
}

func TestParseDetectIgnoresUnknownLines(t *testing.T) {
	out := `Display 1
   I2C bus:  /dev/i2c-9
   Some vendor field:  whatever
   Monitor:  Foo
`
	records := parseDetect(out)
	require.Len(t, records, 1)
	assert.Equal(t, 9, records[0].bus)
	assert.Equal(t, "Foo", records[0].name)
}

func TestParseFeatureValueWithMax(t *testing.T) {
	v, err := parseFeatureValue("VCP code 0x10 (Brightness): current value = 50, max value = 100")
	require.NoError(t, err)
	assert.Equal(t, FeatureValue{Current: 50, Maximum: 100}, v)
}

func TestParseFeatureValueCurrentOnly(t *testing.T) {
	// some monitors omit the max value; 100 is assumed
	v, err := parseFeatureValue("VCP code 0x10 (Brightness): current value =    75")
	require.NoError(t, err)
	assert.Equal(t, FeatureValue{Current: 75, Maximum: 100}, v)
}

func TestParseFeatureValueGarbage(t *testing.T) {
	_, err := parseFeatureValue("Invalid response from monitor")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParseCapabilities(t *testing.T) {
	out := "VCP Features:\n   Feature: 10 (Brightness)\n   Feature: 12 (Contrast)\n"
	features := parseCapabilities(out)
	assert.Contains(t, features, FeatureBrightness)
	assert.Contains(t, features, FeatureContrast)
	assert.NotContains(t, features, FeaturePowerMode)
}

func TestParseCapabilitiesCaseInsensitive(t *testing.T) {
	features := parseCapabilities("Feature: D6 (Power mode)")
	assert.Contains(t, features, FeaturePowerMode)
}

func TestFeatureHex(t *testing.T) {
	assert.Equal(t, "10", FeatureBrightness.Hex())
	assert.Equal(t, "12", FeatureContrast.Hex())
	assert.Equal(t, "60", FeatureInputSource.Hex())
	assert.Equal(t, "d6", FeaturePowerMode.Hex())
}

func TestFeatureValuePercent(t *testing.T) {
	assert.Equal(t, 50, FeatureValue{Current: 50, Maximum: 100}.Percent())
	assert.Equal(t, 33, FeatureValue{Current: 1, Maximum: 3}.Percent())
	assert.Equal(t, 0, FeatureValue{Current: 10, Maximum: 0}.Percent())
}
