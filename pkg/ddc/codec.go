package ddc

import (
	"regexp"
	"strconv"
	"strings"
)

// The codec translates between raw adapter text and structured values.
// Vendor output varies, so parsing is deliberately tolerant: unknown lines are
// ignored and missing fields fall back to defaults.

var (
	busPathRe      = regexp.MustCompile(`/dev/i2c-(\d+)`)
	valueWithMaxRe = regexp.MustCompile(`current value = (\d+), max value = (\d+)`)
	valueOnlyRe    = regexp.MustCompile(`current value =\s*(\d+)`)
)

type monitorRecord struct {
	bus          int
	hasBus       bool
	name         string
	manufacturer string
	model        string
	serial       string
}

// parseDetect scans adapter enumeration text line by line. A "Display" header
// starts a new record; recognized prefixes fill the current one; everything
// else is skipped so unseen vendor fields do not break detection.
func parseDetect(text string) []monitorRecord {
	var records []monitorRecord
	var current *monitorRecord

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(line, "Display"):
			if current != nil {
				records = append(records, *current)
			}
			current = &monitorRecord{}
		case current == nil:
			// preamble before the first header
		case strings.HasPrefix(line, "I2C bus:"):
			if m := busPathRe.FindStringSubmatch(line); m != nil {
				current.bus, _ = strconv.Atoi(m[1])
				current.hasBus = true
			}
		case strings.HasPrefix(line, "Monitor:"):
			current.name = afterColon(line)
		case strings.HasPrefix(line, "Mfg id:"):
			current.manufacturer = afterColon(line)
		case strings.HasPrefix(line, "Model:"):
			current.model = afterColon(line)
		case strings.HasPrefix(line, "Serial number:"):
			current.serial = afterColon(line)
		}
	}
	if current != nil {
		records = append(records, *current)
	}
	return records
}

// parseFeatureValue extracts a FeatureValue from getvcp output. Some monitors
// omit the maximum; 100 is assumed in that case.
func parseFeatureValue(text string) (FeatureValue, error) {
	if m := valueWithMaxRe.FindStringSubmatch(text); m != nil {
		current, _ := strconv.Atoi(m[1])
		maximum, _ := strconv.Atoi(m[2])
		return FeatureValue{Current: current, Maximum: maximum}, nil
	}
	if m := valueOnlyRe.FindStringSubmatch(text); m != nil {
		current, _ := strconv.Atoi(m[1])
		return FeatureValue{Current: current, Maximum: 100}, nil
	}
	return FeatureValue{}, &ParseError{What: "feature value", Text: text}
}

// parseCapabilities reports a feature as supported when its hex code appears
// anywhere in the capability text. This is a substring heuristic, not a
// structural parse, and can false-positive on coincidental substrings (a code
// inside a range specifier, for example). Kept as is: tightening it changes
// observable supported-feature results on real monitors.
func parseCapabilities(text string) []Feature {
	lower := strings.ToLower(text)
	var supported []Feature
	for _, f := range KnownFeatures {
		if strings.Contains(lower, f.Hex()) {
			supported = append(supported, f)
		}
	}
	return supported
}

func afterColon(line string) string {
	_, rest, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(rest)
}
