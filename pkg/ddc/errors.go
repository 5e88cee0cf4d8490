package ddc

import (
	"errors"
	"fmt"
)

// ErrTransportUnavailable means the adapter binary or service is missing
// entirely. It is raised once at controller construction, never per call.
var ErrTransportUnavailable = errors.New("ddc transport unavailable")

// TransportError wraps a failed adapter request. Scoped to one bus and one
// operation; callers are expected to continue with the remaining monitors.
type TransportError struct {
	Op  string
	Bus int
	Err error
}

func (e *TransportError) Error() string {
	if e.Bus >= 0 {
		return fmt.Sprintf("ddc %s (bus %d): %v", e.Op, e.Bus, e.Err)
	}
	return fmt.Sprintf("ddc %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError means the adapter returned text the codec cannot interpret.
// Scoped to one response.
type ParseError struct {
	What string
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ddc parse %s: could not parse %q", e.What, e.Text)
}
