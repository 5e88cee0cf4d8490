package port

import (
	"github.com/example/monitorctl/internal/core/domain"
)

// KeySource delivers a live stream of key press/release events. Push is called
// from the source's own goroutine; consumers must hand the event off to their
// own single-consumer queue instead of doing work inline.
type KeySource interface {
	Start(push func(domain.KeyEvent)) error
	Stop()
}
