package keyboard

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/example/monitorctl/internal/core/domain"

	"go.uber.org/zap"
)

const (
	evKey = 1

	keyRelease = 0
	keyPress   = 1
	keyRepeat  = 2

	// struct input_event on 64-bit: two 8-byte timestamp words, then
	// type, code and value.
	eventSize = 24
)

// DevInputSource reads raw key events from a Linux evdev character device
// and pushes normalized events to a single consumer. Repeats are dropped;
// the matcher handles chord retriggering itself.
type DevInputSource struct {
	path   string
	logger *zap.Logger

	mu     sync.Mutex
	file   *os.File
	closed bool
}

func NewDevInputSource(path string, logger *zap.Logger) *DevInputSource {
	return &DevInputSource{
		path:   path,
		logger: logger.With(zap.String("component", "keyboard"), zap.String("device", path)),
	}
}

// Start opens the device and spawns the read loop. The push callback is
// invoked from that single goroutine until Stop or a read error.
func (s *DevInputSource) Start(push func(domain.KeyEvent)) error {
	file, err := os.Open(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.file = file
	s.closed = false
	s.mu.Unlock()

	go s.readLoop(file, push)
	return nil
}

func (s *DevInputSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.file != nil {
		s.file.Close()
		s.file = nil
	}
}

func (s *DevInputSource) readLoop(file *os.File, push func(domain.KeyEvent)) {
	buf := make([]byte, eventSize)
	for {
		if _, err := io.ReadFull(file, buf); err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if !closed && !errors.Is(err, os.ErrClosed) {
				s.logger.Warn("input device read failed", zap.Error(err))
			}
			return
		}

		evType := binary.LittleEndian.Uint16(buf[16:18])
		code := binary.LittleEndian.Uint16(buf[18:20])
		value := int32(binary.LittleEndian.Uint32(buf[20:24]))

		if evType != evKey || value == keyRepeat {
			continue
		}
		key, ok := CodeToKey(code)
		if !ok {
			continue
		}
		push(domain.KeyEvent{
			Key:   key,
			Press: value == keyPress,
		})
	}
}
