package keyboard

import (
	"sync"

	"github.com/example/monitorctl/internal/core/domain"
)

// ChanSource is an in-memory key source for tests and dry runs. Events sent
// to Emit are forwarded to the consumer registered by Start.
type ChanSource struct {
	mu   sync.Mutex
	push func(domain.KeyEvent)
}

func NewChanSource() *ChanSource {
	return &ChanSource{}
}

func (s *ChanSource) Start(push func(domain.KeyEvent)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.push = push
	return nil
}

func (s *ChanSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.push = nil
}

func (s *ChanSource) Emit(event domain.KeyEvent) {
	s.mu.Lock()
	push := s.push
	s.mu.Unlock()
	if push != nil {
		push(event)
	}
}

// PressChord emits presses for every key in order, then releases in reverse.
func (s *ChanSource) PressChord(keys ...domain.Key) {
	for _, k := range keys {
		s.Emit(domain.KeyEvent{Key: k, Press: true})
	}
	for i := len(keys) - 1; i >= 0; i-- {
		s.Emit(domain.KeyEvent{Key: keys[i], Press: false})
	}
}
