package game

import (
	"sync"
	"time"
)

const (
	notificationTTL = 3 * time.Second
	errorTTL        = 5 * time.Second
)

// Signals holds at most one pending notification and one pending error, each
// with its own auto-clear timer. Setting a new value overwrites the previous
// one and re-arms the timer; there is no queue. These are UI flashes, never
// part of the snapshot.
type Signals struct {
	mu sync.Mutex

	notification string
	noteGen      uint64
	noteTimer    *time.Timer
	noteTTL      time.Duration

	err      string
	errGen   uint64
	errTimer *time.Timer
	errTTL   time.Duration

	onChange func()
}

func NewSignals() *Signals {
	return &Signals{noteTTL: notificationTTL, errTTL: errorTTL}
}

// OnChange registers a callback fired after every set or clear, outside the
// lock. One subscriber is enough: the UI re-reads both values on each fire.
func (s *Signals) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Signals) Notification() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notification
}

func (s *Signals) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Notify overwrites the pending notification and restarts its clear timer.
// The generation counter keeps a stopped-but-already-fired timer from
// clearing the newer value.
func (s *Signals) Notify(msg string) {
	s.mu.Lock()
	s.notification = msg
	s.noteGen++
	gen := s.noteGen
	if s.noteTimer != nil {
		s.noteTimer.Stop()
	}
	s.noteTimer = time.AfterFunc(s.noteTTL, func() { s.expireNotification(gen) })
	cb := s.onChange
	s.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// Fail overwrites the pending error and restarts its clear timer.
func (s *Signals) Fail(msg string) {
	s.mu.Lock()
	s.err = msg
	s.errGen++
	gen := s.errGen
	if s.errTimer != nil {
		s.errTimer.Stop()
	}
	s.errTimer = time.AfterFunc(s.errTTL, func() { s.expireError(gen) })
	cb := s.onChange
	s.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// ClearNotification cancels the pending timer and clears the value now.
func (s *Signals) ClearNotification() {
	s.mu.Lock()
	s.noteGen++
	if s.noteTimer != nil {
		s.noteTimer.Stop()
		s.noteTimer = nil
	}
	s.notification = ""
	cb := s.onChange
	s.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// ClearError cancels the pending timer and clears the value now.
func (s *Signals) ClearError() {
	s.mu.Lock()
	s.errGen++
	if s.errTimer != nil {
		s.errTimer.Stop()
		s.errTimer = nil
	}
	s.err = ""
	cb := s.onChange
	s.mu.Unlock()
	if cb != nil {
		cb()
	}
}

func (s *Signals) expireNotification(gen uint64) {
	s.mu.Lock()
	if gen != s.noteGen {
		s.mu.Unlock()
		return
	}
	s.notification = ""
	s.noteTimer = nil
	cb := s.onChange
	s.mu.Unlock()
	if cb != nil {
		cb()
	}
}

func (s *Signals) expireError(gen uint64) {
	s.mu.Lock()
	if gen != s.errGen {
		s.mu.Unlock()
		return
	}
	s.err = ""
	s.errTimer = nil
	cb := s.onChange
	s.mu.Unlock()
	if cb != nil {
		cb()
	}
}
