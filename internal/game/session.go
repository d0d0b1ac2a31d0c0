package game

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Conn is the named-event transport surface the session consumes. The
// lifecycle manager in internal/socket implements it; tests use a scripted
// fake.
type Conn interface {
	On(event string, fn func(data json.RawMessage))
	Emit(event string, payload any) error
	Connected() bool
}

// Session owns the snapshot. All inbound events funnel through dispatch, the
// single writer; commands never touch the snapshot, they only read identity
// for gating and emit outbound events. Ephemeral notification/error values
// live in Signals, separate from the authoritative state.
type Session struct {
	conn Conn
	log  zerolog.Logger

	mu       sync.Mutex
	snap     *Snapshot
	gameID   string
	playerID string
	onState  func(*Snapshot)

	signals *Signals
}

func NewSession(conn Conn, logger zerolog.Logger) *Session {
	s := &Session{conn: conn, log: logger, signals: NewSignals()}
	for _, name := range InboundEvents {
		name := name
		conn.On(name, func(data json.RawMessage) { s.dispatch(name, data) })
	}
	// Server hello on connect; carries only the transport sid.
	conn.On("connected", func(json.RawMessage) { s.log.Debug().Msg("server hello") })
	return s
}

func (s *Session) Signals() *Signals { return s.signals }

// OnState registers a callback fired with the new snapshot after every
// snapshot-changing event, outside the lock.
func (s *Session) OnState(fn func(*Snapshot)) {
	s.mu.Lock()
	s.onState = fn
	s.mu.Unlock()
}

// Snapshot returns the current snapshot. Snapshots are immutable once
// published; callers must not modify the returned value.
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *Session) GameID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameID
}

func (s *Session) PlayerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerID
}

// Reset discards the snapshot and identity, e.g. when the UI navigates away.
// Nothing is persisted; resuming safely requires a fresh full-state push.
func (s *Session) Reset() {
	s.mu.Lock()
	s.snap = nil
	s.gameID = ""
	s.playerID = ""
	s.mu.Unlock()
	s.signals.ClearNotification()
	s.signals.ClearError()
}

func (s *Session) dispatch(name string, data json.RawMessage) {
	ev, ok := ParseEvent(name, data)
	if !ok {
		s.log.Debug().Str("event", name).Msg("dropping unrecognized event")
		return
	}

	if e, isErr := ev.(ErrorEvent); isErr {
		// Authority-reported errors route to the signal channel only.
		s.log.Warn().Str("message", e.Message).Msg("server error")
		s.signals.Fail(e.Message)
		return
	}

	s.mu.Lock()
	switch e := ev.(type) {
	case GameCreated:
		s.adoptIdentity(e.GameID, e.PlayerID)
	case GameJoined:
		s.adoptIdentity(e.GameID, e.PlayerID)
	}
	prev := s.snap
	s.snap = Apply(prev, ev)
	changed := s.snap != prev
	snap := s.snap
	cb := s.onState
	s.mu.Unlock()

	if note, hasNote := noteFor(ev); hasNote {
		s.signals.Notify(note)
	}
	if changed && cb != nil {
		cb(snap)
	}
}

// adoptIdentity sets gameID/playerID once per session; a duplicate ack after
// they are set must not rebind them. Caller holds s.mu.
func (s *Session) adoptIdentity(gameID, playerID string) {
	if s.gameID == "" {
		s.gameID = gameID
	}
	if s.playerID == "" {
		s.playerID = playerID
	}
}
