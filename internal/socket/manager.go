package socket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"
)

const writeTimeout = 3 * time.Second

// Manager owns the one shared connection for the process's lifetime.
// Connect dials (or reuses the live handle), Disconnect tears it down, and
// Connected is true strictly between the connect signal and the next
// disconnect signal. Events are not buffered across a disconnect; recovery
// is the server's post-reconnect game_state push, which is idempotent.
type Manager struct {
	url string
	log zerolog.Logger

	mu        sync.Mutex
	ws        *websocket.Conn
	connected bool
	cancel    context.CancelFunc
	handlers  map[string][]Handler

	wmu sync.Mutex // serializes writes to ws
}

func NewManager(url string, logger zerolog.Logger) *Manager {
	return &Manager{url: url, log: logger, handlers: make(map[string][]Handler)}
}

// On registers a handler for a named inbound event. Handlers run on the
// reader goroutine, one at a time; inbound delivery is serialized by
// construction. Register before Connect.
func (m *Manager) On(event string, fn Handler) {
	m.mu.Lock()
	m.handlers[event] = append(m.handlers[event], fn)
	m.mu.Unlock()
}

func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// Connect establishes the shared connection, or returns immediately if it is
// already live.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	if m.ws != nil {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	ws, _, err := websocket.Dial(ctx, m.url, nil)
	if err != nil {
		return err
	}

	readCtx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	m.ws = ws
	m.cancel = cancel
	m.connected = true
	m.mu.Unlock()

	m.log.Info().Str("url", m.url).Msg("socket connected")
	go m.readLoop(readCtx, ws)
	m.fire(EventConnect, nil)
	return nil
}

// Disconnect tears the connection down and fires the disconnect signal.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	ws := m.ws
	cancel := m.cancel
	m.mu.Unlock()
	if ws == nil {
		return
	}
	if cancel != nil {
		cancel()
	}
	_ = ws.Close(websocket.StatusNormalClosure, "bye")
	if m.drop(ws) {
		m.fire(EventDisconnect, nil)
	}
}

// Emit sends one named event. Callers treat an error as a dropped emit;
// there is no retry or buffering here.
func (m *Manager) Emit(event string, payload any) error {
	m.mu.Lock()
	ws := m.ws
	live := m.connected
	m.mu.Unlock()
	if !live || ws == nil {
		return ErrNotConnected
	}

	b, err := EncodeEnvelope(event, payload)
	if err != nil {
		return err
	}

	m.wmu.Lock()
	defer m.wmu.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return ws.Write(ctx, websocket.MessageText, b)
}

func (m *Manager) readLoop(ctx context.Context, ws *websocket.Conn) {
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if m.drop(ws) {
				m.log.Info().Msg("socket disconnected")
				m.fire(EventDisconnect, nil)
			}
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
			m.log.Debug().Msg("dropping malformed frame")
			continue
		}
		m.fire(env.Event, env.Data)
	}
}

// drop clears the live handle once, whether the teardown came from
// Disconnect or from the reader seeing the peer go away. Reports whether
// this call did the clearing, so the disconnect signal fires exactly once.
func (m *Manager) drop(ws *websocket.Conn) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ws != ws || !m.connected {
		return false
	}
	m.connected = false
	m.ws = nil
	m.cancel = nil
	return true
}

func (m *Manager) fire(event string, data json.RawMessage) {
	m.mu.Lock()
	fns := append([]Handler(nil), m.handlers[event]...)
	m.mu.Unlock()
	for _, fn := range fns {
		fn(data)
	}
}
