package game

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// fakeConn scripts the server side of the connection: tests fire inbound
// events and inspect what the session emitted.
type fakeConn struct {
	mu        sync.Mutex
	connected bool
	handlers  map[string][]func(json.RawMessage)
	emitted   []emitted
}

type emitted struct {
	event   string
	payload map[string]any
}

func newFakeConn(connected bool) *fakeConn {
	return &fakeConn{connected: connected, handlers: make(map[string][]func(json.RawMessage))}
}

func (f *fakeConn) On(event string, fn func(json.RawMessage)) {
	f.mu.Lock()
	f.handlers[event] = append(f.handlers[event], fn)
	f.mu.Unlock()
}

func (f *fakeConn) Emit(event string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	f.mu.Lock()
	f.emitted = append(f.emitted, emitted{event: event, payload: out})
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeConn) fire(t *testing.T, event string, payload any) {
	t.Helper()
	var data json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("bad fixture payload: %v", err)
		}
		data = b
	}
	f.mu.Lock()
	fns := append([]func(json.RawMessage){}, f.handlers[event]...)
	f.mu.Unlock()
	for _, fn := range fns {
		fn(data)
	}
}

func (f *fakeConn) sent() []emitted {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]emitted(nil), f.emitted...)
}

func newTestSession(connected bool) (*Session, *fakeConn) {
	conn := newFakeConn(connected)
	return NewSession(conn, zerolog.Nop()), conn
}

func TestCommandsDroppedWhenOffline(t *testing.T) {
	s, conn := newTestSession(false)
	s.CreateGame("Alice", nil)
	s.JoinGame("G1", "Alice")
	s.StartGame()
	s.SubmitCards([]string{"w1"})
	s.SelectWinner(0)
	s.RequestAIJoin("")
	if n := len(conn.sent()); n != 0 {
		t.Fatalf("expected no emits while offline, got %d", n)
	}
}

func TestSubmitRequiresKnownIdentity(t *testing.T) {
	s, conn := newTestSession(true)

	// No game/player identity yet: dropped silently.
	s.SubmitCards([]string{"w1", "w2"})
	s.StartGame()
	s.SelectWinner(1)
	if n := len(conn.sent()); n != 0 {
		t.Fatalf("expected gated commands to be dropped, got %d emits", n)
	}

	conn.fire(t, EvtGameCreated, map[string]any{
		"game_id":    "G1",
		"player_id":  "P1",
		"game_state": lobbySnapshot(),
	})

	s.SubmitCards([]string{"w1", "w2"})
	sent := conn.sent()
	if len(sent) != 1 || sent[0].event != CmdSubmitCards {
		t.Fatalf("expected one submit_cards emit, got %+v", sent)
	}
	p := sent[0].payload
	if p["game_id"] != "G1" || p["player_id"] != "P1" {
		t.Fatalf("identity not threaded into payload: %+v", p)
	}
	ids, ok := p["card_ids"].([]any)
	if !ok || len(ids) != 2 || ids[0] != "w1" || ids[1] != "w2" {
		t.Fatalf("card ids misordered: %+v", p["card_ids"])
	}
}

func TestRequestAIJoinDefaultsPersonality(t *testing.T) {
	s, conn := newTestSession(true)
	conn.fire(t, EvtGameJoined, map[string]any{
		"game_id":    "G1",
		"player_id":  "P9",
		"game_state": lobbySnapshot(),
	})
	s.RequestAIJoin("")
	sent := conn.sent()
	if len(sent) != 1 || sent[0].payload["personality"] != "absurd" {
		t.Fatalf("expected default personality, got %+v", sent)
	}
}

func TestSelectWinnerPayloadShape(t *testing.T) {
	s, conn := newTestSession(true)
	conn.fire(t, EvtGameCreated, map[string]any{
		"game_id":    "G1",
		"player_id":  "P1",
		"game_state": judgingSnapshot(),
	})
	s.SelectWinner(2)
	sent := conn.sent()
	if len(sent) != 1 || sent[0].event != CmdSelectWinner {
		t.Fatalf("expected select_winner, got %+v", sent)
	}
	if sent[0].payload["winning_submission"] != float64(2) {
		t.Fatalf("submission index missing: %+v", sent[0].payload)
	}
}

func TestErrorRoutesToSignalsOnly(t *testing.T) {
	s, conn := newTestSession(true)
	conn.fire(t, EvtGameCreated, map[string]any{
		"game_id":    "G1",
		"player_id":  "P1",
		"game_state": lobbySnapshot(),
	})
	before := s.Snapshot()
	conn.fire(t, EvtError, map[string]any{"message": "Game not found"})
	if s.Signals().Error() != "Game not found" {
		t.Fatalf("error not surfaced: %q", s.Signals().Error())
	}
	if s.Snapshot() != before {
		t.Fatal("error events must not touch the snapshot")
	}
}

func TestIdentitySetOnce(t *testing.T) {
	s, conn := newTestSession(true)
	conn.fire(t, EvtGameCreated, map[string]any{
		"game_id":    "G1",
		"player_id":  "P1",
		"game_state": lobbySnapshot(),
	})
	// A stray duplicate ack must not rebind identity.
	conn.fire(t, EvtGameCreated, map[string]any{
		"game_id":    "G2",
		"player_id":  "P2",
		"game_state": lobbySnapshot(),
	})
	if s.GameID() != "G1" || s.PlayerID() != "P1" {
		t.Fatalf("identity rebound: game=%s player=%s", s.GameID(), s.PlayerID())
	}
}

func TestUnknownInboundEventIgnored(t *testing.T) {
	s, conn := newTestSession(true)
	conn.fire(t, EvtGameCreated, map[string]any{
		"game_id":    "G1",
		"player_id":  "P1",
		"game_state": lobbySnapshot(),
	})
	before := s.Snapshot()
	// Absent, null and zero-value pushes must all leave live state alone.
	for _, raw := range []json.RawMessage{nil, json.RawMessage(`null`), json.RawMessage(`{}`)} {
		conn.fire(t, EvtGameState, raw)
		if s.Snapshot() != before {
			t.Fatalf("game_state payload %q wiped the snapshot", raw)
		}
	}
}

// The end-to-end flow from the original client: create, a friend joins, play
// starts, media lands per index, the czar picks a winner.
func TestSessionScenario(t *testing.T) {
	s, conn := newTestSession(true)

	var states []*Snapshot
	s.OnState(func(snap *Snapshot) { states = append(states, snap) })

	conn.fire(t, EvtGameCreated, map[string]any{
		"game_id":   "G1",
		"player_id": "P1",
		"game_state": &Snapshot{
			GameID:      "G1",
			Phase:       PhaseLobby,
			PointsToWin: 5,
			Players:     []Player{{ID: "P1", Name: "Alice", Type: PlayerHuman, IsConnected: true}},
		},
	})
	snap := s.Snapshot()
	if snap.Phase != PhaseLobby || len(snap.Players) != 1 {
		t.Fatalf("unexpected snapshot after create: %+v", snap)
	}
	if s.Signals().Notification() != "Game created successfully!" {
		t.Fatalf("missing create notification: %q", s.Signals().Notification())
	}

	conn.fire(t, EvtPlayerJoined, map[string]any{
		"player": Player{ID: "P2", Name: "Bob", Type: PlayerHuman, IsConnected: true},
	})
	snap = s.Snapshot()
	if len(snap.Players) != 2 || snap.Players[1].ID != "P2" {
		t.Fatalf("player_joined not applied: %+v", snap.Players)
	}
	if snap.Phase != PhaseLobby {
		t.Fatalf("phase should be unchanged, got %s", snap.Phase)
	}
	if s.Signals().Notification() != "Bob joined the game!" {
		t.Fatalf("notification not updated: %q", s.Signals().Notification())
	}

	playing := &Snapshot{
		GameID:      "G1",
		Phase:       PhasePlaying,
		PointsToWin: 5,
		Players: []Player{
			{ID: "P1", Name: "Alice", Type: PlayerHuman, IsConnected: true},
			{ID: "P2", Name: "Bob", Type: PlayerHuman, IsConnected: true},
			{ID: "P3", Name: "Cleo", Type: PlayerAI, IsConnected: true},
		},
		YourHand: []AnswerCard{{ID: "w1", Text: "one"}, {ID: "w2", Text: "two"}},
		CurrentRound: &Round{
			RoundNumber: 1,
			BlackCard:   PromptCard{ID: "b1", Text: "Why?", Pick: 1},
			CzarID:      "P1",
			Submissions: []Submission{
				{Cards: []AnswerCard{{ID: "w9", Text: "nine"}}},
				{Cards: []AnswerCard{{ID: "w8", Text: "eight"}}},
			},
			SubmissionsCount: 2,
		},
	}
	conn.fire(t, EvtGameState, playing)
	snap = s.Snapshot()
	if snap.Phase != PhasePlaying || len(snap.CurrentRound.Submissions) != 2 {
		t.Fatalf("full-state replace failed: %+v", snap)
	}

	conn.fire(t, EvtSubmissionVideosReady, map[string]any{
		"videos": map[string]string{"0": "http://x/a.mp4"},
	})
	snap = s.Snapshot()
	if snap.CurrentRound.Submissions[0].VideoURL != "http://x/a.mp4" {
		t.Fatalf("media patch failed: %+v", snap.CurrentRound.Submissions)
	}
	if snap.CurrentRound.Submissions[1].VideoURL != "" {
		t.Fatal("untargeted submission was patched")
	}

	beforeCue := s.Snapshot()
	conn.fire(t, EvtWinnerSelected, map[string]any{"winner_id": "P2", "winner_name": "Bob"})
	if s.Snapshot() != beforeCue {
		t.Fatal("winner_selected is a cue; the snapshot must wait for game_state")
	}
	if s.Signals().Notification() != "Bob won this round!" {
		t.Fatalf("winner notification missing: %q", s.Signals().Notification())
	}

	roundEnd := *playing
	roundEnd.Phase = PhaseRoundEnd
	endRound := *playing.CurrentRound
	endRound.WinnerID = "P2"
	roundEnd.CurrentRound = &endRound
	conn.fire(t, EvtGameState, &roundEnd)
	snap = s.Snapshot()
	if snap.Phase != PhaseRoundEnd || snap.CurrentRound.WinnerID != "P2" {
		t.Fatalf("round transition incomplete: %+v", snap)
	}

	// Every applied change was published; cues that changed nothing were not.
	if len(states) != 5 {
		t.Fatalf("expected 5 state publications, got %d", len(states))
	}
}
