package game

import (
	"encoding/json"
	"testing"
)

func lobbySnapshot() *Snapshot {
	return &Snapshot{
		GameID:      "G1",
		Phase:       PhaseLobby,
		PointsToWin: 5,
		Players: []Player{
			{ID: "P1", Name: "Alice", Type: PlayerHuman, IsConnected: true},
		},
	}
}

func judgingSnapshot() *Snapshot {
	return &Snapshot{
		GameID:      "G1",
		Phase:       PhaseJudging,
		PointsToWin: 5,
		Players: []Player{
			{ID: "P1", Name: "Alice", Type: PlayerHuman, IsConnected: true},
			{ID: "P2", Name: "Bob", Type: PlayerHuman, IsConnected: true},
			{ID: "P3", Name: "Cleo", Type: PlayerHuman, IsConnected: true},
			{ID: "P4", Name: "Dana", Type: PlayerHuman, IsConnected: true},
		},
		CurrentRound: &Round{
			RoundNumber: 2,
			BlackCard:   PromptCard{ID: "b1", Text: "Why?", Pick: 1},
			CzarID:      "P1",
			Submissions: []Submission{
				{Cards: []AnswerCard{{ID: "w1", Text: "one"}}},
				{Cards: []AnswerCard{{ID: "w2", Text: "two"}}},
				{Cards: []AnswerCard{{ID: "w3", Text: "three"}}},
			},
			SubmissionsCount: 3,
		},
	}
}

func TestFullStateReplacesWholesale(t *testing.T) {
	incoming := judgingSnapshot()

	// Regardless of prior snapshot content, the result is exactly the payload.
	for _, prev := range []*Snapshot{nil, lobbySnapshot(), judgingSnapshot()} {
		next := Apply(prev, FullState{State: incoming})
		if next != incoming {
			t.Fatalf("full state should replace wholesale, got %+v", next)
		}
	}

	// Applying the same push twice is a no-op.
	once := Apply(lobbySnapshot(), FullState{State: incoming})
	twice := Apply(once, FullState{State: incoming})
	if twice != once {
		t.Fatal("replaying a full-state push should yield the same snapshot")
	}
}

func TestGameCreatedReplacesWholesale(t *testing.T) {
	incoming := lobbySnapshot()
	next := Apply(nil, GameCreated{GameID: "G1", PlayerID: "P1", State: incoming})
	if next != incoming {
		t.Fatalf("game_created should install the server-provided state, got %+v", next)
	}
}

func TestPlayerJoinedAppendsInJoinOrder(t *testing.T) {
	prev := lobbySnapshot()
	next := Apply(prev, PlayerJoined{Player: Player{ID: "P2", Name: "Bob"}})
	if len(next.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(next.Players))
	}
	if next.Players[0].ID != "P1" || next.Players[1].ID != "P2" {
		t.Fatalf("join order not preserved: %+v", next.Players)
	}
	// prev is untouched
	if len(prev.Players) != 1 {
		t.Fatalf("previous snapshot was mutated: %+v", prev.Players)
	}
}

func TestPlayerJoinedIdempotentUnderReplay(t *testing.T) {
	prev := lobbySnapshot()
	ev := PlayerJoined{Player: Player{ID: "P2", Name: "Bob"}}
	once := Apply(prev, ev)
	twice := Apply(once, ev)
	if twice != once {
		t.Fatal("duplicate player_joined should be a no-op")
	}
	if len(twice.Players) != 2 {
		t.Fatalf("expected 2 players after replay, got %d", len(twice.Players))
	}
}

func TestPlayerJoinedWithoutSnapshotIsNoOp(t *testing.T) {
	if next := Apply(nil, PlayerJoined{Player: Player{ID: "P2"}}); next != nil {
		t.Fatalf("expected no snapshot, got %+v", next)
	}
}

func TestPlayerLeftKeepsRoster(t *testing.T) {
	prev := judgingSnapshot()
	next := Apply(prev, PlayerLeft{PlayerID: "P2", PlayerName: "Bob"})
	if next != prev {
		t.Fatal("player_left must not remove the player locally; removal waits for game_state")
	}
}

func TestCueEventsLeaveSnapshotUntouched(t *testing.T) {
	prev := judgingSnapshot()
	cues := []Event{
		RoundStarted{RoundNumber: 3},
		CardsSubmitted{PlayerID: "P2", PlayerName: "Bob", Count: 1},
		JudgingPhase{},
		WinnerSelected{WinnerID: "P2", WinnerName: "Bob"},
		VideoProgress{SubmissionIndex: 0, Status: "starting", Message: "Starting video generation..."},
		ChatMessage{PlayerID: "P2", Message: "hi"},
		ErrorEvent{Message: "nope"},
	}
	for _, ev := range cues {
		if next := Apply(prev, ev); next != prev {
			t.Fatalf("%T should not touch the snapshot", ev)
		}
	}
}

func TestSubmissionVideosPartialPatch(t *testing.T) {
	prev := judgingSnapshot()
	next := Apply(prev, SubmissionVideosReady{Videos: map[int]string{1: "http://x/b.mp4"}})
	if next == prev {
		t.Fatal("expected a new snapshot")
	}
	subs := next.CurrentRound.Submissions
	if subs[1].VideoURL != "http://x/b.mp4" {
		t.Fatalf("index 1 not patched: %+v", subs[1])
	}
	if subs[0].VideoURL != "" || subs[2].VideoURL != "" {
		t.Fatalf("indices 0/2 should be untouched: %+v", subs)
	}
	// prev round untouched
	if prev.CurrentRound.Submissions[1].VideoURL != "" {
		t.Fatal("previous snapshot was mutated")
	}
}

func TestSubmissionVideosArriveOutOfOrderAndPartially(t *testing.T) {
	prev := judgingSnapshot()
	step1 := Apply(prev, SubmissionVideosReady{Videos: map[int]string{2: "http://x/c.mp4"}})
	step2 := Apply(step1, SubmissionVideosReady{Videos: map[int]string{0: "http://x/a.mp4"}})
	subs := step2.CurrentRound.Submissions
	if subs[0].VideoURL != "http://x/a.mp4" || subs[1].VideoURL != "" || subs[2].VideoURL != "http://x/c.mp4" {
		t.Fatalf("out-of-order patches misapplied: %+v", subs)
	}
}

func TestSubmissionVideosIndexOutOfRangeIsNoOp(t *testing.T) {
	prev := judgingSnapshot()
	next := Apply(prev, SubmissionVideosReady{Videos: map[int]string{7: "http://x/late.mp4", -1: "http://x/neg.mp4"}})
	if next != prev {
		t.Fatal("out-of-range indices should be a silent no-op")
	}
}

func TestSubmissionVideosWithoutRoundIsNoOp(t *testing.T) {
	prev := lobbySnapshot()
	if next := Apply(prev, SubmissionVideosReady{Videos: map[int]string{0: "http://x/a.mp4"}}); next != prev {
		t.Fatal("media event with no current round should be a no-op")
	}
}

func TestVideoReadyPatchesRoundURL(t *testing.T) {
	prev := judgingSnapshot()
	next := Apply(prev, VideoReady{VideoURL: "http://x/winner.mp4"})
	if next.CurrentRound.VideoURL != "http://x/winner.mp4" {
		t.Fatalf("round video url not set: %+v", next.CurrentRound)
	}
	if prev.CurrentRound.VideoURL != "" {
		t.Fatal("previous snapshot was mutated")
	}
	if got := Apply(lobbySnapshot(), VideoReady{VideoURL: "http://x/w.mp4"}); got.CurrentRound != nil {
		t.Fatal("video_ready with no round should be a no-op")
	}
}

func TestNullFullStatePayloadRejected(t *testing.T) {
	// json.Unmarshal treats null as a no-op and {} decodes to a zero value;
	// neither may wholesale-replace a live snapshot.
	for _, raw := range []string{`null`, `{}`, `{"players":[]}`} {
		if _, ok := ParseEvent(EvtGameState, json.RawMessage(raw)); ok {
			t.Fatalf("game_state payload %s should be rejected", raw)
		}
	}
	if _, ok := ParseEvent(EvtGameCreated, json.RawMessage(`{"game_id":"G1","player_id":"P1"}`)); ok {
		t.Fatal("create ack without game_state should be rejected")
	}
	if _, ok := ParseEvent(EvtGameJoined, json.RawMessage(`{"player_id":"P1","game_state":{"game_id":"G1"}}`)); ok {
		t.Fatal("join ack without game_id should be rejected")
	}
}

func TestAckWithoutStateKeepsSnapshot(t *testing.T) {
	prev := judgingSnapshot()
	for _, ev := range []Event{
		GameCreated{GameID: "G2", PlayerID: "P9"},
		GameJoined{GameID: "G2", PlayerID: "P9"},
		FullState{},
	} {
		if next := Apply(prev, ev); next != prev {
			t.Fatalf("%T with no state should not touch the snapshot", ev)
		}
	}
}

func TestParseEventUnknownNameIgnored(t *testing.T) {
	if _, ok := ParseEvent("totally_new_event", json.RawMessage(`{"a":1}`)); ok {
		t.Fatal("unknown event names must be ignored for forward compatibility")
	}
}

func TestParseEventMalformedPayloadIgnored(t *testing.T) {
	if _, ok := ParseEvent(EvtGameState, json.RawMessage(`{"state":`)); ok {
		t.Fatal("malformed payloads must be dropped")
	}
}

func TestParseEventDecodesVideoIndexMap(t *testing.T) {
	ev, ok := ParseEvent(EvtSubmissionVideosReady, json.RawMessage(`{"videos":{"0":"http://x/a.mp4","2":"http://x/c.mp4"}}`))
	if !ok {
		t.Fatal("expected event to parse")
	}
	videos := ev.(SubmissionVideosReady).Videos
	if videos[0] != "http://x/a.mp4" || videos[2] != "http://x/c.mp4" {
		t.Fatalf("index map misdecoded: %+v", videos)
	}
}

func TestNoteForCueTexts(t *testing.T) {
	cases := []struct {
		ev   Event
		want string
	}{
		{GameCreated{}, "Game created successfully!"},
		{GameJoined{}, "Joined game successfully!"},
		{PlayerJoined{Player: Player{Name: "Bob"}}, "Bob joined the game!"},
		{PlayerLeft{PlayerName: "Bob"}, "Bob left the game"},
		{RoundStarted{RoundNumber: 2}, "Round 2 started!"},
		{CardsSubmitted{PlayerName: "Bob", Count: 2}, "Bob submitted 2 card(s)"},
		{JudgingPhase{}, "All cards submitted! Czar is judging..."},
		{WinnerSelected{WinnerName: "Bob"}, "Bob won this round!"},
		{VideoReady{}, "Video is ready!"},
		{VideoProgress{Status: "prompt", Message: "Creating video prompt..."}, "Creating video prompt..."},
		{SubmissionVideosReady{}, "All videos are ready!"},
	}
	for _, tc := range cases {
		got, ok := noteFor(tc.ev)
		if !ok || got != tc.want {
			t.Fatalf("%T: expected %q, got %q (ok=%v)", tc.ev, tc.want, got, ok)
		}
	}
	if _, ok := noteFor(FullState{}); ok {
		t.Fatal("full-state pushes should not flash a notification")
	}
	if _, ok := noteFor(ErrorEvent{}); ok {
		t.Fatal("errors route to the error signal, not the notification")
	}
	if _, ok := noteFor(VideoProgress{Status: "starting"}); ok {
		t.Fatal("progress with no message should stay quiet")
	}
}
