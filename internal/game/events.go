package game

import (
	"encoding/json"
	"fmt"
)

// Server -> client event names.
const (
	EvtGameCreated           = "game_created"
	EvtGameJoined            = "game_joined"
	EvtGameState             = "game_state"
	EvtPlayerJoined          = "player_joined"
	EvtPlayerLeft            = "player_left"
	EvtRoundStarted          = "round_started"
	EvtCardsSubmitted        = "cards_submitted"
	EvtJudgingPhase          = "judging_phase"
	EvtWinnerSelected        = "winner_selected"
	EvtVideoReady            = "video_ready"
	EvtVideoProgress         = "video_progress"
	EvtSubmissionVideosReady = "submission_videos_ready"
	EvtChatMessage           = "chat_message"
	EvtError                 = "error"
)

// InboundEvents is the full vocabulary the session subscribes to. Anything
// the server sends outside this list is ignored.
var InboundEvents = []string{
	EvtGameCreated,
	EvtGameJoined,
	EvtGameState,
	EvtPlayerJoined,
	EvtPlayerLeft,
	EvtRoundStarted,
	EvtCardsSubmitted,
	EvtJudgingPhase,
	EvtWinnerSelected,
	EvtVideoReady,
	EvtVideoProgress,
	EvtSubmissionVideosReady,
	EvtChatMessage,
	EvtError,
}

// Event is one decoded inbound event. Each variant declares its own write-set
// in Apply; most are cues that carry no authoritative payload.
type Event interface{ isEvent() }

type GameCreated struct {
	GameID   string    `json:"game_id"`
	PlayerID string    `json:"player_id"`
	State    *Snapshot `json:"game_state"`
}

type GameJoined struct {
	GameID   string    `json:"game_id"`
	PlayerID string    `json:"player_id"`
	State    *Snapshot `json:"game_state"`
}

// FullState wholesale-replaces the snapshot. It is the recovery path after
// any missed or ambiguous event.
type FullState struct {
	State *Snapshot
}

type PlayerJoined struct {
	Player Player `json:"player"`
}

type PlayerLeft struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

type RoundStarted struct {
	RoundNumber int `json:"round_number"`
}

type CardsSubmitted struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Count      int    `json:"count"`
}

type JudgingPhase struct{}

type WinnerSelected struct {
	WinnerID   string `json:"winner_id"`
	WinnerName string `json:"winner_name"`
	VideoURL   string `json:"video_url"`
}

type VideoReady struct {
	VideoURL string `json:"video_url"`
}

// VideoProgress narrates the generation pipeline for one submission
// ("starting", "prompt", "generating"). Pure cue; the eventual URL arrives
// via submission_videos_ready.
type VideoProgress struct {
	SubmissionIndex int    `json:"submission_index"`
	Status          string `json:"status"`
	Message         string `json:"message"`
}

// SubmissionVideosReady maps submission index -> media URL. Generation
// completes out of order, so any subset of indices may be present.
type SubmissionVideosReady struct {
	Videos map[int]string `json:"videos"`
}

type ChatMessage struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
}

type ErrorEvent struct {
	Message string `json:"message"`
}

func (GameCreated) isEvent()           {}
func (GameJoined) isEvent()            {}
func (FullState) isEvent()             {}
func (PlayerJoined) isEvent()          {}
func (PlayerLeft) isEvent()            {}
func (RoundStarted) isEvent()          {}
func (CardsSubmitted) isEvent()        {}
func (JudgingPhase) isEvent()          {}
func (WinnerSelected) isEvent()        {}
func (VideoReady) isEvent()            {}
func (VideoProgress) isEvent()         {}
func (SubmissionVideosReady) isEvent() {}
func (ChatMessage) isEvent()           {}
func (ErrorEvent) isEvent()            {}

// ParseEvent decodes a named wire payload into its event variant. Unknown
// names and malformed payloads report ok=false; both are dropped upstream,
// which is forward compatibility rather than an error.
func ParseEvent(name string, data json.RawMessage) (Event, bool) {
	switch name {
	case EvtGameCreated:
		var ev GameCreated
		// An ack without the full state would adopt identity with nothing
		// to show for it; treat it as malformed.
		return ev, decode(data, &ev) && ev.State != nil && ev.GameID != ""
	case EvtGameJoined:
		var ev GameJoined
		return ev, decode(data, &ev) && ev.State != nil && ev.GameID != ""
	case EvtGameState:
		// Unmarshalling JSON null or {} "succeeds" into a zero Snapshot,
		// which must never wholesale-replace live state. Every real push
		// carries game_id.
		var snap Snapshot
		if !decode(data, &snap) || snap.GameID == "" {
			return nil, false
		}
		return FullState{State: &snap}, true
	case EvtPlayerJoined:
		var ev PlayerJoined
		return ev, decode(data, &ev)
	case EvtPlayerLeft:
		var ev PlayerLeft
		return ev, decode(data, &ev)
	case EvtRoundStarted:
		var ev RoundStarted
		return ev, decode(data, &ev)
	case EvtCardsSubmitted:
		var ev CardsSubmitted
		return ev, decode(data, &ev)
	case EvtJudgingPhase:
		return JudgingPhase{}, true
	case EvtWinnerSelected:
		var ev WinnerSelected
		return ev, decode(data, &ev)
	case EvtVideoReady:
		var ev VideoReady
		return ev, decode(data, &ev)
	case EvtVideoProgress:
		var ev VideoProgress
		return ev, decode(data, &ev)
	case EvtSubmissionVideosReady:
		var ev SubmissionVideosReady
		return ev, decode(data, &ev)
	case EvtChatMessage:
		var ev ChatMessage
		return ev, decode(data, &ev)
	case EvtError:
		var ev ErrorEvent
		return ev, decode(data, &ev)
	default:
		return nil, false
	}
}

func decode(data json.RawMessage, v any) bool {
	if len(data) == 0 {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// noteFor derives the one-shot notification text for events that should flash
// one. The texts are UI copy, not state; they never reach the snapshot.
func noteFor(ev Event) (string, bool) {
	switch e := ev.(type) {
	case GameCreated:
		return "Game created successfully!", true
	case GameJoined:
		return "Joined game successfully!", true
	case PlayerJoined:
		return fmt.Sprintf("%s joined the game!", e.Player.Name), true
	case PlayerLeft:
		return fmt.Sprintf("%s left the game", e.PlayerName), true
	case RoundStarted:
		return fmt.Sprintf("Round %d started!", e.RoundNumber), true
	case CardsSubmitted:
		return fmt.Sprintf("%s submitted %d card(s)", e.PlayerName, e.Count), true
	case JudgingPhase:
		return "All cards submitted! Czar is judging...", true
	case WinnerSelected:
		return fmt.Sprintf("%s won this round!", e.WinnerName), true
	case VideoReady:
		return "Video is ready!", true
	case VideoProgress:
		return e.Message, e.Message != ""
	case SubmissionVideosReady:
		return "All videos are ready!", true
	case ChatMessage:
		return fmt.Sprintf("%s: %s", e.PlayerName, e.Message), true
	default:
		return "", false
	}
}
