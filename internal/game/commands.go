package game

import (
	"time"
)

// Client -> server event names.
const (
	CmdCreateGame    = "create_game"
	CmdJoinGame      = "join_game"
	CmdStartGame     = "start_game"
	CmdSubmitCards   = "submit_cards"
	CmdSelectWinner  = "select_winner"
	CmdRequestAIJoin = "request_ai_join"
	CmdSendMessage   = "send_message"
)

// DefaultPersonality is used when an AI participant is requested without one.
const DefaultPersonality = "absurd"

// Settings is the optional settings bag passed along with create_game; the
// server interprets it, the client does not.
type Settings map[string]any

// Each command below is a pure translation from intent parameters to one
// outgoing emit, gated by explicit preconditions. A command whose gate fails
// is dropped with a debug log, never surfaced as a user error: such calls
// come from UI states that should themselves be unreachable.

func (s *Session) CreateGame(playerName string, settings Settings) {
	if _, ok := s.gate(CmdCreateGame, false, false); !ok {
		return
	}
	payload := map[string]any{"player_name": playerName}
	if settings != nil {
		payload["settings"] = settings
	}
	s.emit(CmdCreateGame, payload)
}

func (s *Session) JoinGame(gameID, playerName string) {
	if _, ok := s.gate(CmdJoinGame, false, false); !ok {
		return
	}
	s.emit(CmdJoinGame, map[string]any{
		"game_id":     gameID,
		"player_name": playerName,
	})
}

func (s *Session) StartGame() {
	ids, ok := s.gate(CmdStartGame, true, false)
	if !ok {
		return
	}
	s.emit(CmdStartGame, map[string]any{"game_id": ids.gameID})
}

func (s *Session) SubmitCards(cardIDs []string) {
	ids, ok := s.gate(CmdSubmitCards, true, true)
	if !ok {
		return
	}
	s.emit(CmdSubmitCards, map[string]any{
		"game_id":   ids.gameID,
		"player_id": ids.playerID,
		"card_ids":  cardIDs,
	})
}

func (s *Session) SelectWinner(submissionIndex int) {
	ids, ok := s.gate(CmdSelectWinner, true, true)
	if !ok {
		return
	}
	s.emit(CmdSelectWinner, map[string]any{
		"game_id":            ids.gameID,
		"player_id":          ids.playerID,
		"winning_submission": submissionIndex,
	})
}

func (s *Session) RequestAIJoin(personality string) {
	ids, ok := s.gate(CmdRequestAIJoin, true, false)
	if !ok {
		return
	}
	if personality == "" {
		personality = DefaultPersonality
	}
	s.emit(CmdRequestAIJoin, map[string]any{
		"game_id":     ids.gameID,
		"personality": personality,
	})
}

func (s *Session) SendChat(message string) {
	ids, ok := s.gate(CmdSendMessage, true, true)
	if !ok {
		return
	}
	s.emit(CmdSendMessage, map[string]any{
		"game_id":   ids.gameID,
		"player_id": ids.playerID,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type identity struct {
	gameID   string
	playerID string
}

// gate centralizes the precondition check so the drop-silently behavior has
// exactly one home.
func (s *Session) gate(cmd string, needGame, needPlayer bool) (identity, bool) {
	if !s.conn.Connected() {
		s.log.Debug().Str("command", cmd).Msg("dropping command: not connected")
		return identity{}, false
	}
	s.mu.Lock()
	ids := identity{gameID: s.gameID, playerID: s.playerID}
	s.mu.Unlock()
	if needGame && ids.gameID == "" {
		s.log.Debug().Str("command", cmd).Msg("dropping command: no game id")
		return identity{}, false
	}
	if needPlayer && ids.playerID == "" {
		s.log.Debug().Str("command", cmd).Msg("dropping command: no player id")
		return identity{}, false
	}
	return ids, true
}

func (s *Session) emit(event string, payload any) {
	if err := s.conn.Emit(event, payload); err != nil {
		s.log.Warn().Err(err).Str("event", event).Msg("emit failed")
	}
}
