package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/absurdly-visual/client-go/internal/game"
	"github.com/absurdly-visual/client-go/internal/socket"
)

const (
	writeTimeout  = 3 * time.Second
	aiThinkDelay  = 1 * time.Second
	aiJudgeDelay  = 2 * time.Second
	mediaDelay    = 2 * time.Second
	nextRoundWait = 3 * time.Second
)

var aiNames = []string{"Botticelli", "Circuitron", "Deep Gigglenet", "Absurdotron", "Unit 7"}

// Server speaks the client's full event vocabulary over the shared envelope
// framing. One goroutine reads per connection; pushes from timers (AI turns,
// fake media completion) serialize onto each conn through its write mutex.
type Server struct {
	log  zerolog.Logger
	feed *Feed

	mu      sync.Mutex
	rooms   map[string]*Room
	members map[string]map[*client]bool
}

type client struct {
	ws       *websocket.Conn
	wmu      sync.Mutex
	playerID string
	gameID   string
}

// NewServer wires the websocket authority to the feed; judged rounds get a
// feed entry. feed may be nil when no feed surface is mounted.
func NewServer(logger zerolog.Logger, feed *Feed) *Server {
	return &Server{
		log:     logger,
		feed:    feed,
		rooms:   make(map[string]*Room),
		members: make(map[string]map[*client]bool),
	}
}

// Handle upgrades one websocket connection and services it until the peer
// goes away.
func (s *Server) Handle(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		return
	}
	c := &client{ws: ws}
	defer ws.Close(websocket.StatusNormalClosure, "bye")
	defer s.dropClient(c)

	s.log.Info().Msg("client connected")
	for {
		_, data, err := ws.Read(r.Context())
		if err != nil {
			s.log.Info().Msg("client disconnected")
			return
		}
		var env socket.Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
			continue
		}
		s.dispatch(c, env.Event, env.Data)
	}
}

func (s *Server) dispatch(c *client, event string, data json.RawMessage) {
	s.log.Info().Str("event", event).Msg("command")
	switch event {
	case game.CmdCreateGame:
		s.createGame(c, data)
	case game.CmdJoinGame:
		s.joinGame(c, data)
	case game.CmdStartGame:
		s.startGame(c, data)
	case game.CmdSubmitCards:
		s.submitCards(c, data)
	case game.CmdSelectWinner:
		s.selectWinner(c, data)
	case game.CmdRequestAIJoin:
		s.requestAIJoin(c, data)
	case game.CmdSendMessage:
		s.sendMessage(c, data)
	default:
		// Unknown commands are dropped, mirroring the client's own policy.
	}
}

func (s *Server) createGame(c *client, data json.RawMessage) {
	var payload struct {
		PlayerName string `json:"player_name"`
		Settings   struct {
			PointsToWin int `json:"points_to_win"`
		} `json:"settings"`
	}
	_ = json.Unmarshal(data, &payload)
	if payload.PlayerName == "" {
		s.fail(c, "player_name is required")
		return
	}

	room := NewRoom(payload.Settings.PointsToWin)
	playerID := uuid.NewString()
	if _, err := room.AddPlayer(playerID, payload.PlayerName); err != nil {
		s.fail(c, err.Error())
		return
	}

	s.mu.Lock()
	s.rooms[room.ID()] = room
	s.mu.Unlock()
	s.register(c, room.ID(), playerID)

	s.emit(c, game.EvtGameCreated, map[string]any{
		"game_id":    room.ID(),
		"player_id":  playerID,
		"game_state": room.StateFor(playerID),
	})
}

func (s *Server) joinGame(c *client, data json.RawMessage) {
	var payload struct {
		GameID     string `json:"game_id"`
		PlayerName string `json:"player_name"`
	}
	_ = json.Unmarshal(data, &payload)
	room := s.room(payload.GameID)
	if room == nil {
		s.fail(c, "Game not found")
		return
	}
	playerID := uuid.NewString()
	p, err := room.AddPlayer(playerID, payload.PlayerName)
	if err != nil {
		s.fail(c, "Cannot join game")
		return
	}
	s.register(c, room.ID(), playerID)

	// The join cue goes to the whole room before the joiner's own ack; the
	// ack carries the full state so ordering between them is harmless.
	s.broadcast(room.ID(), game.EvtPlayerJoined, map[string]any{"player": p})
	s.emit(c, game.EvtGameJoined, map[string]any{
		"game_id":    room.ID(),
		"player_id":  playerID,
		"game_state": room.StateFor(playerID),
	})
	s.pushStates(room)
}

func (s *Server) startGame(c *client, data json.RawMessage) {
	room := s.roomFromPayload(data)
	if room == nil {
		s.fail(c, "Game not found")
		return
	}
	num, err := room.Start()
	if err != nil {
		s.fail(c, "Cannot start game")
		return
	}
	s.broadcast(room.ID(), game.EvtRoundStarted, map[string]any{"round_number": num})
	s.pushStates(room)
	go s.runAITurns(room)
}

func (s *Server) submitCards(c *client, data json.RawMessage) {
	var payload struct {
		GameID   string   `json:"game_id"`
		PlayerID string   `json:"player_id"`
		CardIDs  []string `json:"card_ids"`
	}
	_ = json.Unmarshal(data, &payload)
	room := s.room(payload.GameID)
	if room == nil {
		s.fail(c, "Game not found")
		return
	}
	judging, err := room.Submit(payload.PlayerID, payload.CardIDs)
	if err != nil {
		s.fail(c, "Cannot submit cards")
		return
	}
	s.broadcast(room.ID(), game.EvtCardsSubmitted, map[string]any{
		"player_id":   payload.PlayerID,
		"player_name": room.PlayerName(payload.PlayerID),
		"count":       len(payload.CardIDs),
	})
	s.pushStates(room)
	if judging {
		s.enterJudging(room)
	}
}

func (s *Server) selectWinner(c *client, data json.RawMessage) {
	var payload struct {
		GameID            string `json:"game_id"`
		PlayerID          string `json:"player_id"`
		WinningSubmission int    `json:"winning_submission"`
	}
	_ = json.Unmarshal(data, &payload)
	room := s.room(payload.GameID)
	if room == nil {
		s.fail(c, "Game not found")
		return
	}
	if err := s.finishRound(room, payload.PlayerID, payload.WinningSubmission); err != nil {
		s.fail(c, "Cannot select winner")
	}
}

func (s *Server) requestAIJoin(c *client, data json.RawMessage) {
	var payload struct {
		GameID      string `json:"game_id"`
		Personality string `json:"personality"`
	}
	_ = json.Unmarshal(data, &payload)
	room := s.room(payload.GameID)
	if room == nil {
		s.fail(c, "Game not found")
		return
	}
	if payload.Personality == "" {
		payload.Personality = game.DefaultPersonality
	}
	name := fmt.Sprintf("%s (%s)", aiNames[rand.Intn(len(aiNames))], payload.Personality)
	p, err := room.AddAI(uuid.NewString(), name, payload.Personality)
	if err != nil {
		s.fail(c, "Cannot add AI player")
		return
	}
	s.broadcast(room.ID(), game.EvtPlayerJoined, map[string]any{"player": p})
	s.pushStates(room)
}

func (s *Server) sendMessage(c *client, data json.RawMessage) {
	var payload struct {
		GameID    string `json:"game_id"`
		PlayerID  string `json:"player_id"`
		Message   string `json:"message"`
		Timestamp string `json:"timestamp"`
	}
	_ = json.Unmarshal(data, &payload)
	room := s.room(payload.GameID)
	if room == nil {
		return
	}
	s.broadcast(room.ID(), game.EvtChatMessage, map[string]any{
		"player_id":   payload.PlayerID,
		"player_name": room.PlayerName(payload.PlayerID),
		"message":     payload.Message,
		"timestamp":   payload.Timestamp,
	})
}

// runAITurns lets every pending AI player submit after a short think delay.
func (s *Server) runAITurns(room *Room) {
	time.Sleep(aiThinkDelay)
	for id, cardIDs := range room.PendingAI() {
		judging, err := room.Submit(id, cardIDs)
		if err != nil {
			continue
		}
		s.broadcast(room.ID(), game.EvtCardsSubmitted, map[string]any{
			"player_id":   id,
			"player_name": room.PlayerName(id),
			"count":       len(cardIDs),
		})
		s.pushStates(room)
		if judging {
			s.enterJudging(room)
			return
		}
	}
}

func (s *Server) enterJudging(room *Room) {
	s.broadcast(room.ID(), game.EvtJudgingPhase, nil)
	s.pushStates(room)

	// Fake the media pipeline: each submission's clip "finishes" on its own
	// timer, so clients see partial, out-of-order index patches like they
	// would in production.
	count := room.SubmissionCount()
	for i := 0; i < count; i++ {
		i := i
		delay := mediaDelay + time.Duration(rand.Intn(1500))*time.Millisecond
		time.AfterFunc(delay, func() {
			url := fmt.Sprintf("https://media.local/%s/round-sub-%d.mp4", room.ID(), i)
			if room.SetMediaURL(i, url) {
				s.broadcast(room.ID(), game.EvtSubmissionVideosReady, map[string]any{
					"videos": map[int]string{i: url},
				})
			}
		})
	}

	if czarID, isAI := room.Czar(); isAI {
		time.AfterFunc(aiJudgeDelay, func() {
			n := room.SubmissionCount()
			if n == 0 {
				return
			}
			_ = s.finishRound(room, czarID, rand.Intn(n))
		})
	}
}

func (s *Server) finishRound(room *Room, czarID string, index int) error {
	winner, gameOver, err := room.SelectWinner(czarID, index)
	if err != nil {
		return err
	}
	s.broadcast(room.ID(), game.EvtWinnerSelected, map[string]any{
		"winner_id":   winner.ID,
		"winner_name": winner.Name,
	})
	s.pushStates(room)
	if s.feed != nil {
		if black, whites, name, ok := room.WinningEntry(); ok {
			url := fmt.Sprintf("https://media.local/%s/winner-%d.mp4", room.ID(), index)
			s.feed.Add(black, whites, name, url)
		}
	}
	if gameOver {
		return nil
	}
	time.AfterFunc(nextRoundWait, func() {
		num, err := room.NextRound()
		if err != nil {
			return
		}
		s.broadcast(room.ID(), game.EvtRoundStarted, map[string]any{"round_number": num})
		s.pushStates(room)
		go s.runAITurns(room)
	})
	return nil
}

// pushStates sends each connected member its personalized full state. This
// is the authoritative follow-up to every cue event.
func (s *Server) pushStates(room *Room) {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.members[room.ID()]))
	for c := range s.members[room.ID()] {
		clients = append(clients, c)
	}
	s.mu.Unlock()
	for _, c := range clients {
		s.emit(c, game.EvtGameState, room.StateFor(c.playerID))
	}
}

func (s *Server) broadcast(gameID, event string, payload any) {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.members[gameID]))
	for c := range s.members[gameID] {
		clients = append(clients, c)
	}
	s.mu.Unlock()
	for _, c := range clients {
		s.emit(c, event, payload)
	}
}

func (s *Server) emit(c *client, event string, payload any) {
	b, err := socket.EncodeEnvelope(event, payload)
	if err != nil {
		s.log.Error().Err(err).Str("event", event).Msg("encode failed")
		return
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := c.ws.Write(ctx, websocket.MessageText, b); err != nil {
		s.log.Debug().Err(err).Str("event", event).Msg("write failed")
	}
}

func (s *Server) fail(c *client, message string) {
	s.emit(c, game.EvtError, map[string]any{"message": message})
}

func (s *Server) register(c *client, gameID, playerID string) {
	s.mu.Lock()
	c.gameID = gameID
	c.playerID = playerID
	if s.members[gameID] == nil {
		s.members[gameID] = make(map[*client]bool)
	}
	s.members[gameID][c] = true
	s.mu.Unlock()
}

func (s *Server) dropClient(c *client) {
	s.mu.Lock()
	gameID := c.gameID
	if gameID != "" {
		delete(s.members[gameID], c)
	}
	s.mu.Unlock()
	if gameID == "" {
		return
	}
	room := s.room(gameID)
	if room == nil {
		return
	}
	if name, ok := room.SetConnected(c.playerID, false); ok {
		s.broadcast(gameID, game.EvtPlayerLeft, map[string]any{
			"player_id":   c.playerID,
			"player_name": name,
		})
		s.pushStates(room)
	}
}

func (s *Server) room(id string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms[id]
}

func (s *Server) roomFromPayload(data json.RawMessage) *Room {
	var payload struct {
		GameID string `json:"game_id"`
	}
	_ = json.Unmarshal(data, &payload)
	return s.room(payload.GameID)
}
