package game

type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhasePlaying  Phase = "playing"
	PhaseJudging  Phase = "judging"
	PhaseRoundEnd Phase = "round_end"
	PhaseGameEnd  Phase = "game_end"
)

type PlayerType string

const (
	PlayerHuman PlayerType = "human"
	PlayerAI    PlayerType = "ai"
)

type Player struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        PlayerType `json:"type"`
	Score       int        `json:"score"`
	IsConnected bool       `json:"is_connected"`
	CardCount   int        `json:"card_count,omitempty"`
}

// PromptCard is a black card; Pick is how many answer cards it calls for.
type PromptCard struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Pack string `json:"pack"`
	Pick int    `json:"pick"`
}

// AnswerCard is a white card.
type AnswerCard struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Pack string `json:"pack"`
	NSFW bool   `json:"nsfw"`
}

// Submission's PlayerID is withheld by the server while the czar is judging.
// VideoURL arrives strictly later than the submission itself, addressed by
// position in the round's submission list.
type Submission struct {
	PlayerID string       `json:"player_id,omitempty"`
	Cards    []AnswerCard `json:"cards"`
	VideoURL string       `json:"video_url,omitempty"`
}

type Round struct {
	RoundNumber      int          `json:"round_number"`
	BlackCard        PromptCard   `json:"black_card"`
	CzarID           string       `json:"czar_id"`
	SubmissionsCount int          `json:"submissions_count"`
	Submissions      []Submission `json:"submissions"`
	WinnerID         string       `json:"winner_id,omitempty"`
	VideoURL         string       `json:"video_url,omitempty"`
}

// Snapshot is the single authoritative local copy of shared game state. The
// server owns the truth; the client only ever replaces or patches it via
// Apply and never edits it in place.
type Snapshot struct {
	GameID       string       `json:"game_id"`
	Phase        Phase        `json:"state"`
	Players      []Player     `json:"players"`
	YourHand     []AnswerCard `json:"your_hand"`
	CurrentRound *Round       `json:"current_round"`
	PointsToWin  int          `json:"points_to_win"`
}

// PlayerByID returns the player with the given id, or nil.
func (s *Snapshot) PlayerByID(id string) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// IsCzar reports whether the given player judges the current round.
func (s *Snapshot) IsCzar(playerID string) bool {
	return s.CurrentRound != nil && s.CurrentRound.CzarID == playerID
}
