// Package stub is an in-memory stand-in for the remote game authority, good
// enough to run the client end to end locally: rooms, dealt hands, judge
// rotation, scoring and fake media completion. It enforces just enough rules
// to keep a demo coherent; it is not the production rule engine.
package stub

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/absurdly-visual/client-go/internal/game"
)

var (
	ErrCannotJoin   = errors.New("cannot join game")
	ErrCannotStart  = errors.New("cannot start game")
	ErrCannotSubmit = errors.New("cannot submit cards")
	ErrCannotJudge  = errors.New("cannot select winner")
	ErrCannotAddAI  = errors.New("cannot add AI player")
)

const (
	defaultPointsToWin = 5
	defaultHandSize    = 7
	minPlayers         = 3
)

type Room struct {
	mu sync.Mutex

	id          string
	phase       game.Phase
	players     []*player // insertion order = join order
	pointsToWin int
	handSize    int

	blackDraw []game.PromptCard
	whiteDraw []game.AnswerCard

	roundNum int
	czarIx   int
	round    *roundState
}

type player struct {
	id          string
	name        string
	typ         game.PlayerType
	personality string
	score       int
	connected   bool
	hand        []game.AnswerCard
	submitted   bool
}

type roundState struct {
	number      int
	black       game.PromptCard
	czarID      string
	submissions []submission
	winnerID    string
	videoURL    string
}

type submission struct {
	playerID string
	cards    []game.AnswerCard
	videoURL string
}

func NewRoom(pointsToWin int) *Room {
	if pointsToWin <= 0 {
		pointsToWin = defaultPointsToWin
	}
	r := &Room{
		id:          randomCode(6),
		phase:       game.PhaseLobby,
		pointsToWin: pointsToWin,
		handSize:    defaultHandSize,
		blackDraw:   BlackCards(),
		whiteDraw:   WhiteCards(),
	}
	rand.Shuffle(len(r.blackDraw), func(i, j int) { r.blackDraw[i], r.blackDraw[j] = r.blackDraw[j], r.blackDraw[i] })
	rand.Shuffle(len(r.whiteDraw), func(i, j int) { r.whiteDraw[i], r.whiteDraw[j] = r.whiteDraw[j], r.whiteDraw[i] })
	return r
}

func (r *Room) ID() string { return r.id }

func (r *Room) AddPlayer(id, name string) (game.Player, error) {
	return r.add(id, name, game.PlayerHuman, "")
}

func (r *Room) AddAI(id, name, personality string) (game.Player, error) {
	p, err := r.add(id, name, game.PlayerAI, personality)
	if err != nil {
		return p, ErrCannotAddAI
	}
	return p, nil
}

func (r *Room) add(id, name string, typ game.PlayerType, personality string) (game.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != game.PhaseLobby {
		return game.Player{}, ErrCannotJoin
	}
	p := &player{id: id, name: name, typ: typ, personality: personality, connected: true}
	r.players = append(r.players, p)
	return p.public(), nil
}

// Start deals hands and opens round one. The first czar is the first joiner;
// rotation follows join order from there.
func (r *Room) Start() (roundNumber int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != game.PhaseLobby || len(r.players) < minPlayers {
		return 0, ErrCannotStart
	}
	for _, p := range r.players {
		r.deal(p)
	}
	r.czarIx = 0
	r.openRound()
	return r.roundNum, nil
}

// Submit plays the given cards from the player's hand. Reports whether the
// round just moved to judging (all non-czar players in).
func (r *Room) Submit(playerID string, cardIDs []string) (judging bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != game.PhasePlaying || r.round == nil {
		return false, ErrCannotSubmit
	}
	p := r.find(playerID)
	if p == nil || p.id == r.round.czarID || p.submitted {
		return false, ErrCannotSubmit
	}
	if len(cardIDs) != r.round.black.Pick {
		return false, ErrCannotSubmit
	}
	cards := make([]game.AnswerCard, 0, len(cardIDs))
	for _, cid := range cardIDs {
		card, ok := p.take(cid)
		if !ok {
			return false, ErrCannotSubmit
		}
		cards = append(cards, card)
	}
	p.submitted = true
	r.round.submissions = append(r.round.submissions, submission{playerID: p.id, cards: cards})

	if len(r.round.submissions) >= len(r.players)-1 {
		// Shuffle once so submission order gives nothing away; the order is
		// stable from here on, clients address submissions by index.
		rand.Shuffle(len(r.round.submissions), func(i, j int) {
			r.round.submissions[i], r.round.submissions[j] = r.round.submissions[j], r.round.submissions[i]
		})
		r.phase = game.PhaseJudging
		return true, nil
	}
	return false, nil
}

// SelectWinner records the czar's choice and scores it. gameOver is true
// once the winner reaches pointsToWin.
func (r *Room) SelectWinner(czarID string, index int) (winner game.Player, gameOver bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != game.PhaseJudging || r.round == nil || czarID != r.round.czarID {
		return game.Player{}, false, ErrCannotJudge
	}
	if index < 0 || index >= len(r.round.submissions) {
		return game.Player{}, false, ErrCannotJudge
	}
	w := r.find(r.round.submissions[index].playerID)
	if w == nil {
		return game.Player{}, false, ErrCannotJudge
	}
	w.score++
	r.round.winnerID = w.id
	if w.score >= r.pointsToWin {
		r.phase = game.PhaseGameEnd
		return w.public(), true, nil
	}
	r.phase = game.PhaseRoundEnd
	return w.public(), false, nil
}

// NextRound rotates the czar and opens the next round.
func (r *Room) NextRound() (roundNumber int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != game.PhaseRoundEnd {
		return 0, ErrCannotStart
	}
	r.czarIx = (r.czarIx + 1) % len(r.players)
	r.openRound()
	return r.roundNum, nil
}

// SetMediaURL attaches a fake generated-media URL to one submission by
// position, mirroring how the production pipeline completes out of order.
func (r *Room) SetMediaURL(index int, url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.round == nil || index < 0 || index >= len(r.round.submissions) {
		return false
	}
	r.round.submissions[index].videoURL = url
	return true
}

// SetConnected flags a player's presence. The roster itself never shrinks;
// clients learn about departures from player_left cues plus state pushes.
func (r *Room) SetConnected(playerID string, connected bool) (name string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(playerID)
	if p == nil {
		return "", false
	}
	p.connected = connected
	return p.name, true
}

// Czar returns the current judge's id and whether that player is an AI.
func (r *Room) Czar() (id string, isAI bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.round == nil {
		return "", false
	}
	p := r.find(r.round.czarID)
	return r.round.czarID, p != nil && p.typ == game.PlayerAI
}

// PendingAI lists AI players that still owe a submission this round, with
// the cards they would play.
func (r *Room) PendingAI() map[string][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string][]string{}
	if r.phase != game.PhasePlaying || r.round == nil {
		return out
	}
	for _, p := range r.players {
		if p.typ != game.PlayerAI || p.submitted || p.id == r.round.czarID {
			continue
		}
		n := r.round.black.Pick
		if n > len(p.hand) {
			continue
		}
		ids := make([]string, 0, n)
		for _, c := range p.hand[:n] {
			ids = append(ids, c.ID)
		}
		out[p.id] = ids
	}
	return out
}

func (r *Room) SubmissionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.round == nil {
		return 0
	}
	return len(r.round.submissions)
}

func (r *Room) Phase() game.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// StateFor builds the personalized full-state push for one player: their own
// hand, everyone's public player record, and the round with submitter ids
// withheld from the czar while judging is in progress.
func (r *Room) StateFor(playerID string) *game.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := &game.Snapshot{
		GameID:      r.id,
		Phase:       r.phase,
		PointsToWin: r.pointsToWin,
		Players:     make([]game.Player, 0, len(r.players)),
	}
	for _, p := range r.players {
		snap.Players = append(snap.Players, p.public())
	}
	if me := r.find(playerID); me != nil {
		snap.YourHand = append([]game.AnswerCard(nil), me.hand...)
	}
	if r.round != nil && r.phase != game.PhaseLobby && r.phase != game.PhaseGameEnd {
		hideAuthors := r.phase == game.PhaseJudging && playerID == r.round.czarID
		rd := &game.Round{
			RoundNumber:      r.round.number,
			BlackCard:        r.round.black,
			CzarID:           r.round.czarID,
			SubmissionsCount: len(r.round.submissions),
			WinnerID:         r.round.winnerID,
			VideoURL:         r.round.videoURL,
		}
		for _, sub := range r.round.submissions {
			out := game.Submission{
				Cards:    append([]game.AnswerCard(nil), sub.cards...),
				VideoURL: sub.videoURL,
			}
			if !hideAuthors {
				out.PlayerID = sub.playerID
			}
			rd.Submissions = append(rd.Submissions, out)
		}
		snap.CurrentRound = rd
	}
	return snap
}

// WinningEntry describes the judged round for the feed: the prompt, the
// winning cards and the winner's name. ok is false until a winner is picked.
func (r *Room) WinningEntry() (blackText string, whiteTexts []string, winnerName string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.round == nil || r.round.winnerID == "" {
		return "", nil, "", false
	}
	w := r.find(r.round.winnerID)
	if w == nil {
		return "", nil, "", false
	}
	for _, sub := range r.round.submissions {
		if sub.playerID != r.round.winnerID {
			continue
		}
		texts := make([]string, 0, len(sub.cards))
		for _, c := range sub.cards {
			texts = append(texts, c.Text)
		}
		return r.round.black.Text, texts, w.name, true
	}
	return "", nil, "", false
}

func (r *Room) PlayerIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p.id)
	}
	return out
}

func (r *Room) PlayerName(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.find(id); p != nil {
		return p.name
	}
	return ""
}

// openRound draws a black card, tops hands back up and resets per-round
// submission tracking. Caller holds r.mu.
func (r *Room) openRound() {
	r.roundNum++
	black := r.drawBlack()
	for _, p := range r.players {
		p.submitted = false
		r.deal(p)
	}
	r.round = &roundState{
		number: r.roundNum,
		black:  black,
		czarID: r.players[r.czarIx].id,
	}
	r.phase = game.PhasePlaying
}

func (r *Room) deal(p *player) {
	for len(p.hand) < r.handSize {
		if len(r.whiteDraw) == 0 {
			r.whiteDraw = WhiteCards()
			rand.Shuffle(len(r.whiteDraw), func(i, j int) { r.whiteDraw[i], r.whiteDraw[j] = r.whiteDraw[j], r.whiteDraw[i] })
		}
		p.hand = append(p.hand, r.whiteDraw[0])
		r.whiteDraw = r.whiteDraw[1:]
	}
}

func (r *Room) drawBlack() game.PromptCard {
	if len(r.blackDraw) == 0 {
		r.blackDraw = BlackCards()
		rand.Shuffle(len(r.blackDraw), func(i, j int) { r.blackDraw[i], r.blackDraw[j] = r.blackDraw[j], r.blackDraw[i] })
	}
	card := r.blackDraw[0]
	r.blackDraw = r.blackDraw[1:]
	return card
}

func (r *Room) find(id string) *player {
	for _, p := range r.players {
		if p.id == id {
			return p
		}
	}
	return nil
}

func (p *player) public() game.Player {
	return game.Player{
		ID:          p.id,
		Name:        p.name,
		Type:        p.typ,
		Score:       p.score,
		IsConnected: p.connected,
		CardCount:   len(p.hand),
	}
}

func (p *player) take(cardID string) (game.AnswerCard, bool) {
	for i, c := range p.hand {
		if c.ID == cardID {
			p.hand = append(p.hand[:i], p.hand[i+1:]...)
			return c, true
		}
	}
	return game.AnswerCard{}, false
}

func randomCode(n int) string {
	letters := []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
