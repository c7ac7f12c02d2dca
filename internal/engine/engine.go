// Package engine is the authoritative state machine for a single table:
// phases, rounds, turn order, play legality, trick resolution and scoring.
// Every inbound action is serialized through the game mutex, and each
// accepted mutation is broadcast to all live connections before the next
// action is applied.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jjoak3/dumptrick/internal/cache"
	"github.com/jjoak3/dumptrick/internal/cards"
)

// Config carries the engine's tunables.
type Config struct {
	// BotFill fills empty seats with bot players on start_game. When false,
	// start_game requires exactly four seated humans.
	BotFill bool
	// Expiration resets an in-progress game back to the lobby once it is
	// older than this. Zero disables expiration.
	Expiration time.Duration
	// Seed fixes the shuffle sequence; zero seeds from the clock.
	Seed int64

	Historian *cache.Historian
	Logger    *logrus.Logger
}

// Game is the single shared table. All mutation goes through HandleAction,
// Join, Leave and Reset, each of which takes the game mutex; a fresh
// instance is constructible for tests without any network layer.
type Game struct {
	ID uuid.UUID

	mu  sync.Mutex
	log *logrus.Logger
	rng *rand.Rand

	botFill     bool
	expiration  time.Duration
	historian   *cache.Historian
	actionIndex int

	phase           Phase
	round           int // 1..NumRounds while in progress
	players         map[string]*Player
	seats           [TableSeats]*Player
	turnIdx         int // seat index of the player to act
	roundLeadSeat   int // opening leader seat for the current round
	trick           *Trick
	completed       []*Trick // resolved tricks of the current round
	lastTrickScores []int    // per-card penalties of the last resolved trick
	startedAt       time.Time

	// BroadcastToPlayerFn delivers a state frame to one live connection.
	// The engine calls it synchronously under the game mutex after every
	// accepted mutation, so clients observe a total order of states.
	BroadcastToPlayerFn func(playerID string, frame StateFrame)
}

// New constructs an empty table in the lobby phase.
func New(cfg Config) *Game {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Game{
		ID:         uuid.New(),
		log:        logger,
		rng:        rand.New(rand.NewSource(seed)),
		botFill:    cfg.BotFill,
		expiration: cfg.Expiration,
		historian:  cfg.Historian,
		phase:      PhaseNotStarted,
		players:    make(map[string]*Player),
	}
}

// NewPlayerID issues a fresh durable player identity.
func NewPlayerID() string {
	return uuid.NewString()
}

// shortID is the display suffix derived from a player id.
func shortID(id string) string {
	if len(id) > 4 {
		id = id[:4]
	}
	return strings.ToUpper(id)
}

// Join seats a new identity or resumes an existing one. A new identity takes
// the lowest free seat; a known identity keeps its seat, hand and scores and
// is only flipped back to connected. A fifth distinct identity is rejected.
func (g *Game) Join(playerID string) (*Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if p, ok := g.players[playerID]; ok {
		p.Connected = true
		g.log.WithFields(logrus.Fields{"game": g.ID, "player": playerID}).Info("player reconnected")
		g.logAction(playerID, "player_reconnect", nil)
		g.broadcastLocked()
		return p, nil
	}

	seat := -1
	for i := range g.seats {
		if g.seats[i] == nil {
			seat = i
			break
		}
	}
	if seat == -1 {
		return nil, ErrTableFull
	}

	p := &Player{
		ID:        playerID,
		Name:      "Player #" + shortID(playerID),
		Seat:      seat,
		Type:      PlayerHuman,
		Connected: true,
	}
	g.players[playerID] = p
	g.seats[seat] = p
	g.log.WithFields(logrus.Fields{"game": g.ID, "player": playerID, "seat": seat}).Info("player joined")
	g.logAction(playerID, "player_join", map[string]interface{}{"seat": seat})
	g.broadcastLocked()
	return p, nil
}

// Leave handles a dropped connection. In the lobby the seat is freed
// entirely; mid-game only the liveness flag flips and the seat, hand and
// scores stay while play waits for the reconnect. Returns true when the
// player was removed from the table.
func (g *Game) Leave(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok {
		return false
	}
	if g.phase == PhaseNotStarted {
		delete(g.players, playerID)
		g.seats[p.Seat] = nil
		g.log.WithFields(logrus.Fields{"game": g.ID, "player": playerID}).Info("player left lobby")
		g.logAction(playerID, "player_leave", nil)
		g.broadcastLocked()
		return true
	}
	p.Connected = false
	g.log.WithFields(logrus.Fields{"game": g.ID, "player": playerID}).Info("player disconnected")
	g.logAction(playerID, "player_disconnect", nil)
	g.broadcastLocked()
	return false
}

// HandleAction applies one inbound command. On rejection the canonical state
// is unchanged and the error describes why; on success the new state has
// been broadcast to every live connection, including any bot turns played
// off the back of the action.
func (g *Game) HandleAction(playerID string, act Action) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var err error
	switch act.Action {
	case ActionStartGame:
		err = g.startGame()
	case ActionPlayCard:
		err = g.playCard(playerID, act.Card)
	case ActionRestartGame:
		err = g.restartGame()
	case ActionUpdateName:
		err = g.updateName(playerID, act.Name)
	default:
		err = fmt.Errorf("action %q: %w", act.Action, ErrUnknownAction)
	}
	if err != nil {
		return err
	}

	g.logAction(playerID, act.Action, map[string]interface{}{"card": act.Card, "name": act.Name})
	g.broadcastLocked()
	g.playBotTurns()
	return nil
}

// Known reports whether an identity currently holds a seat.
func (g *Game) Known(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.players[playerID]
	return ok
}

// Expired reports whether an in-progress game has outlived the configured
// expiration window.
func (g *Game) Expired() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase != PhaseNotStarted && g.expiration > 0 && time.Since(g.startedAt) > g.expiration
}

// Reset returns the table to the lobby, retaining human identities and
// clearing scores and hands. Used for expired games.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.restartGame(); err != nil {
		return
	}
	g.logAction("", "game_reset", nil)
	g.broadcastLocked()
}

// --- state transitions (lock held) ---

func (g *Game) startGame() error {
	if g.phase != PhaseNotStarted {
		return fmt.Errorf("start_game in phase %s: %w", g.phase, ErrInvalidPhase)
	}
	if g.botFill {
		g.fillSeatsWithBots()
	}
	if g.seatedCount() != TableSeats {
		return fmt.Errorf("start_game needs %d seated players, have %d: %w",
			TableSeats, g.seatedCount(), ErrInvalidPhase)
	}

	g.round = 1
	g.roundLeadSeat = 0
	g.startedAt = time.Now()
	g.lastTrickScores = nil
	g.dealRound()
	g.phase = PhaseInProgress
	g.log.WithFields(logrus.Fields{"game": g.ID}).Info("game started")
	return nil
}

func (g *Game) fillSeatsWithBots() {
	for i := range g.seats {
		if g.seats[i] != nil {
			continue
		}
		id := NewPlayerID()
		bot := &Player{
			ID:   id,
			Name: "Bot #" + shortID(id),
			Seat: i,
			Type: PlayerBot,
		}
		g.players[id] = bot
		g.seats[i] = bot
		g.log.WithFields(logrus.Fields{"game": g.ID, "player": id, "seat": i}).Info("bot seated")
	}
}

func (g *Game) seatedCount() int {
	n := 0
	for _, p := range g.seats {
		if p != nil {
			n++
		}
	}
	return n
}

// dealRound shuffles a fresh deck, partitions it into four sorted 13-card
// hands, clears the round's trick state and hands the lead to the round's
// opening seat.
func (g *Game) dealRound() {
	deck := cards.NewDeck()
	cards.Shuffle(deck, g.rng)

	for i, p := range g.seats {
		hand := make([]cards.Card, HandSize)
		copy(hand, deck[i*HandSize:(i+1)*HandSize])
		cards.SortHand(hand)
		p.Hand = hand
		p.Tricks = nil
	}

	g.trick = &Trick{}
	g.completed = nil
	g.turnIdx = g.roundLeadSeat
}

func (g *Game) playCard(playerID, token string) error {
	if g.phase != PhaseInProgress {
		return fmt.Errorf("play_card in phase %s: %w", g.phase, ErrInvalidPhase)
	}
	p, ok := g.players[playerID]
	if !ok {
		return fmt.Errorf("player not seated: %w", ErrUnknownAction)
	}
	card, err := cards.Parse(token)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrUnknownAction)
	}
	return g.applyPlay(p, card)
}

// applyPlay validates and applies one play for a seated player. Shared by
// human plays (via playCard) and bot turns.
func (g *Game) applyPlay(p *Player, card cards.Card) error {
	if g.seats[g.turnIdx] != p {
		return fmt.Errorf("player %s played out of turn: %w", p.ID, ErrNotYourTurn)
	}

	holds := false
	for _, c := range p.Hand {
		if c == card {
			holds = true
			break
		}
	}
	if !holds {
		return fmt.Errorf("player %s does not hold %s: %w", p.ID, card, ErrCardNotInHand)
	}
	if g.trick.HasLead && card.Suit() != g.trick.LeadSuit && p.HasSuit(g.trick.LeadSuit) {
		return fmt.Errorf("player %s holds %s but played %s: %w",
			p.ID, cards.SuitToken(g.trick.LeadSuit), card, ErrIllegalFollowSuit)
	}

	p.removeCard(card)
	g.trick.addPlay(p.ID, card)

	if g.trick.Complete() {
		g.finishTrick()
	} else {
		g.turnIdx = (g.turnIdx + 1) % TableSeats
	}
	return nil
}

// finishTrick resolves the completed trick, archives it with the winner,
// hands the winner the next lead, and closes out the round when every hand
// is empty.
func (g *Game) finishTrick() {
	trick := g.trick
	trick.IsLast = g.handsEmpty()

	winnerID, err := ResolveTrick(trick)
	if err != nil {
		// Unreachable from applyPlay; a trick in this state is a bug.
		g.log.WithError(err).WithField("game", g.ID).Error("trick resolution failed, abandoning round")
		g.dealRound()
		return
	}

	winner := g.players[winnerID]
	winner.takeTrick(trick)
	g.completed = append(g.completed, trick)
	g.lastTrickScores = TrickScores(trick, g.round)

	g.turnIdx = winner.Seat
	g.trick = &Trick{}

	g.log.WithFields(logrus.Fields{
		"game":   g.ID,
		"round":  g.round,
		"winner": winnerID,
		"card":   trick.WinningCard.String(),
	}).Debug("trick resolved")

	if trick.IsLast {
		g.finishRound()
	}
}

func (g *Game) handsEmpty() bool {
	for _, p := range g.seats {
		if len(p.Hand) > 0 {
			return false
		}
	}
	return true
}

// finishRound appends each seat's round score, then either rotates the lead
// seat and deals the next round, or finalizes the game after the last one.
func (g *Game) finishRound() {
	for _, p := range g.seats {
		if len(p.Scores) == g.round-1 {
			p.Scores = append(p.Scores, RoundScore(p.Tricks, g.round))
		}
	}
	g.log.WithFields(logrus.Fields{"game": g.ID, "round": g.round}).Info("round scored")

	if g.round == NumRounds {
		seated := make([]*Player, 0, TableSeats)
		for _, p := range g.seats {
			seated = append(seated, p)
		}
		setWinners(seated)
		g.phase = PhaseComplete
		g.log.WithField("game", g.ID).Info("game complete")
		return
	}

	g.round++
	g.roundLeadSeat = (g.roundLeadSeat + 1) % TableSeats
	g.dealRound()
}

// restartGame returns to the lobby: bots leave, humans keep their seats and
// identities, and all scores, hands and tricks are cleared.
func (g *Game) restartGame() error {
	for i, p := range g.seats {
		if p == nil {
			continue
		}
		if p.IsBot() {
			delete(g.players, p.ID)
			g.seats[i] = nil
			continue
		}
		p.resetForRestart()
	}
	g.phase = PhaseNotStarted
	g.round = 0
	g.roundLeadSeat = 0
	g.turnIdx = 0
	g.trick = nil
	g.completed = nil
	g.lastTrickScores = nil
	g.log.WithField("game", g.ID).Info("game restarted")
	return nil
}

func (g *Game) updateName(playerID, name string) error {
	if g.phase != PhaseNotStarted {
		return fmt.Errorf("update_name in phase %s: %w", g.phase, ErrInvalidPhase)
	}
	p, ok := g.players[playerID]
	if !ok {
		return fmt.Errorf("player not seated: %w", ErrUnknownAction)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("update_name requires a name: %w", ErrUnknownAction)
	}
	p.Name = name
	return nil
}

// playBotTurns plays bot seats until the turn reaches a human or the game
// leaves the trick loop, broadcasting after each play.
func (g *Game) playBotTurns() {
	for g.phase == PhaseInProgress {
		bot := g.seats[g.turnIdx]
		if bot == nil || !bot.IsBot() {
			return
		}
		card := chooseBotCard(bot, g.trick)
		if err := g.applyPlay(bot, card); err != nil {
			g.log.WithError(err).WithFields(logrus.Fields{"game": g.ID, "player": bot.ID}).
				Error("bot played an illegal card")
			return
		}
		g.logAction(bot.ID, ActionPlayCard, map[string]interface{}{"card": card.String()})
		g.broadcastLocked()
	}
}

// broadcastLocked pushes a per-observer snapshot to every connected human.
// Lock held by caller.
func (g *Game) broadcastLocked() {
	if g.BroadcastToPlayerFn == nil {
		return
	}
	for _, p := range g.seats {
		if p == nil || !p.Connected || p.IsBot() {
			continue
		}
		g.BroadcastToPlayerFn(p.ID, g.snapshotLocked(p.ID))
	}
}

// logAction queues the accepted action for the historian. Fire-and-forget:
// the game never waits on Redis. Lock held by caller.
func (g *Game) logAction(actorID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	rec := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorID:       actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	if g.historian == nil {
		return
	}
	go func(h *cache.Historian, rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.PublishGameAction(ctx, rec); err != nil {
			g.log.WithError(err).WithFields(logrus.Fields{
				"game":   rec.GameID,
				"action": rec.ActionType,
				"index":  rec.ActionIndex,
			}).Error("failed publishing action record")
		}
	}(g.historian, rec)
}
