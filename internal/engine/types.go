package engine

import (
	"github.com/jjoak3/dumptrick/internal/cards"
)

// Phase is the top-level game lifecycle state.
type Phase string

const (
	PhaseNotStarted Phase = "NOT_STARTED"
	PhaseInProgress Phase = "IN_PROGRESS"
	PhaseComplete   Phase = "GAME_COMPLETE"
)

// TableSeats is the fixed number of seats at the table.
const TableSeats = 4

// HandSize is the number of cards dealt to each seat per round.
const HandSize = cards.DeckSize / TableSeats

// NumRounds is the number of rounds in a full game.
const NumRounds = 5

// Action is a decoded inbound command from a client.
type Action struct {
	Action string `json:"action"`
	Card   string `json:"card,omitempty"`
	Name   string `json:"name,omitempty"`
}

// Recognized Action.Action values.
const (
	ActionStartGame   = "start_game"
	ActionPlayCard    = "play_card"
	ActionRestartGame = "restart_game"
	ActionUpdateName  = "update_name"
)

// Play is a single (player, card) entry within a trick, in play order.
type Play struct {
	PlayerID string
	Card     cards.Card
}

// Trick is one cycle of four sequential plays. The lead suit is fixed by the
// first play; WinnerID and WinningCard track the current best lead-suit play
// and are final once all four plays are in.
type Trick struct {
	Plays       []Play
	LeadSuit    uint8
	HasLead     bool
	WinnerID    string
	WinningCard cards.Card
	IsLast      bool // set when this trick emptied every hand
}

// addPlay appends a play, fixing the lead suit on the first card and keeping
// the running winner current.
func (t *Trick) addPlay(playerID string, card cards.Card) {
	if !t.HasLead {
		t.LeadSuit = card.Suit()
		t.HasLead = true
	}
	if card.Suit() == t.LeadSuit && (t.WinnerID == "" || card.Rank() > t.WinningCard.Rank()) {
		t.WinnerID = playerID
		t.WinningCard = card
	}
	t.Plays = append(t.Plays, Play{PlayerID: playerID, Card: card})
}

// Complete reports whether all four plays are in.
func (t *Trick) Complete() bool {
	return len(t.Plays) == TableSeats
}

// Cards returns the trick's cards in play order.
func (t *Trick) Cards() []cards.Card {
	out := make([]cards.Card, len(t.Plays))
	for i, p := range t.Plays {
		out[i] = p.Card
	}
	return out
}

// PlayerType distinguishes seated humans from server-driven bots.
type PlayerType uint8

const (
	PlayerHuman PlayerType = iota
	PlayerBot
)

// Player is the engine-owned state for one seat: durable identity, hand,
// archived tricks for the current round, and the per-round score history.
// The session registry holds only the id → connection mapping.
type Player struct {
	ID        string
	Name      string
	Seat      int
	Type      PlayerType
	Connected bool
	IsWinner  bool

	Hand   []cards.Card
	Tricks []*Trick
	Scores []int
}

// IsBot reports whether the seat is server-driven.
func (p *Player) IsBot() bool { return p.Type == PlayerBot }

// TotalScore is the sum of the per-round score history.
func (p *Player) TotalScore() int {
	total := 0
	for _, s := range p.Scores {
		total += s
	}
	return total
}

// HasSuit reports whether the player still holds a card of the given suit.
func (p *Player) HasSuit(suit uint8) bool {
	for _, c := range p.Hand {
		if c.Suit() == suit {
			return true
		}
	}
	return false
}

// removeCard deletes one card from the hand. Returns false if absent.
func (p *Player) removeCard(card cards.Card) bool {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// takeTrick archives a resolved trick into the player's trick list.
func (p *Player) takeTrick(t *Trick) {
	p.Tricks = append(p.Tricks, t)
}

// resetForRestart clears everything but identity and seat.
func (p *Player) resetForRestart() {
	p.Hand = nil
	p.Tricks = nil
	p.Scores = nil
	p.IsWinner = false
}
