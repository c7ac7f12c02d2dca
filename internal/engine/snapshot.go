package engine

import "github.com/jjoak3/dumptrick/internal/cards"

// StateFrame is the outbound state message, tailored to one observer: only
// the recipient's own hand is included, every other seat carries a hand size
// only.
type StateFrame struct {
	Type      string                `json:"type"`
	PlayerID  string                `json:"player_id"`
	GameState GameStateView         `json:"game_state"`
	Players   map[string]PlayerView `json:"players"`
}

// PlayView is one (player, card) pair of a trick on the wire.
type PlayView struct {
	PlayerID string `json:"player_id"`
	Card     string `json:"card"`
}

// TrickView is a trick as clients render it.
type TrickView struct {
	Plays       []PlayView `json:"plays"`
	LeadingSuit string     `json:"leading_suit"`
	WinnerID    string     `json:"winner_id,omitempty"`
}

// GameStateView is the table-level portion of a state frame.
type GameStateView struct {
	GamePhase       string      `json:"game_phase"`
	CurrentRound    int         `json:"current_round"`
	CurrentPlayerID string      `json:"current_player_id"`
	CurrentTrick    TrickView   `json:"current_trick"`
	CompletedTricks []TrickView `json:"completed_tricks"`
	TrickScores     []int       `json:"trick_scores,omitempty"`
}

// PlayerView is one seat's state as seen by a specific observer.
type PlayerView struct {
	Name       string   `json:"name"`
	Seat       int      `json:"seat"`
	Connected  bool     `json:"connected"`
	IsBot      bool     `json:"is_bot"`
	IsWinner   bool     `json:"is_winner"`
	Scores     []int    `json:"scores"`
	TotalScore int      `json:"total_score"`
	Hand       []string `json:"hand,omitempty"` // recipient's own seat only
	HandSize   int      `json:"hand_size"`
	TricksWon  int      `json:"tricks_won"`
}

// Snapshot builds the state frame for one observer.
func (g *Game) Snapshot(forPlayer string) StateFrame {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked(forPlayer)
}

// snapshotLocked assumes the game mutex is held.
func (g *Game) snapshotLocked(forPlayer string) StateFrame {
	frame := StateFrame{
		Type:     "state",
		PlayerID: forPlayer,
		GameState: GameStateView{
			GamePhase:       string(g.phase),
			CurrentRound:    g.round,
			CurrentTrick:    trickView(g.trick, false),
			CompletedTricks: make([]TrickView, 0, len(g.completed)),
			TrickScores:     g.lastTrickScores,
		},
		Players: make(map[string]PlayerView, len(g.players)),
	}

	if g.phase == PhaseInProgress {
		if current := g.seats[g.turnIdx]; current != nil {
			frame.GameState.CurrentPlayerID = current.ID
		}
	}
	for _, t := range g.completed {
		frame.GameState.CompletedTricks = append(frame.GameState.CompletedTricks, trickView(t, true))
	}

	for id, p := range g.players {
		view := PlayerView{
			Name:       p.Name,
			Seat:       p.Seat,
			Connected:  p.Connected || p.IsBot(),
			IsBot:      p.IsBot(),
			IsWinner:   p.IsWinner,
			Scores:     append([]int(nil), p.Scores...),
			TotalScore: p.TotalScore(),
			HandSize:   len(p.Hand),
			TricksWon:  len(p.Tricks),
		}
		if id == forPlayer {
			view.Hand = cards.Tokens(p.Hand)
		}
		frame.Players[id] = view
	}
	return frame
}

func trickView(t *Trick, resolved bool) TrickView {
	view := TrickView{Plays: []PlayView{}}
	if t == nil {
		return view
	}
	for _, p := range t.Plays {
		view.Plays = append(view.Plays, PlayView{PlayerID: p.PlayerID, Card: p.Card.String()})
	}
	if t.HasLead {
		view.LeadingSuit = cards.SuitToken(t.LeadSuit)
	}
	if resolved {
		view.WinnerID = t.WinnerID
	}
	return view
}
