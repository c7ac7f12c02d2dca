package engine

import "fmt"

// ResolveTrick determines the winner of a completed trick: the highest-rank
// card of the lead suit wins; off-suit cards can never win. Ties are
// impossible because all 52 cards are distinct. A trick with other than four
// plays is an internal invariant violation, not an expected runtime state.
func ResolveTrick(t *Trick) (string, error) {
	if len(t.Plays) != TableSeats {
		return "", fmt.Errorf("trick resolved with %d plays, want %d", len(t.Plays), TableSeats)
	}

	winnerID := ""
	var bestRank uint8
	for _, p := range t.Plays {
		if p.Card.Suit() != t.LeadSuit {
			continue
		}
		if winnerID == "" || p.Card.Rank() > bestRank {
			winnerID = p.PlayerID
			bestRank = p.Card.Rank()
		}
	}
	if winnerID == "" {
		// Unreachable: the leader always plays the lead suit.
		return "", fmt.Errorf("trick has no play of the lead suit")
	}
	return winnerID, nil
}
