package engine

import "github.com/jjoak3/dumptrick/internal/cards"

// Scoring: penalties accumulate with the round number. Round N applies rules
// 1..N over the tricks a player won that round:
//
//	1: +1 per card held in any trick won
//	2: +10 per heart-suited card
//	3: +25 per queen
//	4: +50 per trick containing the king of spades
//	5: +100 for winning the round's last trick

// CardScore returns the penalty a single captured card carries in the given
// round. The last-trick bonus is not per-card and is handled separately.
func CardScore(c cards.Card, round int) int {
	score := 1
	if round >= 2 && c.IsHeart() {
		score += 10
	}
	if round >= 3 && c.IsQueen() {
		score += 25
	}
	if round >= 4 && c == cards.KingOfSpades {
		score += 50
	}
	return score
}

// TrickScores returns the per-card penalty values of a completed trick, in
// play order, with a trailing +100 entry when the round's last trick counts.
// Clients use this for the score reveal at trick completion; summing it gives
// the trick's contribution to the winner's round score.
func TrickScores(t *Trick, round int) []int {
	scores := make([]int, 0, len(t.Plays)+1)
	for _, p := range t.Plays {
		scores = append(scores, CardScore(p.Card, round))
	}
	if round >= NumRounds && t.IsLast {
		scores = append(scores, 100)
	}
	return scores
}

// RoundScore sums rules 1..round over a player's archived tricks. It is a
// pure function of the trick history: calling it twice yields the same
// result, and rules with an index above the round number are never read.
func RoundScore(tricks []*Trick, round int) int {
	score := 0
	for _, t := range tricks {
		for _, s := range TrickScores(t, round) {
			score += s
		}
	}
	return score
}

// setWinners flags the player(s) with the lowest total score. Ties are all
// flagged.
func setWinners(players []*Player) {
	if len(players) == 0 {
		return
	}
	lowest := players[0].TotalScore()
	for _, p := range players[1:] {
		if total := p.TotalScore(); total < lowest {
			lowest = total
		}
	}
	for _, p := range players {
		p.IsWinner = p.TotalScore() == lowest
	}
}
