package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func archivedTrick(t *testing.T, last bool, tokens ...string) *Trick {
	t.Helper()
	trick := &Trick{IsLast: last}
	seats := []string{"a", "b", "c", "d"}
	for i, token := range tokens {
		trick.addPlay(seats[i%len(seats)], mustCard(t, token))
	}
	return trick
}

func TestCardScorePerRound(t *testing.T) {
	tests := []struct {
		token string
		round int
		want  int
	}{
		{"2C", 1, 1},
		{"2H", 1, 1},  // hearts rule not active yet
		{"2H", 2, 11}, // +1 card, +10 heart
		{"QS", 2, 1},  // queens rule not active yet
		{"QS", 3, 26},
		{"QH", 3, 36}, // heart and queen stack
		{"KS", 3, 1},
		{"KS", 4, 51},
		{"KS", 5, 51},
		{"QH", 5, 36},
	}
	for _, tt := range tests {
		got := CardScore(mustCard(t, tt.token), tt.round)
		assert.Equal(t, tt.want, got, "%s in round %d", tt.token, tt.round)
	}
}

func TestRoundScoreScenarioRoundOne(t *testing.T) {
	// Round 1, a single all-hearts trick: every card counts 1, nothing else.
	tricks := []*Trick{archivedTrick(t, false, "2H", "5H", "KH", "9H")}
	assert.Equal(t, 4, RoundScore(tricks, 1))
}

func TestRoundScoreScenarioRoundThreeQueens(t *testing.T) {
	// Round 3, archived tricks holding QS and QH: +25 each, plus the
	// round-1 and round-2 rules over the same cards.
	tricks := []*Trick{
		archivedTrick(t, false, "QS", "3S", "4S", "5S"),
		archivedTrick(t, false, "QH", "2H", "2C", "2D"),
	}
	// Trick 1: 4 cards + 25 (QS) = 29.
	// Trick 2: 4 cards + 25 (QH) + 20 (two hearts) = 49.
	assert.Equal(t, 78, RoundScore(tricks, 3))
}

func TestRoundScoreLastTrickBonusOnlyInRoundFive(t *testing.T) {
	tricks := []*Trick{archivedTrick(t, true, "2C", "3C", "4C", "5C")}
	assert.Equal(t, 4, RoundScore(tricks, 4))
	assert.Equal(t, 104, RoundScore(tricks, 5))
}

func TestRoundScoreNeverReadsFutureRules(t *testing.T) {
	// A hand full of penalty cards scores only the card count in round 1.
	tricks := []*Trick{archivedTrick(t, false, "QS", "KS", "AH", "QH")}
	assert.Equal(t, 4, RoundScore(tricks, 1))
}

func TestRoundScoreIsIdempotent(t *testing.T) {
	tricks := []*Trick{
		archivedTrick(t, false, "QS", "KS", "AH", "QH"),
		archivedTrick(t, true, "2D", "3D", "4D", "5D"),
	}
	first := RoundScore(tricks, 5)
	second := RoundScore(tricks, 5)
	assert.Equal(t, first, second)
}

func TestTrickScoresAppendsLastTrickBonus(t *testing.T) {
	trick := archivedTrick(t, true, "2H", "QS", "2C", "KS")
	scores := TrickScores(trick, 5)
	require.Len(t, scores, 5)
	assert.Equal(t, []int{11, 26, 1, 51, 100}, scores)
}

func TestSetWinnersLowestTotal(t *testing.T) {
	players := []*Player{
		{ID: "a", Scores: []int{10, 20}},
		{ID: "b", Scores: []int{5, 10}},
		{ID: "c", Scores: []int{40, 0}},
	}
	setWinners(players)
	assert.False(t, players[0].IsWinner)
	assert.True(t, players[1].IsWinner)
	assert.False(t, players[2].IsWinner)
}

func TestSetWinnersFlagsAllTiedMinimums(t *testing.T) {
	players := []*Player{
		{ID: "a", Scores: []int{15}},
		{ID: "b", Scores: []int{15}},
		{ID: "c", Scores: []int{16}},
	}
	setWinners(players)
	assert.True(t, players[0].IsWinner)
	assert.True(t, players[1].IsWinner)
	assert.False(t, players[2].IsWinner)
}
