package engine

import "github.com/jjoak3/dumptrick/internal/cards"

// Bot play selection:
//
//  1. Leading a trick: play the lowest card in hand.
//  2. Able to follow the lead suit: play the lowest card of that suit, unless
//     it would still beat the lowest card already on the table, in which case
//     duck as high as possible.
//  3. Void in the lead suit: dump the highest card in hand.
//
// Low/high preference among equal ranks leans on suit shape: prefer
// depleting short suits, and dump from suits holding more total rank.

// chooseBotCard picks the card a bot seat plays into the current trick.
func chooseBotCard(p *Player, trick *Trick) cards.Card {
	if !trick.HasLead {
		return lowestCard(p.Hand)
	}

	ofSuit := cardsOfSuit(p.Hand, trick.LeadSuit)
	if len(ofSuit) == 0 {
		return highestCard(p.Hand)
	}
	return followCard(ofSuit, trick.Cards())
}

// followCard picks from lead-suit holdings: the lowest when it cannot help
// winning, otherwise the highest card that stays under the lowest card
// already played.
func followCard(ofSuit, trickCards []cards.Card) cards.Card {
	lowest := ofSuit[0]
	for _, c := range ofSuit[1:] {
		if c.Rank() < lowest.Rank() {
			lowest = c
		}
	}
	if len(trickCards) == 0 {
		return lowest
	}

	lowestPlayed := trickCards[0]
	for _, c := range trickCards[1:] {
		if c.Rank() < lowestPlayed.Rank() {
			lowestPlayed = c
		}
	}
	if lowest.Rank() > lowestPlayed.Rank() {
		return lowest
	}

	best := lowest
	for _, c := range ofSuit {
		if c.Rank() < lowestPlayed.Rank() && c.Rank() > best.Rank() {
			best = c
		}
	}
	return best
}

func cardsOfSuit(hand []cards.Card, suit uint8) []cards.Card {
	var out []cards.Card
	for _, c := range hand {
		if c.Suit() == suit {
			out = append(out, c)
		}
	}
	return out
}

// handKey orders cards for dumping decisions: rank first, then the suit's
// card count, then the suit's total rank.
type handKey struct {
	rank     int
	suitLen  int
	suitRank int
}

func keyFor(hand []cards.Card, c cards.Card) handKey {
	ofSuit := cardsOfSuit(hand, c.Suit())
	total := 0
	for _, sc := range ofSuit {
		total += int(sc.Rank())
	}
	return handKey{rank: int(c.Rank()), suitLen: len(ofSuit), suitRank: total}
}

// lowestCard prefers low rank, then short suits, then suits with low total
// rank, shedding safe cards while depleting short suits.
func lowestCard(hand []cards.Card) cards.Card {
	best := hand[0]
	bestKey := keyFor(hand, best)
	for _, c := range hand[1:] {
		k := keyFor(hand, c)
		if k.rank < bestKey.rank ||
			(k.rank == bestKey.rank && k.suitLen < bestKey.suitLen) ||
			(k.rank == bestKey.rank && k.suitLen == bestKey.suitLen && k.suitRank < bestKey.suitRank) {
			best, bestKey = c, k
		}
	}
	return best
}

// highestCard prefers high rank, then short suits, then suits with high
// total rank, dumping dangerous cards from dangerous suits.
func highestCard(hand []cards.Card) cards.Card {
	best := hand[0]
	bestKey := keyFor(hand, best)
	for _, c := range hand[1:] {
		k := keyFor(hand, c)
		if k.rank > bestKey.rank ||
			(k.rank == bestKey.rank && k.suitLen < bestKey.suitLen) ||
			(k.rank == bestKey.rank && k.suitLen == bestKey.suitLen && k.suitRank > bestKey.suitRank) {
			best, bestKey = c, k
		}
	}
	return best
}
