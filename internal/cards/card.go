// Package cards models the 52-card domain: ranks, suits, the two-character
// wire token, deck construction and shuffling.
package cards

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// Suit constants, packed into the upper 4 bits of Card.
const (
	SuitDiamonds uint8 = 0
	SuitClubs    uint8 = 1
	SuitHearts   uint8 = 2
	SuitSpades   uint8 = 3
)

// Rank constants, packed into the lower 4 bits of Card. Numeric ranks carry
// their face value; Ace is high (14), matching trick comparison order.
const (
	RankTwo   uint8 = 2
	RankThree uint8 = 3
	RankFour  uint8 = 4
	RankFive  uint8 = 5
	RankSix   uint8 = 6
	RankSeven uint8 = 7
	RankEight uint8 = 8
	RankNine  uint8 = 9
	RankTen   uint8 = 10
	RankJack  uint8 = 11
	RankQueen uint8 = 12
	RankKing  uint8 = 13
	RankAce   uint8 = 14
)

// Card is a packed uint8: upper 4 bits = suit, lower 4 bits = rank.
type Card uint8

// NewCard constructs a Card from suit and rank.
func NewCard(suit, rank uint8) Card {
	return Card((suit << 4) | (rank & 0x0F))
}

// Suit returns the suit bits (upper 4).
func (c Card) Suit() uint8 { return uint8(c) >> 4 }

// Rank returns the rank bits (lower 4).
func (c Card) Rank() uint8 { return uint8(c) & 0x0F }

// IsHeart reports whether the card is heart-suited.
func (c Card) IsHeart() bool { return c.Suit() == SuitHearts }

// IsQueen reports whether the card is a queen of any suit.
func (c Card) IsQueen() bool { return c.Rank() == RankQueen }

// KingOfSpades is the single highest-penalty card.
var KingOfSpades = NewCard(SuitSpades, RankKing)

var rankTokens = map[uint8]string{
	RankTen:   "T",
	RankJack:  "J",
	RankQueen: "Q",
	RankKing:  "K",
	RankAce:   "A",
}

var suitTokens = map[uint8]string{
	SuitDiamonds: "D",
	SuitClubs:    "C",
	SuitHearts:   "H",
	SuitSpades:   "S",
}

// String renders the canonical two-character token, e.g. "KS" or "TH".
func (c Card) String() string {
	rank, ok := rankTokens[c.Rank()]
	if !ok {
		rank = fmt.Sprintf("%d", c.Rank())
	}
	return rank + suitTokens[c.Suit()]
}

// Parse decodes a card token. The rank is everything before the final
// character: "2".."9", "10" or "T", "J", "Q", "K", "A". The final character
// is the suit letter. Parsing is case-insensitive and round-trips with
// String for canonical tokens.
func Parse(token string) (Card, error) {
	token = strings.ToUpper(strings.TrimSpace(token))
	if len(token) < 2 {
		return 0, fmt.Errorf("card token %q too short", token)
	}

	var suit uint8
	switch token[len(token)-1] {
	case 'D':
		suit = SuitDiamonds
	case 'C':
		suit = SuitClubs
	case 'H':
		suit = SuitHearts
	case 'S':
		suit = SuitSpades
	default:
		return 0, fmt.Errorf("unknown suit in card token %q", token)
	}

	var rank uint8
	switch rankPart := token[:len(token)-1]; rankPart {
	case "2", "3", "4", "5", "6", "7", "8", "9":
		rank = rankPart[0] - '0'
	case "10", "T":
		rank = RankTen
	case "J":
		rank = RankJack
	case "Q":
		rank = RankQueen
	case "K":
		rank = RankKing
	case "A":
		rank = RankAce
	default:
		return 0, fmt.Errorf("unknown rank in card token %q", token)
	}

	return NewCard(suit, rank), nil
}

// SuitToken returns the single-letter token for a suit, or "" when the suit
// is out of range (used for the trick's leading-suit field before any play).
func SuitToken(suit uint8) string {
	return suitTokens[suit]
}

// ParseSuit decodes a single-letter suit token.
func ParseSuit(token string) (uint8, error) {
	switch strings.ToUpper(token) {
	case "D":
		return SuitDiamonds, nil
	case "C":
		return SuitClubs, nil
	case "H":
		return SuitHearts, nil
	case "S":
		return SuitSpades, nil
	}
	return 0, fmt.Errorf("unknown suit token %q", token)
}

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

// NewDeck returns all 52 cards in display order (suits D, C, H, S; ranks
// ascending within each suit).
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for suit := SuitDiamonds; suit <= SuitSpades; suit++ {
		for rank := RankTwo; rank <= RankAce; rank++ {
			deck = append(deck, NewCard(suit, rank))
		}
	}
	return deck
}

// Shuffle permutes the deck uniformly at random using the provided source.
func Shuffle(deck []Card, rng *rand.Rand) {
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// SortHand orders a hand for display: suit groups D, C, H, S, ascending rank
// within each suit.
func SortHand(hand []Card) {
	sort.Slice(hand, func(i, j int) bool {
		if hand[i].Suit() != hand[j].Suit() {
			return hand[i].Suit() < hand[j].Suit()
		}
		return hand[i].Rank() < hand[j].Rank()
	})
}

// Tokens renders a slice of cards as wire tokens.
func Tokens(hand []Card) []string {
	tokens := make([]string, len(hand))
	for i, c := range hand {
		tokens[i] = c.String()
	}
	return tokens
}
