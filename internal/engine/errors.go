package engine

import "errors"

// Rejection reasons for inbound actions. All are recoverable: the action is
// dropped, canonical state is unchanged, and only the offending connection
// is told.
var (
	ErrInvalidPhase      = errors.New("action not valid in the current game phase")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrIllegalFollowSuit = errors.New("must follow the leading suit")
	ErrCardNotInHand     = errors.New("card not in hand")
	ErrTableFull         = errors.New("table is full")
	ErrUnknownAction     = errors.New("unknown action")
)

// Code maps a rejection to its wire error code.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidPhase):
		return "invalid_phase"
	case errors.Is(err, ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, ErrIllegalFollowSuit):
		return "illegal_follow_suit"
	case errors.Is(err, ErrCardNotInHand):
		return "card_not_in_hand"
	case errors.Is(err, ErrTableFull):
		return "table_full"
	case errors.Is(err, ErrUnknownAction):
		return "unknown_action"
	}
	return "internal"
}
