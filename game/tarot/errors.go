package tarot

import "fmt"

// Reason is the typed cause attached to a rejected action.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonWrongPhase
	ReasonOutOfTurn
	ReasonBidTooLow
	ReasonNotTaker
	ReasonBadDiscard
	ReasonBadHandle
	ReasonCardNotHeld
	ReasonMustFollowSuit
	ReasonMustPlayTrump
	ReasonMustOverTrump
	ReasonNotAtBoundary
)

func (r Reason) String() string {
	switch r {
	case ReasonWrongPhase:
		return "action not legal in the current phase"
	case ReasonOutOfTurn:
		return "not this seat's turn"
	case ReasonBidTooLow:
		return "bid does not outrank the current contract"
	case ReasonNotTaker:
		return "only the taker may do this"
	case ReasonBadDiscard:
		return "discard breaks the burying rules"
	case ReasonBadHandle:
		return "handle declaration is invalid"
	case ReasonCardNotHeld:
		return "card is not in this seat's hand"
	case ReasonMustFollowSuit:
		return "must follow the led suit"
	case ReasonMustPlayTrump:
		return "must play a trump"
	case ReasonMustOverTrump:
		return "must play a higher trump"
	case ReasonNotAtBoundary:
		return "deal can only be aborted between tricks"
	}
	return "unknown"
}

// IllegalActionError rejects a well-formed action that breaks the
// phase, turn or game rules. The state machine never mutates on it.
type IllegalActionError struct {
	Reason Reason
	Place  Place
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal action from %s: %s", e.Place, e.Reason)
}

func illegal(p Place, r Reason) error {
	return &IllegalActionError{Reason: r, Place: p}
}

// FatalError is an invariant violation. It aborts the deal; nothing
// inside the deal can recover from it.
type FatalError struct {
	Detail string
}

func (e *FatalError) Error() string {
	return "fatal inconsistency: " + e.Detail
}
