package tarot

// Event is an outgoing notification produced by the engine. To is a
// single seat for unicasts or Everyone for broadcasts; the session
// layer owns the actual delivery.
type Event struct {
	To      Place
	Payload any
}

type EvCardsDealt struct {
	Cards []Card
}

type EvTurn struct {
	Place Place
	Phase Phase
}

type EvBid struct {
	Place    Place
	Contract Contract
}

// EvDealStart announces the resolved contract before play begins.
type EvDealStart struct {
	Taker    Place
	Contract Contract
	Slam     bool
}

// EvDogRevealed carries the six dog cards. ForDiscard is set on the
// private copy the taker receives to build the discard; the public
// barrier copy has it unset.
type EvDogRevealed struct {
	Cards      []Card
	ForDiscard bool
}

// EvDiscardTrumps discloses trumps the taker was forced to bury.
type EvDiscardTrumps struct {
	Cards []Card
}

type EvHandleShown struct {
	Place Place
	Tier  HandleTier
	Cards []Card
}

type EvCardPlayed struct {
	Place Place
	Card  Card
}

type EvTrickResult struct {
	Winner  Place
	TrickNo int
}

type EvDealResult struct {
	Result *ScoreResult
	Totals [NbPlaces]int
	Final  bool
}

type RedealReason uint8

const (
	RedealAllPassed RedealReason = iota
	RedealInconsistency
)

type EvRedeal struct {
	Reason RedealReason
}
