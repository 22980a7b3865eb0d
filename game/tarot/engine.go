package tarot

import (
	"fmt"
	"time"
)

type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseDealing
	PhaseBidding
	PhaseDogBuild
	PhaseDogReveal
	PhaseTrickPlay
	PhaseHandleReveal
	PhaseTrickSync
	PhaseEndOfDeal
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDealing:
		return "dealing"
	case PhaseBidding:
		return "bidding"
	case PhaseDogBuild:
		return "dog-build"
	case PhaseDogReveal:
		return "dog-reveal"
	case PhaseTrickPlay:
		return "trick-play"
	case PhaseHandleReveal:
		return "handle-reveal"
	case PhaseTrickSync:
		return "trick-sync"
	case PhaseEndOfDeal:
		return "end-of-deal"
	}
	return "unknown"
}

const DefaultRounds = 5

type EngineOptions struct {
	// Rounds is the number of deals in a tournament. Zero means
	// DefaultRounds.
	Rounds int

	// SeedFn produces the seed of the next deal. Injectable so that
	// numbered deals can be replayed; defaults to the wall clock.
	SeedFn func() int32
}

// Engine is the deal lifecycle state machine. It owns the hands, the
// dog, the open trick and the bidding result, and advances only on
// validated actions. It is single owner: the caller must serialize
// every Apply through one goroutine.
type Engine struct {
	opts EngineOptions

	phase  Phase
	deal   *Deal
	dealer Place

	turn              Place
	consecutivePasses int

	trick   *Trick
	trickNo int

	// dogCards remembers what the taker picked up, for the public
	// reveal once the discard is buried. Never the discard itself.
	dogCards []Card

	acks   [NbPlaces]bool
	played [NbPlaces]bool
	ready  [NbPlaces]bool

	round  int
	totals [NbPlaces]int

	events []Event
}

func NewEngine(opts EngineOptions) *Engine {
	if opts.Rounds <= 0 {
		opts.Rounds = DefaultRounds
	}
	if opts.SeedFn == nil {
		opts.SeedFn = func() int32 {
			return int32(time.Now().UnixNano())
		}
	}
	return &Engine{
		opts:   opts,
		phase:  PhaseIdle,
		dealer: South,
	}
}

func (e *Engine) Phase() Phase {
	return e.phase
}

func (e *Engine) Deal() *Deal {
	return e.deal
}

func (e *Engine) Turn() Place {
	return e.turn
}

func (e *Engine) Totals() [NbPlaces]int {
	return e.totals
}

// PollEvent pops the oldest pending outgoing event.
func (e *Engine) PollEvent() (Event, bool) {
	if len(e.events) == 0 {
		return Event{}, false
	}
	ev := e.events[0]
	e.events = e.events[1:]
	return ev, true
}

func (e *Engine) emit(to Place, payload any) {
	e.events = append(e.events, Event{To: to, Payload: payload})
}

// NewGame resets the tournament totals and deals the first hand.
func (e *Engine) NewGame() {
	e.round = 0
	e.totals = [NbPlaces]int{}
	e.dealer = South
	e.newDeal()
}

func (e *Engine) newDeal() {
	e.phase = PhaseDealing
	e.deal = NewDeal(e.opts.SeedFn(), e.dealer)
	e.deal.Deal18()

	e.trick = nil
	e.trickNo = 0
	e.dogCards = nil
	e.consecutivePasses = 0
	e.played = [NbPlaces]bool{}
	e.ready = [NbPlaces]bool{}

	for p := Place(0); p < NbPlaces; p++ {
		e.emit(p, EvCardsDealt{Cards: e.deal.Hands[p].Cards()})
	}

	e.phase = PhaseBidding
	e.turn = e.dealer.Next()
	e.emit(Everyone, EvTurn{Place: e.turn, Phase: PhaseBidding})
}

// Apply validates one player action against the current phase and
// seat and advances the state machine. A rejected action mutates
// nothing; the returned error carries the typed reason.
func (e *Engine) Apply(p Place, a Action) error {
	if !p.Valid() {
		return illegal(p, ReasonOutOfTurn)
	}

	switch act := a.(type) {
	case BidAction:
		return e.applyBid(p, act)
	case DiscardAction:
		return e.applyDiscard(p, act)
	case HandleAction:
		return e.applyHandle(p, act)
	case PlayCardAction:
		return e.applyPlayCard(p, act)
	case AckAction:
		return e.applyAck(p, act)
	case ReadyAction:
		return e.applyReady(p)
	}
	return fmt.Errorf("unknown action %T", a)
}

func (e *Engine) applyBid(p Place, a BidAction) error {
	if e.phase != PhaseBidding {
		return illegal(p, ReasonWrongPhase)
	}
	if p != e.turn {
		return illegal(p, ReasonOutOfTurn)
	}

	if a.Contract == Pass {
		e.consecutivePasses++
	} else {
		if a.Contract <= e.deal.Contract {
			return illegal(p, ReasonBidTooLow)
		}
		e.deal.Contract = a.Contract
		e.deal.Taker = p
		e.deal.SlamAnnounced = a.Slam
		e.consecutivePasses = 0
	}
	e.deal.Bids[p] = a.Contract
	e.emit(Everyone, EvBid{Place: p, Contract: a.Contract})

	if e.deal.Contract == Pass && e.consecutivePasses == NbPlaces {
		// Everybody passed, cancel and deal again with a new seed.
		e.emit(Everyone, EvRedeal{Reason: RedealAllPassed})
		e.newDeal()
		return nil
	}

	if e.deal.Contract != Pass && e.consecutivePasses == NbPlaces-1 {
		e.closeBidding()
		return nil
	}

	e.turn = e.turn.Next()
	e.emit(Everyone, EvTurn{Place: e.turn, Phase: PhaseBidding})
	return nil
}

func (e *Engine) closeBidding() {
	d := e.deal
	e.emit(Everyone, EvDealStart{Taker: d.Taker, Contract: d.Contract, Slam: d.SlamAnnounced})

	switch d.Contract {
	case Take, Guard:
		// The taker picks up the dog and builds the discard.
		e.dogCards = d.Dog.Cards()
		e.emit(d.Taker, EvDogRevealed{Cards: e.dogCards, ForDiscard: true})
		hand := d.Hands[d.Taker]
		for _, c := range d.Dog.Cards() {
			hand.Add(c)
		}
		d.Dog.Clear()
		hand.Sort()
		e.phase = PhaseDogBuild
		e.turn = d.Taker
		e.emit(Everyone, EvTurn{Place: d.Taker, Phase: PhaseDogBuild})

	case GuardWithout, GuardAgainst:
		// Dog stays unseen. It scores for the attack, or for the
		// defense under guard-against; the scorer decides by contract.
		d.Discard.Append(d.Dog)
		e.startTricks()
	}
}

func (e *Engine) applyDiscard(p Place, a DiscardAction) error {
	if e.phase != PhaseDogBuild {
		return illegal(p, ReasonWrongPhase)
	}
	if p != e.deal.Taker {
		return illegal(p, ReasonNotTaker)
	}

	hand := e.deal.Hands[p]
	if err := validateDiscard(hand, a.Cards); err != nil {
		return err
	}

	trumps := []Card{}
	for _, c := range a.Cards {
		hand.Remove(c)
		e.deal.Discard.Add(c)
		if c.IsTrump() {
			trumps = append(trumps, c)
		}
	}
	if len(trumps) > 0 {
		// Trumps can only be buried when forced, and openly.
		e.emit(Everyone, EvDiscardTrumps{Cards: trumps})
	}

	e.phase = PhaseDogReveal
	e.acks = [NbPlaces]bool{}
	e.emit(Everyone, EvDogRevealed{Cards: e.dogCards, ForDiscard: false})

	return e.checkInvariant()
}

// validateDiscard enforces the burying rules: exactly six cards, all
// held by the taker, never a king or an oudler, and trumps only when
// fewer than six plain cards are available.
func validateDiscard(hand *Deck, cards []Card) error {
	p := Nowhere
	if len(cards) != DogSize {
		return illegal(p, ReasonBadDiscard)
	}

	seen := map[uint8]bool{}
	trumpCount := 0
	for _, c := range cards {
		if seen[c.ID] {
			return illegal(p, ReasonBadDiscard)
		}
		seen[c.ID] = true
		if !hand.HasCard(c) {
			return illegal(p, ReasonCardNotHeld)
		}
		if c.IsOudler() || c.IsKing() {
			return illegal(p, ReasonBadDiscard)
		}
		if c.IsTrump() {
			trumpCount++
		}
	}

	plain := 0
	for _, c := range hand.Cards() {
		if !c.IsTrump() && !c.IsKing() {
			plain++
		}
	}
	allowedTrumps := 0
	if plain < DogSize {
		allowedTrumps = DogSize - plain
	}
	if trumpCount > allowedTrumps {
		return illegal(p, ReasonBadDiscard)
	}
	return nil
}

func (e *Engine) applyHandle(p Place, a HandleAction) error {
	if e.phase != PhaseTrickPlay || e.trickNo != 0 {
		return illegal(p, ReasonWrongPhase)
	}
	if p != e.turn || e.played[p] {
		return illegal(p, ReasonOutOfTurn)
	}
	if _, declared := e.deal.HandleFor(p); declared {
		return illegal(p, ReasonBadHandle)
	}

	tier, ok := HandleTierForSize(len(a.Cards))
	if !ok {
		return illegal(p, ReasonBadHandle)
	}
	seen := map[uint8]bool{}
	hand := e.deal.Hands[p]
	for _, c := range a.Cards {
		if seen[c.ID] || !c.IsTrump() || !hand.HasCard(c) {
			return illegal(p, ReasonBadHandle)
		}
		seen[c.ID] = true
	}

	decl := HandleDecl{Place: p, Tier: tier, Cards: append([]Card(nil), a.Cards...)}
	e.deal.Handles = append(e.deal.Handles, decl)

	e.phase = PhaseHandleReveal
	e.acks = [NbPlaces]bool{}
	e.emit(Everyone, EvHandleShown{Place: p, Tier: tier, Cards: decl.Cards})
	return nil
}

func (e *Engine) applyPlayCard(p Place, a PlayCardAction) error {
	if e.phase != PhaseTrickPlay {
		return illegal(p, ReasonWrongPhase)
	}
	if p != e.turn {
		return illegal(p, ReasonOutOfTurn)
	}

	hand := e.deal.Hands[p]
	if !hand.HasCard(a.Card) {
		return illegal(p, ReasonCardNotHeld)
	}
	if reason := cardLegality(hand, e.trick, a.Card); reason != ReasonNone {
		return illegal(p, reason)
	}

	hand.Remove(a.Card)
	e.trick.Add(a.Card, p)
	e.played[p] = true
	e.emit(Everyone, EvCardPlayed{Place: p, Card: a.Card})

	if e.trick.Size() == NbPlaces {
		return e.resolveTrick()
	}

	e.turn = e.turn.Next()
	e.emit(Everyone, EvTurn{Place: e.turn, Phase: PhaseTrickPlay})
	return nil
}

// LegalPlay reports whether c may be played from hand onto the open
// trick. Clients use it to pick a card without guessing at refusals.
func LegalPlay(hand *Deck, t *Trick, c Card) bool {
	return cardLegality(hand, t, c) == ReasonNone
}

// cardLegality applies the follow-suit and must-raise rules. The fool
// is always legal; leading is unconstrained.
func cardLegality(hand *Deck, t *Trick, c Card) Reason {
	if c.IsFool() {
		return ReasonNone
	}

	led, ok := t.LedSuit()
	if !ok {
		return ReasonNone
	}

	if led != Trumps && hand.HasSuit(led) {
		if c.Suit != led {
			return ReasonMustFollowSuit
		}
		return ReasonNone
	}

	// Void in the led suit, or trumps were led.
	hasTrump := false
	for _, h := range hand.Cards() {
		if h.IsTrump() && !h.IsFool() {
			hasTrump = true
			break
		}
	}
	if !hasTrump {
		return ReasonNone
	}
	if c.Suit != Trumps {
		return ReasonMustPlayTrump
	}

	highest, played := t.HighestTrump()
	if !played || c.Value > highest.Value {
		return ReasonNone
	}
	for _, h := range hand.Cards() {
		if h.IsTrump() && h.Value > highest.Value {
			return ReasonMustOverTrump
		}
	}
	return ReasonNone
}

func (e *Engine) resolveTrick() error {
	winner := e.trick.Resolve()
	winnerTeam := e.deal.Team(winner)

	for _, pc := range e.trick.Cards {
		// The fool keeps scoring for the side that played it.
		if pc.Card.IsFool() {
			e.deal.Pile(e.deal.Team(pc.Place)).Add(pc.Card)
			continue
		}
		e.deal.Pile(winnerTeam).Add(pc.Card)
	}
	e.deal.Tricks = append(e.deal.Tricks, e.trick)

	e.emit(Everyone, EvTrickResult{Winner: winner, TrickNo: e.trickNo})
	e.phase = PhaseTrickSync
	e.acks = [NbPlaces]bool{}
	return e.checkInvariant()
}

func (e *Engine) applyAck(p Place, a AckAction) error {
	var want Phase
	switch a.Barrier {
	case BarrierDog:
		want = PhaseDogReveal
	case BarrierHandle:
		want = PhaseHandleReveal
	case BarrierTrick:
		want = PhaseTrickSync
	default:
		return illegal(p, ReasonWrongPhase)
	}
	if e.phase != want {
		return illegal(p, ReasonWrongPhase)
	}

	// A repeated ack is absorbed: the barrier can never re-advance.
	if e.acks[p] {
		return nil
	}
	e.acks[p] = true
	for _, ok := range e.acks {
		if !ok {
			return nil
		}
	}

	switch a.Barrier {
	case BarrierDog:
		e.startTricks()
	case BarrierHandle:
		e.phase = PhaseTrickPlay
		e.emit(Everyone, EvTurn{Place: e.turn, Phase: PhaseTrickPlay})
	case BarrierTrick:
		e.nextTrick()
	}
	return nil
}

func (e *Engine) startTricks() {
	e.trickNo = 0
	e.turn = e.deal.Taker
	e.trick = NewTrick(e.turn)
	e.phase = PhaseTrickPlay
	e.emit(Everyone, EvTurn{Place: e.turn, Phase: PhaseTrickPlay})
}

func (e *Engine) nextTrick() {
	winner := e.trick.Winner

	done := true
	for _, h := range e.deal.Hands {
		if h.Size() > 0 {
			done = false
			break
		}
	}
	if done {
		e.endOfDeal()
		return
	}

	e.trickNo++
	e.turn = winner
	e.trick = NewTrick(winner)
	e.phase = PhaseTrickPlay
	e.emit(Everyone, EvTurn{Place: e.turn, Phase: PhaseTrickPlay})
}

func (e *Engine) endOfDeal() {
	res, err := ScoreDeal(e.deal)
	if err != nil {
		e.fatal(err.Error())
		return
	}

	e.round++
	for p := Place(0); p < NbPlaces; p++ {
		e.totals[p] += res.Totals[p]
	}

	final := e.round >= e.opts.Rounds
	e.emit(Everyone, EvDealResult{Result: res, Totals: e.totals, Final: final})

	e.phase = PhaseEndOfDeal
	e.ready = [NbPlaces]bool{}
}

func (e *Engine) applyReady(p Place) error {
	if e.phase != PhaseEndOfDeal {
		return illegal(p, ReasonWrongPhase)
	}
	if e.ready[p] {
		return nil
	}
	e.ready[p] = true
	for _, ok := range e.ready {
		if !ok {
			return nil
		}
	}

	if e.round >= e.opts.Rounds {
		e.phase = PhaseIdle
		e.deal = nil
		e.trick = nil
		return nil
	}

	e.dealer = e.dealer.Next()
	e.newDeal()
	return nil
}

// Abort cancels the running deal. Only legal between trick
// boundaries, never while a trick is open on the table.
func (e *Engine) Abort() error {
	if e.phase == PhaseIdle {
		return nil
	}
	if e.phase == PhaseTrickPlay && e.trick != nil && e.trick.Size() > 0 {
		return illegal(Nowhere, ReasonNotAtBoundary)
	}
	e.phase = PhaseIdle
	e.deal = nil
	e.trick = nil
	return nil
}

// checkInvariant verifies every card is in exactly one container and
// that the 78 cards are all accounted for. A violation aborts the
// deal with a redeal notice; nothing less drastic is safe.
func (e *Engine) checkInvariant() error {
	if e.deal == nil {
		return nil
	}

	var present [NbCards]bool
	count := 0
	mark := func(d *Deck) bool {
		for _, c := range d.Cards() {
			if present[c.ID] {
				return false
			}
			present[c.ID] = true
			count++
		}
		return true
	}

	ok := mark(e.deal.Dog) && mark(e.deal.Discard) &&
		mark(e.deal.AttackPile) && mark(e.deal.DefensePile)
	for _, h := range e.deal.Hands {
		ok = ok && mark(h)
	}
	if ok && e.trick != nil && e.phase == PhaseTrickPlay {
		for _, pc := range e.trick.Cards {
			if present[pc.Card.ID] {
				ok = false
				break
			}
			present[pc.Card.ID] = true
			count++
		}
	}

	if !ok || count != NbCards {
		return e.fatal(fmt.Sprintf("card containers hold %d cards, duplicates=%v", count, !ok))
	}
	return nil
}

func (e *Engine) fatal(detail string) error {
	e.emit(Everyone, EvRedeal{Reason: RedealInconsistency})
	e.newDeal()
	return &FatalError{Detail: detail}
}
