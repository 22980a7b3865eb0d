package tarot

import (
	"errors"
	"testing"
)

func newTestEngine(rounds int) *Engine {
	seed := int32(41)
	return NewEngine(EngineOptions{
		Rounds: rounds,
		SeedFn: func() int32 {
			seed++
			return seed
		},
	})
}

func drainAll(e *Engine) []Event {
	var out []Event
	for {
		ev, ok := e.PollEvent()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func mustApply(t *testing.T, e *Engine, p Place, a Action) {
	t.Helper()
	if err := e.Apply(p, a); err != nil {
		t.Fatalf("%s: %v", p, err)
	}
}

func wantReason(t *testing.T, err error, reason Reason) {
	t.Helper()
	var illegalErr *IllegalActionError
	if !errors.As(err, &illegalErr) {
		t.Fatalf("got %v, want an illegal action", err)
	}
	if illegalErr.Reason != reason {
		t.Fatalf("got reason %q, want %q", illegalErr.Reason, reason)
	}
}

func TestNewGameDeals(t *testing.T) {
	e := newTestEngine(1)
	e.NewGame()

	if e.Phase() != PhaseBidding {
		t.Fatalf("phase %s, want bidding", e.Phase())
	}
	if e.Turn() != East {
		t.Fatalf("first word to %s, want east of the dealer", e.Turn())
	}

	dealt := 0
	for _, ev := range drainAll(e) {
		if cards, ok := ev.Payload.(EvCardsDealt); ok {
			if ev.To == Everyone {
				t.Fatal("a hand must never be broadcast")
			}
			if len(cards.Cards) != HandSize {
				t.Fatalf("dealt %d cards, want %d", len(cards.Cards), HandSize)
			}
			dealt++
		}
	}
	if dealt != NbPlaces {
		t.Fatalf("%d hands dealt, want %d", dealt, NbPlaces)
	}
}

func TestDealReproducible(t *testing.T) {
	a := newTestEngine(1)
	b := newTestEngine(1)
	a.NewGame()
	b.NewGame()

	for p := Place(0); p < NbPlaces; p++ {
		if a.Deal().Hands[p].String() != b.Deal().Hands[p].String() {
			t.Fatalf("hands of %s differ for the same seed", p)
		}
	}
}

func TestBidOutranking(t *testing.T) {
	e := newTestEngine(1)
	e.NewGame()

	mustApply(t, e, East, BidAction{Contract: Take})

	err := e.Apply(North, BidAction{Contract: Take})
	wantReason(t, err, ReasonBidTooLow)

	mustApply(t, e, North, BidAction{Contract: Guard})
	mustApply(t, e, West, BidAction{Contract: Pass})
	mustApply(t, e, South, BidAction{Contract: Pass})
	mustApply(t, e, East, BidAction{Contract: Pass})

	if e.Deal().Taker != North || e.Deal().Contract != Guard {
		t.Fatalf("taker %s under %s, want north under guard",
			e.Deal().Taker, e.Deal().Contract)
	}
}

func TestBidOutOfTurn(t *testing.T) {
	e := newTestEngine(1)
	e.NewGame()

	err := e.Apply(South, BidAction{Contract: Take})
	wantReason(t, err, ReasonOutOfTurn)

	if e.Deal().Bids[South] != Pass || e.Deal().Taker != Nowhere {
		t.Fatal("a rejected bid must not change the deal")
	}
}

func TestFourPassesRedeal(t *testing.T) {
	e := newTestEngine(1)
	e.NewGame()
	firstSeed := e.Deal().Seed
	drainAll(e)

	for _, p := range []Place{East, North, West, South} {
		mustApply(t, e, p, BidAction{Contract: Pass})
	}

	sawRedeal := false
	for _, ev := range drainAll(e) {
		if rd, ok := ev.Payload.(EvRedeal); ok && rd.Reason == RedealAllPassed {
			sawRedeal = true
		}
	}
	if !sawRedeal {
		t.Fatal("four passes must announce a redeal")
	}
	if e.Phase() != PhaseBidding {
		t.Fatalf("phase %s after redeal, want bidding", e.Phase())
	}
	if e.Deal().Seed == firstSeed {
		t.Fatal("redeal must draw a fresh seed")
	}
	for p := Place(0); p < NbPlaces; p++ {
		if e.Deal().Hands[p].Size() != HandSize {
			t.Fatalf("%s holds %d cards after redeal", p, e.Deal().Hands[p].Size())
		}
	}
	if e.Deal().Dog.Size() != DogSize {
		t.Fatalf("dog holds %d cards after redeal", e.Deal().Dog.Size())
	}
}

// takeWithEast drives the seed 42 deal to the point where east has
// taken, picked up the dog and must build the discard.
func takeWithEast(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(EngineOptions{
		Rounds: 2,
		SeedFn: func() int32 { return 42 },
	})
	e.NewGame()
	drainAll(e)

	mustApply(t, e, East, BidAction{Contract: Take})
	mustApply(t, e, North, BidAction{Contract: Pass})
	mustApply(t, e, West, BidAction{Contract: Pass})
	mustApply(t, e, South, BidAction{Contract: Pass})
	return e
}

func discardCards(t *testing.T, ids ...uint8) []Card {
	t.Helper()
	out := make([]Card, 0, len(ids))
	for _, id := range ids {
		out = append(out, mustCard(t, id))
	}
	return out
}

func TestDogPickup(t *testing.T) {
	e := takeWithEast(t)

	if e.Phase() != PhaseDogBuild {
		t.Fatalf("phase %s, want dog-build", e.Phase())
	}
	if e.Deal().Taker != East {
		t.Fatalf("taker %s, want east", e.Deal().Taker)
	}
	if got := e.Deal().Hands[East].Size(); got != HandSize+DogSize {
		t.Fatalf("taker holds %d cards, want %d", got, HandSize+DogSize)
	}
	if e.Deal().Dog.Size() != 0 {
		t.Fatal("dog must be empty once picked up")
	}

	sawPrivate := false
	for _, ev := range drainAll(e) {
		if dog, ok := ev.Payload.(EvDogRevealed); ok {
			if !dog.ForDiscard || ev.To != East {
				t.Fatal("the pickup reveal must go to the taker alone")
			}
			sawPrivate = true
		}
	}
	if !sawPrivate {
		t.Fatal("taker never saw the dog")
	}
}

func TestDiscardRules(t *testing.T) {
	e := takeWithEast(t)
	drainAll(e)

	// Five cards.
	err := e.Apply(East, DiscardAction{Cards: discardCards(t, 2, 5, 9, 15, 19)})
	wantReason(t, err, ReasonBadDiscard)

	// The fool is an oudler and can never be buried.
	err = e.Apply(East, DiscardAction{Cards: discardCards(t, 56, 5, 9, 15, 19, 28)})
	wantReason(t, err, ReasonBadDiscard)

	// A king can never be buried.
	err = e.Apply(East, DiscardAction{Cards: discardCards(t, 13, 5, 9, 15, 19, 28)})
	wantReason(t, err, ReasonBadDiscard)

	// A trump while plain cards remain available.
	err = e.Apply(East, DiscardAction{Cards: discardCards(t, 58, 5, 9, 15, 19, 28)})
	wantReason(t, err, ReasonBadDiscard)

	// A card the taker does not hold.
	err = e.Apply(East, DiscardAction{Cards: discardCards(t, 0, 5, 9, 15, 19, 28)})
	wantReason(t, err, ReasonCardNotHeld)

	// Someone else than the taker.
	err = e.Apply(North, DiscardAction{Cards: discardCards(t, 2, 5, 9, 15, 19, 28)})
	wantReason(t, err, ReasonNotTaker)

	if e.Phase() != PhaseDogBuild {
		t.Fatal("rejected discards must leave the phase alone")
	}

	mustApply(t, e, East, DiscardAction{Cards: discardCards(t, 2, 5, 9, 15, 19, 28)})

	if e.Phase() != PhaseDogReveal {
		t.Fatalf("phase %s, want dog-reveal", e.Phase())
	}
	if got := e.Deal().Hands[East].Size(); got != HandSize {
		t.Fatalf("taker holds %d cards after burying, want %d", got, HandSize)
	}

	// The public reveal shows the original dog, never the buried
	// discard.
	dogIDs := map[uint8]bool{31: true, 25: true, 56: true, 9: true, 15: true, 19: true}
	sawPublic := false
	for _, ev := range drainAll(e) {
		dog, ok := ev.Payload.(EvDogRevealed)
		if !ok {
			continue
		}
		sawPublic = true
		if ev.To != Everyone || dog.ForDiscard {
			t.Fatal("the post-discard reveal must be a public one")
		}
		if len(dog.Cards) != DogSize {
			t.Fatalf("reveal shows %d cards", len(dog.Cards))
		}
		for _, c := range dog.Cards {
			if !dogIDs[c.ID] {
				t.Fatalf("reveal leaks %s, which was not in the dog", c.Name())
			}
		}
	}
	if !sawPublic {
		t.Fatal("no public dog reveal after the discard")
	}
}

func ackAll(t *testing.T, e *Engine, b Barrier) {
	t.Helper()
	for p := Place(0); p < NbPlaces; p++ {
		mustApply(t, e, p, AckAction{Barrier: b})
	}
}

func TestBarrierAckIdempotent(t *testing.T) {
	e := takeWithEast(t)
	mustApply(t, e, East, DiscardAction{Cards: discardCards(t, 2, 5, 9, 15, 19, 28)})

	mustApply(t, e, East, AckAction{Barrier: BarrierDog})
	mustApply(t, e, East, AckAction{Barrier: BarrierDog})
	mustApply(t, e, East, AckAction{Barrier: BarrierDog})
	if e.Phase() != PhaseDogReveal {
		t.Fatal("one seat acking repeatedly must not lift the barrier")
	}

	mustApply(t, e, North, AckAction{Barrier: BarrierDog})
	mustApply(t, e, West, AckAction{Barrier: BarrierDog})
	mustApply(t, e, South, AckAction{Barrier: BarrierDog})

	if e.Phase() != PhaseTrickPlay {
		t.Fatalf("phase %s after full ack, want trick-play", e.Phase())
	}
	if e.Turn() != East {
		t.Fatalf("first lead to %s, want the taker", e.Turn())
	}
}

func TestAckWrongBarrier(t *testing.T) {
	e := takeWithEast(t)
	mustApply(t, e, East, DiscardAction{Cards: discardCards(t, 2, 5, 9, 15, 19, 28)})

	err := e.Apply(East, AckAction{Barrier: BarrierTrick})
	wantReason(t, err, ReasonWrongPhase)
}

// atTrickPlay drives the seed 42 deal to the first trick.
func atTrickPlay(t *testing.T) *Engine {
	t.Helper()
	e := takeWithEast(t)
	mustApply(t, e, East, DiscardAction{Cards: discardCards(t, 2, 5, 9, 15, 19, 28)})
	ackAll(t, e, BarrierDog)
	drainAll(e)
	return e
}

func TestHandleDeclaration(t *testing.T) {
	e := atTrickPlay(t)

	// East holds exactly ten trumps, fool included.
	trumps := discardCards(t, 74, 72, 71, 70, 69, 66, 64, 60, 58, 56)

	// Eleven cards is not a declarable size.
	eleven := append(append([]Card(nil), trumps...), mustCard(t, 31))
	err := e.Apply(East, HandleAction{Cards: eleven})
	wantReason(t, err, ReasonBadHandle)

	// Ten cards with a plain card smuggled in.
	mixed := append(append([]Card(nil), trumps[:9]...), mustCard(t, 31))
	err = e.Apply(East, HandleAction{Cards: mixed})
	wantReason(t, err, ReasonBadHandle)

	// Out of turn.
	err = e.Apply(North, HandleAction{Cards: trumps})
	wantReason(t, err, ReasonOutOfTurn)

	mustApply(t, e, East, HandleAction{Cards: trumps})
	if e.Phase() != PhaseHandleReveal {
		t.Fatalf("phase %s, want handle-reveal", e.Phase())
	}

	// Only one declaration per seat and deal.
	ackAll(t, e, BarrierHandle)
	err = e.Apply(East, HandleAction{Cards: trumps})
	wantReason(t, err, ReasonBadHandle)

	if e.Phase() != PhaseTrickPlay {
		t.Fatalf("phase %s after the reveal, want trick-play", e.Phase())
	}
	if len(e.Deal().Handles) != 1 || e.Deal().Handles[0].Tier != SimpleHandle {
		t.Fatalf("handles %v, want one simple handle", e.Deal().Handles)
	}
}

func TestLegalPlayScenario(t *testing.T) {
	hand := handFromList(t, "5-of-trumps;2-of-hearts;3-of-clubs")

	// Spades led; the hand is void in spades and must trump.
	trick := NewTrick(South)
	trick.Add(mustCard(t, 9), South) // 10-of-spades

	if !LegalPlay(hand, trick, mustCard(t, 61)) {
		t.Fatal("the lone trump must be playable")
	}
	if LegalPlay(hand, trick, mustCard(t, 15)) {
		t.Fatal("a plain card is illegal while a trump is held")
	}

	// A higher trump already sits on the trick; with no bigger trump
	// in hand the small one is still legal.
	trick.Add(mustCard(t, 68), East) // 12-of-trumps
	if !LegalPlay(hand, trick, mustCard(t, 61)) {
		t.Fatal("under-trumping is forced when nothing can raise")
	}
}

func TestMustFollowSuit(t *testing.T) {
	e := atTrickPlay(t)

	// East leads a club it kept through the discard.
	mustApply(t, e, East, PlayCardAction{Card: mustCard(t, 31)})
	if e.Turn() != North {
		t.Fatalf("turn %s, want north", e.Turn())
	}

	north := e.Deal().Hands[North]
	var offSuit Card
	found := false
	for _, c := range north.Cards() {
		if c.Suit != Clubs && c.Suit != Trumps {
			offSuit, found = c, true
			break
		}
	}
	if !found {
		t.Skip("north cannot renege with this seed")
	}
	if north.HasSuit(Clubs) {
		err := e.Apply(North, PlayCardAction{Card: offSuit})
		wantReason(t, err, ReasonMustFollowSuit)
	}
}

func playDealOut(t *testing.T, e *Engine) []Event {
	t.Helper()
	var events []Event

	for steps := 0; e.Phase() != PhaseEndOfDeal; steps++ {
		if steps > 400 {
			t.Fatal("deal did not finish")
		}

		switch e.Phase() {
		case PhaseTrickPlay:
			turn := e.Turn()
			hand := e.Deal().Hands[turn]
			played := false
			for _, c := range hand.Cards() {
				if LegalPlay(hand, e.trick, c) {
					mustApply(t, e, turn, PlayCardAction{Card: c})
					played = true
					break
				}
			}
			if !played {
				t.Fatalf("%s has no legal card", turn)
			}
		case PhaseTrickSync:
			ackAll(t, e, BarrierTrick)
		case PhaseDogReveal:
			ackAll(t, e, BarrierDog)
		case PhaseHandleReveal:
			ackAll(t, e, BarrierHandle)
		default:
			t.Fatalf("unexpected phase %s", e.Phase())
		}

		if err := e.checkInvariant(); err != nil {
			t.Fatalf("invariant broken: %v", err)
		}
		events = append(events, drainAll(e)...)
	}
	return events
}

func TestFullDeal(t *testing.T) {
	e := atTrickPlay(t)
	events := playDealOut(t, e)

	if got := len(e.Deal().Tricks); got != HandSize {
		t.Fatalf("played %d tricks, want %d", got, HandSize)
	}

	var result *EvDealResult
	tricksSeen := 0
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case EvDealResult:
			result = &p
		case EvTrickResult:
			tricksSeen++
		}
	}
	if tricksSeen != HandSize {
		t.Fatalf("announced %d trick results, want %d", tricksSeen, HandSize)
	}
	if result == nil {
		t.Fatal("no deal result announced")
	}
	if result.Final {
		t.Fatal("round 1 of 2 must not be final")
	}

	sum := 0
	for _, v := range result.Totals {
		sum += v
	}
	if sum != 0 {
		t.Fatalf("totals %v do not cancel out", result.Totals)
	}
}

func TestNextDealAfterReady(t *testing.T) {
	e := atTrickPlay(t)
	playDealOut(t, e)

	mustApply(t, e, South, ReadyAction{})
	mustApply(t, e, South, ReadyAction{})
	if e.Phase() != PhaseEndOfDeal {
		t.Fatal("one ready seat must not start the next deal")
	}

	mustApply(t, e, East, ReadyAction{})
	mustApply(t, e, North, ReadyAction{})
	mustApply(t, e, West, ReadyAction{})

	if e.Phase() != PhaseBidding {
		t.Fatalf("phase %s, want bidding for round 2", e.Phase())
	}
	if e.Turn() != North {
		t.Fatalf("first word to %s, want north once the deal passed east", e.Turn())
	}
}

func TestTournamentEnds(t *testing.T) {
	e := atTrickPlay(t)
	playDealOut(t, e)
	for p := Place(0); p < NbPlaces; p++ {
		mustApply(t, e, p, ReadyAction{})
	}

	// Round 2, same seed: the deal has passed to east, so the hand
	// east held last round now sits with north.
	mustApply(t, e, North, BidAction{Contract: Take})
	mustApply(t, e, West, BidAction{Contract: Pass})
	mustApply(t, e, South, BidAction{Contract: Pass})
	mustApply(t, e, East, BidAction{Contract: Pass})

	mustApply(t, e, North, DiscardAction{Cards: discardCards(t, 2, 5, 9, 15, 19, 28)})
	ackAll(t, e, BarrierDog)
	drainAll(e)

	events := playDealOut(t, e)

	var result *EvDealResult
	for _, ev := range events {
		if p, ok := ev.Payload.(EvDealResult); ok {
			result = &p
		}
	}
	if result == nil || !result.Final {
		t.Fatal("round 2 of 2 must carry the final flag")
	}

	for p := Place(0); p < NbPlaces; p++ {
		mustApply(t, e, p, ReadyAction{})
	}
	if e.Phase() != PhaseIdle {
		t.Fatalf("phase %s after the last deal, want idle", e.Phase())
	}
}

func TestAbortMidTrick(t *testing.T) {
	e := atTrickPlay(t)

	mustApply(t, e, East, PlayCardAction{Card: mustCard(t, 31)})
	err := e.Abort()
	wantReason(t, err, ReasonNotAtBoundary)
	if e.Phase() != PhaseTrickPlay {
		t.Fatal("a refused abort must not change the phase")
	}
}

func TestAbortAtBoundary(t *testing.T) {
	e := atTrickPlay(t)
	if err := e.Abort(); err != nil {
		t.Fatal(err)
	}
	if e.Phase() != PhaseIdle {
		t.Fatalf("phase %s after abort, want idle", e.Phase())
	}
}

func TestInvariantDetectsDuplicates(t *testing.T) {
	e := atTrickPlay(t)

	// Smuggle a duplicate into a pile.
	e.deal.AttackPile.Add(e.deal.Hands[South].At(0))

	err := e.checkInvariant()
	var fatalErr *FatalError
	if !errors.As(err, &fatalErr) {
		t.Fatalf("got %v, want a fatal inconsistency", err)
	}

	sawRedeal := false
	for _, ev := range drainAll(e) {
		if rd, ok := ev.Payload.(EvRedeal); ok && rd.Reason == RedealInconsistency {
			sawRedeal = true
		}
	}
	if !sawRedeal {
		t.Fatal("an inconsistency must announce a redeal")
	}
	if e.Phase() != PhaseBidding {
		t.Fatalf("phase %s after the forced redeal, want bidding", e.Phase())
	}
}
