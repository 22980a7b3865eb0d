package tarot

// PlayedCard stores a card along with the seat that played it.
type PlayedCard struct {
	Card  Card
	Place Place
}

// Trick is the ordered sequence of cards played in the current round.
type Trick struct {
	Leader Place
	Cards  []PlayedCard
	Winner Place
}

func NewTrick(leader Place) *Trick {
	return &Trick{
		Leader: leader,
		Winner: Nowhere,
	}
}

func (t *Trick) Size() int {
	return len(t.Cards)
}

func (t *Trick) Add(c Card, p Place) {
	t.Cards = append(t.Cards, PlayedCard{Card: c, Place: p})
}

// LedSuit is the suit of the first non-fool card. When only the fool
// has been played yet, there is no led suit.
func (t *Trick) LedSuit() (Suit, bool) {
	for _, pc := range t.Cards {
		if !pc.Card.IsFool() {
			return pc.Card.Suit, true
		}
	}
	return 0, false
}

// HighestTrump returns the strongest trump played so far, fool excluded.
func (t *Trick) HighestTrump() (Card, bool) {
	best := Card{}
	found := false
	for _, pc := range t.Cards {
		c := pc.Card
		if c.Suit == Trumps && !c.IsFool() && c.Value > best.Value {
			best = c
			found = true
		}
	}
	return best, found
}

// Resolve determines the winning seat: highest trump if any was
// played, otherwise highest card of the led suit. The fool never
// wins a trick.
func (t *Trick) Resolve() Place {
	if best, ok := t.HighestTrump(); ok {
		for _, pc := range t.Cards {
			if pc.Card.ID == best.ID {
				t.Winner = pc.Place
				return t.Winner
			}
		}
	}

	led, ok := t.LedSuit()
	if !ok {
		// Nothing but the fool, credit the leader.
		t.Winner = t.Leader
		return t.Winner
	}

	bestValue := uint8(0)
	for _, pc := range t.Cards {
		if pc.Card.Suit == led && pc.Card.Value > bestValue {
			bestValue = pc.Card.Value
			t.Winner = pc.Place
		}
	}
	return t.Winner
}

// ContainsPetit reports whether the 1 of trumps is in the trick and
// who played it.
func (t *Trick) ContainsPetit() (Place, bool) {
	for _, pc := range t.Cards {
		if pc.Card.Suit == Trumps && pc.Card.Value == LittleValue {
			return pc.Place, true
		}
	}
	return Nowhere, false
}
