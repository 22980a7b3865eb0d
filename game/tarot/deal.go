package tarot

const (
	HandSize = 18
	DogSize  = 6
)

// HandleDecl is an accepted poignee declaration, immutable once made.
type HandleDecl struct {
	Place Place
	Tier  HandleTier
	Cards []Card
}

// Deal aggregates everything belonging to one hand of the game:
// per-seat hands, the dog, bidding outcome, declared handles, the
// finished tricks and the two won-card piles. It is created when
// dealing starts, mutated by the engine through the phases, then
// frozen when scored.
type Deal struct {
	Seed   int32
	Dealer Place

	Hands [NbPlaces]*Deck
	Dog   *Deck

	Bids          [NbPlaces]Contract
	Taker         Place
	Contract      Contract
	SlamAnnounced bool

	// Discard is the six cards the taker buried. It scores for the
	// attack, except under guard-against where the untouched dog
	// goes to the defense.
	Discard *Deck

	Handles []HandleDecl

	Tricks []*Trick

	AttackPile  *Deck
	DefensePile *Deck
}

func NewDeal(seed int32, dealer Place) *Deal {
	d := &Deal{
		Seed:        seed,
		Dealer:      dealer,
		Dog:         NewDeck(),
		Discard:     NewDeck(),
		AttackPile:  NewDeck(),
		DefensePile: NewDeck(),
		Taker:       Nowhere,
		Contract:    Pass,
	}
	for i := range d.Hands {
		d.Hands[i] = NewDeck()
	}
	return d
}

// Deal18 shuffles a full deck with the deal seed and distributes
// 18 cards to each seat and 6 to the dog.
func (d *Deal) Deal18() {
	deck := NewFullDeck()
	deck.Shuffle(d.Seed)

	cards := deck.Cards()
	seat := d.Dealer.Next()
	for i := 0; i < NbPlaces; i++ {
		hand := d.Hands[seat]
		hand.Clear()
		for _, c := range cards[i*HandSize : (i+1)*HandSize] {
			hand.Add(c)
		}
		hand.Sort()
		seat = seat.Next()
	}

	d.Dog.Clear()
	for _, c := range cards[NbPlaces*HandSize:] {
		d.Dog.Add(c)
	}
}

// Team returns the side a seat belongs to once bidding has resolved.
func (d *Deal) Team(p Place) Team {
	if d.Taker == Nowhere {
		return NoTeam
	}
	if p == d.Taker {
		return Attack
	}
	return Defense
}

func (d *Deal) Pile(t Team) *Deck {
	if t == Attack {
		return d.AttackPile
	}
	return d.DefensePile
}

// HandleFor returns the declaration made by a seat, if any.
func (d *Deal) HandleFor(p Place) (HandleDecl, bool) {
	for _, h := range d.Handles {
		if h.Place == p {
			return h, true
		}
	}
	return HandleDecl{}, false
}

// CountCards sums every container of the deal: hands, dog, discard,
// the open trick cards and both piles. It must always equal 78.
func (d *Deal) CountCards(openTrick *Trick) int {
	n := d.Dog.Size() + d.Discard.Size() + d.AttackPile.Size() + d.DefensePile.Size()
	for _, h := range d.Hands {
		n += h.Size()
	}
	if openTrick != nil {
		n += openTrick.Size()
	}
	return n
}
