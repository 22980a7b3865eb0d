package tarot

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrNotInHand = errors.New("card not in hand")
var ErrDuplicateCard = errors.New("card already in hand")

// Deck is an ordered, duplicate free list of cards. It backs hands,
// the dog, discards and won-trick piles.
type Deck struct {
	cards []Card
}

func NewDeck(cards ...Card) *Deck {
	d := &Deck{}
	for _, c := range cards {
		d.cards = append(d.cards, c)
	}
	return d
}

// NewFullDeck returns all 78 cards in table order.
func NewFullDeck() *Deck {
	d := &Deck{cards: make([]Card, 0, NbCards)}
	for id := uint8(0); int(id) < NbCards; id++ {
		d.cards = append(d.cards, cardTable[id])
	}
	return d
}

func (d *Deck) Size() int {
	return len(d.cards)
}

func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

func (d *Deck) At(i int) Card {
	return d.cards[i]
}

func (d *Deck) HasCard(c Card) bool {
	for _, have := range d.cards {
		if have.ID == c.ID {
			return true
		}
	}
	return false
}

func (d *Deck) Add(c Card) error {
	if d.HasCard(c) {
		return fmt.Errorf("%w: %s", ErrDuplicateCard, c.Name())
	}
	d.cards = append(d.cards, c)
	return nil
}

func (d *Deck) Remove(c Card) error {
	for i, have := range d.cards {
		if have.ID == c.ID {
			d.cards = append(d.cards[:i], d.cards[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotInHand, c.Name())
}

func (d *Deck) Clear() {
	d.cards = d.cards[:0]
}

// Append moves every card of src into d and clears src.
func (d *Deck) Append(src *Deck) {
	d.cards = append(d.cards, src.cards...)
	src.Clear()
}

// Shuffle runs a Fisher-Yates pass driven by a linear congruential
// generator so a deal is reproducible from its integer seed.
func (d *Deck) Shuffle(seed int32) {
	for i := len(d.cards); i > 0; i-- {
		seed = 214013*seed + 2531011
		r := int((seed >> 16) & 0x7fff)
		z := r % i
		d.cards[z], d.cards[i-1] = d.cards[i-1], d.cards[z]
	}
}

// Sort orders by descending card id. Display order only, it carries
// no gameplay meaning.
func (d *Deck) Sort() {
	sort.Slice(d.cards, func(i, j int) bool {
		return d.cards[i].ID > d.cards[j].ID
	})
}

func (d *Deck) CountSuit(s Suit) int {
	n := 0
	for _, c := range d.cards {
		if c.Suit == s {
			n++
		}
	}
	return n
}

func (d *Deck) HasSuit(s Suit) bool {
	return d.CountSuit(s) > 0
}

func (d *Deck) HasFool() bool {
	for _, c := range d.cards {
		if c.IsFool() {
			return true
		}
	}
	return false
}

// HighestTrump returns the best trump of the deck. The fool is
// voluntarily excluded: it is never the highest trump, even alone.
func (d *Deck) HighestTrump() (Card, bool) {
	best := Card{}
	found := false
	for _, c := range d.cards {
		if c.Suit == Trumps && c.Value > best.Value {
			best = c
			found = true
		}
	}
	return best, found
}

func (d *Deck) HighestOfSuit(s Suit) (Card, bool) {
	best := Card{}
	found := false
	for _, c := range d.cards {
		if c.Suit == s && (!found || c.Value > best.Value) {
			best = c
			found = true
		}
	}
	return best, found
}

func (d *Deck) HalfPoints() int {
	total := 0
	for _, c := range d.cards {
		total += c.HalfPoints()
	}
	return total
}

func (d *Deck) CountOudlers() int {
	n := 0
	for _, c := range d.cards {
		if c.IsOudler() {
			n++
		}
	}
	return n
}

func (d *Deck) String() string {
	names := make([]string, 0, len(d.cards))
	for _, c := range d.cards {
		names = append(names, c.Name())
	}
	return strings.Join(names, ";")
}

// SetCards replaces the deck content from a semicolon separated name
// list, as produced by String.
func (d *Deck) SetCards(list string) (int, error) {
	d.Clear()
	if list == "" {
		return 0, nil
	}
	for _, name := range strings.Split(list, ";") {
		c, err := GetByName(name)
		if err != nil {
			return d.Size(), err
		}
		if err := d.Add(c); err != nil {
			return d.Size(), err
		}
	}
	return d.Size(), nil
}
