package tarot

import (
	"errors"
	"fmt"
)

var ErrCardNotFound = errors.New("card not found")

type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Clubs
	Diamonds
	Trumps
)

func (s Suit) String() string {
	switch s {
	case Spades:
		return "spades"
	case Hearts:
		return "hearts"
	case Clubs:
		return "clubs"
	case Diamonds:
		return "diamonds"
	case Trumps:
		return "trumps"
	}
	return "unknown"
}

const (
	NbCards      = 78
	FoolValue    = 0
	LittleValue  = 1
	BigValue     = 21
	KingValue    = 14
	QueenValue   = 13
	KnightValue  = 12
	JackValue    = 11
	MajorTrump   = 15 // lowest trump value counted as major
	NbSuitValues = 14

	// Total card weight of the deck, in half points (91 points).
	TotalHalfPoints = 182
)

// Card is an immutable value. The 78 cards are built once in the
// package table below and referenced by id everywhere else.
type Card struct {
	ID    uint8
	Suit  Suit
	Value uint8
}

// HalfPoints is the card weight doubled, so that every weight is an
// integer and scoring never touches floating point.
func (c Card) HalfPoints() int {
	if c.Suit == Trumps {
		if c.IsOudler() {
			return 9
		}
		return 1
	}
	switch c.Value {
	case KingValue:
		return 9
	case QueenValue:
		return 7
	case KnightValue:
		return 5
	case JackValue:
		return 3
	}
	return 1
}

func (c Card) IsTrump() bool {
	return c.Suit == Trumps
}

func (c Card) IsFool() bool {
	return c.Suit == Trumps && c.Value == FoolValue
}

// IsOudler reports whether the card is the fool, the 1 of trumps or
// the 21 of trumps.
func (c Card) IsOudler() bool {
	if c.Suit != Trumps {
		return false
	}
	return c.Value == FoolValue || c.Value == LittleValue || c.Value == BigValue
}

func (c Card) IsKing() bool {
	return c.Suit != Trumps && c.Value == KingValue
}

func (c Card) Name() string {
	return fmt.Sprintf("%d-of-%s", c.Value, c.Suit)
}

var cardTable [NbCards]Card
var cardByName map[string]Card

func init() {
	id := uint8(0)
	for _, s := range []Suit{Spades, Hearts, Clubs, Diamonds} {
		for v := uint8(1); v <= NbSuitValues; v++ {
			cardTable[id] = Card{ID: id, Suit: s, Value: v}
			id++
		}
	}
	for v := uint8(0); v <= BigValue; v++ {
		cardTable[id] = Card{ID: id, Suit: Trumps, Value: v}
		id++
	}

	cardByName = make(map[string]Card, NbCards)
	for _, c := range cardTable {
		cardByName[c.Name()] = c
	}
}

func GetByID(id uint8) (Card, error) {
	if int(id) >= NbCards {
		return Card{}, fmt.Errorf("%w: id %d", ErrCardNotFound, id)
	}
	return cardTable[id], nil
}

func GetByName(name string) (Card, error) {
	c, ok := cardByName[name]
	if !ok {
		return Card{}, fmt.Errorf("%w: %q", ErrCardNotFound, name)
	}
	return c, nil
}
