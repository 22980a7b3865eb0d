// Package bot is a table client with just enough judgement to finish
// a game: it bids from hand statistics, buries the cheapest legal
// discard and plays the first legal card. It speaks only the public
// protocol; it never sees another hand.
package bot

import (
	"fmt"

	"tarotserv/game/tarot"
	"tarotserv/protocol"
)

type Bot struct {
	Name string

	place    tarot.Place
	hand     *tarot.Deck
	trick    *tarot.Trick
	leader   tarot.Place
	taker    tarot.Place
	contract tarot.Contract
	highest  tarot.Contract
}

func New(name string) *Bot {
	return &Bot{
		Name: name,
		hand: tarot.NewDeck(),
	}
}

func (b *Bot) Place() tarot.Place {
	return b.place
}

func (b *Bot) Hand() *tarot.Deck {
	return b.hand
}

// OnMessage reacts to one server message and returns the replies to
// send, oldest first. Unknown or irrelevant messages return nothing.
func (b *Bot) OnMessage(msg protocol.Message) ([]protocol.Message, error) {
	switch m := msg.(type) {
	case *protocol.RequestIdentity:
		b.place = tarot.Place(m.Place)
		return []protocol.Message{&protocol.Identify{Name: b.Name}}, nil

	case *protocol.CardsDealt:
		return nil, b.onCardsDealt(m)

	case *protocol.BidAnnounced:
		if c := tarot.Contract(m.Contract); c > b.highest {
			b.highest = c
		}
		return nil, nil

	case *protocol.DealStart:
		b.taker = tarot.Place(m.Taker)
		b.contract = tarot.Contract(m.Contract)
		return nil, nil

	case *protocol.DogRevealed:
		if m.ForDiscard != 0 {
			return nil, b.takeDog(m.Cards)
		}
		return []protocol.Message{&protocol.DogRevealAck{}}, nil

	case *protocol.HandleShown:
		return []protocol.Message{&protocol.HandleRevealAck{}}, nil

	case *protocol.TurnSelect:
		return b.onTurn(m)

	case *protocol.CardPlayed:
		return nil, b.onCardPlayed(m)

	case *protocol.TrickResult:
		b.trick = nil
		b.leader = tarot.Place(m.Winner)
		return []protocol.Message{&protocol.TrickSyncAck{}}, nil

	case *protocol.DealResult:
		if m.Final == 0 {
			return []protocol.Message{&protocol.ReadyForNextDeal{}}, nil
		}
		return nil, nil

	case *protocol.RedealNotice:
		b.reset()
		return nil, nil
	}

	return nil, nil
}

func (b *Bot) reset() {
	b.hand.Clear()
	b.trick = nil
	b.highest = tarot.Pass
	b.contract = tarot.Pass
	b.taker = tarot.Nowhere
}

func (b *Bot) onCardsDealt(m *protocol.CardsDealt) error {
	b.reset()
	for _, id := range m.Cards {
		c, err := tarot.GetByID(id)
		if err != nil {
			return err
		}
		if err := b.hand.Add(c); err != nil {
			return err
		}
	}
	b.hand.Sort()
	return nil
}

func (b *Bot) takeDog(ids []uint8) error {
	for _, id := range ids {
		c, err := tarot.GetByID(id)
		if err != nil {
			return err
		}
		if err := b.hand.Add(c); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) onCardPlayed(m *protocol.CardPlayed) error {
	c, err := tarot.GetByID(m.Card)
	if err != nil {
		return err
	}

	p := tarot.Place(m.Place)
	if b.trick == nil {
		b.trick = tarot.NewTrick(p)
	}
	b.trick.Add(c, p)

	if p == b.place {
		return b.hand.Remove(c)
	}
	return nil
}

func (b *Bot) onTurn(m *protocol.TurnSelect) ([]protocol.Message, error) {
	if tarot.Place(m.Place) != b.place {
		return nil, nil
	}

	switch tarot.Phase(m.Phase) {
	case tarot.PhaseBidding:
		return []protocol.Message{&protocol.Bid{Contract: uint8(b.chooseBid())}}, nil
	case tarot.PhaseDogBuild:
		return b.buildDiscard()
	case tarot.PhaseTrickPlay:
		return b.playCard()
	}
	return nil, nil
}

// chooseBid rates the hand and maps the rating onto a contract. The
// weights favour oudlers and trump length; a rated contract that
// does not outrank the table folds to a pass.
func (b *Bot) chooseBid() tarot.Contract {
	stats := tarot.ComputeStatistics(b.hand)

	total := stats.Oudlers * 18
	total += stats.Trumps * 2
	total += stats.MajorTrumps * 2
	total += stats.Kings * 6
	total += stats.Weddings * 5
	total += stats.Cuts * 5
	total += stats.LongSuits * 5
	if stats.BigTrump {
		total += 6
	}
	if stats.LittleTrump && stats.Trumps >= 5 {
		total += 5
	}

	var want tarot.Contract
	switch {
	case total < 40:
		want = tarot.Pass
	case total < 55:
		want = tarot.Take
	case total < 70:
		want = tarot.Guard
	case total < 80:
		want = tarot.GuardWithout
	default:
		want = tarot.GuardAgainst
	}

	if want <= b.highest {
		return tarot.Pass
	}
	return want
}

// buildDiscard buries the six cheapest plain cards, topping up with
// low trumps only when the hand has too few plain candidates. Kings
// and oudlers are never candidates.
func (b *Bot) buildDiscard() ([]protocol.Message, error) {
	var plain, trumps []tarot.Card
	for _, c := range b.hand.Cards() {
		switch {
		case c.IsOudler() || c.IsKing():
		case c.IsTrump():
			trumps = append(trumps, c)
		default:
			plain = append(plain, c)
		}
	}

	sortByWorth(plain)
	sortByWorth(trumps)

	picked := plain
	if len(picked) > tarot.DogSize {
		picked = picked[:tarot.DogSize]
	}
	picked = append(picked, trumps[:min(tarot.DogSize-len(picked), len(trumps))]...)

	if len(picked) != tarot.DogSize {
		return nil, fmt.Errorf("cannot build a discard from %s", b.hand)
	}

	ids := make([]uint8, 0, tarot.DogSize)
	for _, c := range picked {
		ids = append(ids, c.ID)
		if err := b.hand.Remove(c); err != nil {
			return nil, err
		}
	}
	return []protocol.Message{&protocol.DiscardSubmit{Cards: ids}}, nil
}

func (b *Bot) playCard() ([]protocol.Message, error) {
	trick := b.trick
	if trick == nil {
		trick = tarot.NewTrick(b.place)
	}

	for _, c := range b.hand.Cards() {
		if tarot.LegalPlay(b.hand, trick, c) {
			return []protocol.Message{&protocol.CardPlay{Card: c.ID}}, nil
		}
	}
	return nil, fmt.Errorf("no legal card in %s", b.hand)
}

func sortByWorth(cs []tarot.Card) {
	for i := 1; i < len(cs); i++ {
		for j := i; j > 0; j-- {
			a, b := cs[j-1], cs[j]
			if b.HalfPoints() < a.HalfPoints() ||
				(b.HalfPoints() == a.HalfPoints() && b.Value < a.Value) {
				cs[j-1], cs[j] = b, a
			} else {
				break
			}
		}
	}
}
