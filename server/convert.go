package server

import (
	"fmt"

	"tarotserv/game/tarot"
	"tarotserv/protocol"
)

func cardIDs(cs []tarot.Card) []uint8 {
	out := make([]uint8, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func cardsByID(ids []uint8) ([]tarot.Card, error) {
	out := make([]tarot.Card, 0, len(ids))
	for _, id := range ids {
		c, err := tarot.GetByID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// toAction maps a decoded client message to the engine action it
// stands for. Messages with no game meaning (Identify, chat) return
// a nil action and are handled by the room itself.
func toAction(m protocol.Message) (tarot.Action, error) {
	switch msg := m.(type) {
	case *protocol.Bid:
		return tarot.BidAction{
			Contract: tarot.Contract(msg.Contract),
			Slam:     msg.Slam != 0,
		}, nil
	case *protocol.DiscardSubmit:
		cards, err := cardsByID(msg.Cards)
		if err != nil {
			return nil, err
		}
		return tarot.DiscardAction{Cards: cards}, nil
	case *protocol.HandleSubmit:
		cards, err := cardsByID(msg.Cards)
		if err != nil {
			return nil, err
		}
		return tarot.HandleAction{Cards: cards}, nil
	case *protocol.CardPlay:
		c, err := tarot.GetByID(msg.Card)
		if err != nil {
			return nil, err
		}
		return tarot.PlayCardAction{Card: c}, nil
	case *protocol.DogRevealAck:
		return tarot.AckAction{Barrier: tarot.BarrierDog}, nil
	case *protocol.HandleRevealAck:
		return tarot.AckAction{Barrier: tarot.BarrierHandle}, nil
	case *protocol.TrickSyncAck:
		return tarot.AckAction{Barrier: tarot.BarrierTrick}, nil
	case *protocol.ReadyForNextDeal:
		return tarot.ReadyAction{}, nil
	}
	return nil, nil
}

// toMessage maps an engine event payload to its wire message.
func toMessage(payload any) (protocol.Message, error) {
	switch ev := payload.(type) {
	case tarot.EvCardsDealt:
		return &protocol.CardsDealt{Cards: cardIDs(ev.Cards)}, nil
	case tarot.EvTurn:
		return &protocol.TurnSelect{
			Place: uint8(ev.Place),
			Phase: uint8(ev.Phase),
		}, nil
	case tarot.EvBid:
		return &protocol.BidAnnounced{
			Place:    uint8(ev.Place),
			Contract: uint8(ev.Contract),
		}, nil
	case tarot.EvDealStart:
		m := &protocol.DealStart{
			Taker:    uint8(ev.Taker),
			Contract: uint8(ev.Contract),
		}
		if ev.Slam {
			m.Slam = 1
		}
		return m, nil
	case tarot.EvDogRevealed:
		m := &protocol.DogRevealed{Cards: cardIDs(ev.Cards)}
		if ev.ForDiscard {
			m.ForDiscard = 1
		}
		return m, nil
	case tarot.EvHandleShown:
		return &protocol.HandleShown{
			Place: uint8(ev.Place),
			Tier:  uint8(ev.Tier),
			Cards: cardIDs(ev.Cards),
		}, nil
	case tarot.EvCardPlayed:
		return &protocol.CardPlayed{
			Place: uint8(ev.Place),
			Card:  ev.Card.ID,
		}, nil
	case tarot.EvTrickResult:
		return &protocol.TrickResult{
			Winner:  uint8(ev.Winner),
			TrickNo: uint8(ev.TrickNo),
		}, nil
	case tarot.EvDealResult:
		r := ev.Result
		m := &protocol.DealResult{
			Winner:          uint8(r.Winner),
			TakerHalfPoints: uint16(r.TakerHalfPoints),
			Oudlers:         uint8(r.Oudlers),
			Threshold:       uint8(r.Threshold),
			Margin:          uint16(r.Margin),
			Multiplier:      uint8(r.Multiplier),
			PetitAuBout:     uint8(r.PetitAuBout),
			HandleBonus:     uint16(r.HandleBonus),
			SlamBonus:       int16(r.SlamBonus),
			Score:           int32(r.Score),
		}
		for i, t := range ev.Totals {
			m.Totals[i] = int32(t)
		}
		if ev.Final {
			m.Final = 1
		}
		return m, nil
	case tarot.EvRedeal:
		return &protocol.RedealNotice{Reason: uint8(ev.Reason)}, nil
	}
	return nil, fmt.Errorf("no wire mapping for event %T", payload)
}
