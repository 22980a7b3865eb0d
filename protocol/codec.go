package protocol

import (
	"fmt"

	"tarotserv/core/network"
)

// DecodeError is a connection level protocol error: the frame could
// not be turned into a typed message. The offending frame is dropped;
// it never reaches the game.
type DecodeError struct {
	Kind   uint8
	Detail string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("protocol error on kind 0x%02x: %s", e.Kind, e.Detail)
}

func malformed(kind uint8, format string, args ...any) error {
	return &DecodeError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

var registry = map[uint8]func() Message{
	KindIdentify:         func() Message { return &Identify{} },
	KindChatMessage:      func() Message { return &ChatMessage{} },
	KindBid:              func() Message { return &Bid{} },
	KindDiscardSubmit:    func() Message { return &DiscardSubmit{} },
	KindDogRevealAck:     func() Message { return &DogRevealAck{} },
	KindHandleSubmit:     func() Message { return &HandleSubmit{} },
	KindHandleRevealAck:  func() Message { return &HandleRevealAck{} },
	KindTrickSyncAck:     func() Message { return &TrickSyncAck{} },
	KindCardPlay:         func() Message { return &CardPlay{} },
	KindReadyForNextDeal: func() Message { return &ReadyForNextDeal{} },

	KindRequestIdentity: func() Message { return &RequestIdentity{} },
	KindPlayersList:     func() Message { return &PlayersList{} },
	KindDealStart:       func() Message { return &DealStart{} },
	KindCardsDealt:      func() Message { return &CardsDealt{} },
	KindTurnSelect:      func() Message { return &TurnSelect{} },
	KindBidAnnounced:    func() Message { return &BidAnnounced{} },
	KindDogRevealed:     func() Message { return &DogRevealed{} },
	KindHandleShown:     func() Message { return &HandleShown{} },
	KindCardPlayed:      func() Message { return &CardPlayed{} },
	KindTrickResult:     func() Message { return &TrickResult{} },
	KindDealResult:      func() Message { return &DealResult{} },
	KindRedealNotice:    func() Message { return &RedealNotice{} },
	KindServerFull:      func() Message { return &ServerFull{} },
	KindChatBroadcast:   func() Message { return &ChatBroadcast{} },
	KindActionRefused:   func() Message { return &ActionRefused{} },
}

// Encode frames a typed message into a wire packet.
func Encode(m Message) *network.Packet {
	w := &writer{}
	m.encodeBody(w)

	pk := network.NewPacket()
	pk.SetKind(m.Kind())
	pk.SetVersion(network.ProtocolVersion)
	pk.SetBody(w.bytes())
	return pk
}

// Decode turns a wire packet back into a typed message. Trailing
// bytes are as malformed as missing ones.
func Decode(pk *network.Packet) (Message, error) {
	if pk.Version() != network.ProtocolVersion {
		return nil, malformed(pk.Kind(), "protocol version %d, want %d",
			pk.Version(), network.ProtocolVersion)
	}
	ctor, ok := registry[pk.Kind()]
	if !ok {
		return nil, malformed(pk.Kind(), "unknown message kind")
	}

	m := ctor()
	r := &reader{data: pk.Body()}
	if err := m.decodeBody(r); err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, malformed(pk.Kind(), "%s", r.err)
	}
	if r.off != len(r.data) {
		return nil, malformed(pk.Kind(), "%d trailing bytes", len(r.data)-r.off)
	}
	return m, nil
}

// ---- body layouts ----

func (m *Identify) encodeBody(w *writer) {
	w.str(m.Name)
	w.str(m.Avatar)
}

func (m *Identify) decodeBody(r *reader) error {
	m.Name = r.str()
	m.Avatar = r.str()
	return nil
}

func (m *ChatMessage) encodeBody(w *writer) {
	w.str(m.Text)
}

func (m *ChatMessage) decodeBody(r *reader) error {
	m.Text = r.str()
	return nil
}

func (m *Bid) encodeBody(w *writer) {
	w.u8(m.Contract)
	w.u8(m.Slam)
}

func (m *Bid) decodeBody(r *reader) error {
	m.Contract = r.u8()
	m.Slam = r.u8()
	return nil
}

func (m *DiscardSubmit) encodeBody(w *writer) {
	w.cards(m.Cards)
}

func (m *DiscardSubmit) decodeBody(r *reader) error {
	m.Cards = r.cards()
	return nil
}

func (m *DogRevealAck) encodeBody(*writer)       {}
func (m *DogRevealAck) decodeBody(*reader) error { return nil }

func (m *HandleSubmit) encodeBody(w *writer) {
	w.cards(m.Cards)
}

func (m *HandleSubmit) decodeBody(r *reader) error {
	m.Cards = r.cards()
	return nil
}

func (m *HandleRevealAck) encodeBody(*writer)       {}
func (m *HandleRevealAck) decodeBody(*reader) error { return nil }

func (m *TrickSyncAck) encodeBody(*writer)       {}
func (m *TrickSyncAck) decodeBody(*reader) error { return nil }

func (m *CardPlay) encodeBody(w *writer) {
	w.u8(m.Card)
}

func (m *CardPlay) decodeBody(r *reader) error {
	m.Card = r.u8()
	return nil
}

func (m *ReadyForNextDeal) encodeBody(*writer)       {}
func (m *ReadyForNextDeal) decodeBody(*reader) error { return nil }

func (m *RequestIdentity) encodeBody(w *writer) {
	w.u8(m.Place)
	w.u8(m.NbPlayers)
}

func (m *RequestIdentity) decodeBody(r *reader) error {
	m.Place = r.u8()
	m.NbPlayers = r.u8()
	return nil
}

func (m *PlayersList) encodeBody(w *writer) {
	w.u8(uint8(len(m.Players)))
	for _, p := range m.Players {
		w.u8(p.Place)
		w.str(p.Name)
	}
}

func (m *PlayersList) decodeBody(r *reader) error {
	n := int(r.u8())
	for i := 0; i < n; i++ {
		m.Players = append(m.Players, PlayerEntry{
			Place: r.u8(),
			Name:  r.str(),
		})
	}
	return nil
}

func (m *DealStart) encodeBody(w *writer) {
	w.u8(m.Taker)
	w.u8(m.Contract)
	w.u8(m.Slam)
}

func (m *DealStart) decodeBody(r *reader) error {
	m.Taker = r.u8()
	m.Contract = r.u8()
	m.Slam = r.u8()
	return nil
}

func (m *CardsDealt) encodeBody(w *writer) {
	w.cards(m.Cards)
}

func (m *CardsDealt) decodeBody(r *reader) error {
	m.Cards = r.cards()
	return nil
}

func (m *TurnSelect) encodeBody(w *writer) {
	w.u8(m.Place)
	w.u8(m.Phase)
}

func (m *TurnSelect) decodeBody(r *reader) error {
	m.Place = r.u8()
	m.Phase = r.u8()
	return nil
}

func (m *BidAnnounced) encodeBody(w *writer) {
	w.u8(m.Place)
	w.u8(m.Contract)
}

func (m *BidAnnounced) decodeBody(r *reader) error {
	m.Place = r.u8()
	m.Contract = r.u8()
	return nil
}

func (m *DogRevealed) encodeBody(w *writer) {
	w.cards(m.Cards)
	w.u8(m.ForDiscard)
}

func (m *DogRevealed) decodeBody(r *reader) error {
	m.Cards = r.cards()
	m.ForDiscard = r.u8()
	return nil
}

func (m *HandleShown) encodeBody(w *writer) {
	w.u8(m.Place)
	w.u8(m.Tier)
	w.cards(m.Cards)
}

func (m *HandleShown) decodeBody(r *reader) error {
	m.Place = r.u8()
	m.Tier = r.u8()
	m.Cards = r.cards()
	return nil
}

func (m *CardPlayed) encodeBody(w *writer) {
	w.u8(m.Place)
	w.u8(m.Card)
}

func (m *CardPlayed) decodeBody(r *reader) error {
	m.Place = r.u8()
	m.Card = r.u8()
	return nil
}

func (m *TrickResult) encodeBody(w *writer) {
	w.u8(m.Winner)
	w.u8(m.TrickNo)
}

func (m *TrickResult) decodeBody(r *reader) error {
	m.Winner = r.u8()
	m.TrickNo = r.u8()
	return nil
}

func (m *DealResult) encodeBody(w *writer) {
	w.u8(m.Winner)
	w.u16(m.TakerHalfPoints)
	w.u8(m.Oudlers)
	w.u8(m.Threshold)
	w.u16(m.Margin)
	w.u8(m.Multiplier)
	w.u8(m.PetitAuBout)
	w.u16(m.HandleBonus)
	w.i16(m.SlamBonus)
	w.i32(m.Score)
	for _, t := range m.Totals {
		w.i32(t)
	}
	w.u8(m.Final)
}

func (m *DealResult) decodeBody(r *reader) error {
	m.Winner = r.u8()
	m.TakerHalfPoints = r.u16()
	m.Oudlers = r.u8()
	m.Threshold = r.u8()
	m.Margin = r.u16()
	m.Multiplier = r.u8()
	m.PetitAuBout = r.u8()
	m.HandleBonus = r.u16()
	m.SlamBonus = r.i16()
	m.Score = r.i32()
	for i := range m.Totals {
		m.Totals[i] = r.i32()
	}
	m.Final = r.u8()
	return nil
}

func (m *RedealNotice) encodeBody(w *writer) {
	w.u8(m.Reason)
}

func (m *RedealNotice) decodeBody(r *reader) error {
	m.Reason = r.u8()
	return nil
}

func (m *ServerFull) encodeBody(*writer)       {}
func (m *ServerFull) decodeBody(*reader) error { return nil }

func (m *ChatBroadcast) encodeBody(w *writer) {
	w.str(m.Name)
	w.str(m.Text)
}

func (m *ChatBroadcast) decodeBody(r *reader) error {
	m.Name = r.str()
	m.Text = r.str()
	return nil
}

func (m *ActionRefused) encodeBody(w *writer) {
	w.u8(m.Reason)
}

func (m *ActionRefused) decodeBody(r *reader) error {
	m.Reason = r.u8()
	return nil
}
