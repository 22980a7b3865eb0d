// Package protocol is the shared client/server message vocabulary of
// the game. It translates between wire bytes and typed messages and
// nothing else: game rules live behind the engine, not here.
package protocol

// Message kinds, client to server.
const (
	KindIdentify uint8 = 0x01 + iota
	KindChatMessage
	KindBid
	KindDiscardSubmit
	KindDogRevealAck
	KindHandleSubmit
	KindHandleRevealAck
	KindTrickSyncAck
	KindCardPlay
	KindReadyForNextDeal
)

// Message kinds, server to client.
const (
	KindRequestIdentity uint8 = 0x40 + iota
	KindPlayersList
	KindDealStart
	KindCardsDealt
	KindTurnSelect
	KindBidAnnounced
	KindDogRevealed
	KindHandleShown
	KindCardPlayed
	KindTrickResult
	KindDealResult
	KindRedealNotice
	KindServerFull
	KindChatBroadcast
	KindActionRefused
)

// Message is one typed protocol unit. Numeric fields are fixed width
// little endian, strings are length prefixed, card lists are count
// prefixed; the layout of every kind is bit stable within one
// protocol version.
type Message interface {
	Kind() uint8
	encodeBody(w *writer)
	decodeBody(r *reader) error
}

// ---- client to server ----

type Identify struct {
	Name   string
	Avatar string
}

type ChatMessage struct {
	Text string
}

type Bid struct {
	Contract uint8
	Slam     uint8
}

type DiscardSubmit struct {
	Cards []uint8
}

type DogRevealAck struct{}

type HandleSubmit struct {
	Cards []uint8
}

type HandleRevealAck struct{}

type TrickSyncAck struct{}

type CardPlay struct {
	Card uint8
}

type ReadyForNextDeal struct{}

// ---- server to client ----

type RequestIdentity struct {
	Place     uint8
	NbPlayers uint8
}

type PlayerEntry struct {
	Place uint8
	Name  string
}

type PlayersList struct {
	Players []PlayerEntry
}

type DealStart struct {
	Taker    uint8
	Contract uint8
	Slam     uint8
}

type CardsDealt struct {
	Cards []uint8
}

type TurnSelect struct {
	Place uint8
	Phase uint8
}

type BidAnnounced struct {
	Place    uint8
	Contract uint8
}

// DogRevealed carries the dog either privately to the taker for
// discard building (ForDiscard set) or publicly at the reveal
// barrier.
type DogRevealed struct {
	Cards      []uint8
	ForDiscard uint8
}

type HandleShown struct {
	Place uint8
	Tier  uint8
	Cards []uint8
}

type CardPlayed struct {
	Place uint8
	Card  uint8
}

type TrickResult struct {
	Winner  uint8
	TrickNo uint8
}

type DealResult struct {
	Winner          uint8
	TakerHalfPoints uint16
	Oudlers         uint8
	Threshold       uint8
	Margin          uint16
	Multiplier      uint8
	PetitAuBout     uint8
	HandleBonus     uint16
	SlamBonus       int16
	Score           int32
	Totals          [4]int32
	Final           uint8
}

type RedealNotice struct {
	Reason uint8
}

type ServerFull struct{}

type ChatBroadcast struct {
	Name string
	Text string
}

type ActionRefused struct {
	Reason uint8
}

func (*Identify) Kind() uint8         { return KindIdentify }
func (*ChatMessage) Kind() uint8      { return KindChatMessage }
func (*Bid) Kind() uint8              { return KindBid }
func (*DiscardSubmit) Kind() uint8    { return KindDiscardSubmit }
func (*DogRevealAck) Kind() uint8     { return KindDogRevealAck }
func (*HandleSubmit) Kind() uint8     { return KindHandleSubmit }
func (*HandleRevealAck) Kind() uint8  { return KindHandleRevealAck }
func (*TrickSyncAck) Kind() uint8     { return KindTrickSyncAck }
func (*CardPlay) Kind() uint8         { return KindCardPlay }
func (*ReadyForNextDeal) Kind() uint8 { return KindReadyForNextDeal }

func (*RequestIdentity) Kind() uint8 { return KindRequestIdentity }
func (*PlayersList) Kind() uint8     { return KindPlayersList }
func (*DealStart) Kind() uint8       { return KindDealStart }
func (*CardsDealt) Kind() uint8      { return KindCardsDealt }
func (*TurnSelect) Kind() uint8      { return KindTurnSelect }
func (*BidAnnounced) Kind() uint8    { return KindBidAnnounced }
func (*DogRevealed) Kind() uint8     { return KindDogRevealed }
func (*HandleShown) Kind() uint8     { return KindHandleShown }
func (*CardPlayed) Kind() uint8      { return KindCardPlayed }
func (*TrickResult) Kind() uint8     { return KindTrickResult }
func (*DealResult) Kind() uint8      { return KindDealResult }
func (*RedealNotice) Kind() uint8    { return KindRedealNotice }
func (*ServerFull) Kind() uint8      { return KindServerFull }
func (*ChatBroadcast) Kind() uint8   { return KindChatBroadcast }
func (*ActionRefused) Kind() uint8   { return KindActionRefused }
