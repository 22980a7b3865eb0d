package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarotserv/core/network"
)

func roundTrip(t *testing.T, in Message) Message {
	t.Helper()

	pk := Encode(in)
	require.Equal(t, in.Kind(), pk.Kind())
	require.Equal(t, network.ProtocolVersion, pk.Version())

	// Through the actual wire framing, not just the body codec.
	var buf bytes.Buffer
	_, err := pk.WriteTo(&buf)
	require.NoError(t, err)

	back := network.NewPacket()
	_, err = back.ReadFrom(&buf)
	require.NoError(t, err)

	out, err := Decode(back)
	require.NoError(t, err)
	return out
}

func TestRoundTripClientMessages(t *testing.T) {
	cases := []Message{
		&Identify{Name: "alice", Avatar: "cat.png"},
		&Identify{},
		&ChatMessage{Text: "bonjour"},
		&Bid{Contract: 2, Slam: 1},
		&DiscardSubmit{Cards: []uint8{2, 5, 9, 15, 19, 28}},
		&DogRevealAck{},
		&HandleSubmit{Cards: []uint8{56, 58, 60, 64, 66, 69, 70, 71, 72, 74}},
		&HandleRevealAck{},
		&TrickSyncAck{},
		&CardPlay{Card: 77},
		&ReadyForNextDeal{},
	}
	for _, in := range cases {
		assert.Equal(t, in, roundTrip(t, in), "kind 0x%02x", in.Kind())
	}
}

func TestRoundTripServerMessages(t *testing.T) {
	cases := []Message{
		&RequestIdentity{Place: 3, NbPlayers: 4},
		&PlayersList{Players: []PlayerEntry{
			{Place: 0, Name: "south"},
			{Place: 1, Name: "east"},
		}},
		&PlayersList{},
		&DealStart{Taker: 1, Contract: 2, Slam: 1},
		&CardsDealt{Cards: []uint8{0, 13, 56, 77}},
		&TurnSelect{Place: 2, Phase: 5},
		&BidAnnounced{Place: 1, Contract: 4},
		&DogRevealed{Cards: []uint8{31, 25, 56, 9, 15, 19}, ForDiscard: 1},
		&HandleShown{Place: 0, Tier: 1, Cards: []uint8{58, 59, 60}},
		&CardPlayed{Place: 3, Card: 41},
		&TrickResult{Winner: 2, TrickNo: 17},
		&DealResult{
			Winner:          0,
			TakerHalfPoints: 112,
			Oudlers:         2,
			Threshold:       41,
			Margin:          15,
			Multiplier:      2,
			PetitAuBout:     0xFF,
			HandleBonus:     20,
			SlamBonus:       -200,
			Score:           110,
			Totals:          [4]int32{330, -110, -110, -110},
			Final:           1,
		},
		&RedealNotice{Reason: 1},
		&ServerFull{},
		&ChatBroadcast{Name: "", Text: "east disconnected"},
		&ActionRefused{Reason: 7},
	}
	for _, in := range cases {
		assert.Equal(t, in, roundTrip(t, in), "kind 0x%02x", in.Kind())
	}
}

func TestDecodeUnknownKind(t *testing.T) {
	pk := network.NewPacket()
	pk.SetKind(0xEE)
	pk.SetVersion(network.ProtocolVersion)

	_, err := Decode(pk)
	require.Error(t, err)
	var perr *DecodeError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, uint8(0xEE), perr.Kind)
}

func TestDecodeVersionMismatch(t *testing.T) {
	pk := Encode(&ChatMessage{Text: "hi"})
	pk.SetVersion(network.ProtocolVersion + 1)

	_, err := Decode(pk)
	assert.Error(t, err)
}

func TestDecodeShortBody(t *testing.T) {
	pk := network.NewPacket()
	pk.SetKind(KindIdentify)
	pk.SetVersion(network.ProtocolVersion)
	pk.SetBody([]byte{0x05, 0x00, 'a'}) // claims five bytes, carries one

	_, err := Decode(pk)
	assert.Error(t, err)
}

func TestDecodeTrailingBytes(t *testing.T) {
	pk := Encode(&CardPlay{Card: 7})
	pk.SetBody(append(pk.Body(), 0x00))

	_, err := Decode(pk)
	assert.Error(t, err)
}

func TestEncodeLayoutIsStable(t *testing.T) {
	pk := Encode(&CardPlayed{Place: 2, Card: 61})
	assert.Equal(t, []byte{2, 61}, pk.Body())

	pk = Encode(&ChatMessage{Text: "hi"})
	assert.Equal(t, []byte{0x02, 0x00, 'h', 'i'}, pk.Body(), "strings are uint16 length prefixed, little endian")

	pk = Encode(&DiscardSubmit{Cards: []uint8{1, 2, 3}})
	assert.Equal(t, []byte{0x03, 1, 2, 3}, pk.Body(), "card lists are count prefixed")
}
