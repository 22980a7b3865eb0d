package bot

import (
	"testing"

	"tarotserv/game/tarot"
	"tarotserv/protocol"
)

func deal(t *testing.T, b *Bot, ids ...uint8) {
	t.Helper()
	if _, err := b.OnMessage(&protocol.CardsDealt{Cards: ids}); err != nil {
		t.Fatal(err)
	}
}

func bidOf(t *testing.T, b *Bot) tarot.Contract {
	t.Helper()
	replies, err := b.OnMessage(&protocol.TurnSelect{
		Place: uint8(b.Place()),
		Phase: uint8(tarot.PhaseBidding),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(replies) != 1 {
		t.Fatalf("expected one bid reply, got %d", len(replies))
	}
	bid, ok := replies[0].(*protocol.Bid)
	if !ok {
		t.Fatalf("expected a bid, got %T", replies[0])
	}
	return tarot.Contract(bid.Contract)
}

func TestBotIdentifies(t *testing.T) {
	b := New("tester")
	replies, err := b.OnMessage(&protocol.RequestIdentity{Place: 2, NbPlayers: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(replies) != 1 {
		t.Fatalf("expected one reply, got %d", len(replies))
	}
	id, ok := replies[0].(*protocol.Identify)
	if !ok || id.Name != "tester" {
		t.Fatalf("expected an identify as tester, got %#v", replies[0])
	}
	if b.Place() != tarot.North {
		t.Fatalf("bot seated at %s, want north", b.Place())
	}
}

func TestBotPassesOnWeakHand(t *testing.T) {
	b := New("weak")
	b.OnMessage(&protocol.RequestIdentity{Place: 0, NbPlayers: 4})

	// No oudler, no king, three low trumps.
	deal(t, b, 58, 59, 60, 0, 1, 2, 3, 4, 14, 15, 16, 17, 28, 29, 30, 42, 43, 44)

	if c := bidOf(t, b); c != tarot.Pass {
		t.Fatalf("bid %s on a weak hand, want pass", c)
	}
}

func TestBotBidsOnStrongHand(t *testing.T) {
	b := New("strong")
	b.OnMessage(&protocol.RequestIdentity{Place: 0, NbPlayers: 4})

	// Three oudlers, long trumps, two kings.
	deal(t, b, 56, 57, 77, 76, 75, 74, 73, 72, 71, 70, 13, 27, 0, 1, 2, 14, 15, 16)

	if c := bidOf(t, b); c < tarot.Guard {
		t.Fatalf("bid %s on a monster hand, want at least guard", c)
	}
}

func TestBotFoldsWhenOutbid(t *testing.T) {
	b := New("folder")
	b.OnMessage(&protocol.RequestIdentity{Place: 0, NbPlayers: 4})
	deal(t, b, 56, 57, 77, 76, 75, 74, 73, 72, 71, 70, 13, 27, 0, 1, 2, 14, 15, 16)

	// Somebody already went all the way.
	b.OnMessage(&protocol.BidAnnounced{Place: 1, Contract: uint8(tarot.GuardAgainst)})

	if c := bidOf(t, b); c != tarot.Pass {
		t.Fatalf("bid %s against a guard-against, want pass", c)
	}
}

func TestBotDiscardIsLegal(t *testing.T) {
	b := New("taker")
	b.OnMessage(&protocol.RequestIdentity{Place: 1, NbPlayers: 4})

	// The seed 42 taker hand from the deal tests.
	deal(t, b, 74, 72, 71, 70, 69, 66, 64, 60, 58, 53, 49, 36, 34, 28, 13, 12, 5, 2)
	if _, err := b.OnMessage(&protocol.DogRevealed{
		Cards:      []uint8{31, 25, 56, 9, 15, 19},
		ForDiscard: 1,
	}); err != nil {
		t.Fatal(err)
	}
	if b.Hand().Size() != tarot.HandSize+tarot.DogSize {
		t.Fatalf("hand holds %d cards after the pickup", b.Hand().Size())
	}

	replies, err := b.OnMessage(&protocol.TurnSelect{
		Place: 1,
		Phase: uint8(tarot.PhaseDogBuild),
	})
	if err != nil {
		t.Fatal(err)
	}
	sub, ok := replies[0].(*protocol.DiscardSubmit)
	if !ok {
		t.Fatalf("expected a discard, got %T", replies[0])
	}
	if len(sub.Cards) != tarot.DogSize {
		t.Fatalf("discard of %d cards", len(sub.Cards))
	}
	for _, id := range sub.Cards {
		c, err := tarot.GetByID(id)
		if err != nil {
			t.Fatal(err)
		}
		if c.IsOudler() || c.IsKing() || c.IsTrump() {
			t.Fatalf("discard contains %s", c.Name())
		}
	}
	if b.Hand().Size() != tarot.HandSize {
		t.Fatalf("hand holds %d cards after burying", b.Hand().Size())
	}
}

func TestBotPlaysLegally(t *testing.T) {
	b := New("player")
	b.OnMessage(&protocol.RequestIdentity{Place: 1, NbPlayers: 4})

	// Void in spades, one trump: the trump is forced.
	deal(t, b, 61, 14, 15, 28, 29, 30, 42, 43, 44, 45, 46, 47, 16, 17, 18, 19, 20, 21)

	// South leads the 10 of spades.
	if _, err := b.OnMessage(&protocol.CardPlayed{Place: 0, Card: 9}); err != nil {
		t.Fatal(err)
	}

	replies, err := b.OnMessage(&protocol.TurnSelect{
		Place: 1,
		Phase: uint8(tarot.PhaseTrickPlay),
	})
	if err != nil {
		t.Fatal(err)
	}
	play, ok := replies[0].(*protocol.CardPlay)
	if !ok {
		t.Fatalf("expected a card, got %T", replies[0])
	}
	if play.Card != 61 {
		t.Fatalf("played card %d, want the lone trump 61", play.Card)
	}
}

func TestBotAcksBarriers(t *testing.T) {
	b := New("acker")
	b.OnMessage(&protocol.RequestIdentity{Place: 3, NbPlayers: 4})

	replies, _ := b.OnMessage(&protocol.DogRevealed{Cards: []uint8{1, 2, 3, 4, 5, 6}})
	if len(replies) != 1 {
		t.Fatal("public dog reveal must be acked")
	}
	if _, ok := replies[0].(*protocol.DogRevealAck); !ok {
		t.Fatalf("expected a dog ack, got %T", replies[0])
	}

	replies, _ = b.OnMessage(&protocol.TrickResult{Winner: 0, TrickNo: 3})
	if _, ok := replies[0].(*protocol.TrickSyncAck); !ok {
		t.Fatalf("expected a trick ack, got %T", replies[0])
	}

	replies, _ = b.OnMessage(&protocol.DealResult{Final: 0})
	if _, ok := replies[0].(*protocol.ReadyForNextDeal); !ok {
		t.Fatalf("expected a ready, got %T", replies[0])
	}
	if replies, _ = b.OnMessage(&protocol.DealResult{Final: 1}); len(replies) != 0 {
		t.Fatal("the final result needs no reply")
	}
}
