package tarot

// Action is a validated player input fed to Engine.Apply. The codec
// builds actions from wire messages; no rule checking happens there.
type Action interface {
	isAction()
}

type BidAction struct {
	Contract Contract
	Slam     bool // announce a chelem together with the bid
}

type DiscardAction struct {
	Cards []Card
}

type HandleAction struct {
	Cards []Card
}

type PlayCardAction struct {
	Card Card
}

// Barrier identifies which synchronization point an ack belongs to.
type Barrier uint8

const (
	BarrierDog Barrier = iota
	BarrierHandle
	BarrierTrick
)

type AckAction struct {
	Barrier Barrier
}

// ReadyAction signals a seat wants the next deal after a result.
type ReadyAction struct{}

func (BidAction) isAction()      {}
func (DiscardAction) isAction()  {}
func (HandleAction) isAction()   {}
func (PlayCardAction) isAction() {}
func (AckAction) isAction()      {}
func (ReadyAction) isAction()    {}
