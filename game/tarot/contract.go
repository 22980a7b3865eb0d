package tarot

// Place is one of the four fixed seats around the table.
type Place uint8

const (
	South Place = iota
	East
	North
	West

	NbPlaces = 4

	Everyone Place = 0xFE
	Nowhere  Place = 0xFF
)

func (p Place) Next() Place {
	return (p + 1) % NbPlaces
}

func (p Place) Valid() bool {
	return p < NbPlaces
}

func (p Place) String() string {
	switch p {
	case South:
		return "south"
	case East:
		return "east"
	case North:
		return "north"
	case West:
		return "west"
	case Everyone:
		return "everyone"
	}
	return "nowhere"
}

// Contract is a bid level. The zero value is a pass.
type Contract uint8

const (
	Pass Contract = iota
	Take
	Guard
	GuardWithout
	GuardAgainst
)

func (c Contract) String() string {
	switch c {
	case Pass:
		return "pass"
	case Take:
		return "take"
	case Guard:
		return "guard"
	case GuardWithout:
		return "guard-without"
	case GuardAgainst:
		return "guard-against"
	}
	return "unknown"
}

// Multiplier returns the score multiplier of the contract tier.
func (c Contract) Multiplier() int {
	switch c {
	case Take:
		return 1
	case Guard:
		return 2
	case GuardWithout:
		return 4
	case GuardAgainst:
		return 6
	}
	return 0
}

type Team uint8

const (
	Attack  Team = 0
	Defense Team = 1
	NoTeam  Team = 0xFF
)

func (t Team) String() string {
	switch t {
	case Attack:
		return "attack"
	case Defense:
		return "defense"
	}
	return "no-team"
}

func (t Team) Other() Team {
	if t == Attack {
		return Defense
	}
	return Attack
}

// HandleTier is the declared size class of a poignee.
type HandleTier uint8

const (
	SimpleHandle HandleTier = iota
	DoubleHandle
	TripleHandle
)

// HandleTierForSize maps a declared trump count to its tier.
// Only 10, 13 and 15 are valid sizes.
func HandleTierForSize(n int) (HandleTier, bool) {
	switch n {
	case 10:
		return SimpleHandle, true
	case 13:
		return DoubleHandle, true
	case 15:
		return TripleHandle, true
	}
	return SimpleHandle, false
}

// Bonus returns the handle bonus in points. It is never multiplied.
func (h HandleTier) Bonus() int {
	switch h {
	case SimpleHandle:
		return 20
	case DoubleHandle:
		return 30
	case TripleHandle:
		return 40
	}
	return 0
}
