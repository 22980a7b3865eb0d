package tarot

// Statistics is a derived snapshot of a hand, recomputed on demand.
// It feeds handle eligibility checks, bot bidding and scoring bonuses.
type Statistics struct {
	NbCards int

	Trumps      int
	Oudlers     int
	MajorTrumps int

	Kings   int
	Queens  int
	Knights int
	Jacks   int

	Weddings   int // king and queen of the same suit
	LongSuits  int // 5 cards or more in one suit
	Cuts       int // void suits
	Singletons int
	Sequences  int // maximal runs of 5+ consecutive suit values

	Spades   int
	Hearts   int
	Clubs    int
	Diamonds int

	LittleTrump bool
	BigTrump    bool
	Fool        bool

	HalfPoints int
}

// ComputeStatistics analyzes a hand without mutating it.
func ComputeStatistics(d *Deck) Statistics {
	var stats Statistics
	stats.NbCards = d.Size()

	analyzeTrumps(d, &stats)
	analyzeSuits(d, &stats)
	return stats
}

func analyzeTrumps(d *Deck, stats *Statistics) {
	for _, c := range d.Cards() {
		if c.Suit == Trumps {
			stats.Trumps++
			if c.Value >= MajorTrump {
				stats.MajorTrumps++
			}
			switch c.Value {
			case BigValue:
				stats.BigTrump = true
				stats.Oudlers++
			case LittleValue:
				stats.LittleTrump = true
				stats.Oudlers++
			case FoolValue:
				stats.Fool = true
				stats.Oudlers++
			}
		}
		stats.HalfPoints += c.HalfPoints()
	}
}

func analyzeSuits(d *Deck, stats *Statistics) {
	for _, suit := range []Suit{Spades, Hearts, Clubs, Diamonds} {
		var presence [NbSuitValues]bool
		count := 0

		for _, c := range d.Cards() {
			if c.Suit != suit {
				continue
			}
			count++
			presence[c.Value-1] = true
			switch c.Value {
			case JackValue:
				stats.Jacks++
			case KnightValue:
				stats.Knights++
			}
		}

		switch count {
		case 0:
			stats.Cuts++
		case 1:
			stats.Singletons++
		}

		switch suit {
		case Spades:
			stats.Spades = count
		case Hearts:
			stats.Hearts = count
		case Clubs:
			stats.Clubs = count
		case Diamonds:
			stats.Diamonds = count
		}

		if presence[KingValue-1] {
			stats.Kings++
		}
		if presence[QueenValue-1] {
			stats.Queens++
		}
		if presence[KingValue-1] && presence[QueenValue-1] {
			stats.Weddings++
		}
		if count >= 5 {
			stats.LongSuits++
		}

		// Run length scan over the presence bitmap. A run closes on a
		// gap or at the end of the suit; overlapping runs within one
		// suit are not double counted.
		run := 0
		for k := 0; k < NbSuitValues; k++ {
			if presence[k] {
				run++
				continue
			}
			if run >= 5 {
				stats.Sequences++
			}
			run = 0
		}
		if run >= 5 {
			stats.Sequences++
		}
	}
}
