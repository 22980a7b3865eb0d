package tarot

import (
	"errors"
	"fmt"
)

// Winning thresholds in points, indexed by the number of oudlers held
// by the taker side.
var oudlerThresholds = [4]int{56, 51, 41, 36}

const (
	petitAuBoutBonus = 10
	baseContract     = 25

	slamBonus          = 200
	slamAnnouncedBonus = 400
	slamFailedPenalty  = 200
)

// ScoreResult is the frozen outcome of a completed deal.
type ScoreResult struct {
	Winner Team

	TakerHalfPoints int
	Oudlers         int
	Threshold       int // points
	Margin          int // points, half points rounded up

	Multiplier  int
	PetitAuBout Team // NoTeam when the petit did not end the deal
	HandleBonus int
	SlamBonus   int

	// Score is the stake each defender exchanges with the taker.
	Score int

	// Totals is the signed outcome per seat; the four entries always
	// sum to zero.
	Totals [NbPlaces]int
}

// ScoreDeal converts the final card piles and contract of a deal into
// point totals. It is a pure function of the deal: integer arithmetic
// only, the win/lose decision never touches floating point.
func ScoreDeal(d *Deal) (*ScoreResult, error) {
	if d.Taker == Nowhere || d.Contract == Pass {
		return nil, errors.New("deal has no contract")
	}
	if len(d.Tricks) == 0 {
		return nil, errors.New("deal has no played tricks")
	}

	takerHalf := d.AttackPile.HalfPoints()
	oudlers := d.AttackPile.CountOudlers()
	defenseHalf := d.DefensePile.HalfPoints()

	// The buried discard counts for the attack, except under
	// guard-against where the untouched dog goes to the defense.
	if d.Contract == GuardAgainst {
		defenseHalf += d.Discard.HalfPoints()
	} else {
		takerHalf += d.Discard.HalfPoints()
		oudlers += d.Discard.CountOudlers()
	}

	if takerHalf+defenseHalf != TotalHalfPoints {
		return nil, fmt.Errorf("deal accounts for %d half points, want %d",
			takerHalf+defenseHalf, TotalHalfPoints)
	}

	res := &ScoreResult{
		TakerHalfPoints: takerHalf,
		Oudlers:         oudlers,
		Threshold:       oudlerThresholds[oudlers],
		Multiplier:      d.Contract.Multiplier(),
		PetitAuBout:     NoTeam,
	}

	marginHalf := takerHalf - 2*res.Threshold
	if marginHalf >= 0 {
		res.Winner = Attack
		res.Margin = (marginHalf + 1) / 2
	} else {
		res.Winner = Defense
		res.Margin = (-marginHalf + 1) / 2
	}

	stake := (baseContract + res.Margin) * res.Multiplier

	// Petit au bout goes to whichever side played the 1 of trumps as
	// part of the final trick.
	last := d.Tricks[len(d.Tricks)-1]
	if p, ok := last.ContainsPetit(); ok {
		side := d.Team(p)
		res.PetitAuBout = side
		if side == res.Winner {
			stake += petitAuBoutBonus * res.Multiplier
		} else {
			stake -= petitAuBoutBonus * res.Multiplier
		}
	}

	// Handle bonuses are won by the winning side, whoever declared.
	for _, h := range d.Handles {
		res.HandleBonus += h.Tier.Bonus()
	}
	stake += res.HandleBonus

	// The slam bonus or penalty belongs to the attack. Seen from the
	// winning side, an attack penalty grows the defenders' gain.
	res.SlamBonus = slamOutcome(d)
	if res.Winner == Attack {
		stake += res.SlamBonus
	} else {
		stake -= res.SlamBonus
	}

	// A missed announced slam can push the stake below zero; the
	// signed value flows through so the winning side pays the excess.
	res.Score = stake

	sign := 1
	if res.Winner == Defense {
		sign = -1
	}
	for p := Place(0); p < NbPlaces; p++ {
		if p == d.Taker {
			res.Totals[p] = sign * 3 * stake
		} else {
			res.Totals[p] = -sign * stake
		}
	}

	return res, nil
}

// slamOutcome computes the chelem bonus of the attack: a large fixed
// bonus when every trick was won, doubled when announced beforehand,
// and a penalty when announced but missed.
func slamOutcome(d *Deal) int {
	won := true
	for _, t := range d.Tricks {
		if d.Team(t.Winner) != Attack {
			won = false
			break
		}
	}

	switch {
	case won && d.SlamAnnounced:
		return slamAnnouncedBonus
	case won:
		return slamBonus
	case d.SlamAnnounced:
		return -slamFailedPenalty
	}
	return 0
}
