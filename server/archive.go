package server

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tarotserv/game/tarot"
)

// Archive appends finished deals as JSON lines, one file per day,
// under a games directory. Best effort record keeping, not
// persistence: nothing is ever read back by the server.
type Archive struct {
	dir  string
	lock sync.Mutex
}

func NewArchive(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Archive{dir: dir}, nil
}

type dealRecord struct {
	Time     time.Time `json:"time"`
	Room     string    `json:"room"`
	Seed     int32     `json:"seed"`
	Dealer   string    `json:"dealer"`
	Taker    string    `json:"taker"`
	Contract string    `json:"contract"`
	Discard  string    `json:"discard"`

	Winner          string `json:"winner"`
	TakerHalfPoints int    `json:"takerHalfPoints"`
	Oudlers         int    `json:"oudlers"`
	Score           int    `json:"score"`
	Totals          [4]int `json:"totals"`
	Final           bool   `json:"final"`
}

func (a *Archive) Append(roomID string, d *tarot.Deal, ev tarot.EvDealResult) error {
	rec := dealRecord{
		Time:     time.Now(),
		Room:     roomID,
		Seed:     d.Seed,
		Dealer:   d.Dealer.String(),
		Taker:    d.Taker.String(),
		Contract: d.Contract.String(),
		Discard:  d.Discard.String(),

		Winner:          ev.Result.Winner.String(),
		TakerHalfPoints: ev.Result.TakerHalfPoints,
		Oudlers:         ev.Result.Oudlers,
		Score:           ev.Result.Score,
		Totals:          ev.Totals,
		Final:           ev.Final,
	}

	bs, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	bs = append(bs, '\n')

	name := filepath.Join(a.dir, time.Now().Format("2006-01-02")+".log")

	a.lock.Lock()
	defer a.lock.Unlock()

	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(bs)
	return err
}
