// Package replay records and reads move-by-move event logs of Gem Fusion
// sessions. A log is a zstd-compressed stream of JSON lines: one header
// followed by one entry per swap request.
package replay

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/engine"
)

// Version is the log format version written in every header.
const Version = 1

// Extension is the conventional file suffix of replay logs.
const Extension = ".jsonl.zst"

// Header identifies the session a log belongs to. Together with the level
// file it is enough to rebuild the starting board.
type Header struct {
	Version  int          `json:"version"`
	LevelID  string       `json:"level_id"`
	Seed     int64        `json:"seed"`
	Moves    int          `json:"moves"`
	Rules    engine.Rules `json:"rules"`
	Hash     uint64       `json:"hash"`
	Recorded time.Time    `json:"recorded"`
}

// Event is one engine event in serialized form.
type Event struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Entry is one swap request and everything it produced.
type Entry struct {
	Move      int            `json:"move"`
	A         engine.Cell    `json:"a"`
	B         engine.Cell    `json:"b"`
	Valid     bool           `json:"valid"`
	Error     string         `json:"error,omitempty"`
	Score     int            `json:"score"`
	MovesLeft int            `json:"moves_left"`
	Outcome   engine.Outcome `json:"outcome"`
	Cascades  int            `json:"cascades"`
	Aborted   bool           `json:"aborted,omitempty"`
	Hash      uint64         `json:"hash"`
	Events    []Event        `json:"events,omitempty"`
}

// EncodeEvent converts an engine event into its serialized form.
func EncodeEvent(ev engine.Event) (Event, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return Event{}, fmt.Errorf("replay: encode %s event: %w", ev.Kind(), err)
	}
	return Event{Kind: ev.Kind().String(), Data: data}, nil
}

// NewEntry builds the log entry for one swap request. err is the rejection
// returned by the controller, if any.
func NewEntry(move int, a, b engine.Cell, res engine.MoveResult, err error, hash uint64) (Entry, error) {
	e := Entry{
		Move:      move,
		A:         a,
		B:         b,
		Valid:     res.Valid,
		Score:     res.Score,
		MovesLeft: res.MovesLeft,
		Outcome:   res.Outcome,
		Cascades:  res.Stats.Cascades,
		Aborted:   res.Stats.Aborted,
		Hash:      hash,
	}
	if err != nil {
		e.Error = err.Error()
		return e, nil
	}
	e.Events = make([]Event, 0, len(res.Events))
	for _, ev := range res.Events {
		enc, encErr := EncodeEvent(ev)
		if encErr != nil {
			return Entry{}, encErr
		}
		e.Events = append(e.Events, enc)
	}
	return e, nil
}
