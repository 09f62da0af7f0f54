package engine

import (
	"fmt"
	"strings"
)

// ObjectiveKind identifies what an objective counts.
type ObjectiveKind uint8

const (
	ObjectiveScore         ObjectiveKind = iota // reach a score
	ObjectiveCollect                            // destroy N gems of one color
	ObjectiveClearBlockers                      // fully clear N blockers
)

// String returns the level-file name of the objective kind.
func (k ObjectiveKind) String() string {
	switch k {
	case ObjectiveScore:
		return "score"
	case ObjectiveCollect:
		return "collect"
	case ObjectiveClearBlockers:
		return "clear_blockers"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ObjectiveKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseObjectiveKind converts a level-file name to an ObjectiveKind.
func ParseObjectiveKind(s string) (ObjectiveKind, bool) {
	switch strings.ToLower(s) {
	case "score":
		return ObjectiveScore, true
	case "collect":
		return ObjectiveCollect, true
	case "clear_blockers", "clear", "blockers":
		return ObjectiveClearBlockers, true
	default:
		return ObjectiveScore, false
	}
}

// Objective is a level win condition. Current never decreases.
type Objective struct {
	Kind   ObjectiveKind
	Target int

	// Color is the gem color counted by collect objectives.
	Color int

	// BlockerType restricts clear_blockers objectives when AnyBlocker is false.
	BlockerType BlockerType
	AnyBlocker  bool

	Current int
}

// Completed returns true once Current reaches Target.
func (o Objective) Completed() bool {
	return o.Current >= o.Target
}

// String returns a short human-readable description.
func (o Objective) String() string {
	switch o.Kind {
	case ObjectiveCollect:
		return fmt.Sprintf("collect %d/%d of color %d", o.Current, o.Target, o.Color)
	case ObjectiveClearBlockers:
		what := "blockers"
		if !o.AnyBlocker {
			what = o.BlockerType.String()
		}
		return fmt.Sprintf("clear %d/%d %s", o.Current, o.Target, what)
	default:
		return fmt.Sprintf("score %d/%d", o.Current, o.Target)
	}
}

// Tracker accumulates objective progress for a session.
type Tracker struct {
	objectives []Objective
}

// NewTracker creates a tracker from level objectives. Progress starts at zero.
func NewTracker(objectives []Objective) *Tracker {
	objs := make([]Objective, len(objectives))
	copy(objs, objectives)
	for i := range objs {
		objs[i].Current = 0
	}
	return &Tracker{objectives: objs}
}

// Objectives returns a copy of the current objective states.
func (t *Tracker) Objectives() []Objective {
	out := make([]Objective, len(t.objectives))
	copy(out, t.objectives)
	return out
}

// OnScore sets score objectives to the new session total.
func (t *Tracker) OnScore(total int) []Event {
	var events []Event
	for i := range t.objectives {
		o := &t.objectives[i]
		if o.Kind != ObjectiveScore || total <= o.Current {
			continue
		}
		o.Current = total
		events = append(events, t.updated(i))
	}
	return events
}

// OnCollect adds destroyed gems of a color to matching collect objectives.
func (t *Tracker) OnCollect(color, n int) []Event {
	if color == NoColor || n <= 0 {
		return nil
	}
	var events []Event
	for i := range t.objectives {
		o := &t.objectives[i]
		if o.Kind != ObjectiveCollect || o.Color != color {
			continue
		}
		o.Current += n
		events = append(events, t.updated(i))
	}
	return events
}

// OnBlockerCleared counts a fully removed blocker.
func (t *Tracker) OnBlockerCleared(typ BlockerType) []Event {
	var events []Event
	for i := range t.objectives {
		o := &t.objectives[i]
		if o.Kind != ObjectiveClearBlockers {
			continue
		}
		if !o.AnyBlocker && o.BlockerType != typ {
			continue
		}
		o.Current++
		events = append(events, t.updated(i))
	}
	return events
}

// AllCompleted returns true if every objective has reached its target.
func (t *Tracker) AllCompleted() bool {
	for _, o := range t.objectives {
		if !o.Completed() {
			return false
		}
	}
	return len(t.objectives) > 0
}

func (t *Tracker) updated(i int) ObjectiveUpdatedEvent {
	o := t.objectives[i]
	return ObjectiveUpdatedEvent{
		Index:     i,
		Objective: o.Kind,
		Current:   o.Current,
		Target:    o.Target,
	}
}
