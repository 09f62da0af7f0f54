package engine

import "fmt"

// EventKind identifies the type of an engine event.
type EventKind uint8

const (
	KindSwap EventKind = iota
	KindSwapReverted
	KindGemDestroyed
	KindSpecialCreated
	KindSpecialActivated
	KindBlockerDamaged
	KindBlockerCleared
	KindGemsDropped
	KindGemsSpawned
	KindCascade
	KindObjectiveUpdated
	KindCascadeAborted
	KindBoardShuffled
	KindMoveOutcome
)

var eventKindNames = [...]string{
	KindSwap:             "swap",
	KindSwapReverted:     "swap_reverted",
	KindGemDestroyed:     "gem_destroyed",
	KindSpecialCreated:   "special_created",
	KindSpecialActivated: "special_activated",
	KindBlockerDamaged:   "blocker_damaged",
	KindBlockerCleared:   "blocker_cleared",
	KindGemsDropped:      "gems_dropped",
	KindGemsSpawned:      "gems_spawned",
	KindCascade:          "cascade",
	KindObjectiveUpdated: "objective_updated",
	KindCascadeAborted:   "cascade_aborted",
	KindBoardShuffled:    "board_shuffled",
	KindMoveOutcome:      "move_outcome",
}

// String returns the wire name of the event kind.
func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is one entry of the ordered log produced by a move.
// This is a sealed interface; only types in this package implement it.
type Event interface {
	Kind() EventKind
	isEvent()
}

// DestroyCause records why a gem left the board.
type DestroyCause uint8

const (
	CauseMatch DestroyCause = iota
	CauseActivation
)

// String returns the wire name of the cause.
func (c DestroyCause) String() string {
	if c == CauseActivation {
		return "activation"
	}
	return "match"
}

// MarshalText implements encoding.TextMarshaler.
func (c DestroyCause) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Outcome is the terminal state of a session.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeWon
	OutcomeLost
)

// String returns the wire name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(b []byte) error {
	switch string(b) {
	case "none", "":
		*o = OutcomeNone
	case "won":
		*o = OutcomeWon
	case "lost":
		*o = OutcomeLost
	default:
		return fmt.Errorf("engine: unknown outcome %q", b)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Special) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MarshalText implements encoding.TextMarshaler.
func (t BlockerType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// SwapEvent is emitted when two gems are tentatively exchanged.
type SwapEvent struct {
	A Cell `json:"a"`
	B Cell `json:"b"`
}

// SwapRevertedEvent is emitted when a swap produced neither a match nor an
// activation and was undone.
type SwapRevertedEvent struct {
	A Cell `json:"a"`
	B Cell `json:"b"`
}

// GemDestroyedEvent is emitted once per gem removed from the board.
type GemDestroyedEvent struct {
	Cell       Cell         `json:"cell"`
	Color      int          `json:"color"`
	Special    Special      `json:"special"`
	WasSpecial bool         `json:"was_special"`
	Cause      DestroyCause `json:"cause"`
}

// SpecialCreatedEvent is emitted when a match promotes a gem.
type SpecialCreatedEvent struct {
	Cell    Cell    `json:"cell"`
	Special Special `json:"special"`
}

// SpecialActivatedEvent is emitted when a swapped special fires.
type SpecialActivatedEvent struct {
	Cell    Cell    `json:"cell"`
	Special Special `json:"special"`
	Cleared int     `json:"cleared"`
}

// BlockerDamagedEvent is emitted for every layer removed from a blocker.
type BlockerDamagedEvent struct {
	Cell       Cell        `json:"cell"`
	Type       BlockerType `json:"type"`
	LayersLeft int         `json:"layers_left"`
}

// BlockerClearedEvent is emitted when a blocker loses its last layer.
type BlockerClearedEvent struct {
	Cell Cell        `json:"cell"`
	Type BlockerType `json:"type"`
}

// Drop is one gem falling from one cell to another.
type Drop struct {
	From Cell `json:"from"`
	To   Cell `json:"to"`
}

// GemsDroppedEvent lists every gem moved by gravity in one step.
type GemsDroppedEvent struct {
	Drops []Drop `json:"drops"`
}

// Spawn is one gem created during refill.
type Spawn struct {
	Cell  Cell `json:"cell"`
	Color int  `json:"color"`
}

// GemsSpawnedEvent lists every gem created by refill in one step.
type GemsSpawnedEvent struct {
	Spawns []Spawn `json:"spawns"`
}

// CascadeEvent is emitted at the start of each destroy step.
type CascadeEvent struct {
	Depth      int     `json:"depth"`
	Multiplier float64 `json:"multiplier"`
	Groups     int     `json:"groups"`
	Points     int     `json:"points"`
}

// ObjectiveUpdatedEvent is emitted when an objective's progress changes.
type ObjectiveUpdatedEvent struct {
	Index     int           `json:"index"`
	Objective ObjectiveKind `json:"objective"`
	Current   int           `json:"current"`
	Target    int           `json:"target"`
}

// CascadeAbortedEvent is emitted when resolution hits the safety bound.
type CascadeAbortedEvent struct {
	Depth  int    `json:"depth"`
	Reason string `json:"reason"`
}

// BoardShuffledEvent is emitted when the board had no valid move and was
// recolored.
type BoardShuffledEvent struct {
	Attempts int `json:"attempts"`
}

// MoveOutcomeEvent closes the log of every committed move.
type MoveOutcomeEvent struct {
	MovesLeft int     `json:"moves_left"`
	Score     int     `json:"score"`
	Outcome   Outcome `json:"outcome"`
}

func (SwapEvent) Kind() EventKind             { return KindSwap }
func (SwapRevertedEvent) Kind() EventKind     { return KindSwapReverted }
func (GemDestroyedEvent) Kind() EventKind     { return KindGemDestroyed }
func (SpecialCreatedEvent) Kind() EventKind   { return KindSpecialCreated }
func (SpecialActivatedEvent) Kind() EventKind { return KindSpecialActivated }
func (BlockerDamagedEvent) Kind() EventKind   { return KindBlockerDamaged }
func (BlockerClearedEvent) Kind() EventKind   { return KindBlockerCleared }
func (GemsDroppedEvent) Kind() EventKind      { return KindGemsDropped }
func (GemsSpawnedEvent) Kind() EventKind      { return KindGemsSpawned }
func (CascadeEvent) Kind() EventKind          { return KindCascade }
func (ObjectiveUpdatedEvent) Kind() EventKind { return KindObjectiveUpdated }
func (CascadeAbortedEvent) Kind() EventKind   { return KindCascadeAborted }
func (BoardShuffledEvent) Kind() EventKind    { return KindBoardShuffled }
func (MoveOutcomeEvent) Kind() EventKind      { return KindMoveOutcome }

func (SwapEvent) isEvent()             {}
func (SwapRevertedEvent) isEvent()     {}
func (GemDestroyedEvent) isEvent()     {}
func (SpecialCreatedEvent) isEvent()   {}
func (SpecialActivatedEvent) isEvent() {}
func (BlockerDamagedEvent) isEvent()   {}
func (BlockerClearedEvent) isEvent()   {}
func (GemsDroppedEvent) isEvent()      {}
func (GemsSpawnedEvent) isEvent()      {}
func (CascadeEvent) isEvent()          {}
func (ObjectiveUpdatedEvent) isEvent() {}
func (CascadeAbortedEvent) isEvent()   {}
func (BoardShuffledEvent) isEvent()    {}
func (MoveOutcomeEvent) isEvent()      {}

// EventSink receives events synchronously as the engine produces them.
type EventSink interface {
	OnEvent(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// OnEvent calls f(e).
func (f EventSinkFunc) OnEvent(e Event) { f(e) }
