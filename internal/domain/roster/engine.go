package roster

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-intake/internal/domain/formation"
)

// Engine owns the slot assignment of one squad. It is not safe for concurrent
// use; callers that share an engine must serialize access.
type Engine struct {
	state AssignmentState
}

// NewDefaultEngine returns an engine with the default formation and no players.
func NewDefaultEngine() *Engine {
	return &Engine{state: AssignmentState{Formation: formation.Default}}
}

// NewEngine seeds an engine from an external snapshot. Starting players are
// only taken when exactly eleven are supplied; bench players fill the first
// bench slots and anything beyond seven is dropped. All-empty records are
// treated as empty slots.
func NewEngine(snapshot Snapshot) (*Engine, error) {
	id := formation.Default
	if strings.TrimSpace(snapshot.Formation) != "" {
		parsed, err := formation.Parse(snapshot.Formation)
		if err != nil {
			return nil, err
		}
		id = parsed
	}

	e := &Engine{state: AssignmentState{Formation: id}}

	if len(snapshot.StartingPlayers) == StartingSize {
		for i, p := range snapshot.StartingPlayers {
			if p.IsZero() {
				continue
			}
			if err := p.Validate(); err != nil {
				return nil, errors.Wrapf(err, "starting player %d", i)
			}
			e.state.Starting[i] = Slot{Player: p, Occupied: true}
		}
	}

	for i, p := range snapshot.BenchPlayers {
		if i >= BenchSize {
			break
		}
		if p.IsZero() {
			continue
		}
		if err := p.Validate(); err != nil {
			return nil, errors.Wrapf(err, "bench player %d", i)
		}
		e.state.Bench[i] = Slot{Player: p, Occupied: true}
	}

	return e, nil
}

func (e *Engine) Formation() formation.ID {
	return e.state.Formation
}

// Layout returns the slot specs of the active formation.
func (e *Engine) Layout() []formation.SlotSpec {
	return formation.MustLayoutOf(e.state.Formation)
}

// State returns a copy of the current assignment.
func (e *Engine) State() AssignmentState {
	return e.state
}

// SetFormation switches formation and empties every starting slot. The bench
// is left untouched.
func (e *Engine) SetFormation(id formation.ID) error {
	if !formation.Valid(id) {
		return errors.Wrapf(ErrUnknownFormation, "formation=%q", string(id))
	}
	e.state.Formation = id
	e.state.Starting = [StartingSize]Slot{}
	return nil
}

func (e *Engine) StartingSlot(index int) Slot {
	mustIndex(SectionStarting, index)
	return e.state.Starting[index]
}

func (e *Engine) BenchSlot(index int) Slot {
	mustIndex(SectionBench, index)
	return e.state.Bench[index]
}

// SetStartingSlot stores p in the starting slot, replacing any occupant.
func (e *Engine) SetStartingSlot(index int, p PlayerRecord) error {
	mustIndex(SectionStarting, index)
	if err := p.Validate(); err != nil {
		return err
	}
	e.state.Starting[index] = Slot{Player: p, Occupied: true}
	return nil
}

func (e *Engine) ClearStartingSlot(index int) {
	mustIndex(SectionStarting, index)
	e.state.Starting[index] = Slot{}
}

// SetBenchSlot stores p in the bench slot, replacing any occupant.
func (e *Engine) SetBenchSlot(index int, p PlayerRecord) error {
	mustIndex(SectionBench, index)
	if err := p.Validate(); err != nil {
		return err
	}
	e.state.Bench[index] = Slot{Player: p, Occupied: true}
	return nil
}

func (e *Engine) ClearBenchSlot(index int) {
	mustIndex(SectionBench, index)
	e.state.Bench[index] = Slot{}
}

// Slot returns the slot addressed by ref.
func (e *Engine) Slot(ref SlotRef) Slot {
	mustRef(ref)
	if ref.Section == SectionBench {
		return e.BenchSlot(ref.Index)
	}
	return e.StartingSlot(ref.Index)
}

// Set stores p in the slot addressed by ref.
func (e *Engine) Set(ref SlotRef, p PlayerRecord) error {
	mustRef(ref)
	if ref.Section == SectionBench {
		return e.SetBenchSlot(ref.Index, p)
	}
	return e.SetStartingSlot(ref.Index, p)
}

// Clear empties the slot addressed by ref.
func (e *Engine) Clear(ref SlotRef) {
	mustRef(ref)
	if ref.Section == SectionBench {
		e.ClearBenchSlot(ref.Index)
		return
	}
	e.ClearStartingSlot(ref.Index)
}

// Finalize returns the occupied slots in slot order once every starting slot
// is filled. The bench has no minimum.
func (e *Engine) Finalize() (Finalized, error) {
	starters := occupied(e.state.Starting[:])
	if len(starters) < StartingSize {
		return Finalized{}, &InsufficientRosterError{Filled: len(starters), Required: StartingSize}
	}

	return Finalized{
		Formation:       e.state.Formation,
		StartingPlayers: starters,
		BenchPlayers:    occupied(e.state.Bench[:]),
	}, nil
}

func occupied(slots []Slot) []PlayerRecord {
	out := make([]PlayerRecord, 0, len(slots))
	for _, s := range slots {
		if s.Occupied {
			out = append(out, s.Player)
		}
	}
	return out
}

func mustRef(ref SlotRef) {
	if ref.Section != SectionStarting && ref.Section != SectionBench {
		panic(fmt.Sprintf("roster: unknown slot section %q", ref.Section))
	}
	mustIndex(ref.Section, ref.Index)
}

func mustIndex(section Section, index int) {
	if index < 0 || index >= section.Size() {
		panic(fmt.Sprintf("roster: %s slot index %d out of range [0,%d)", section, index, section.Size()))
	}
}
