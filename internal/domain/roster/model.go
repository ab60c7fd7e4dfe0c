package roster

import (
	"strings"

	"github.com/riskibarqy/match-intake/internal/domain/formation"
)

const (
	StartingSize = formation.SlotCount
	BenchSize    = 7
	MaxRoster    = StartingSize + BenchSize

	// BenchRole is the role a bench slot draft starts with.
	BenchRole = "SUB"
)

// PlayerRecord is one player entered into the squad. Role is free text seeded
// from the slot label. Duplicate names or numbers are allowed.
type PlayerRecord struct {
	Name   string `json:"name" yaml:"name"`
	Role   string `json:"position" yaml:"position"`
	Number string `json:"number" yaml:"number"`
}

func (p PlayerRecord) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return newInvalidPlayer("name is required")
	}
	if strings.TrimSpace(p.Number) == "" {
		return newInvalidPlayer("number is required")
	}
	return nil
}

// IsZero reports whether every field is empty.
func (p PlayerRecord) IsZero() bool {
	return p == PlayerRecord{}
}

// Slot holds at most one player.
type Slot struct {
	Player   PlayerRecord
	Occupied bool
}

// Section distinguishes the starting eleven from the bench.
type Section string

const (
	SectionStarting Section = "starting"
	SectionBench    Section = "bench"
)

func (s Section) Size() int {
	if s == SectionBench {
		return BenchSize
	}
	return StartingSize
}

func ParseSection(raw string) (Section, bool) {
	switch Section(strings.ToLower(strings.TrimSpace(raw))) {
	case SectionStarting:
		return SectionStarting, true
	case SectionBench:
		return SectionBench, true
	default:
		return "", false
	}
}

// SlotRef addresses one slot of the assignment.
type SlotRef struct {
	Section Section `json:"section"`
	Index   int     `json:"index"`
}

// InRange reports whether the ref points at an existing slot.
func (r SlotRef) InRange() bool {
	switch r.Section {
	case SectionStarting, SectionBench:
		return r.Index >= 0 && r.Index < r.Section.Size()
	default:
		return false
	}
}

// AssignmentState is the full engine state. It has value semantics: copying it
// never aliases the engine.
type AssignmentState struct {
	Formation formation.ID
	Starting  [StartingSize]Slot
	Bench     [BenchSize]Slot
}

// Snapshot is the externally supplied roster used to seed an engine.
type Snapshot struct {
	Formation       string         `json:"formation,omitempty" yaml:"formation,omitempty"`
	StartingPlayers []PlayerRecord `json:"players,omitempty" yaml:"players,omitempty"`
	BenchPlayers    []PlayerRecord `json:"substitutes,omitempty" yaml:"substitutes,omitempty"`
}

// Finalized is a roster that passed the size check.
type Finalized struct {
	Formation       formation.ID
	StartingPlayers []PlayerRecord
	BenchPlayers    []PlayerRecord
}

// Payload is the flattened hand-off shape.
type Payload struct {
	Formation   string         `json:"formation" yaml:"formation"`
	Players     []PlayerRecord `json:"players" yaml:"players"`
	Substitutes []PlayerRecord `json:"substitutes" yaml:"substitutes"`
}

func (f Finalized) Payload() Payload {
	return Payload{
		Formation:   string(f.Formation),
		Players:     append([]PlayerRecord{}, f.StartingPlayers...),
		Substitutes: append([]PlayerRecord{}, f.BenchPlayers...),
	}
}

// Snapshot converts a payload back into engine input, e.g. to reopen a saved roster.
func (p Payload) Snapshot() Snapshot {
	return Snapshot{
		Formation:       p.Formation,
		StartingPlayers: append([]PlayerRecord(nil), p.Players...),
		BenchPlayers:    append([]PlayerRecord(nil), p.Substitutes...),
	}
}
