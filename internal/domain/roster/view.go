package roster

import (
	"strings"

	"github.com/riskibarqy/match-intake/internal/domain/formation"
)

type Counts struct {
	StartingFilled int `json:"starting_filled"`
	BenchFilled    int `json:"bench_filled"`
}

func (c Counts) Total() int {
	return c.StartingFilled + c.BenchFilled
}

// RosterEntry is one occupied slot in the flattened roster. Ref points back
// to the slot so list actions never have to match players by value.
type RosterEntry struct {
	Ref    SlotRef
	Player PlayerRecord
}

// Position pairs a formation slot with its occupant for diagram rendering.
type Position struct {
	Spec     formation.SlotSpec
	Player   PlayerRecord
	Occupied bool
}

// View derives read-only projections from an assignment.
type View struct {
	state AssignmentState
}

// Project wraps state for read-only queries. A state without a formation is
// read as the default formation.
func Project(state AssignmentState) View {
	if state.Formation == "" {
		state.Formation = formation.Default
	}
	return View{state: state}
}

func (v View) Formation() formation.ID {
	return v.state.Formation
}

func (v View) Counts() Counts {
	var c Counts
	for _, s := range v.state.Starting {
		if s.Occupied {
			c.StartingFilled++
		}
	}
	for _, s := range v.state.Bench {
		if s.Occupied {
			c.BenchFilled++
		}
	}
	return c
}

// Shortfall is the number of starting slots still empty.
func (v View) Shortfall() int {
	return StartingSize - v.Counts().StartingFilled
}

// FlattenedRoster lists starters in slot order followed by bench players in
// slot order.
func (v View) FlattenedRoster() []RosterEntry {
	out := make([]RosterEntry, 0, MaxRoster)
	for i, s := range v.state.Starting {
		if s.Occupied {
			out = append(out, RosterEntry{Ref: SlotRef{Section: SectionStarting, Index: i}, Player: s.Player})
		}
	}
	for i, s := range v.state.Bench {
		if s.Occupied {
			out = append(out, RosterEntry{Ref: SlotRef{Section: SectionBench, Index: i}, Player: s.Player})
		}
	}
	return out
}

// Search filters the flattened roster by a case-insensitive substring of the
// player name. An empty term matches everyone.
func (v View) Search(term string) []RosterEntry {
	all := v.FlattenedRoster()
	if term == "" {
		return all
	}

	needle := strings.ToLower(term)
	out := make([]RosterEntry, 0, len(all))
	for _, entry := range all {
		if strings.Contains(strings.ToLower(entry.Player.Name), needle) {
			out = append(out, entry)
		}
	}
	return out
}

func (v View) RenderablePositions() []Position {
	specs := formation.MustLayoutOf(v.state.Formation)
	out := make([]Position, 0, len(specs))
	for i, spec := range specs {
		slot := v.state.Starting[i]
		out = append(out, Position{Spec: spec, Player: slot.Player, Occupied: slot.Occupied})
	}
	return out
}
