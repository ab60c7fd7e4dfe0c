package formation

import (
	"strings"

	"github.com/cockroachdb/errors"
)

var ErrUnknownFormation = errors.New("unknown formation")

// ID names a tactical arrangement of the eleven fielded players.
type ID string

const (
	ID433  ID = "4-3-3"
	ID442  ID = "4-4-2"
	ID352  ID = "3-5-2"
	ID4231 ID = "4-2-3-1"
	ID343  ID = "3-4-3"
)

// Default is the formation a fresh roster starts with.
const Default = ID433

// SlotCount is the number of starting slots in every formation.
const SlotCount = 11

// SlotSpec is one on-field position of a formation. Row and Col are pitch grid
// coordinates (row 0 is the attacking line, row 3 the goal line).
type SlotSpec struct {
	Index int
	Label string
	Row   float64
	Col   float64
}

var order = []ID{ID433, ID442, ID352, ID4231, ID343}

var layouts = map[ID][]SlotSpec{
	ID433: build(
		pos(3, 2, "GK"),
		pos(2, 0.5, "LB"), pos(2, 1.5, "CB"), pos(2, 2.5, "CB"), pos(2, 3.5, "RB"),
		pos(1, 1, "CM"), pos(1, 2, "CM"), pos(1, 3, "CM"),
		pos(0, 1, "LW"), pos(0, 2, "ST"), pos(0, 3, "RW"),
	),
	ID442: build(
		pos(3, 2, "GK"),
		pos(2, 0.5, "LB"), pos(2, 1.5, "CB"), pos(2, 2.5, "CB"), pos(2, 3.5, "RB"),
		pos(1, 0.5, "LM"), pos(1, 1.5, "CM"), pos(1, 2.5, "CM"), pos(1, 3.5, "RM"),
		pos(0, 1, "ST"), pos(0, 3, "ST"),
	),
	ID352: build(
		pos(3, 2, "GK"),
		pos(2, 1, "CB"), pos(2, 2, "CB"), pos(2, 3, "CB"),
		pos(1, 0, "LM"), pos(1, 1, "CM"), pos(1, 2, "CM"), pos(1, 3, "CM"), pos(1, 4, "RM"),
		pos(0, 1, "ST"), pos(0, 3, "ST"),
	),
	ID4231: build(
		pos(3, 2, "GK"),
		pos(2, 0.5, "LB"), pos(2, 1.5, "CB"), pos(2, 2.5, "CB"), pos(2, 3.5, "RB"),
		pos(1.5, 1.3, "CDM"), pos(1.5, 2.7, "CDM"),
		pos(0.8, 1, "LM"), pos(0.8, 2, "CAM"), pos(0.8, 3, "RM"),
		pos(0, 2, "ST"),
	),
	ID343: build(
		pos(3, 2, "GK"),
		pos(2, 1, "CB"), pos(2, 2, "CB"), pos(2, 3, "CB"),
		pos(1, 0, "LM"), pos(1, 1, "CM"), pos(1, 3, "CM"), pos(1, 4, "RM"),
		pos(0, 1, "LW"), pos(0, 2, "ST"), pos(0, 3, "RW"),
	),
}

func pos(row, col float64, label string) SlotSpec {
	return SlotSpec{Row: row, Col: col, Label: label}
}

func build(specs ...SlotSpec) []SlotSpec {
	if len(specs) != SlotCount {
		panic("formation layout must contain exactly 11 slots")
	}
	for i := range specs {
		specs[i].Index = i
	}
	return specs
}

// All returns every known formation in display order.
func All() []ID {
	return append([]ID(nil), order...)
}

// Valid reports whether id belongs to the catalog.
func Valid(id ID) bool {
	_, ok := layouts[id]
	return ok
}

// Parse trims raw and resolves it against the catalog.
func Parse(raw string) (ID, error) {
	id := ID(strings.TrimSpace(raw))
	if !Valid(id) {
		return "", errors.Wrapf(ErrUnknownFormation, "formation=%q", raw)
	}
	return id, nil
}

// LayoutOf returns the ordered slot specs of a formation. The returned slice is
// a copy and may be modified by the caller.
func LayoutOf(id ID) ([]SlotSpec, error) {
	specs, ok := layouts[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownFormation, "formation=%q", string(id))
	}
	return append([]SlotSpec(nil), specs...), nil
}

// MustLayoutOf is LayoutOf for identifiers already validated by the caller.
func MustLayoutOf(id ID) []SlotSpec {
	specs, err := LayoutOf(id)
	if err != nil {
		panic(err)
	}
	return specs
}
