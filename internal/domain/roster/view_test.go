package roster

import (
	"strings"
	"testing"

	"github.com/riskibarqy/match-intake/internal/domain/formation"
)

func viewFixture(t *testing.T) *Engine {
	t.Helper()
	e := NewDefaultEngine()
	starters := map[int]PlayerRecord{
		0:  {Name: "Jo Hyeon-woo", Role: "GK", Number: "21"},
		3:  {Name: "Kim Min-jae", Role: "CB", Number: "4"},
		9:  {Name: "Cho Gue-sung", Role: "ST", Number: "9"},
		10: {Name: "Lee Kang-in", Role: "RW", Number: "18"},
	}
	for i, p := range starters {
		if err := e.SetStartingSlot(i, p); err != nil {
			t.Fatalf("set starting %d: %v", i, err)
		}
	}
	if err := e.SetBenchSlot(2, PlayerRecord{Name: "Kim Seung-gyu", Role: BenchRole, Number: "1"}); err != nil {
		t.Fatalf("set bench: %v", err)
	}
	if err := e.SetBenchSlot(5, PlayerRecord{Name: "Oh Hyeon-gyu", Role: BenchRole, Number: "19"}); err != nil {
		t.Fatalf("set bench: %v", err)
	}
	return e
}

func TestView_CountsAndFlattenedRoster(t *testing.T) {
	v := Project(viewFixture(t).State())

	c := v.Counts()
	if c.StartingFilled != 4 || c.BenchFilled != 2 || c.Total() != 6 {
		t.Fatalf("unexpected counts: %+v", c)
	}
	if v.Shortfall() != 7 {
		t.Fatalf("expected shortfall 7, got %d", v.Shortfall())
	}

	roster := v.FlattenedRoster()
	if len(roster) != c.StartingFilled+c.BenchFilled {
		t.Fatalf("flattened length %d does not match counts %+v", len(roster), c)
	}

	wantRefs := []SlotRef{
		{SectionStarting, 0}, {SectionStarting, 3}, {SectionStarting, 9}, {SectionStarting, 10},
		{SectionBench, 2}, {SectionBench, 5},
	}
	for i, want := range wantRefs {
		if roster[i].Ref != want {
			t.Fatalf("entry %d: expected ref %+v, got %+v", i, want, roster[i].Ref)
		}
	}
}

func TestView_Search(t *testing.T) {
	v := Project(viewFixture(t).State())

	if got := v.Search(""); len(got) != len(v.FlattenedRoster()) {
		t.Fatalf("empty term should return the full roster, got %d", len(got))
	}

	got := v.Search("KIM")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches for KIM, got %d", len(got))
	}
	for _, entry := range got {
		if !strings.Contains(strings.ToLower(entry.Player.Name), "kim") {
			t.Fatalf("unexpected match %q", entry.Player.Name)
		}
	}
	if got[0].Ref.Section != SectionStarting || got[1].Ref.Section != SectionBench {
		t.Fatalf("search must keep roster order: %+v", got)
	}

	if got := v.Search("nobody"); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}

func TestView_DeleteThroughEntryRef(t *testing.T) {
	e := NewDefaultEngine()
	twin := PlayerRecord{Name: "Twin", Role: "CB", Number: "5"}
	if err := e.SetStartingSlot(2, twin); err != nil {
		t.Fatalf("set slot 2: %v", err)
	}
	if err := e.SetStartingSlot(3, twin); err != nil {
		t.Fatalf("set slot 3: %v", err)
	}

	entries := Project(e.State()).Search("twin")
	e.Clear(entries[1].Ref)

	if !e.StartingSlot(2).Occupied || e.StartingSlot(3).Occupied {
		t.Fatalf("identical records must be resolved by slot, not by value")
	}
}

func TestView_RenderablePositions(t *testing.T) {
	e := viewFixture(t)
	positions := Project(e.State()).RenderablePositions()
	if len(positions) != StartingSize {
		t.Fatalf("expected 11 positions, got %d", len(positions))
	}
	if positions[9].Spec.Label != "ST" || !positions[9].Occupied || positions[9].Player.Number != "9" {
		t.Fatalf("unexpected position 9: %+v", positions[9])
	}
	if positions[1].Occupied {
		t.Fatalf("position 1 should be empty")
	}

	if err := e.SetFormation(formation.ID4231); err != nil {
		t.Fatalf("set formation: %v", err)
	}
	positions = Project(e.State()).RenderablePositions()
	if positions[8].Spec.Label != "CAM" || positions[8].Occupied {
		t.Fatalf("unexpected position 8 after formation change: %+v", positions[8])
	}
}

func TestView_ZeroStateUsesDefaultFormation(t *testing.T) {
	view := Project(AssignmentState{})
	if view.Formation() != formation.Default {
		t.Fatalf("expected default formation, got %q", view.Formation())
	}
	positions := view.RenderablePositions()
	if len(positions) != StartingSize {
		t.Fatalf("expected 11 positions, got %d", len(positions))
	}
	for i, p := range positions {
		if p.Occupied {
			t.Fatalf("position %d should be empty", i)
		}
	}
}
