package roster

// Mode is the state of an edit session.
type Mode string

const (
	ModeClosed          Mode = "closed"
	ModeEditingStarting Mode = "editing_starting"
	ModeEditingBench    Mode = "editing_bench"
)

// SessionState describes what the session is editing. Index is meaningful
// only while a slot is open.
type SessionState struct {
	Mode  Mode
	Index int
}

// Ref returns the slot being edited and false when the session is closed.
func (s SessionState) Ref() (SlotRef, bool) {
	switch s.Mode {
	case ModeEditingStarting:
		return SlotRef{Section: SectionStarting, Index: s.Index}, true
	case ModeEditingBench:
		return SlotRef{Section: SectionBench, Index: s.Index}, true
	default:
		return SlotRef{}, false
	}
}

// Session stages edits to a single slot before they reach the engine. At most
// one slot is open at a time.
type Session struct {
	engine *Engine
	state  SessionState
	draft  PlayerRecord
}

func NewSession(engine *Engine) *Session {
	return &Session{engine: engine, state: SessionState{Mode: ModeClosed}}
}

func (s *Session) State() SessionState {
	return s.state
}

func (s *Session) Active() bool {
	return s.state.Mode != ModeClosed
}

// Draft returns the staged record.
func (s *Session) Draft() PlayerRecord {
	return s.draft
}

// Open opens the slot addressed by ref. Any open slot is discarded first.
func (s *Session) Open(ref SlotRef) {
	if ref.Section == SectionBench {
		s.OpenBench(ref.Index)
		return
	}
	s.OpenStarting(ref.Index)
}

// OpenStarting seeds the draft from the occupant, or from the formation's slot
// label when the slot is empty.
func (s *Session) OpenStarting(index int) {
	slot := s.engine.StartingSlot(index)
	s.Cancel()

	s.state = SessionState{Mode: ModeEditingStarting, Index: index}
	if slot.Occupied {
		s.draft = slot.Player
		return
	}
	s.draft = PlayerRecord{Role: s.engine.Layout()[index].Label}
}

func (s *Session) OpenBench(index int) {
	slot := s.engine.BenchSlot(index)
	s.Cancel()

	s.state = SessionState{Mode: ModeEditingBench, Index: index}
	if slot.Occupied {
		s.draft = slot.Player
		return
	}
	s.draft = PlayerRecord{Role: BenchRole}
}

func (s *Session) SetName(v string) {
	if s.Active() {
		s.draft.Name = v
	}
}

func (s *Session) SetRole(v string) {
	if s.Active() {
		s.draft.Role = v
	}
}

func (s *Session) SetNumber(v string) {
	if s.Active() {
		s.draft.Number = v
	}
}

// CanCommit reports whether Commit would succeed.
func (s *Session) CanCommit() bool {
	return s.Active() && s.draft.Validate() == nil
}

// IsUpdate reports whether the open slot already has an occupant, which is
// also the condition for Delete.
func (s *Session) IsUpdate() bool {
	ref, ok := s.state.Ref()
	if !ok {
		return false
	}
	return s.engine.Slot(ref).Occupied
}

func (s *Session) CanDelete() bool {
	return s.IsUpdate()
}

// Commit writes the draft to the engine and closes the session. An invalid
// draft leaves the session open.
func (s *Session) Commit() error {
	ref, ok := s.state.Ref()
	if !ok {
		return ErrNoActiveSession
	}
	if err := s.engine.Set(ref, s.draft); err != nil {
		return err
	}
	s.Cancel()
	return nil
}

// Cancel discards the draft without touching the engine.
func (s *Session) Cancel() {
	s.state = SessionState{Mode: ModeClosed}
	s.draft = PlayerRecord{}
}

// Delete clears the occupant of the open slot and closes the session.
func (s *Session) Delete() error {
	ref, ok := s.state.Ref()
	if !ok {
		return ErrNoActiveSession
	}
	if !s.engine.Slot(ref).Occupied {
		return ErrSlotEmpty
	}
	s.engine.Clear(ref)
	s.Cancel()
	return nil
}
