package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/riskibarqy/match-intake/internal/domain/formation"
	"github.com/riskibarqy/match-intake/internal/domain/roster"
)

const (
	fieldName = iota
	fieldRole
	fieldNumber
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Position", "Number"}

// Editor is an interactive roster editor. Browsing moves a cursor over the
// eighteen slots; opening a slot starts an edit session on it.
type Editor struct {
	engine  *roster.Engine
	session *roster.Session
	cursor  int
	inputs  [fieldCount]textinput.Model
	focus   int
	status  string
	failed  bool
	result  *roster.Finalized
}

func NewEditor(engine *roster.Engine) *Editor {
	if engine == nil {
		engine = roster.NewDefaultEngine()
	}

	e := &Editor{
		engine:  engine,
		session: roster.NewSession(engine),
	}
	for i := range e.inputs {
		input := textinput.New()
		input.Prompt = ""
		input.Placeholder = strings.ToLower(fieldLabels[i])
		input.CharLimit = 40
		e.inputs[i] = input
	}
	return e
}

// Result returns the finalized squad once the user saved it.
func (e *Editor) Result() (roster.Finalized, bool) {
	if e.result == nil {
		return roster.Finalized{}, false
	}
	return *e.result, true
}

func (e *Editor) Init() tea.Cmd {
	return nil
}

func (e *Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return e, nil
	}
	if keyMsg.String() == "ctrl+c" {
		return e, tea.Quit
	}
	if e.session.Active() {
		return e, e.updateEditing(keyMsg)
	}
	return e, e.updateBrowsing(keyMsg)
}

func (e *Editor) updateBrowsing(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc":
		return tea.Quit
	case "up", "k":
		if e.cursor > 0 {
			e.cursor--
		}
	case "down", "j":
		if e.cursor < roster.MaxRoster-1 {
			e.cursor++
		}
	case "f":
		e.cycleFormation()
	case "enter", "e":
		return e.openCursor()
	case "x", "delete":
		e.clearCursor()
	case "s":
		return e.save()
	}
	return nil
}

func (e *Editor) updateEditing(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		e.session.Cancel()
		e.blurAll()
		e.setStatus("edit cancelled", false)
		return nil
	case "tab", "down":
		return e.focusField((e.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return e.focusField((e.focus + fieldCount - 1) % fieldCount)
	case "enter":
		ref, _ := e.session.State().Ref()
		update := e.session.IsUpdate()
		if err := e.session.Commit(); err != nil {
			e.setStatus(err.Error(), true)
			return nil
		}
		e.blurAll()
		verb := "added"
		if update {
			verb = "updated"
		}
		e.setStatus(fmt.Sprintf("%s %s", verb, describeRef(ref)), false)
		return nil
	case "ctrl+d":
		ref, _ := e.session.State().Ref()
		if err := e.session.Delete(); err != nil {
			e.setStatus(err.Error(), true)
			return nil
		}
		e.blurAll()
		e.setStatus("removed player from "+describeRef(ref), false)
		return nil
	}

	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	e.syncDraft()
	return cmd
}

func (e *Editor) cursorRef() roster.SlotRef {
	if e.cursor < roster.StartingSize {
		return roster.SlotRef{Section: roster.SectionStarting, Index: e.cursor}
	}
	return roster.SlotRef{Section: roster.SectionBench, Index: e.cursor - roster.StartingSize}
}

func (e *Editor) openCursor() tea.Cmd {
	e.session.Open(e.cursorRef())
	draft := e.session.Draft()
	e.inputs[fieldName].SetValue(draft.Name)
	e.inputs[fieldRole].SetValue(draft.Role)
	e.inputs[fieldNumber].SetValue(draft.Number)
	e.setStatus("", false)
	return e.focusField(fieldName)
}

func (e *Editor) clearCursor() {
	ref := e.cursorRef()
	e.session.Open(ref)
	if err := e.session.Delete(); err != nil {
		e.session.Cancel()
		e.setStatus(err.Error(), true)
		return
	}
	e.setStatus("removed player from "+describeRef(ref), false)
}

func (e *Editor) cycleFormation() {
	all := formation.All()
	next := all[0]
	for i, id := range all {
		if id == e.engine.Formation() {
			next = all[(i+1)%len(all)]
			break
		}
	}
	if err := e.engine.SetFormation(next); err != nil {
		e.setStatus(err.Error(), true)
		return
	}
	e.setStatus("formation "+string(next)+", starting slots cleared", false)
}

func (e *Editor) save() tea.Cmd {
	finalized, err := e.engine.Finalize()
	if err != nil {
		e.setStatus(err.Error(), true)
		return nil
	}
	e.result = &finalized
	return tea.Quit
}

func (e *Editor) focusField(field int) tea.Cmd {
	e.blurAll()
	e.focus = field
	return e.inputs[field].Focus()
}

func (e *Editor) blurAll() {
	for i := range e.inputs {
		e.inputs[i].Blur()
	}
}

func (e *Editor) syncDraft() {
	e.session.SetName(e.inputs[fieldName].Value())
	e.session.SetRole(e.inputs[fieldRole].Value())
	e.session.SetNumber(e.inputs[fieldNumber].Value())
}

func (e *Editor) setStatus(msg string, failed bool) {
	e.status = msg
	e.failed = failed
}

func (e *Editor) View() string {
	state := e.engine.State()
	view := roster.Project(state)

	startingSel, benchSel := -1, -1
	if e.cursor < roster.StartingSize {
		startingSel = e.cursor
	} else {
		benchSel = e.cursor - roster.StartingSize
	}

	counts := view.Counts()
	header := titleStyle.Render("Formation "+string(view.Formation())) +
		dimStyle.Render(fmt.Sprintf("  starting %d/%d  bench %d/%d",
			counts.StartingFilled, roster.StartingSize, counts.BenchFilled, roster.BenchSize))

	sections := []string{
		header,
		lipgloss.JoinHorizontal(lipgloss.Top,
			RenderPitch(view.RenderablePositions(), startingSel),
			"  ",
			RenderBench(state, benchSel),
		),
	}

	if e.session.Active() {
		sections = append(sections, e.formView())
	} else if shortfall := view.Shortfall(); shortfall > 0 {
		sections = append(sections, dimStyle.Render(fmt.Sprintf("%d starting slots still empty", shortfall)))
	}

	if e.status != "" {
		status := e.status
		if e.failed {
			status = errorStyle.Render(status)
		}
		sections = append(sections, status)
	}

	if e.session.Active() {
		sections = append(sections, dimStyle.Render("tab next field • enter save • ctrl+d remove • esc cancel"))
	} else {
		sections = append(sections, dimStyle.Render("↑/↓ move • enter edit • x remove • f formation • s save • q quit"))
	}
	return strings.Join(sections, "\n\n")
}

func (e *Editor) formView() string {
	ref, _ := e.session.State().Ref()
	action := "Add player"
	if e.session.IsUpdate() {
		action = "Update player"
	}

	lines := []string{titleStyle.Render(action + " · " + describeRef(ref))}
	for i, input := range e.inputs {
		lines = append(lines, fmt.Sprintf("%-9s %s", fieldLabels[i]+":", input.View()))
	}
	if !e.session.CanCommit() {
		lines = append(lines, dimStyle.Render("name and number are required"))
	}
	return strings.Join(lines, "\n")
}

func describeRef(ref roster.SlotRef) string {
	return fmt.Sprintf("%s slot %d", ref.Section, ref.Index+1)
}
