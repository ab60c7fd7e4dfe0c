package cli

import (
	"strconv"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riskibarqy/match-intake/internal/domain/formation"
	"github.com/riskibarqy/match-intake/internal/domain/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(t *testing.T, e *Editor, keys ...tea.KeyMsg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, key := range keys {
		_, cmd = e.Update(key)
	}
	return cmd
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEditor_AddStartingPlayer(t *testing.T) {
	engine := roster.NewDefaultEngine()
	e := NewEditor(engine)

	press(t, e, key(tea.KeyEnter))
	require.True(t, e.session.Active())
	assert.Equal(t, "GK", e.inputs[fieldRole].Value())

	press(t, e, runes("Kim"), key(tea.KeyTab), key(tea.KeyTab), runes("1"), key(tea.KeyEnter))

	assert.False(t, e.session.Active())
	slot := engine.StartingSlot(0)
	require.True(t, slot.Occupied)
	assert.Equal(t, roster.PlayerRecord{Name: "Kim", Role: "GK", Number: "1"}, slot.Player)
	assert.Contains(t, e.status, "added starting slot 1")
}

func TestEditor_InvalidCommitKeepsSessionOpen(t *testing.T) {
	engine := roster.NewDefaultEngine()
	e := NewEditor(engine)

	press(t, e, key(tea.KeyEnter), runes("Kim"), key(tea.KeyEnter))

	assert.True(t, e.session.Active())
	assert.True(t, e.failed)
	assert.False(t, engine.StartingSlot(0).Occupied)

	press(t, e, key(tea.KeyEsc))
	assert.False(t, e.session.Active())
	assert.False(t, engine.StartingSlot(0).Occupied)
}

func TestEditor_BenchSlotSeedsSubRole(t *testing.T) {
	engine := roster.NewDefaultEngine()
	e := NewEditor(engine)

	for i := 0; i < roster.StartingSize; i++ {
		press(t, e, runes("j"))
	}
	press(t, e, key(tea.KeyEnter))

	ref, ok := e.session.State().Ref()
	require.True(t, ok)
	assert.Equal(t, roster.SlotRef{Section: roster.SectionBench, Index: 0}, ref)
	assert.Equal(t, roster.BenchRole, e.inputs[fieldRole].Value())
}

func TestEditor_RemoveAndFormationCycle(t *testing.T) {
	engine := roster.NewDefaultEngine()
	require.NoError(t, engine.SetStartingSlot(0, roster.PlayerRecord{Name: "Kim", Role: "GK", Number: "1"}))
	e := NewEditor(engine)

	press(t, e, runes("x"))
	assert.False(t, engine.StartingSlot(0).Occupied)

	press(t, e, runes("x"))
	assert.True(t, e.failed)
	assert.False(t, e.session.Active())

	press(t, e, runes("f"))
	assert.Equal(t, formation.All()[1], engine.Formation())
}

func TestEditor_SaveRequiresFullStartingEleven(t *testing.T) {
	engine := roster.NewDefaultEngine()
	e := NewEditor(engine)

	cmd := press(t, e, runes("s"))
	assert.Nil(t, cmd)
	assert.True(t, e.failed)
	assert.Contains(t, e.status, "insufficient roster")
	_, ok := e.Result()
	assert.False(t, ok)

	for i := 0; i < roster.StartingSize; i++ {
		require.NoError(t, engine.SetStartingSlot(i, roster.PlayerRecord{Name: "P" + strconv.Itoa(i), Number: strconv.Itoa(i + 1)}))
	}
	cmd = press(t, e, runes("s"))
	assert.NotNil(t, cmd)

	result, ok := e.Result()
	require.True(t, ok)
	assert.Len(t, result.StartingPlayers, roster.StartingSize)
	assert.Equal(t, formation.Default, result.Formation)
}

func TestEditor_ViewShowsForm(t *testing.T) {
	e := NewEditor(nil)
	assert.Contains(t, e.View(), "11 starting slots still empty")

	press(t, e, key(tea.KeyEnter))
	view := e.View()
	assert.Contains(t, view, "Add player")
	assert.Contains(t, view, "name and number are required")
}
