// Package cli holds the terminal side of the intake tool: pitch rendering,
// snapshot files and the interactive roster editor.
package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/riskibarqy/match-intake/internal/domain/formation"
	"github.com/riskibarqy/match-intake/internal/domain/roster"
	"github.com/valyala/bytebufferpool"
)

const cellWidth = 12

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))

	pitchStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#2E7D32")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Width(cellWidth).
			Align(lipgloss.Center)

	emptyCellStyle = cellStyle.Foreground(lipgloss.Color("240"))

	selectedCellStyle = cellStyle.BorderForeground(lipgloss.Color("#FFB300")).Bold(true)

	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E53935"))
)

// RenderPitch draws the starting positions of a view, attacking line on top.
// selected is the starting index to highlight, or -1.
func RenderPitch(positions []roster.Position, selected int) string {
	rows := make(map[float64][]roster.Position)
	for _, p := range positions {
		rows[p.Spec.Row] = append(rows[p.Spec.Row], p)
	}
	keys := make([]float64, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	rendered := make([]string, 0, len(keys))
	width := 0
	for _, k := range keys {
		row := rows[k]
		sort.Slice(row, func(i, j int) bool { return row[i].Spec.Col < row[j].Spec.Col })

		cells := make([]string, 0, len(row))
		for _, p := range row {
			cells = append(cells, renderCell(p, p.Spec.Index == selected))
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
		if w := lipgloss.Width(line); w > width {
			width = w
		}
		rendered = append(rendered, line)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	for i, line := range rendered {
		if i > 0 {
			_ = buf.WriteByte('\n')
		}
		_, _ = buf.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
	}
	return pitchStyle.Render(buf.String())
}

func renderCell(p roster.Position, selected bool) string {
	style := cellStyle
	switch {
	case selected:
		style = selectedCellStyle
	case !p.Occupied:
		style = emptyCellStyle
	}
	return style.Render(p.Spec.Label + "\n" + playerLabel(p.Player, p.Occupied))
}

func playerLabel(p roster.PlayerRecord, occupied bool) string {
	if !occupied {
		return "-"
	}
	label := "#" + p.Number + " " + p.Name
	if len(label) > cellWidth {
		label = label[:cellWidth-1] + "~"
	}
	return label
}

// RenderBench lists the bench slots. selected is the bench index to
// highlight, or -1.
func RenderBench(state roster.AssignmentState, selected int) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(titleStyle.Render("Bench"))
	for i, slot := range state.Bench {
		marker := "  "
		if i == selected {
			marker = "> "
		}
		line := fmt.Sprintf("%s%d. %s", marker, i+1, benchLine(slot))
		if !slot.Occupied {
			line = dimStyle.Render(line)
		}
		_ = buf.WriteByte('\n')
		_, _ = buf.WriteString(line)
	}
	return buf.String()
}

func benchLine(slot roster.Slot) string {
	if !slot.Occupied {
		return "empty"
	}
	return fmt.Sprintf("#%s %s (%s)", slot.Player.Number, slot.Player.Name, slot.Player.Role)
}

// RenderState prints the whole squad with its fill counts.
func RenderState(state roster.AssignmentState) string {
	view := roster.Project(state)
	counts := view.Counts()
	header := titleStyle.Render(fmt.Sprintf("Formation %s", view.Formation())) +
		dimStyle.Render(fmt.Sprintf("  starting %d/%d  bench %d/%d",
			counts.StartingFilled, roster.StartingSize, counts.BenchFilled, roster.BenchSize))

	return strings.Join([]string{
		header,
		RenderPitch(view.RenderablePositions(), -1),
		RenderBench(state, -1),
	}, "\n")
}

// RenderFormations draws every catalog formation with empty slots.
func RenderFormations() string {
	parts := make([]string, 0, len(formation.All()))
	for _, id := range formation.All() {
		state := roster.AssignmentState{Formation: id}
		parts = append(parts, titleStyle.Render(string(id))+"\n"+RenderPitch(roster.Project(state).RenderablePositions(), -1))
	}
	return strings.Join(parts, "\n\n")
}
