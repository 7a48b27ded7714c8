package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/doraemoncito/tap2bin/types"
)

// BlockStats counts the blocks of an inspection by how they would be treated.
type BlockStats struct {
	Total        int
	Headers      int
	Data         int
	Unrecognized int
	CodePayloads int
	Unpaired     int
}

// NewBlockStats tallies the blocks of in.
func NewBlockStats(in *types.Inspection) BlockStats {
	var s BlockStats
	for _, b := range in.Blocks {
		s.Total++
		switch b.Kind {
		case "header":
			s.Headers++
		case "data":
			s.Data++
		case "unrecognized":
			s.Unrecognized++
		}
		switch b.Note {
		case "code payload":
			s.CodePayloads++
		case "unpaired code header":
			s.Unpaired++
		}
	}
	return s
}

// renderStats lays the counters out as a row of boxes.
func renderStats(s BlockStats) string {
	boxes := []string{
		renderStatBox("Blocks", s.Total, highlightColor),
		renderStatBox("Headers", s.Headers, highlightColor),
		renderStatBox("Code", s.CodePayloads, successColor),
		renderStatBox("Unpaired", s.Unpaired, warningColor),
		renderStatBox("Unrecognized", s.Unrecognized, errorColor),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func renderStatBox(label string, value int, color lipgloss.Color) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		StatLabelStyle.Render(label),
		StatValueStyle.Foreground(color).Render(fmt.Sprintf("%d", value)),
	)
	return StatBoxStyle.BorderForeground(color).Render(content)
}
