package cmd

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles used by the table-printing commands. The renderer is bound to the
// output so that redirected output carries no escape sequences.
type styles struct {
	header, number, cell, key, border, warn lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)

	return styles{
		header: r.NewStyle().Bold(true).Padding(0, 1),
		number: r.NewStyle().Foreground(lipgloss.Color("3")).Padding(0, 1).Align(lipgloss.Right),
		cell:   r.NewStyle().Padding(0, 1),
		key:    r.NewStyle().Foreground(lipgloss.Color("6")),
		border: r.NewStyle().Foreground(lipgloss.Color("8")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}
