package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ardnew/specscan/specfile"
)

// List prints one table row per scan.
type List struct {
	File  string `arg:"" default:"-" help:"SPEC data file, or - for stdin." optional:""`
	Where string `help:"Only include scans matching this expression." short:"w"`
}

// Run executes the list command.
func (l *List) Run(ctx context.Context) error {
	reg, err := load(ctx, l.File, l.Where)
	if err != nil {
		return err
	}

	w := stdout(ctx)
	styles := newStyles(w)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.border).
		Headers("scan", "points", "columns", "date", "command").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styles.header
			case col == 0 || col == 1 || col == 2:
				return styles.number
			default:
				return styles.cell
			}
		})

	for s := range reg.Scans() {
		t.Row(listRow(s)...)
	}

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func listRow(s *specfile.Scan) []string {
	points := strconv.Itoa(s.Points)
	if s.Truncated {
		points += "*"
	}

	return []string{
		scanID(s),
		points,
		strconv.Itoa(s.Columns()),
		s.Date,
		s.Command,
	}
}

// scanID formats the number and occurrence index of s as "number.index".
func scanID(s *specfile.Scan) string {
	return strconv.Itoa(s.Number) + "." + strconv.Itoa(s.Index)
}
