package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ardnew/specscan/specfile"
)

// Show prints the header metadata and data table of one scan.
type Show struct {
	Number int    `arg:"" help:"Scan number."`
	File   string `arg:"" default:"-" help:"SPEC data file, or - for stdin." optional:""`

	Index  int    `default:"-1"   help:"Occurrence of a repeated scan number, from 0."           short:"n"`
	Format string `default:"text" enum:"text,json,yaml"                                          help:"Output format (${enum})." short:"f"`
	Indent int    `default:"2"    help:"Indentation width of JSON and YAML output."`
}

// Run executes the show command.
func (s *Show) Run(ctx context.Context) error {
	reg, err := load(ctx, s.File, "")
	if err != nil {
		return err
	}

	scan, err := s.find(reg)
	if err != nil {
		return err
	}

	if s.Format != "text" {
		return write(ctx, scan, s.Format, s.Indent)
	}

	w := stdout(ctx)
	if err := printScan(w, newStyles(w), scan); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// find selects the scan by number alone, or by number and index when an
// index is given.
func (s *Show) find(reg *specfile.Registry) (*specfile.Scan, error) {
	if s.Index < 0 {
		return reg.Lookup(s.Number)
	}

	scan, ok := reg.Get(s.Number, s.Index)
	if !ok {
		return nil, specfile.ErrScanNotFound.With(
			slog.Int("number", s.Number),
			slog.Int("index", s.Index),
		)
	}

	return scan, nil
}

func printScan(w io.Writer, st styles, s *specfile.Scan) error {
	var b strings.Builder

	field := func(key, value string) {
		if value == "" {
			return
		}

		fmt.Fprintf(&b, "%s %s\n", st.key.Render(fmt.Sprintf("%-10s", key)), value)
	}

	field("scan", scanID(s))
	field("command", s.Command)
	field("line", strconv.Itoa(s.Line))
	field("date", s.Date)

	if s.Counting.Mode != specfile.CountNone {
		counting := s.Counting.Mode.String() + " " + formatFloat(s.Counting.Value)
		if s.Counting.Units != "" {
			counting += " (" + s.Counting.Units + ")"
		}

		field("counting", counting)
	}

	field("points", strconv.Itoa(s.Points))

	if s.DeclaredColumns >= 0 {
		field("declared", strconv.Itoa(s.DeclaredColumns))
	}

	var motors []string
	for label, v := range s.Motors.All() {
		motors = append(motors, label+"="+formatFloat(v))
	}

	field("motors", strings.Join(motors, ", "))
	field("counters", strings.Join(s.Counters().Labels(), ", "))

	for _, c := range s.Comments {
		field("comment", "["+strconv.Itoa(c.Point)+"] "+c.Text)
	}

	for _, r := range s.Malformed {
		field("malformed", st.warn.Render("line "+strconv.Itoa(r.Line)+": "+r.Raw))
	}

	if s.Truncated {
		field("truncated", st.warn.Render("true"))
	}

	if s.Columns() > 0 {
		b.WriteString(dataTable(st, s.Data, s.Points).Render())
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())

	return err
}

func dataTable(st styles, data *specfile.Columns, points int) *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.border).
		Headers(data.Labels()...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.header
			}

			return st.number
		})

	for p := range points {
		values := data.Row(p)

		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = formatFloat(v)
		}

		t.Row(cells...)
	}

	return t
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
