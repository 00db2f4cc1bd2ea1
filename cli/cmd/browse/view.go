package browse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/specscan/specfile"
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	titleStyle     = lipgloss.NewStyle().Bold(true)
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	numberStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	keyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

func (m model) View() string {
	if m.quit {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(m.name))
	b.WriteString(hintStyle.Render(fmt.Sprintf("  %d of %d scans", len(m.matches), len(m.scans))))
	b.WriteByte('\n')

	if m.detail {
		b.WriteString(detail(m.selected()))
		b.WriteString(hintStyle.Render("enter/esc back · ctrl+c quit"))

		return b.String()
	}

	b.WriteString(m.input.View())
	b.WriteByte('\n')

	end := min(m.offset+m.visible(), len(m.matches))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.row(m.matches[i], i == m.cursor))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(hintStyle.Render("↑/↓ select · enter details · esc clear/quit"))

	return b.String()
}

// row renders one list entry with the matched command characters
// highlighted.
func (m model) row(match fuzzy.Match, selected bool) string {
	s := m.scans[match.Index]

	base, marked := lipgloss.NewStyle(), highlightStyle
	if selected {
		base, marked = selectedStyle, selectedStyle.Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, i := range match.MatchedIndexes {
		matched[i] = true
	}

	// Render runs of matched and unmatched bytes.
	var cmd strings.Builder

	for start := 0; start < len(s.Command); {
		end := start
		for end < len(s.Command) && matched[end] == matched[start] {
			end++
		}

		style := base
		if matched[start] {
			style = marked
		}

		cmd.WriteString(style.Render(s.Command[start:end]))
		start = end
	}

	id := fmt.Sprintf("%6s %5d ", strconv.Itoa(s.Number)+"."+strconv.Itoa(s.Index), s.Points)
	if selected {
		id = base.Render(id)
	} else {
		id = numberStyle.Render(id)
	}

	line := id + cmd.String()
	if w := m.width; w > 0 && lipgloss.Width(line) > w {
		line = lipgloss.NewStyle().MaxWidth(w).Render(line)
	}

	return line
}

// detail renders the header metadata of s.
func detail(s *specfile.Scan) string {
	if s == nil {
		return ""
	}

	var b strings.Builder

	field := func(key, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s %s\n", keyStyle.Render(fmt.Sprintf("%-10s", key)), value)
		}
	}

	field("scan", strconv.Itoa(s.Number)+"."+strconv.Itoa(s.Index))
	field("command", s.Command)
	field("date", s.Date)
	field("line", strconv.Itoa(s.Line))

	if s.Counting.Mode != specfile.CountNone {
		field("counting", s.Counting.Mode.String()+" "+
			strconv.FormatFloat(s.Counting.Value, 'g', -1, 64))
	}

	field("points", strconv.Itoa(s.Points))
	field("labels", strings.Join(s.Data.Labels(), ", "))
	field("counters", strings.Join(s.Counters().Labels(), ", "))

	for label, v := range s.Motors.All() {
		field("motor", label+" = "+strconv.FormatFloat(v, 'g', -1, 64))
	}

	for _, c := range s.Comments {
		field("comment", c.Text)
	}

	if n := len(s.Malformed); n > 0 {
		field("malformed", warnStyle.Render(strconv.Itoa(n)+" rows"))
	}

	if s.Truncated {
		field("truncated", warnStyle.Render("true"))
	}

	b.WriteByte('\n')

	return b.String()
}
