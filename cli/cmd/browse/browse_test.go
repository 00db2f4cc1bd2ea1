package browse

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/specscan/log"
	"github.com/ardnew/specscan/specfile"
)

const scans = `#F /data/browse.spec

#S 1  ascan  th 0 1 2 1
#N 2
#L Theta  Detector
0 10
1 20

#S 2  mesh  samx 0 1 2 samy 0 1 2 1
#N 2
#L Sample X  Detector
0 5

#S 3  timescan  1
#N 1
#L Detector
7
`

func testModel(t *testing.T) model {
	t.Helper()

	reg, err := specfile.NewFromString(scans).Parse()
	if err != nil {
		t.Fatal(err)
	}

	return newModel(context.Background(), "browse.spec", reg, log.Logger{})
}

func send(m model, msgs ...tea.Msg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}

	return m
}

func typed(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func commandsOf(m model) []string {
	out := make([]string, len(m.matches))
	for i, match := range m.matches {
		out[i] = m.scans[match.Index].Command
	}

	return out
}

func TestModel_Initial(t *testing.T) {
	m := testModel(t)

	got := commandsOf(m)
	want := []string{"ascan  th 0 1 2 1", "mesh  samx 0 1 2 samy 0 1 2 1", "timescan  1"}

	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("want %q, got %q", want, got)
	}

	if s := m.selected(); s == nil || s.Number != 1 {
		t.Errorf("first scan should be selected, got %+v", s)
	}
}

func TestModel_Filter(t *testing.T) {
	m := send(testModel(t), typed("mesh"))

	if got := commandsOf(m); len(got) != 1 || !strings.HasPrefix(got[0], "mesh") {
		t.Fatalf("want only the mesh scan, got %q", got)
	}

	if s := m.selected(); s.Number != 2 {
		t.Errorf("want scan 2 selected, got %d", s.Number)
	}

	// Esc clears the query before it quits.
	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.quit || len(m.matches) != 3 {
		t.Errorf("esc should clear the filter: quit=%v matches=%d", m.quit, len(m.matches))
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(model).quit || cmd == nil {
		t.Error("esc on an empty query should quit")
	}
}

func TestModel_NoMatch(t *testing.T) {
	m := send(testModel(t), typed("zzzz"))

	if len(m.matches) != 0 || m.selected() != nil {
		t.Errorf("want no matches, got %d", len(m.matches))
	}

	// Enter with nothing selected must not open the detail view.
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.detail {
		t.Error("detail view opened without a selection")
	}
}

func TestModel_Navigation(t *testing.T) {
	m := testModel(t)

	m = send(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 2 {
		t.Errorf("cursor should stop at the last scan, got %d", m.cursor)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.selected().Number != 2 {
		t.Errorf("want scan 2, got %d", m.selected().Number)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.detail {
		t.Fatal("enter should open the detail view")
	}

	view := m.View()
	for _, want := range []string{"mesh", "Sample X", "points"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q:\n%s", want, view)
		}
	}

	// Typing is ignored in the detail view.
	m = send(m, typed("x"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.detail || m.input.Value() != "" {
		t.Errorf("detail=%v input=%q", m.detail, m.input.Value())
	}
}

func TestModel_Scroll(t *testing.T) {
	m := send(testModel(t), tea.WindowSizeMsg{Width: 40, Height: chromeLines + 1})

	m = send(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	if m.offset != 2 {
		t.Errorf("want offset 2 with one visible row, got %d", m.offset)
	}

	if view := m.View(); !strings.Contains(view, "timescan") || strings.Contains(view, "ascan") {
		t.Errorf("only the selected row should be visible:\n%s", view)
	}
}

func TestRun_NoScans(t *testing.T) {
	reg, err := specfile.NewFromString("#F empty\n").Parse()
	if err != nil {
		t.Fatal(err)
	}

	if err := Run(context.Background(), "empty", reg, log.Logger{}); err != ErrNoScans {
		t.Errorf("want ErrNoScans, got %v", err)
	}
}
