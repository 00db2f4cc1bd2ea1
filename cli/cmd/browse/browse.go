// Package browse implements an interactive scan browser.
//
// The browser lists the scans of a parsed file and narrows the list by fuzzy
// matching the typed query against scan commands. Enter toggles a detail view
// of the selected scan.
package browse

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/specscan/log"
	"github.com/ardnew/specscan/specfile"
)

// ErrNoScans is returned when there is nothing to browse.
var ErrNoScans = errors.New("no scans to browse")

// Run starts the browser over the scans of reg. name is shown in the title.
func Run(
	ctx context.Context,
	name string,
	reg *specfile.Registry,
	logger log.Logger,
) error {
	if reg.Len() == 0 {
		return ErrNoScans
	}

	logger.TraceContext(ctx, "browse start",
		slog.String("file", name),
		slog.Int("scans", reg.Len()),
	)

	p := tea.NewProgram(
		newModel(ctx, name, reg, logger),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const (
	prompt        = "› "
	defaultHeight = 24
	defaultWidth  = 80
	chromeLines   = 4 // title, input, blank and help lines
)

// commands adapts a scan list to [fuzzy.Source], matching on commands.
type commands []*specfile.Scan

func (c commands) String(i int) string { return c[i].Command }
func (c commands) Len() int            { return len(c) }

type model struct {
	ctxFunc func() context.Context
	logger  log.Logger
	name    string
	scans   []*specfile.Scan
	input   textinput.Model
	matches fuzzy.Matches // ranked best-first, or every scan in file order
	cursor  int           // selected match
	offset  int           // first visible match
	width   int
	height  int
	detail  bool
	quit    bool
}

func newModel(
	ctx context.Context,
	name string,
	reg *specfile.Registry,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Placeholder = "filter commands"
	ti.CharLimit = 256
	ti.Width = defaultWidth - len(prompt) - 2
	ti.Focus()

	m := model{
		ctxFunc: func() context.Context { return ctx },
		logger:  logger,
		name:    name,
		input:   ti,
		width:   defaultWidth,
		height:  defaultHeight,
	}

	for s := range reg.Scans() {
		m.scans = append(m.scans, s)
	}

	m.refresh()

	return m
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-len(prompt)-2, 1)
		m.scroll()

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "browse keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		m.quit = true

		return m, tea.Quit

	case tea.KeyEsc:
		switch {
		case m.detail:
			m.detail = false
		case m.input.Value() != "":
			m.input.SetValue("")
			m.refresh()
		default:
			m.quit = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if len(m.matches) > 0 {
			m.detail = !m.detail
		}

		return m, nil

	case tea.KeyUp, tea.KeyCtrlP:
		m.move(-1)

		return m, nil

	case tea.KeyDown, tea.KeyCtrlN:
		m.move(1)

		return m, nil

	case tea.KeyPgUp:
		m.move(-m.visible())

		return m, nil

	case tea.KeyPgDown:
		m.move(m.visible())

		return m, nil
	}

	if m.detail {
		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	m.refresh()

	return m, cmd
}

// refresh recomputes matches for the current query and resets the selection.
func (m *model) refresh() {
	query := strings.TrimSpace(m.input.Value())

	if query == "" {
		m.matches = make(fuzzy.Matches, len(m.scans))
		for i, s := range m.scans {
			m.matches[i] = fuzzy.Match{Str: s.Command, Index: i}
		}
	} else {
		m.matches = fuzzy.FindFrom(query, commands(m.scans))
	}

	m.cursor, m.offset = 0, 0
}

func (m *model) move(delta int) {
	if len(m.matches) == 0 {
		return
	}

	m.cursor = min(max(m.cursor+delta, 0), len(m.matches)-1)
	m.scroll()
}

// scroll keeps the cursor within the visible rows.
func (m *model) scroll() {
	n := m.visible()

	switch {
	case m.cursor < m.offset:
		m.offset = m.cursor
	case m.cursor >= m.offset+n:
		m.offset = m.cursor - n + 1
	}
}

func (m model) visible() int {
	return max(m.height-chromeLines, 1)
}

// selected returns the scan under the cursor, or nil if nothing matches.
func (m model) selected() *specfile.Scan {
	if len(m.matches) == 0 {
		return nil
	}

	return m.scans[m.matches[m.cursor].Index]
}
