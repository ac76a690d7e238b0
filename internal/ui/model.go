// Package ui is the interactive progress view: one pane per worker slot,
// repainted as progress events arrive. The plain reporter in
// internal/progress remains the fallback for non-TTY runs.
package ui

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"tuber/internal/model"
	"tuber/internal/pipeline"
	"tuber/internal/progress"
)

type Model struct {
	ctx      context.Context
	board    *progress.Board
	settings model.Settings

	spinners []spinner.Model
	styles   Styles

	width, height int
	done          bool
	report        pipeline.Report
	err           error
}

func NewModel(ctx context.Context, board *progress.Board, s model.Settings) Model {
	sty := defaultStyles()
	spinners := make([]spinner.Model, board.Size())
	for i := range spinners {
		sp := spinner.New()
		sp.Spinner = spinner.Dot
		sp.Style = sty.Spinner
		spinners[i] = sp
	}
	return Model{
		ctx:      ctx,
		board:    board,
		settings: s,
		spinners: spinners,
		styles:   sty,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.spinners))
	for _, sp := range m.spinners {
		cmds = append(cmds, sp.Tick)
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			// Workers run their partition to completion regardless; quitting
			// only abandons the view.
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case repaintMsg:
		// View() reads the board snapshot; nothing to update here.
		return m, nil
	case runDoneMsg:
		m.done = true
		m.report = msg.Report
		m.err = msg.Err
		return m, tea.Quit
	}

	var cmds []tea.Cmd
	for i := range m.spinners {
		var c tea.Cmd
		m.spinners[i], c = m.spinners[i].Update(msg)
		if c != nil {
			cmds = append(cmds, c)
		}
	}
	return m, tea.Batch(cmds...)
}

// countFinished mirrors the plain reporter's header: finished files with
// the expected extension already in the destination.
func (m Model) countFinished() int {
	matches, err := filepath.Glob(filepath.Join(m.settings.Destination, "*."+m.settings.OutputExt()))
	if err != nil {
		return 0
	}
	return len(matches)
}
