package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"tuber/internal/model"
	"tuber/internal/pipeline"
	"tuber/internal/progress"
)

// teaReporter forwards worker repaint triggers into the running program.
// Program.Send is safe from any goroutine.
type teaReporter struct {
	p *tea.Program
}

func (r teaReporter) Repaint() {
	r.p.Send(repaintMsg{})
}

// Run drives the TUI around a download run. start is invoked on its own
// goroutine with the reporter the workers should repaint through; Run
// returns its report once the batch finishes or the view is abandoned.
func Run(ctx context.Context, board *progress.Board, s model.Settings, start func(context.Context, progress.Reporter) (pipeline.Report, error)) (pipeline.Report, error) {
	m := NewModel(ctx, board, s)
	prog := tea.NewProgram(m, tea.WithContext(ctx))

	resCh := make(chan runDoneMsg, 1)
	go func() {
		report, err := start(ctx, teaReporter{p: prog})
		msg := runDoneMsg{Report: report, Err: err}
		resCh <- msg
		prog.Send(msg)
	}()

	if _, err := prog.Run(); err != nil {
		// View failed or was abandoned; the run itself still finishes.
		res := <-resCh
		if res.Err != nil {
			return res.Report, res.Err
		}
		return res.Report, err
	}
	res := <-resCh
	return res.Report, res.Err
}
