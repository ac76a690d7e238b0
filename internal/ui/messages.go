package ui

import "tuber/internal/pipeline"

type repaintMsg struct{}

type runDoneMsg struct {
	Report pipeline.Report
	Err    error
}
