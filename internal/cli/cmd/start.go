package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tuber/internal/dirs"
	"tuber/internal/engine"
	"tuber/internal/logging"
	"tuber/internal/model"
	"tuber/internal/pipeline"
	"tuber/internal/progress"
	"tuber/internal/ui"
	"tuber/internal/util"
	"tuber/internal/util/deps"
)

// runStart executes one download run end to end.
func runStart(cmd *cobra.Command, st model.Settings) error {
	if err := st.Validate(); err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	if _, err := deps.FindEngine(); err != nil {
		return &ExitError{Code: ExitMissingDep, Err: err}
	}
	if err := util.EnsureDir(st.Destination); err != nil {
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("create destination dir: %w", err)}
	}

	logPath, err := dirs.LogFile()
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	log, err := logging.Open(logPath)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	defer log.Close()

	eng := engine.NewYTDLP(log)
	board := progress.NewBoard(st.Threads)

	report, runErr := runBatch(cmd.Context(), st, board, eng)
	printSummary(cmd, report, st.Verbose)

	if runErr != nil {
		return &ExitError{Code: ExitDownloadError, Err: runErr}
	}
	return nil
}

// runBatch picks the interactive or plain reporter and drives the pipeline.
func runBatch(ctx context.Context, st model.Settings, board *progress.Board, eng engine.Engine) (pipeline.Report, error) {
	newService := func(rep progress.Reporter) *pipeline.Service {
		return pipeline.NewService(
			pipeline.WithSettings(st),
			pipeline.WithEngine(eng),
			pipeline.WithBoard(board),
			pipeline.WithReporter(rep),
		)
	}

	if !st.NoUI && isTerminal() {
		return ui.Run(ctx, board, st, func(ctx context.Context, rep progress.Reporter) (pipeline.Report, error) {
			return newService(rep).Run(ctx)
		})
	}

	rep := progress.NewScreen(board, st.Destination, st.OutputExt(), os.Stdout)
	return newService(rep).Run(ctx)
}

// printSummary renders the final reconciliation report. It runs even after
// a fatal engine error so a failure list is always surfaced.
func printSummary(cmd *cobra.Command, r pipeline.Report, verbose bool) {
	out := cmd.OutOrStdout()

	if r.Complete() {
		fmt.Fprintln(out, "Download Complete!")
	} else {
		fmt.Fprintf(out, "Download Failed!\nCheck '%s' for failed links.\n", pipeline.FailureFileName)
	}
	fmt.Fprintf(out, "\nCompleted: %d/%d\n", r.Completed, r.Total)
	fmt.Fprintf(out, "Failed: %d/%d\n", r.Failed, r.Total)
	if r.BytesOnDisk > 0 {
		fmt.Fprintf(out, "On disk: %s\n", humanize.Bytes(uint64(r.BytesOnDisk)))
	}
	if verbose && len(r.FailedURLs) > 0 {
		fmt.Fprintln(out, "\nFailed links:")
		for _, u := range r.FailedURLs {
			fmt.Fprintf(out, "  %s\n", u)
		}
	}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
