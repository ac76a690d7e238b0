package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tuber/internal/util/deps"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Diagnose external dependencies (yt-dlp, ffmpeg)",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := deps.FindEngine()
			if err != nil {
				return &ExitError{Code: ExitMissingDep, Err: err}
			}
			ff, err := deps.FindFFmpeg()
			if err != nil {
				return &ExitError{Code: ExitMissingDep, Err: err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "yt-dlp:  %s\n", eng)
			fmt.Fprintf(cmd.OutOrStdout(), "FFmpeg:  %s\n", ff)
			return nil
		},
	}
}
