package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tuber/internal/config"
	"tuber/internal/dirs"
	"tuber/internal/model"
)

const (
	ExitOK            = 0
	ExitCLIError      = 1
	ExitMissingDep    = 2
	ExitDownloadError = 3
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tuber [flags] --start",
		Short:         "Parallel batch downloader for videos and music",
		Long:          "Tuber reads a file of media URLs and downloads them in parallel through yt-dlp. Configure once with --config, then run batches with --start; whatever failed ends up in failed.txt next to your downloads.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return dispatch(cmd)
		},
	}

	root.Flags().Bool("start", false, "Start downloading the files")
	root.Flags().Bool("config", false, "Persist the given flags into the config file and exit")
	bindSettingsFlags(root.Flags())

	root.AddCommand(newDoctorCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

// bindSettingsFlags declares the persisted settings flags plus the
// session-only ones (pp, nosub, no-ui, verbose are never written to the
// config file).
func bindSettingsFlags(fs *pflag.FlagSet) {
	fs.StringP("res", "r", "", "Target resolution (144p, 240p, 360p, 480p, 720p, 1080p, 1440p, 4k)")
	fs.StringP("source", "s", "", "Path to the newline-delimited URL file")
	fs.StringP("destination", "d", "", "Output directory")
	fs.IntP("threads", "t", 0, "Number of parallel download workers")
	fs.StringP("format", "f", "", "Container format for video mode (e.g. mp4, mkv)")
	fs.BoolP("novideo", "a", false, "Download audio only")
	fs.BoolP("pp", "p", false, "Store files under randomized hidden names")
	fs.Bool("nosub", false, "Disable subtitles for this run")
	fs.Bool("no-ui", false, "Disable the interactive view; use plain repaint output")
	fs.BoolP("verbose", "v", false, "List the failed links in the final report")
}

// dispatch routes the mutually exclusive --start / --config modes.
func dispatch(cmd *cobra.Command) error {
	start, _ := cmd.Flags().GetBool("start")
	persist, _ := cmd.Flags().GetBool("config")

	switch {
	case start && persist:
		return &ExitError{Code: ExitCLIError, Err: errors.New("can't start and config at the same time; pick one of --start or --config")}
	case !start && !persist:
		return &ExitError{Code: ExitCLIError, Err: errors.New("nothing to do: pass --start to download or --config to save settings (see 'tuber -h')")}
	}

	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}

	if persist {
		if err := cfg.Save(); err != nil {
			return &ExitError{Code: ExitCLIError, Err: err}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config updated successfully! (%s)\n", cfg.Path())
		return nil
	}

	return runStart(cmd, sessionSettings(cmd.Flags(), cfg))
}

// loadConfig binds the persisted flags into viper and reads the config
// file, giving flag > file > default precedence.
func loadConfig(fs *pflag.FlagSet) (*config.Config, error) {
	_ = dirs.EnsureAll()
	path, err := dirs.ConfigFile()
	if err != nil {
		return nil, err
	}
	cfg := config.New(path)
	if err := cfg.BindFlags(fs); err != nil {
		return nil, err
	}
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// sessionSettings merges the persisted settings with the session-only flags.
func sessionSettings(fs *pflag.FlagSet, cfg *config.Config) model.Settings {
	s := cfg.Settings()
	s.NoSub, _ = fs.GetBool("nosub")
	s.RandomNames, _ = fs.GetBool("pp")
	s.NoUI, _ = fs.GetBool("no-ui")
	s.Verbose, _ = fs.GetBool("verbose")
	return s
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	return root.ExecuteContext(ctx)
}
