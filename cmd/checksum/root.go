package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"ChecksumUtility/internal/config"
	"ChecksumUtility/internal/console"
	"ChecksumUtility/internal/logging"
	"ChecksumUtility/internal/progress"
	"ChecksumUtility/internal/session"
)

// reportedError has already been shown on the console.
type reportedError struct{ error }

func (e *reportedError) Unwrap() error { return e.error }

type rootFlags struct {
	config   string
	workers  int
	logLevel string
	encoding string
	progress bool
}

func newRootCommand() *cobra.Command {
	var flags rootFlags

	rootCmd := &cobra.Command{
		Use:           "checksum",
		Short:         "Interactively compute checksum reports for files and folders",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(flags.config)
			if err != nil {
				return err
			}
			applyFlags(cmd, &flags, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	rootCmd.Flags().StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	rootCmd.Flags().IntVarP(&flags.workers, "workers", "w", 1, "Files hashed in parallel (report order is unchanged)")
	rootCmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&flags.encoding, "encoding", "", "Console encoding (utf-8, utf-16le, windows-1252, ...)")
	rootCmd.Flags().BoolVar(&flags.progress, "progress", false, "Show a byte progress bar when attached to a terminal")

	return rootCmd
}

func applyFlags(cmd *cobra.Command, flags *rootFlags, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("workers") {
		cfg.Workers = flags.workers
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if fs.Changed("encoding") {
		cfg.Console.Encoding = flags.encoding
	}
	if fs.Changed("progress") {
		cfg.ProgressBar = flags.progress
	}
}

func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	con, err := console.Open(cfg.Console.Encoding, in, out)
	if err != nil {
		return err
	}
	defer con.Close()

	opts := session.Options{
		Workers:         cfg.Workers,
		MaxReportSuffix: cfg.MaxReportSuffix,
		StopOnError:     cfg.StopOnError,
		SummaryTable:    cfg.SummaryTable,
		PauseAfterRun:   cfg.PauseAfterRun,
	}
	if cfg.ProgressBar && isTerminal(out) {
		opts.NewBar = func(totalBytes int64, snap progress.SnapshotFn) *progress.Bar {
			return progress.New(con.Out, totalBytes, snap)
		}
	}

	logger.Debug("session starting", "encoding", con.Encoding, "workers", cfg.Workers)
	err = session.New(con, opts, logger).Loop(ctx)
	if err == nil || ctx.Err() != nil {
		return err
	}

	con.Println()
	con.Println(err.Error())
	con.Println()
	con.Println("Press Enter to exit")
	_, _ = con.ReadLine()
	return &reportedError{fmt.Errorf("checksum session ended: %w", err)}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
