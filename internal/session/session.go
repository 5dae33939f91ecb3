// Package session runs the interactive checksum loop: print usage, read a
// command, confirm, hash, write the report, summarize.
package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"ChecksumUtility/internal/command"
	"ChecksumUtility/internal/console"
	"ChecksumUtility/internal/digest"
	"ChecksumUtility/internal/enumerate"
	"ChecksumUtility/internal/logging"
	"ChecksumUtility/internal/metrics"
	"ChecksumUtility/internal/progress"
	"ChecksumUtility/internal/report"
	"ChecksumUtility/internal/runner"
	"ChecksumUtility/internal/verify"
)

type Outcome int

const (
	OutcomeInvalid Outcome = iota + 1
	OutcomeDeclined
	OutcomeCompleted
	OutcomeVerified
	OutcomeEndOfInput
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeDeclined:
		return "declined"
	case OutcomeCompleted:
		return "completed"
	case OutcomeVerified:
		return "verified"
	case OutcomeEndOfInput:
		return "end of input"
	default:
		return "unknown"
	}
}

// Result is what one iteration of the loop produced. Fatal conditions are
// returned as errors instead.
type Result struct {
	Outcome Outcome
	Report  *runner.RunReport
	Verify  *verify.Result
}

// BarFactory builds a progress bar for a run; returning nil disables it.
type BarFactory func(totalBytes int64, snap progress.SnapshotFn) *progress.Bar

type Options struct {
	Workers         int
	MaxReportSuffix int
	StopOnError     bool
	SummaryTable    bool
	PauseAfterRun   bool
	NewBar          BarFactory
}

type Session struct {
	con    *console.Console
	opts   Options
	logger *slog.Logger
}

func New(con *console.Console, opts Options, logger *slog.Logger) *Session {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Session{con: con, opts: opts, logger: logger}
}

// Loop runs Step until input ends, ctx is cancelled or a fatal error occurs.
// With StopOnError unset, a fatal error only ends the command that hit it.
func (s *Session) Loop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := s.Step(ctx)
		if err != nil {
			var fe *runner.FatalError
			if errors.As(err, &fe) && !s.opts.StopOnError && ctx.Err() == nil {
				s.logger.Error("command failed", "error", err)
				s.con.Println()
				s.con.Println(err.Error())
				s.con.Println()
				continue
			}
			return err
		}
		s.logger.Debug("command finished", "outcome", res.Outcome.String())
		if res.Outcome == OutcomeEndOfInput {
			return nil
		}
	}
}

// Step performs one Idle → ParsingCommand → ConfirmingRun → Hashing →
// WritingReport cycle.
func (s *Session) Step(ctx context.Context) (Result, error) {
	PrintUsage(s.con.Out)

	line, err := s.con.ReadLineContext(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, ctxErr
	}
	if errors.Is(err, io.EOF) {
		return Result{Outcome: OutcomeEndOfInput}, nil
	}
	if err != nil {
		return Result{}, &runner.FatalError{Op: "read console", Err: err}
	}

	cmd, err := command.Parse(line)
	if err != nil {
		var pe *command.ParseError
		if errors.As(err, &pe) {
			s.logger.Debug("command rejected", "reason", pe.Reason)
		}
		s.con.Println(err.Error())
		return Result{Outcome: OutcomeInvalid}, nil
	}

	switch cmd.Verb {
	case command.VerbVerify:
		return s.verify(ctx, cmd)
	default:
		return s.hash(ctx, cmd)
	}
}

func (s *Session) hash(ctx context.Context, cmd command.Command) (Result, error) {
	files, err := enumerate.Files(cmd)
	if err != nil {
		return Result{}, &runner.FatalError{Op: "enumerate", Path: cmd.InputPath, Err: err}
	}

	ok, err := s.confirm(ctx, "Hash %d files? Y/N\n", len(files))
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Outcome: OutcomeDeclined}, nil
	}

	stats := &metrics.Stats{}
	bar := s.newBar(stats, totalSize(files))
	r := &runner.Runner{
		Out:    s.con.Out,
		Opts:   runner.Options{Workers: s.opts.Workers},
		Bar:    bar,
		Stats:  stats,
		Logger: s.logger,
	}
	rep, err := r.Run(ctx, cmd, files)
	bar.Close()
	if err != nil {
		return Result{}, err
	}

	dir, err := report.TargetDir(cmd)
	if err != nil {
		return Result{}, &runner.FatalError{Op: "write report", Path: cmd.InputPath, Err: err}
	}
	path, err := report.Write(rep, dir, s.opts.MaxReportSuffix)
	if err != nil {
		return Result{}, &runner.FatalError{Op: "write report", Path: dir, Err: err}
	}
	s.logger.Info("report written", "path", path, "files", len(rep.Results), "algorithm", cmd.Algorithm.Name)

	snap := stats.Snapshot()
	metrics.PrintSummary(s.con.Out, cmd.AlgorithmArg, path, snap)
	if s.opts.SummaryTable {
		s.con.Println(metrics.RenderTable(cmd.AlgorithmArg, path, snap))
	}
	s.pause(ctx)

	return Result{Outcome: OutcomeCompleted, Report: rep}, nil
}

func (s *Session) verify(ctx context.Context, cmd command.Command) (Result, error) {
	parsed, err := report.Load(cmd.InputPath)
	if err != nil {
		s.logger.Debug("report rejected", "path", cmd.InputPath, "error", err)
		s.con.Println("Invalid Report")
		return Result{Outcome: OutcomeInvalid}, nil
	}
	if _, err := digest.Lookup(parsed.Algorithm); err != nil {
		s.logger.Debug("report rejected", "path", cmd.InputPath, "error", err)
		s.con.Println("Invalid Report")
		return Result{Outcome: OutcomeInvalid}, nil
	}

	ok, err := s.confirm(ctx, "Verify %d files? Y/N\n", len(parsed.Entries))
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Outcome: OutcomeDeclined}, nil
	}

	paths := make([]string, 0, len(parsed.Entries))
	for _, e := range parsed.Entries {
		paths = append(paths, e.Path)
	}
	stats := &metrics.Stats{}
	bar := s.newBar(stats, totalSize(paths))
	res, err := verify.Verify(ctx, parsed, verify.Options{Workers: s.opts.Workers}, stats, bar)
	bar.Close()
	if err != nil {
		return Result{}, err
	}

	for _, m := range res.Mismatches {
		s.con.Printf("MISMATCH %s\n  expected %s\n  computed %s\n", m.Path, m.Expected, m.Computed)
	}
	for _, f := range res.Failures {
		s.con.Printf("ERROR %s: %v\n", f.Path, f.Err)
	}
	metrics.VerifySummary(s.con.Out, stats.Snapshot())
	s.pause(ctx)

	return Result{Outcome: OutcomeVerified, Verify: res}, nil
}

// confirm asks the yes/no question. Only "y" or "yes" proceed; end of input
// counts as no. The only error is ctx's.
func (s *Session) confirm(ctx context.Context, format string, n int) (bool, error) {
	s.con.Printf(format, n)
	answer, err := s.con.ReadLineContext(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	if err != nil {
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (s *Session) pause(ctx context.Context) {
	if !s.opts.PauseAfterRun {
		return
	}
	s.con.Println()
	s.con.Println("Press Enter to continue")
	_, _ = s.con.ReadLineContext(ctx)
	s.con.Println()
}

func (s *Session) newBar(stats *metrics.Stats, totalBytes int64) *progress.Bar {
	if s.opts.NewBar == nil {
		return nil
	}
	return s.opts.NewBar(totalBytes, func() (int64, int64, int64, int64) {
		snap := stats.Snapshot()
		return snap.Processed, snap.Total, snap.StatErrors + snap.HashErrors, snap.BytesHashed
	})
}

func totalSize(files []string) int64 {
	var total int64
	for _, f := range files {
		if info, err := os.Stat(f); err == nil {
			total += info.Size()
		}
	}
	return total
}
