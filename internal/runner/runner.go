// Package runner hashes a list of files and produces a RunReport.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"ChecksumUtility/internal/command"
	"ChecksumUtility/internal/digest"
	"ChecksumUtility/internal/logging"
	"ChecksumUtility/internal/metrics"
	"ChecksumUtility/internal/progress"
)

type Runner struct {
	Out    io.Writer
	Opts   Options
	Bar    *progress.Bar
	Stats  *metrics.Stats
	Logger *slog.Logger

	mu sync.Mutex
}

// Run hashes files with cmd.Algorithm. A progress line
// "{index} of {total} - {hex} {path}" is printed as each file completes.
// The first I/O error stops the run and is returned as a *FatalError.
func (r *Runner) Run(ctx context.Context, cmd command.Command, files []string) (*RunReport, error) {
	stats := r.Stats
	if stats == nil {
		stats = &metrics.Stats{}
	}
	logger := r.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	atomic.StoreInt64(&stats.Total, int64(len(files)))
	stats.Start()

	results := make([]FileHashResult, len(files))
	hashOne := func(i int) error {
		path := files[i]
		hx, err := digest.FileHashHex(path, cmd.Algorithm, func(n int64) {
			atomic.AddInt64(&stats.BytesHashed, n)
			r.Bar.AddBytes(n)
		})
		if err != nil {
			atomic.AddInt64(&stats.HashErrors, 1)
			return &FatalError{Op: "hash", Path: path, Err: err}
		}
		results[i] = FileHashResult{Path: path, HexDigest: hx}
		done := atomic.AddInt64(&stats.Processed, 1)
		atomic.AddInt64(&stats.OK, 1)
		logger.Debug("file hashed", "index", i+1, "done", done, "path", path)
		r.printf("%d of %d - %s %s", i+1, len(files), hx, path)
		return nil
	}

	var err error
	if r.Opts.Workers <= 1 {
		err = runSequential(ctx, len(files), hashOne)
	} else {
		err = runParallel(ctx, r.Opts.Workers, len(files), hashOne)
	}
	stats.Stop()
	if err != nil {
		logger.Error("hash run aborted", "error", err)
		return nil, err
	}

	return &RunReport{
		AlgorithmArg: cmd.AlgorithmArg,
		Results:      results,
		Elapsed:      stats.Duration(),
	}, nil
}

func runSequential(ctx context.Context, n int, fn func(int) error) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(i); err != nil {
			return err
		}
	}
	return nil
}

func runParallel(ctx context.Context, workers, n int, fn func(int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (r *Runner) printf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if r.Bar != nil {
		r.Bar.Println(line)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.Out, line)
}
