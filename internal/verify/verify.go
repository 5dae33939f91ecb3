// Package verify re-hashes the files listed in a checksum report.
package verify

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"ChecksumUtility/internal/digest"
	"ChecksumUtility/internal/metrics"
	"ChecksumUtility/internal/progress"
	"ChecksumUtility/internal/report"
)

type outcome struct {
	mismatch *Mismatch
	failure  *Failure
}

// Verify checks every entry of parsed against the file on disk. Unreadable
// or missing files are recorded as failures and do not stop the pass.
// Mismatches and failures come back in report order.
func Verify(ctx context.Context, parsed *report.Parsed, opts Options, stats *metrics.Stats, bar *progress.Bar) (*Result, error) {
	alg, err := digest.Lookup(parsed.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("report algorithm: %w", err)
	}
	if stats == nil {
		stats = &metrics.Stats{}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	atomic.StoreInt64(&stats.Total, int64(len(parsed.Entries)))
	stats.Start()
	defer stats.Stop()

	outcomes := make([]outcome, len(parsed.Entries))
	jobs := make(chan int)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()

		for i := range jobs {
			e := parsed.Entries[i]
			finish := func() {
				atomic.AddInt64(&stats.Processed, 1)
			}

			info, err := os.Stat(e.Path)
			if err != nil {
				atomic.AddInt64(&stats.StatErrors, 1)
				outcomes[i].failure = &Failure{Path: e.Path, Err: err}
				finish()
				continue
			}
			atomic.AddInt64(&stats.TotalBytes, info.Size())

			computed, err := digest.FileHashHex(e.Path, alg, func(n int64) {
				atomic.AddInt64(&stats.BytesHashed, n)
				bar.AddBytes(n)
			})
			if err != nil {
				atomic.AddInt64(&stats.HashErrors, 1)
				outcomes[i].failure = &Failure{Path: e.Path, Err: err}
				finish()
				continue
			}

			if !strings.EqualFold(computed, strings.TrimSpace(e.Hash)) {
				atomic.AddInt64(&stats.HashMismatches, 1)
				outcomes[i].mismatch = &Mismatch{Path: e.Path, Expected: e.Hash, Computed: computed}
				finish()
				continue
			}

			atomic.AddInt64(&stats.OK, 1)
			finish()
		}
	}

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go worker()
	}

feed:
	for i := range parsed.Entries {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Algorithm: alg.Name}
	for _, o := range outcomes {
		if o.mismatch != nil {
			res.Mismatches = append(res.Mismatches, *o.mismatch)
		}
		if o.failure != nil {
			res.Failures = append(res.Failures, *o.failure)
		}
	}
	return res, nil
}
