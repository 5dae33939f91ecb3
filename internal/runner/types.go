package runner

import (
	"fmt"
	"time"
)

type FileHashResult struct {
	Path      string
	HexDigest string
}

// RunReport is the outcome of one hash command. Results are in discovery
// order regardless of how many workers produced them.
type RunReport struct {
	AlgorithmArg string
	Results      []FileHashResult
	Elapsed      time.Duration
	OutputPath   string
}

func (r *RunReport) ElapsedMilliseconds() float64 {
	return float64(r.Elapsed) / float64(time.Millisecond)
}

// FatalError marks an I/O failure that aborts the run with no report. Op
// names the step that failed.
type FatalError struct {
	Op   string
	Path string
	Err  error
}

func (e *FatalError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

type Options struct {
	Workers int
}
