package report

import "errors"

const (
	baseName     = "checksum"
	extension    = ".txt"
	headerPrefix = "Hash Algorithm: "
	separator    = "    "

	// DefaultMaxSuffix bounds the "checksum (N).txt" probe.
	DefaultMaxSuffix = 10000
)

var ErrNoFreeName = errors.New("no free report name")

// Entry is one digest line of a report.
type Entry struct {
	Hash string
	Path string
}

// Parsed is a report read back from disk.
type Parsed struct {
	Algorithm string
	Entries   []Entry
}
