package metrics

import (
	"fmt"
	"io"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type Snapshot struct {
	Duration       time.Duration
	Total          int64
	Processed      int64
	OK             int64
	StatErrors     int64
	HashErrors     int64
	HashMismatches int64
	BytesHashed    int64
	TotalBytes     int64
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Duration:       s.Duration(),
		Total:          atomic.LoadInt64(&s.Total),
		Processed:      atomic.LoadInt64(&s.Processed),
		OK:             atomic.LoadInt64(&s.OK),
		StatErrors:     atomic.LoadInt64(&s.StatErrors),
		HashErrors:     atomic.LoadInt64(&s.HashErrors),
		HashMismatches: atomic.LoadInt64(&s.HashMismatches),
		BytesHashed:    atomic.LoadInt64(&s.BytesHashed),
		TotalBytes:     atomic.LoadInt64(&s.TotalBytes),
	}
}

// ElapsedMs is the run duration in fractional milliseconds.
func (s Snapshot) ElapsedMs() float64 {
	return float64(s.Duration) / float64(time.Millisecond)
}

// AverageMs is the mean time per processed file, zero when nothing ran.
func (s Snapshot) AverageMs() float64 {
	if s.Processed <= 0 {
		return 0
	}
	return s.ElapsedMs() / float64(s.Processed)
}

// ThroughputMBps is megabytes hashed per second.
func (s Snapshot) ThroughputMBps() float64 {
	secs := s.Duration.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.BytesHashed) / secs / 1_000_000.0
}

// PrintSummary writes the plain end-of-run lines.
func PrintSummary(w io.Writer, algorithm, output string, snap Snapshot) {
	fmt.Fprintf(w, "Finished hashing %d files\n", snap.Processed)
	fmt.Fprintf(w, "Hash Algorithm: %s\n", algorithm)
	fmt.Fprintf(w, "Elapsed time: %s ms\n", formatMs(snap.ElapsedMs()))
	fmt.Fprintf(w, "Average time per file: %s ms\n", formatMs(snap.AverageMs()))
	fmt.Fprintf(w, "Results: %s\n", output)
}

// RenderTable renders the same figures, plus byte counts, as a table.
func RenderTable(algorithm, output string, snap Snapshot) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Metric", "Value"})
	tw.AppendRows([]table.Row{
		{"Files", snap.Processed},
		{"Algorithm", algorithm},
		{"Bytes hashed", snap.BytesHashed},
		{"Elapsed (ms)", formatMs(snap.ElapsedMs())},
		{"Average per file (ms)", formatMs(snap.AverageMs())},
		{"Throughput (MB/s)", strconv.FormatFloat(snap.ThroughputMBps(), 'f', 1, 64)},
		{"Results", output},
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// VerifySummary lists the verification counters.
func VerifySummary(w io.Writer, snap Snapshot) {
	fmt.Fprintf(w, "Verified %d of %d files\n", snap.Processed, snap.Total)
	fmt.Fprintf(w, "ok: %d\n", snap.OK)
	fmt.Fprintf(w, "hash_mismatches: %d\n", snap.HashMismatches)
	fmt.Fprintf(w, "stat_errors: %d\n", snap.StatErrors)
	fmt.Fprintf(w, "hash_errors: %d\n", snap.HashErrors)
	fmt.Fprintf(w, "Elapsed time: %s ms\n", formatMs(snap.ElapsedMs()))
}

func formatMs(ms float64) string {
	return strconv.FormatFloat(ms, 'f', -1, 64)
}
