package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

type SnapshotFn func() (processed, total, errc, bytesHashed int64)

// Bar is a byte-count progress bar. All rendering happens on one goroutine,
// so progress lines printed through Println never interleave with a redraw.
type Bar struct {
	bar  *progressbar.ProgressBar
	out  io.Writer
	ch   chan event
	done chan struct{}

	snap   SnapshotFn
	lastB  int64
	lastAt time.Time
}

type event struct {
	n    int64
	line string
}

func New(w io.Writer, totalBytes int64, snap SnapshotFn) *Bar {
	b := &Bar{
		out:    w,
		ch:     make(chan event, 16384),
		done:   make(chan struct{}),
		snap:   snap,
		lastAt: time.Now(),
	}

	b.bar = progressbar.NewOptions64(
		totalBytes,
		progressbar.OptionSetWriter(w),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetDescription("hashing"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(120*time.Millisecond),
	)

	_ = b.bar.RenderBlank()
	go b.loop()

	return b
}

func (b *Bar) loop() {
	defer close(b.done)
	t := time.NewTicker(1 * time.Second)
	defer t.Stop()
	for {
		select {
		case ev, ok := <-b.ch:
			if !ok {
				_ = b.bar.Finish()
				return
			}
			if ev.line != "" {
				_ = b.bar.Clear()
				_, _ = fmt.Fprintln(b.out, ev.line)
				continue
			}
			_ = b.bar.Add64(ev.n)
		case <-t.C:
			b.updateDescription()
		}
	}
}

func (b *Bar) AddBytes(n int64) {
	if b == nil || n <= 0 {
		return
	}
	b.ch <- event{n: n}
}

// Println prints line above the bar.
func (b *Bar) Println(line string) {
	b.ch <- event{line: line}
}

func (b *Bar) Close() {
	if b == nil {
		return
	}
	close(b.ch)
	<-b.done
}

func (b *Bar) updateDescription() {
	if b.snap == nil {
		return
	}
	p, total, errc, bytesHashed := b.snap()

	now := time.Now()
	dt := now.Sub(b.lastAt).Seconds()

	mbps := 0.0
	if dt > 0 {
		dBytes := bytesHashed - b.lastB
		mbps = (float64(dBytes) / 1_000_000.0) / dt
	}

	b.lastB = bytesHashed
	b.lastAt = now

	b.bar.Describe(fmt.Sprintf("hashing %d/%d files | err=%d | %.1f MB/s", p, total, errc, mbps))
}
