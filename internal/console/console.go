// Package console wraps the interactive input and output streams in an
// explicitly chosen text encoding.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type Console struct {
	Encoding string
	Out      io.Writer

	in     *bufio.Reader
	closer io.Closer

	start sync.Once
	lines chan readResult
}

type readResult struct {
	line string
	err  error
}

// Open decodes in and encodes out with the named encoding (any WHATWG label,
// e.g. "utf-8", "utf-16le", "windows-1252"). UTF-8 streams pass through
// untouched.
func Open(name string, in io.Reader, out io.Writer) (*Console, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("console encoding %q: %w", name, err)
	}
	canonical, _ := htmlindex.Name(enc)

	c := &Console{Encoding: canonical}
	if enc == unicode.UTF8 || enc == encoding.Nop {
		c.in = bufio.NewReader(in)
		c.Out = out
		return c, nil
	}

	w := transform.NewWriter(out, enc.NewEncoder())
	c.in = bufio.NewReader(transform.NewReader(in, enc.NewDecoder()))
	c.Out = w
	c.closer = w
	return c, nil
}

// ReadLine returns the next line without its terminator. A final line with
// no newline is returned as is; io.EOF is returned only when nothing is left.
func (c *Console) ReadLine() (string, error) {
	return c.ReadLineContext(context.Background())
}

// ReadLineContext is ReadLine that gives up when ctx is done. A line that
// arrives after cancellation is kept for the next call.
func (c *Console) ReadLineContext(ctx context.Context) (string, error) {
	c.start.Do(func() {
		c.lines = make(chan readResult, 1)
		go c.readLoop()
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return r.line, r.err
	}
}

// readLoop owns the underlying reader so a cancelled caller never leaves a
// half-consumed line behind.
func (c *Console) readLoop() {
	defer close(c.lines)
	for {
		line, err := c.readLine()
		c.lines <- readResult{line: line, err: err}
		if err != nil {
			return
		}
	}
}

func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Console) Println(a ...any) {
	_, _ = fmt.Fprintln(c.Out, a...)
}

func (c *Console) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(c.Out, format, a...)
}

// Close flushes any buffered encoder state.
func (c *Console) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}
