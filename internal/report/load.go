package report

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Load parses a report written by Write. Blank lines are skipped; every other
// line after the header must be "<hex><4 spaces><path>".
func Load(path string) (*Parsed, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1<<20)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("report %s: empty file", path)
	}
	header := strings.TrimPrefix(sc.Text(), "\ufeff")
	alg, ok := strings.CutPrefix(strings.TrimRight(header, "\r"), headerPrefix)
	if !ok || strings.TrimSpace(alg) == "" {
		return nil, fmt.Errorf("report %s: missing %q header", path, strings.TrimSpace(headerPrefix))
	}

	parsed := &Parsed{Algorithm: strings.TrimSpace(alg), Entries: []Entry{}}
	lineNo := 1
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		hash, p, ok := strings.Cut(line, separator)
		if !ok || hash == "" || p == "" {
			return nil, fmt.Errorf("report %s: line %d: malformed entry", path, lineNo)
		}
		parsed.Entries = append(parsed.Entries, Entry{Hash: hash, Path: p})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return parsed, nil
}
