// Package report writes checksum reports next to their input and reads them
// back for verification.
package report

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"

	"ChecksumUtility/internal/command"
	"ChecksumUtility/internal/runner"
)

// TargetDir is the directory a report for cmd belongs in: the input itself
// for a directory, its parent otherwise.
func TargetDir(cmd command.Command) (string, error) {
	abs, err := filepath.Abs(cmd.InputPath)
	if err != nil {
		return "", err
	}
	if cmd.IsDirectory {
		return abs, nil
	}
	return filepath.Dir(abs), nil
}

// candidate returns checksum.txt for n == 0 and "checksum (n).txt" after.
func candidate(dir string, n int) string {
	if n == 0 {
		return filepath.Join(dir, baseName+extension)
	}
	return filepath.Join(dir, baseName+" ("+strconv.Itoa(n)+")"+extension)
}

func normalizeMax(maxSuffix int) int {
	if maxSuffix <= 0 {
		return DefaultMaxSuffix
	}
	return maxSuffix
}

// Write stores rep in dir under the first free report name and records the
// chosen path in rep.OutputPath. Existing files are never overwritten. On any
// error the partially written file is removed.
func Write(rep *runner.RunReport, dir string, maxSuffix int) (string, error) {
	lock := flock.New(lockPath(dir))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("lock report directory: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	f, path, err := create(dir, normalizeMax(maxSuffix))
	if err != nil {
		return "", err
	}

	if err := writeTo(f, rep); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	rep.OutputPath = path
	return path, nil
}

// create claims the first free report name in dir: checksum.txt, then
// "checksum (1).txt" and so on up to maxSuffix.
func create(dir string, maxSuffix int) (*os.File, string, error) {
	for n := 0; n <= maxSuffix; n++ {
		p := candidate(dir, n)
		f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) // #nosec G304
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return f, p, nil
	}
	return nil, "", fmt.Errorf("%w in %s after %d attempts", ErrNoFreeName, dir, maxSuffix)
}

func writeTo(f *os.File, rep *runner.RunReport) error {
	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintf(w, "%s%s\n\n", headerPrefix, rep.AlgorithmArg); err != nil {
		return err
	}
	for _, r := range rep.Results {
		if _, err := fmt.Fprintf(w, "%s%s%s\n", r.HexDigest, separator, r.Path); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Sync()
}

// lockPath keeps the lock file out of the directory being reported on.
func lockPath(dir string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(dir)))
	return filepath.Join(os.TempDir(), "checksum-"+hex.EncodeToString(sum[:8])+".lock")
}
