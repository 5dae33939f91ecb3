package digest

import (
	"crypto/md5"  // #nosec G501 -- used for file checksums only
	"crypto/sha1" // #nosec G505 -- used for file checksums only
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

var ErrUnsupported = errors.New("unsupported algorithm")

// Algorithm is one of the fixed set of digest functions a checksum run can use.
type Algorithm struct {
	Name string
	size int
	fn   func() hash.Hash
}

var algorithms = []Algorithm{
	{Name: "md5", size: md5.Size, fn: md5.New},    // #nosec G401
	{Name: "sha1", size: sha1.Size, fn: sha1.New}, // #nosec G401
	{Name: "sha256", size: sha256.Size, fn: sha256.New},
	{Name: "sha384", size: sha512.Size384, fn: sha512.New384},
	{Name: "sha512", size: sha512.Size, fn: sha512.New},
}

// Algorithms returns the supported algorithms in usage order.
func Algorithms() []Algorithm {
	out := make([]Algorithm, len(algorithms))
	copy(out, algorithms)
	return out
}

// Lookup matches name case-insensitively against the supported set.
func Lookup(name string) (Algorithm, error) {
	for _, a := range algorithms {
		if strings.EqualFold(a.Name, name) {
			return a, nil
		}
	}
	return Algorithm{}, fmt.Errorf("%w: %q", ErrUnsupported, name)
}

func (a Algorithm) New() hash.Hash { return a.fn() }

// Size is the digest length in bytes.
func (a Algorithm) Size() int { return a.size }

func (a Algorithm) IsZero() bool { return a.fn == nil }

func (a Algorithm) String() string { return a.Name }

const bufSize = 1 << 20 // 1 MiB

// FileHashHex streams the file at path through alg and returns the lowercase
// hex digest. onProgress, when set, receives byte counts in chunks of at most
// bufSize.
func FileHashHex(path string, alg Algorithm, onProgress func(n int64)) (string, error) {
	if alg.IsZero() {
		return "", ErrUnsupported
	}
	h := alg.New()

	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, bufSize)
	var pending int64
	flush := func() {
		if pending > 0 && onProgress != nil {
			onProgress(pending)
			pending = 0
		}
	}

	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			if _, werr := h.Write(buf[:n]); werr != nil {
				return "", werr
			}
			pending += int64(n)
			if pending >= bufSize {
				flush()
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return "", rerr
		}
	}
	flush()

	return hex.EncodeToString(h.Sum(nil)), nil
}
