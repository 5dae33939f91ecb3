package digest

import (
	"bytes"
	"crypto/md5"  // #nosec G401
	"crypto/sha1" // #nosec G401
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func expectedHex(algorithm string, content []byte) (string, error) {
	switch strings.ToLower(algorithm) {
	case "sha256":
		h := sha256.Sum256(content)
		return hex.EncodeToString(h[:]), nil
	case "sha1":
		h := sha1.Sum(content)
		return hex.EncodeToString(h[:]), nil
	case "sha512":
		h := sha512.Sum512(content)
		return hex.EncodeToString(h[:]), nil
	case "sha384":
		h := sha512.Sum384(content)
		return hex.EncodeToString(h[:]), nil
	case "md5":
		h := md5.Sum(content)
		return hex.EncodeToString(h[:]), nil
	default:
		return "", os.ErrInvalid
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		size    int
		wantErr bool
	}{
		{"md5", "md5", 16, false},
		{"MD5", "md5", 16, false},
		{"Sha1", "sha1", 20, false},
		{"SHA256", "sha256", 32, false},
		{"sha384", "sha384", 48, false},
		{"sHa512", "sha512", 64, false},
		{"blake3", "", 0, true},
		{"sha-256", "", 0, true},
		{" md5", "", 0, true},
		{"", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alg, err := Lookup(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupported) {
					t.Fatalf("expected ErrUnsupported, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if alg.Name != tt.want {
				t.Fatalf("name: got %q want %q", alg.Name, tt.want)
			}
			if alg.Size() != tt.size || alg.New().Size() != tt.size {
				t.Fatalf("size: got %d want %d", alg.Size(), tt.size)
			}
		})
	}
}

func TestAlgorithms_FixedSet(t *testing.T) {
	var names []string
	for _, a := range Algorithms() {
		names = append(names, a.Name)
	}
	got := strings.Join(names, ",")
	if got != "md5,sha1,sha256,sha384,sha512" {
		t.Fatalf("algorithms: %s", got)
	}
}

func TestFileHashHex_TableDriven(t *testing.T) {
	dir := t.TempDir()

	makeFile := func(name string, content []byte) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, content, 0o600); err != nil {
			t.Fatalf("write temp file: %v", err)
		}
		return p
	}

	contentSmall := []byte("hello world")
	contentLarge := bytes.Repeat([]byte("A"), 2<<20+17)

	tests := []struct {
		name      string
		algorithm string
		content   []byte
		missing   bool
		wantErr   bool
	}{
		{"sha256 small", "sha256", contentSmall, false, false},
		{"sha256 large", "sha256", contentLarge, false, false},
		{"sha1", "sha1", contentSmall, false, false},
		{"sha512", "sha512", contentSmall, false, false},
		{"sha384", "sha384", contentSmall, false, false},
		{"md5", "md5", contentSmall, false, false},
		{"md5 empty", "md5", []byte{}, false, false},
		{"file missing", "sha256", contentSmall, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path string
			if tt.missing {
				path = filepath.Join(dir, "does-not-exist.bin")
			} else {
				path = makeFile(tt.name+".bin", tt.content)
			}

			alg, err := Lookup(tt.algorithm)
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}

			var progressed int64
			got, err := FileHashHex(path, alg, func(n int64) {
				progressed += n
			})

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want, err := expectedHex(tt.algorithm, tt.content)
			if err != nil {
				t.Fatalf("expectedHex: %v", err)
			}
			if got != want {
				t.Fatalf("hash mismatch:\n got: %s\nwant: %s", got, want)
			}
			if len(got) != 2*alg.Size() {
				t.Fatalf("hex length: got %d want %d", len(got), 2*alg.Size())
			}
			if progressed != int64(len(tt.content)) {
				t.Fatalf("progress mismatch:\n got: %d\nwant: %d", progressed, len(tt.content))
			}
		})
	}
}

func TestFileHashHex_KnownDigests(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(p, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	known := map[string]string{
		"md5":    "d41d8cd98f00b204e9800998ecf8427e",
		"sha1":   "da39a3ee5e6b4b0d3255bfef95601890afd80709",
		"sha256": "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
	}
	for name, want := range known {
		alg, err := Lookup(name)
		if err != nil {
			t.Fatal(err)
		}
		got, err := FileHashHex(p, alg, nil)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got != want {
			t.Fatalf("%s: got %s want %s", name, got, want)
		}
	}
}

func TestFileHashHex_ZeroAlgorithm(t *testing.T) {
	if _, err := FileHashHex("whatever", Algorithm{}, nil); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
