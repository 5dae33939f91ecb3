package report_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"ChecksumUtility/internal/command"
	"ChecksumUtility/internal/report"
	"ChecksumUtility/internal/runner"
)

func sampleReport() *runner.RunReport {
	return &runner.RunReport{
		AlgorithmArg: "MD5",
		Results: []runner.FileHashResult{
			{Path: "/data/b.txt", HexDigest: "d41d8cd98f00b204e9800998ecf8427e"},
			{Path: "/data/a dir/a.txt", HexDigest: "0cc175b9c0f1b6a831c399e269772661"},
		},
	}
}

func TestTargetDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "x.bin")

	got, err := report.TargetDir(command.Command{InputPath: dir, IsDirectory: true})
	if err != nil || got != dir {
		t.Fatalf("directory target: got %q, %v", got, err)
	}
	got, err = report.TargetDir(command.Command{InputPath: file})
	if err != nil || got != dir {
		t.Fatalf("file target: got %q, %v", got, err)
	}
}

func TestWrite_Format(t *testing.T) {
	dir := t.TempDir()
	rep := sampleReport()

	path, err := report.Write(rep, dir, 0)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if path != filepath.Join(dir, "checksum.txt") || rep.OutputPath != path {
		t.Fatalf("path: got %q (report %q)", path, rep.OutputPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Hash Algorithm: MD5\n\n" +
		"d41d8cd98f00b204e9800998ecf8427e    /data/b.txt\n" +
		"0cc175b9c0f1b6a831c399e269772661    /data/a dir/a.txt\n"
	if string(data) != want {
		t.Fatalf("content:\n got: %q\nwant: %q", data, want)
	}
}

func TestWrite_CollisionSuffixes(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, "checksum.txt")
	if err := os.WriteFile(original, []byte("keep me"), 0o600); err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join(dir, "checksum (1).txt"),
		filepath.Join(dir, "checksum (2).txt"),
		filepath.Join(dir, "checksum (3).txt"),
	}
	for i, w := range want {
		got, err := report.Write(sampleReport(), dir, 0)
		if err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("Write %d: got %q want %q", i, got, w)
		}
	}

	data, err := os.ReadFile(original)
	if err != nil || string(data) != "keep me" {
		t.Fatalf("existing report modified: %q, %v", data, err)
	}
}

func TestWrite_FillsFirstGap(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"checksum.txt", "checksum (2).txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	got, err := report.Write(sampleReport(), dir, 0)
	if err != nil || got != filepath.Join(dir, "checksum (1).txt") {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestWrite_Cap(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"checksum.txt", "checksum (1).txt", "checksum (2).txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := report.Write(sampleReport(), dir, 2); !errors.Is(err, report.ErrNoFreeName) {
		t.Fatalf("expected ErrNoFreeName, got %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 3 {
		t.Fatalf("files created past the cap: %v, %v", entries, err)
	}
	if got, err := report.Write(sampleReport(), dir, 3); err != nil || filepath.Base(got) != "checksum (3).txt" {
		t.Fatalf("with room: got %q, %v", got, err)
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	rep := sampleReport()
	path, err := report.Write(rep, dir, 0)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := report.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if parsed.Algorithm != "MD5" {
		t.Fatalf("algorithm: %q", parsed.Algorithm)
	}
	want := []report.Entry{
		{Hash: "d41d8cd98f00b204e9800998ecf8427e", Path: "/data/b.txt"},
		{Hash: "0cc175b9c0f1b6a831c399e269772661", Path: "/data/a dir/a.txt"},
	}
	if !reflect.DeepEqual(parsed.Entries, want) {
		t.Fatalf("entries:\n got: %+v\nwant: %+v", parsed.Entries, want)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"no header", "abc    /x\n"},
		{"blank algorithm", "Hash Algorithm: \n\nabc    /x\n"},
		{"malformed entry", "Hash Algorithm: md5\n\nabc /x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "checksum.txt")
			if err := os.WriteFile(p, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := report.Load(p); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoad_CRLF(t *testing.T) {
	p := filepath.Join(t.TempDir(), "checksum.txt")
	content := "Hash Algorithm: sha1\r\n\r\nda39a3ee5e6b4b0d3255bfef95601890afd80709    C:\\x.txt\r\n"
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	parsed, err := report.Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if parsed.Algorithm != "sha1" || len(parsed.Entries) != 1 || parsed.Entries[0].Path != `C:\x.txt` {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
}
