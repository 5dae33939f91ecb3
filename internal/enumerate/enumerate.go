// Package enumerate resolves a parsed command into the files to hash.
package enumerate

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"ChecksumUtility/internal/command"
)

// Files returns absolute paths in discovery order. A file input yields just
// itself; a directory input yields every non-directory entry beneath it,
// hidden ones included, in the lexical order of filepath.WalkDir. Symlinks
// are not followed: a link to a directory is skipped, any other link
// (dangling ones included) is listed as a file.
func Files(cmd command.Command) ([]string, error) {
	root, err := filepath.Abs(cmd.InputPath)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", cmd.InputPath, err)
	}
	if !cmd.IsDirectory {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}
