package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Installations moved between platforms keep their directory layout but
// not its casing, so every well-known name is resolved one path element
// at a time with a case-insensitive match. An exact-case entry wins
// over a folded match.

// FindDir resolves a directory under root case-insensitively and
// returns its real path. The returned error wraps os.ErrNotExist when
// no entry matches.
func FindDir(root string, elems ...string) (string, error) {
	return find(root, true, elems)
}

// FindFile resolves a file under root case-insensitively and returns
// its real path.
func FindFile(root string, elems ...string) (string, error) {
	return find(root, false, elems)
}

func find(root string, wantDir bool, elems []string) (string, error) {
	// Names coming out of archive tables may carry path separators.
	var parts []string
	for _, e := range elems {
		parts = append(parts, strings.FieldsFunc(e, func(r rune) bool {
			return r == '/' || r == os.PathSeparator
		})...)
	}

	current := root
	for i, part := range parts {
		last := i == len(parts)-1
		entries, err := os.ReadDir(current)
		if err != nil {
			return "", fmt.Errorf("scanning %s: %w", current, err)
		}

		match := ""
		for _, entry := range entries {
			if entry.IsDir() != (wantDir || !last) {
				continue
			}
			if entry.Name() == part {
				match = part
				break
			}
			if match == "" && strings.EqualFold(entry.Name(), part) {
				match = entry.Name()
			}
		}
		if match == "" {
			return "", fmt.Errorf("%s under %s: %w", part, current, os.ErrNotExist)
		}
		current = filepath.Join(current, match)
	}
	return current, nil
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ExistsFold reports whether an entry named like the given elements
// exists under root, matching each path element case-insensitively.
// Used by game-identity probes, which never read the entry.
func ExistsFold(root string, elems ...string) bool {
	if _, err := find(root, false, elems); err == nil {
		return true
	}
	_, err := find(root, true, elems)
	return err == nil
}
