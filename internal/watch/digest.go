package watch

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Digest hashes the path and content of every watched file below roots.
// Equal digests mean a run would see the same inputs.
func Digest(roots []string) (string, error) {
	var entries []string

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("stat %s: %w", root, err)
		}

		if !info.IsDir() {
			entry, err := fileEntry(root)
			if err != nil {
				return "", err
			}
			entries = append(entries, entry)
			continue
		}

		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != root && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !isWatchedFile(p) {
				return nil
			}
			entry, err := fileEntry(p)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("walk %s: %w", root, err)
		}
	}

	sort.Strings(entries)

	h := sha256.New()
	for _, e := range entries {
		h.Write([]byte(e))
		h.Write([]byte("\n"))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func fileEntry(path string) (string, error) {
	// #nosec G304 -- path is from a walk of the watched roots
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	sum := sha256.Sum256(content)
	return fmt.Sprintf("%s:%s", filepath.ToSlash(path), hex.EncodeToString(sum[:])), nil
}
