package build

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// exportSources copies the sources of a recipe into dst. Without patterns
// the whole src tree is copied.
func exportSources(src, dst string, patterns []string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	if len(patterns) == 0 {
		return os.CopyFS(dst, os.DirFS(src))
	}
	copied := 0
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(src, filepath.FromSlash(pattern)))
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			rel, err := filepath.Rel(src, match)
			if err != nil {
				return err
			}
			if err := copyPath(match, filepath.Join(dst, rel)); err != nil {
				return err
			}
			copied++
		}
	}
	if copied == 0 {
		return fmt.Errorf("no sources in %s match %v", src, patterns)
	}
	return nil
}

func copyPath(src, dst string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return os.CopyFS(dst, os.DirFS(src))
	}
	return copyFile(src, dst, fi.Mode())
}

func copyFile(src, dst string, mode fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
