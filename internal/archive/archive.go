// Package archive unpacks an EDTR package next to itself.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

var (
	// ErrNotZip is returned for inputs without a .zip extension.
	ErrNotZip = errors.New("not a zip archive")
	// ErrUnsafePath is returned for entries that would land outside the
	// destination directory.
	ErrUnsafePath = errors.New("archive entry escapes destination")
)

// Check validates an archive path before anything touches the disk.
func Check(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("archive %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("archive %s: not a regular file", path)
	}
	if strings.ToLower(filepath.Ext(path)) != ".zip" {
		return fmt.Errorf("archive %s: %w", path, ErrNotZip)
	}
	return nil
}

// Extract unpacks the archive into dest and returns the number of files
// written. Existing files are overwritten.
func Extract(path, dest string) (int, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return 0, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	root, err := filepath.Abs(dest)
	if err != nil {
		return 0, fmt.Errorf("resolve destination: %w", err)
	}

	written := 0
	for _, f := range r.File {
		target, err := entryPath(root, f.Name)
		if err != nil {
			return written, err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return written, fmt.Errorf("create %s: %w", f.Name, err)
			}
			continue
		}

		if err := extractFile(f, target); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func entryPath(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%s: %w", name, ErrUnsafePath)
	}
	return target, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create parent of %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", f.Name, err)
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", f.Name, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", f.Name, err)
	}
	return nil
}
