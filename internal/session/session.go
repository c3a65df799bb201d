// Package session works on an extracted session directory: it removes
// closed-session topic directories, finds the agenda document, resolves
// attachment directories and drops the trailing print rendition.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/edtrpub/internal/naming"
)

// ErrNoDocument is returned when the session directory holds no file.
var ErrNoDocument = errors.New("no agenda document in session directory")

// removeAll deletes a closed topic directory; tests swap it to force failures.
var removeAll = os.RemoveAll

// RemoveClosedTopics deletes every immediate subdirectory of dir whose
// name ends with suffix and returns the removed names. The first failure
// aborts the sweep and is returned with its cause.
func RemoveClosedTopics(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var removed []string
	for _, e := range entries {
		if !e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		if err := removeAll(filepath.Join(dir, e.Name())); err != nil {
			return removed, fmt.Errorf("remove closed topic %s: %w", e.Name(), err)
		}
		removed = append(removed, e.Name())
	}
	return removed, nil
}

// FindDocument returns the first regular file of dir in name order.
func FindDocument(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.Type().IsRegular() {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("%s: %w", dir, ErrNoDocument)
}

// TopicDir resolves the attachment directory of a label under dir. The
// plain label is tried first, then the label with a single leading zero.
// ok is false when neither exists.
func TopicDir(dir, label string) (path string, ok bool) {
	for _, name := range []string{label, naming.ZeroPrefix + label} {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// Attachments lists the regular files directly inside dir, in name order.
func Attachments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

// Topics lists the subdirectories of dir that are not closed topics.
func Topics(dir, closedSuffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var topics []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasSuffix(e.Name(), closedSuffix) {
			topics = append(topics, e.Name())
		}
	}
	return topics, nil
}

// RemoveRendition deletes the file next to doc that shares its stem and
// carries ext. It reports whether a file was removed; a missing rendition
// is not an error.
func RemoveRendition(doc, ext string) (bool, error) {
	if ext == "" {
		return false, nil
	}
	path := strings.TrimSuffix(doc, filepath.Ext(doc)) + ext
	if path == doc {
		return false, nil
	}
	err := os.Remove(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("remove rendition: %w", err)
	}
}
