// Package attachment inspects the files of topic directories so an operator
// can check a processed package before publishing it.
package attachment

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Measure is a content size in a format-specific unit.
type Measure struct {
	Count int
	Unit  string
}

func (m Measure) String() string {
	if m.Unit == "" {
		return "-"
	}
	return fmt.Sprintf("%d %s", m.Count, m.Unit)
}

// Counter measures one kind of file.
type Counter interface {
	Count(path string) (Measure, error)
}

// ForFile returns the counter for a file name, by extension. ok is false
// for formats nothing knows how to measure.
func ForFile(name string) (c Counter, ok bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return &PDFCounter{}, true
	case ".docx":
		return &DOCXCounter{}, true
	case ".md", ".markdown":
		return &MarkdownCounter{}, true
	case ".htm", ".html":
		return &HTMLCounter{}, true
	case ".txt", ".csv":
		return &TextCounter{}, true
	default:
		return nil, false
	}
}
