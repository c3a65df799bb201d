package markup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Doctype is written in front of the serialized tree.
const Doctype = `<!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.0 Transitional//EN">`

// ViewSortArtifact is the empty comment/table cluster the source system
// leaves at the top of the body once it has been rendered.
const ViewSortArtifact = `<!-- Rendezés a viewban --><div></div><div></div><div></div><br/><table></table><br/>`

// Serialize renders the tree with the doctype line in front and the
// view-sort artifact removed.
func Serialize(doc *html.Node) (string, error) {
	var buf strings.Builder
	buf.WriteString(Doctype)
	buf.WriteString("\r\n")
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return strings.ReplaceAll(buf.String(), ViewSortArtifact, ""), nil
}

// WriteFile serializes doc and replaces the file at path with it. The
// new content is written next to path first, so a failed write leaves the
// original untouched.
func WriteFile(path string, doc *html.Node) error {
	out, err := Serialize(doc)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".edtrpub-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(out); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}
