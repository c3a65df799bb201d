package attachment

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dgallion1/edtrpub/internal/session"
)

// Inventory lists the attachments of every public topic directory.
type Inventory struct {
	SessionDir string
	Topics     []Topic
}

// Topic is one topic directory.
type Topic struct {
	Name  string
	Files []Entry
}

// Entry is one attachment. Err holds the reason a measure is missing.
type Entry struct {
	Name    string
	Size    int64
	Measure Measure
	Err     string
}

// Build walks the topic directories of sessionDir. A file that cannot be
// measured is still listed; only an unreadable directory fails the build.
func Build(sessionDir, closedSuffix string) (*Inventory, error) {
	names, err := session.Topics(sessionDir, closedSuffix)
	if err != nil {
		return nil, err
	}

	inv := &Inventory{SessionDir: sessionDir}
	for _, name := range names {
		dir := filepath.Join(sessionDir, name)
		files, err := session.Attachments(dir)
		if err != nil {
			return nil, err
		}

		topic := Topic{Name: name}
		for _, f := range files {
			topic.Files = append(topic.Files, measure(filepath.Join(dir, f)))
		}
		inv.Topics = append(inv.Topics, topic)
	}
	return inv, nil
}

func measure(path string) Entry {
	e := Entry{Name: filepath.Base(path)}
	if size, err := fileSize(path); err == nil {
		e.Size = size
	}

	c, ok := ForFile(path)
	if !ok {
		return e
	}
	m, err := c.Count(path)
	if err != nil {
		e.Err = err.Error()
		return e
	}
	e.Measure = m
	return e
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Files returns the number of attachments across all topics.
func (inv *Inventory) Files() int {
	n := 0
	for _, t := range inv.Topics {
		n += len(t.Files)
	}
	return n
}

// Markdown renders the inventory as a Markdown report.
func (inv *Inventory) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", filepath.Base(inv.SessionDir))
	fmt.Fprintf(&b, "%d topics, %d attachments\n", len(inv.Topics), inv.Files())

	for _, t := range inv.Topics {
		fmt.Fprintf(&b, "\n## %s\n\n", t.Name)
		if len(t.Files) == 0 {
			b.WriteString("_no attachments_\n")
			continue
		}
		b.WriteString("| File | Size | Content |\n|---|---|---|\n")
		for _, f := range t.Files {
			content := f.Measure.String()
			if f.Err != "" {
				content = "error: " + f.Err
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n",
				cell(f.Name), humanize.IBytes(uint64(f.Size)), cell(content))
		}
	}
	return b.String()
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
