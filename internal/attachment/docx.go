package attachment

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXCounter counts non-empty paragraphs.
type DOCXCounter struct{}

func (c *DOCXCounter) Count(path string) (Measure, error) {
	f, err := os.Open(path)
	if err != nil {
		return Measure{}, fmt.Errorf("open docx: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Measure{}, fmt.Errorf("stat docx: %w", err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return Measure{}, fmt.Errorf("parse docx: %w", err)
	}

	n := 0
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if paragraphText(para) != "" {
			n++
		}
	}
	return Measure{Count: n, Unit: "paragraphs"}, nil
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
