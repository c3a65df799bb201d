package attachment

import (
	"fmt"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFCounter counts pages.
type PDFCounter struct{}

func (c *PDFCounter) Count(path string) (Measure, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return Measure{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	return Measure{Count: reader.NumPage(), Unit: "pages"}, nil
}
