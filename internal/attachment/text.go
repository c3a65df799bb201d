package attachment

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// TextCounter counts non-blank lines.
type TextCounter struct{}

func (c *TextCounter) Count(path string) (Measure, error) {
	f, err := os.Open(path)
	if err != nil {
		return Measure{}, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	n := 0
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			n++
		}
	}
	if err := scanner.Err(); err != nil {
		return Measure{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Measure{Count: n, Unit: "lines"}, nil
}
