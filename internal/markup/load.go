// Package markup repairs, parses and serializes the EDTR agenda document.
//
// The source system emits a duplicated head/body wrapper around the real
// content, plus a few tokens that keep the text from being well-formed.
// Load cuts the wrapper away by line count, removes the tokens and parses
// the rest strictly; WriteFile puts a doctype back in front and overwrites
// the document.
package markup

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// ErrTooShort is returned for documents with fewer lines than the wrapper
// being cut away needs.
var ErrTooShort = errors.New("document too short")

// LoadOptions describes the wrapper around the real content.
type LoadOptions struct {
	HeadLines    int
	TailLines    int
	VendorPrefix string
}

// Load reads the document at path, repairs it and parses the result.
func Load(path string, opts LoadOptions) (*html.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	text, err := Repair(string(raw), opts)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(strings.NewReader(text), opts.VendorPrefix)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// Repair cuts the head and tail lines and removes the corrupt tokens. The
// remaining lines are joined with CRLF.
func Repair(raw string, opts LoadOptions) (string, error) {
	lines := splitLines(raw)
	if need := opts.HeadLines + opts.TailLines + 1; len(lines) < need {
		return "", fmt.Errorf("%w: %d lines, need at least %d", ErrTooShort, len(lines), need)
	}

	body := strings.Join(lines[opts.HeadLines:len(lines)-opts.TailLines], "\r\n")
	return corruptTokens(opts.VendorPrefix).Replace(body), nil
}

func corruptTokens(vendorPrefix string) *strings.Replacer {
	pairs := []string{
		"&nbsp;", "",
		"$[page]", "",
	}
	if vendorPrefix != "" {
		pairs = append(pairs, "<"+vendorPrefix+":page.break>", "")
	}
	return strings.NewReplacer(pairs...)
}

func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.TrimSuffix(raw, "\n")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}
