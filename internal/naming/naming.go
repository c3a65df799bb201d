// Package naming derives the names the rest of the tool agrees on: the
// session directory an EDTR archive extracts to, and the canonical label of
// an agenda item, which doubles as its attachment directory name and as the
// relative link prefix written into the agenda document.
package naming

import (
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DateSeparator is what EDTR uses between the date parts of a session
// directory, where the archive name uses underscores.
const DateSeparator = "-"

// ZeroPrefix is prepended to a label when the extraction step renamed its
// directory.
const ZeroPrefix = "0"

// DeriveSessionDir returns the directory an archive extracts to. The
// extension is dropped and the last two underscores of the name become
// dashes, so "Bizottsag_2020_10_15.zip" maps to "Bizottsag_2020-10-15".
// Only the file name is rewritten; the parent directory is kept as is.
func DeriveSessionDir(archivePath string) string {
	dir, base := filepath.Split(archivePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	stem = ReplaceLast(stem, "_", DateSeparator)
	stem = ReplaceLast(stem, "_", DateSeparator)

	if dir == "" {
		return stem
	}
	return filepath.Join(dir, stem)
}

// ReplaceLast replaces the last occurrence of old in s. s is returned
// unchanged when old does not occur.
func ReplaceLast(s, old, replacement string) string {
	i := strings.LastIndex(s, old)
	if i < 0 || old == "" {
		return s
	}
	return s[:i] + replacement + s[i+len(old):]
}

// CanonicalizeLabel turns a raw header fragment such as
// `<div><b>3. napirendi pont</b></div>` into "3_napirendi_pont".
func CanonicalizeLabel(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return Canonicalize(raw)
	}
	return Canonicalize(doc.Text())
}

// Canonicalize normalizes already tag-free label text: line breaks and
// periods are dropped, spaces become underscores, and the result is
// trimmed and lowercased.
func Canonicalize(text string) string {
	r := strings.NewReplacer(
		"\r\n", "",
		"\n", "",
		"\r", "",
		".", "",
		" ", "_",
	)
	return strings.ToLower(strings.TrimSpace(r.Replace(text)))
}

// IsClosed reports whether a canonical label carries the closed-session
// marker.
func IsClosed(label, marker string) bool {
	return marker != "" && strings.Contains(label, marker)
}

// StripClosedMarker removes the marker from a closed label along with the
// underscore run it leaves behind. The result is only used for logging.
func StripClosedMarker(label, marker string) string {
	label = strings.ReplaceAll(label, marker, "")
	for strings.Contains(label, "__") {
		label = strings.ReplaceAll(label, "__", "_")
	}
	return strings.Trim(label, "_")
}
