// Package textline holds the normalized line sequence every extraction
// rule operates on. Upstream PDF-to-text conversion delivers raw lines;
// Normalize produces the gap-free index space all anchor arithmetic
// ("the value sits two lines below the marker") depends on.
package textline

import "strings"

// Document is an ordered sequence of non-empty, trimmed lines. Indices are
// compact: discarding blank lines never leaves gaps. Treat as immutable
// once produced.
type Document []string

// Normalize trims every raw line and drops the ones that end up empty,
// preserving relative order. Empty input yields an empty Document.
func Normalize(raw []string) Document {
	doc := make(Document, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		doc = append(doc, line)
	}
	return doc
}

// At returns the line at index i, or "" when i is out of range. All
// bounded-window scans go through At so missing data degrades to empty
// strings instead of panicking.
func (d Document) At(i int) string {
	if i < 0 || i >= len(d) {
		return ""
	}
	return d[i]
}

// Find returns the index of the first line satisfying pred, or -1.
func (d Document) Find(pred func(string) bool) int {
	return d.FindFrom(0, pred)
}

// FindFrom returns the index of the first line at or after start
// satisfying pred, or -1.
func (d Document) FindFrom(start int, pred func(string) bool) int {
	if start < 0 {
		start = 0
	}
	for i := start; i < len(d); i++ {
		if pred(d[i]) {
			return i
		}
	}
	return -1
}

// FindExact returns the index of the first line equal to s, or -1.
func (d Document) FindExact(s string) int {
	return d.Find(func(line string) bool { return line == s })
}

// FindContaining returns the index of the first line containing substr, or -1.
func (d Document) FindContaining(substr string) int {
	return d.Find(func(line string) bool { return strings.Contains(line, substr) })
}

// WindowEnd clamps start+span to the document length, giving the exclusive
// upper bound for a bounded forward scan.
func (d Document) WindowEnd(start, span int) int {
	end := start + span
	if end > len(d) {
		end = len(d)
	}
	return end
}
