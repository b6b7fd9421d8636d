package gdmconf

import (
	"errors"
	"os"
	"slices"
	"strings"
)

// DefaultPath is where GDM reads its custom configuration on most distributions.
const DefaultPath = "/etc/gdm/custom.conf"

// Document is an ordered sequence of config lines.
// Values are copied on every transformation; a Document is never shared
// mutably between caller and callee.
type Document struct {
	lines           []string
	trailingNewline bool
}

// Parse splits text into a Document. String() of the result returns text unchanged.
func Parse(text string) Document {
	if text == "" {
		return Document{}
	}

	trailing := strings.HasSuffix(text, "\n")
	if trailing {
		text = strings.TrimSuffix(text, "\n")
	}
	return Document{
		lines:           strings.Split(text, "\n"),
		trailingNewline: trailing,
	}
}

// NewDocument builds a Document from lines, terminated by a newline.
func NewDocument(lines ...string) Document {
	return Document{lines: slices.Clone(lines), trailingNewline: len(lines) > 0}
}

// Lines returns a copy of the document lines.
func (d Document) Lines() []string {
	return slices.Clone(d.lines)
}

// Len returns the number of lines.
func (d Document) Len() int {
	return len(d.lines)
}

// String serialises the document.
func (d Document) String() string {
	if len(d.lines) == 0 {
		return ""
	}
	s := strings.Join(d.lines, "\n")
	if d.trailingNewline {
		s += "\n"
	}
	return s
}

// Bytes serialises the document for writing.
func (d Document) Bytes() []byte {
	return []byte(d.String())
}

// Equal reports whether two documents serialise identically.
func (d Document) Equal(other Document) bool {
	return d.String() == other.String()
}

// Load reads the document at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		msg := "failed to read config"
		if errors.Is(err, os.ErrNotExist) {
			msg = "config file does not exist"
		}
		return Document{}, &ConfigError{Kind: ReadFailed, Path: path, Message: msg, Err: err}
	}
	return Parse(string(data)), nil
}
