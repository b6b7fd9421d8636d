// Package output provides formatters for session status and toggle history.
package output

import (
	"errors"
	"fmt"
	"io"

	"github.com/jmylchreest/gdmswitch/internal/journal"
	"github.com/jmylchreest/gdmswitch/internal/toggle"
)

// ErrUnsupported is returned when a format cannot render the requested data.
var ErrUnsupported = errors.New("format does not support this output")

// Formatter renders status and history.
type Formatter interface {
	// FormatStatus writes a single status snapshot.
	FormatStatus(w io.Writer, st toggle.Status) error
	// FormatHistory writes journal events, newest first.
	FormatHistory(w io.Writer, events []journal.Event) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatWaybar FormatType = "waybar"
	FormatPlain  FormatType = "plain"
	FormatJSON   FormatType = "json"
	FormatYAML   FormatType = "yaml"
)

// FormatTypes returns all known format names.
func FormatTypes() []string {
	return []string{string(FormatWaybar), string(FormatPlain), string(FormatJSON), string(FormatYAML)}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) (Formatter, error) {
	switch format {
	case FormatWaybar:
		return NewWaybarFormatter(opts), nil
	case FormatPlain:
		return NewPlainFormatter(opts), nil
	case FormatJSON:
		return NewJSONFormatter(opts), nil
	case FormatYAML:
		return NewYAMLFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (valid: %v)", format, FormatTypes())
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	ShowTime  bool // Show relative times
	ShowError bool // Include error text of failed attempts
	Compact   bool // Single-line JSON
}

// DefaultFormatterOptions returns sensible defaults for terminal output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowTime:  true,
		ShowError: true,
	}
}
