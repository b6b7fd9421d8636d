package output

import (
	"encoding/json"
	"io"

	"github.com/jmylchreest/gdmswitch/internal/journal"
	"github.com/jmylchreest/gdmswitch/internal/toggle"
)

// JSONFormatter formats status and history as JSON.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// FormatStatus writes the status as a JSON object.
func (f *JSONFormatter) FormatStatus(w io.Writer, st toggle.Status) error {
	return f.encoder(w).Encode(st)
}

// FormatHistory writes events as a JSON array.
func (f *JSONFormatter) FormatHistory(w io.Writer, events []journal.Event) error {
	if events == nil {
		events = []journal.Event{}
	}
	return f.encoder(w).Encode(events)
}

func (f *JSONFormatter) encoder(w io.Writer) *json.Encoder {
	encoder := json.NewEncoder(w)
	if !f.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder
}
