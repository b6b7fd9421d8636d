package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/gdmswitch/internal/journal"
	"github.com/jmylchreest/gdmswitch/internal/toggle"
)

// YAMLFormatter formats status and history as YAML.
type YAMLFormatter struct {
	opts FormatterOptions
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(opts FormatterOptions) *YAMLFormatter {
	return &YAMLFormatter{opts: opts}
}

// FormatStatus writes the status as a YAML mapping.
func (f *YAMLFormatter) FormatStatus(w io.Writer, st toggle.Status) error {
	return encodeYAML(w, st)
}

// FormatHistory writes events as a YAML sequence.
func (f *YAMLFormatter) FormatHistory(w io.Writer, events []journal.Event) error {
	if events == nil {
		events = []journal.Event{}
	}
	return encodeYAML(w, events)
}

func encodeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}
