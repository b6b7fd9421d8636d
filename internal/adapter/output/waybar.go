package output

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/jmylchreest/gdmswitch/internal/journal"
	"github.com/jmylchreest/gdmswitch/internal/session"
	"github.com/jmylchreest/gdmswitch/internal/toggle"
)

// WaybarStatus represents the Waybar custom module JSON format.
type WaybarStatus struct {
	Text    string `json:"text"`
	Alt     string `json:"alt,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
	Class   string `json:"class,omitempty"`
}

// WaybarFormatter writes one JSON object per line for Waybar custom modules.
type WaybarFormatter struct {
	opts FormatterOptions
}

// NewWaybarFormatter creates a new Waybar formatter.
func NewWaybarFormatter(opts FormatterOptions) *WaybarFormatter {
	return &WaybarFormatter{opts: opts}
}

// FormatStatus writes the status as a single-line Waybar object.
func (f *WaybarFormatter) FormatStatus(w io.Writer, st toggle.Status) error {
	return json.NewEncoder(w).Encode(BuildWaybarStatus(st))
}

// FormatHistory is not supported by Waybar output.
func (f *WaybarFormatter) FormatHistory(io.Writer, []journal.Event) error {
	return ErrUnsupported
}

// BuildWaybarStatus maps a status to Waybar fields.
//
// alt and class carry the current type name ("x11", "wayland"), "pending"
// when the config already selects the other type for next login, and
// "unavailable" when the session type could not be determined.
func BuildWaybarStatus(st toggle.Status) WaybarStatus {
	if !st.Available {
		return WaybarStatus{
			Text:    st.Current.String(),
			Alt:     "unavailable",
			Class:   "unavailable",
			Tooltip: statusTooltip(st),
		}
	}

	class := st.Current.Name()
	if st.Pending != session.TypeUndefined && st.Pending != st.Current {
		class = "pending"
	}

	return WaybarStatus{
		Text:    st.Current.String(),
		Alt:     class,
		Class:   class,
		Tooltip: statusTooltip(st),
	}
}

func statusTooltip(st toggle.Status) string {
	var lines []string

	head := "Session: " + st.Current.String()
	if st.SessionID != "" {
		head += " (" + st.SessionID + ")"
	}
	lines = append(lines, head)

	if st.Pending != session.TypeUndefined {
		lines = append(lines, "Next login: "+st.Pending.String())
	}
	if st.Available {
		lines = append(lines, st.SwitchLabel)
	}
	if st.ProbeError != "" {
		lines = append(lines, "Probe: "+st.ProbeError)
	}
	if st.ConfigError != "" {
		lines = append(lines, "Config: "+st.ConfigError)
	}

	return strings.Join(lines, "\n")
}
