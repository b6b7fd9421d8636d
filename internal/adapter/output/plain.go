package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/gdmswitch/internal/journal"
	"github.com/jmylchreest/gdmswitch/internal/session"
	"github.com/jmylchreest/gdmswitch/internal/toggle"
)

// PlainFormatter formats status and history as human-readable text.
// Styling is only emitted when w is a color-capable terminal.
type PlainFormatter struct {
	opts FormatterOptions
	now  func() time.Time
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	return &PlainFormatter{opts: opts, now: time.Now}
}

type plainStyles struct {
	label lipgloss.Style
	value lipgloss.Style
	ok    lipgloss.Style
	fail  lipgloss.Style
}

func newPlainStyles(w io.Writer) plainStyles {
	r := lipgloss.NewRenderer(w)
	return plainStyles{
		label: r.NewStyle().Foreground(lipgloss.Color("8")),
		value: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		ok:    r.NewStyle().Foreground(lipgloss.Color("10")),
		fail:  r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// FormatStatus writes the status as labelled lines.
func (f *PlainFormatter) FormatStatus(w io.Writer, st toggle.Status) error {
	s := newPlainStyles(w)
	var sb strings.Builder

	current := s.value.Render(st.Current.String())
	if st.SessionID != "" {
		current += " (session " + st.SessionID + ")"
	}
	sb.WriteString(s.label.Render("Session:    ") + current + "\n")

	if st.Pending != session.TypeUndefined {
		sb.WriteString(s.label.Render("Next login: ") + st.Pending.String() + "\n")
	}

	if st.Available {
		sb.WriteString(s.label.Render("Action:     ") + st.SwitchLabel + "\n")
	} else {
		sb.WriteString(s.label.Render("Action:     ") + s.fail.Render("unavailable") + "\n")
	}

	config := st.ConfigPath
	if f.opts.ShowTime && !st.ConfigModified.IsZero() {
		config += " (modified " + humanize.RelTime(st.ConfigModified, f.now(), "ago", "from now") + ")"
	}
	sb.WriteString(s.label.Render("Config:     ") + config + "\n")

	if st.ProbeError != "" {
		sb.WriteString(s.label.Render("Probe:      ") + s.fail.Render(st.ProbeError) + "\n")
	}
	if st.ConfigError != "" {
		sb.WriteString(s.label.Render("Error:      ") + s.fail.Render(st.ConfigError) + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatHistory writes one line per event, followed by an indented error
// line for failed attempts.
func (f *PlainFormatter) FormatHistory(w io.Writer, events []journal.Event) error {
	s := newPlainStyles(w)
	var sb strings.Builder

	if len(events) == 0 {
		sb.WriteString("No toggles recorded\n")
	}

	for _, e := range events {
		state := e.State
		if e.Failed() {
			state = s.fail.Render(state)
		} else {
			state = s.ok.Render(state)
		}

		sb.WriteString(fmt.Sprintf("%s  %s -> %s  %s", e.ID, e.From.Name(), e.To.Name(), state))
		if e.DryRun {
			sb.WriteString(" (dry run)")
		}
		if f.opts.ShowTime {
			sb.WriteString(" " + s.label.Render(humanize.RelTime(e.Time(), f.now(), "ago", "from now")))
		}
		sb.WriteString("\n")

		if f.opts.ShowError && e.Failed() {
			sb.WriteString("    " + e.Error + "\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
