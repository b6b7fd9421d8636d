package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/gdmswitch/internal/journal"
	"github.com/jmylchreest/gdmswitch/internal/session"
	"github.com/jmylchreest/gdmswitch/internal/toggle"
)

func testStatus() toggle.Status {
	return toggle.Status{
		Current:        session.TypeWayland,
		SessionID:      "2",
		SwitchTarget:   session.TypeX11,
		SwitchLabel:    "Switch to X11",
		Available:      true,
		Pending:        session.TypeWayland,
		ConfigPath:     "/etc/gdm/custom.conf",
		ConfigModified: time.Now().Add(-3 * time.Hour),
	}
}

func testEvents() []journal.Event {
	now := time.Now()
	return []journal.Event{
		{
			ID:        "01JB0000000000000000000002",
			Timestamp: now.Add(-5 * time.Minute).Unix(),
			From:      session.TypeX11,
			To:        session.TypeWayland,
			State:     "apply-failed",
			Error:     "apply-failed: write config: permission denied",
		},
		{
			ID:        "01JB0000000000000000000001",
			Timestamp: now.Add(-2 * time.Hour).Unix(),
			SessionID: "2",
			From:      session.TypeWayland,
			To:        session.TypeX11,
			State:     "done",
		},
	}
}

func TestNewFormatter(t *testing.T) {
	for _, name := range FormatTypes() {
		t.Run(name, func(t *testing.T) {
			f, err := NewFormatter(FormatType(name), DefaultFormatterOptions())
			require.NoError(t, err)
			assert.NotNil(t, f)
		})
	}

	_, err := NewFormatter("dmenu", DefaultFormatterOptions())
	assert.Error(t, err)
}

func TestBuildWaybarStatus(t *testing.T) {
	tests := []struct {
		name          string
		modify        func(*toggle.Status)
		expectedClass string
		expectedText  string
	}{
		{
			name:          "wayland",
			modify:        func(*toggle.Status) {},
			expectedClass: "wayland",
			expectedText:  "Wayland",
		},
		{
			name: "x11",
			modify: func(st *toggle.Status) {
				st.Current = session.TypeX11
				st.SwitchTarget = session.TypeWayland
				st.Pending = session.TypeX11
			},
			expectedClass: "x11",
			expectedText:  "X11",
		},
		{
			name: "pending switch",
			modify: func(st *toggle.Status) {
				st.Pending = session.TypeX11
			},
			expectedClass: "pending",
			expectedText:  "Wayland",
		},
		{
			name: "unavailable",
			modify: func(st *toggle.Status) {
				st.Current = session.TypeUndefined
				st.SwitchTarget = session.TypeUndefined
				st.Available = false
				st.ProbeError = "probe timeout"
			},
			expectedClass: "unavailable",
			expectedText:  "Undefined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := testStatus()
			tt.modify(&st)

			ws := BuildWaybarStatus(st)
			assert.Equal(t, tt.expectedClass, ws.Class)
			assert.Equal(t, tt.expectedClass, ws.Alt)
			assert.Equal(t, tt.expectedText, ws.Text)
			assert.Contains(t, ws.Tooltip, "Session: ")
		})
	}
}

func TestWaybarFormatter_FormatStatus(t *testing.T) {
	var buf bytes.Buffer
	err := NewWaybarFormatter(DefaultFormatterOptions()).FormatStatus(&buf, testStatus())
	require.NoError(t, err)

	// Waybar reads one object per line.
	out := strings.TrimSuffix(buf.String(), "\n")
	assert.NotContains(t, out, "\n")

	var ws WaybarStatus
	require.NoError(t, json.Unmarshal([]byte(out), &ws))
	assert.Equal(t, "Wayland", ws.Text)
	assert.Contains(t, ws.Tooltip, "Session: Wayland (2)")
	assert.Contains(t, ws.Tooltip, "Switch to X11")
}

func TestWaybarFormatter_HistoryUnsupported(t *testing.T) {
	err := NewWaybarFormatter(DefaultFormatterOptions()).FormatHistory(&bytes.Buffer{}, testEvents())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestPlainFormatter_FormatStatus(t *testing.T) {
	var buf bytes.Buffer
	err := NewPlainFormatter(DefaultFormatterOptions()).FormatStatus(&buf, testStatus())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Wayland")
	assert.Contains(t, out, "session 2")
	assert.Contains(t, out, "Switch to X11")
	assert.Contains(t, out, "/etc/gdm/custom.conf")
	assert.Contains(t, out, "3 hours ago")
}

func TestPlainFormatter_FormatStatus_Unavailable(t *testing.T) {
	st := testStatus()
	st.Current = session.TypeUndefined
	st.Available = false
	st.Pending = session.TypeUndefined
	st.ProbeError = "loginctl: parse failure"

	var buf bytes.Buffer
	opts := DefaultFormatterOptions()
	opts.ShowTime = false
	require.NoError(t, NewPlainFormatter(opts).FormatStatus(&buf, st))

	out := buf.String()
	assert.Contains(t, out, "unavailable")
	assert.Contains(t, out, "loginctl: parse failure")
	assert.NotContains(t, out, "Next login")
	assert.NotContains(t, out, "ago")
}

func TestPlainFormatter_FormatHistory(t *testing.T) {
	var buf bytes.Buffer
	err := NewPlainFormatter(DefaultFormatterOptions()).FormatHistory(&buf, testEvents())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "x11 -> wayland")
	assert.Contains(t, lines[0], "apply-failed")
	assert.Contains(t, lines[0], "5 minutes ago")
	assert.Contains(t, lines[1], "permission denied")
	assert.Contains(t, lines[2], "wayland -> x11")
	assert.Contains(t, lines[2], "2 hours ago")
}

func TestPlainFormatter_FormatHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPlainFormatter(DefaultFormatterOptions()).FormatHistory(&buf, nil))
	assert.Equal(t, "No toggles recorded\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	f := NewJSONFormatter(DefaultFormatterOptions())

	var buf bytes.Buffer
	require.NoError(t, f.FormatStatus(&buf, testStatus()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "wayland", decoded["current"])
	assert.Equal(t, "x11", decoded["switch_target"])
	assert.Equal(t, "Switch to X11", decoded["switch_label"])
	assert.Equal(t, true, decoded["available"])

	buf.Reset()
	require.NoError(t, f.FormatHistory(&buf, testEvents()))

	var events []journal.Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, session.TypeX11, events[0].From)

	buf.Reset()
	require.NoError(t, f.FormatHistory(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestJSONFormatter_Compact(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(FormatterOptions{Compact: true}).FormatStatus(&buf, testStatus()))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestYAMLFormatter(t *testing.T) {
	f := NewYAMLFormatter(DefaultFormatterOptions())

	var buf bytes.Buffer
	require.NoError(t, f.FormatStatus(&buf, testStatus()))
	assert.Contains(t, buf.String(), "current: wayland")
	assert.Contains(t, buf.String(), "switch_label: Switch to X11")

	buf.Reset()
	require.NoError(t, f.FormatHistory(&buf, testEvents()))

	var events []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, "apply-failed", events[0]["state"])
	assert.Equal(t, "wayland", events[0]["to"])
}
