package session

import "strings"

// Type is the windowing protocol of a graphical session.
type Type int

const (
	// TypeUndefined means the session type could not be determined or is
	// not graphical (tty, mir, unspecified).
	TypeUndefined Type = iota
	// TypeX11 is an Xorg session.
	TypeX11
	// TypeWayland is a Wayland session.
	TypeWayland
)

// typeLabels maps session types to their human-readable labels.
var typeLabels = map[Type]string{
	TypeUndefined: "Undefined",
	TypeX11:       "X11",
	TypeWayland:   "Wayland",
}

// String returns the display label ("X11", "Wayland", "Undefined").
func (t Type) String() string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return typeLabels[TypeUndefined]
}

// Name returns the lowercase machine name used in logind and JSON output.
func (t Type) Name() string {
	return strings.ToLower(t.String())
}

// Opposite returns the type a toggle switches to.
// Undefined has no opposite and maps to itself.
func (t Type) Opposite() Type {
	switch t {
	case TypeX11:
		return TypeWayland
	case TypeWayland:
		return TypeX11
	default:
		return TypeUndefined
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	*t = ParseType(string(text))
	return nil
}

// ParseType converts a logind type value ("x11", "wayland") to a Type.
// Anything unrecognised is TypeUndefined.
func ParseType(s string) Type {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x11":
		return TypeX11
	case "wayland":
		return TypeWayland
	default:
		return TypeUndefined
	}
}

// ClassifyTypeProperty classifies the output of
// `loginctl show-session <id> -p Type`.
func ClassifyTypeProperty(output string) Type {
	switch {
	case strings.Contains(output, "Type=wayland"):
		return TypeWayland
	case strings.Contains(output, "Type=x11"):
		return TypeX11
	default:
		return TypeUndefined
	}
}

// Snapshot is the result of a single probe. It is never mutated after creation.
type Snapshot struct {
	SessionID string `json:"session_id" yaml:"session_id"`
	Type      Type   `json:"type" yaml:"type"`
	Source    string `json:"source" yaml:"source"` // probe backend that produced it
}

// Undefined returns a snapshot with an undefined type for the given backend.
func Undefined(source string) Snapshot {
	return Snapshot{Type: TypeUndefined, Source: source}
}
