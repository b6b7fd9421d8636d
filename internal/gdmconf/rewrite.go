package gdmconf

import (
	"regexp"
	"strings"

	"github.com/jmylchreest/gdmswitch/internal/session"
)

const (
	// DirectiveKey is the GDM key that disables Wayland when set to false.
	DirectiveKey = "WaylandEnable"
	// DaemonSection is the header the directive lives under.
	DaemonSection = "[daemon]"
)

// directivePattern matches a line whose first content is a directive,
// commented or not, in any case. Anything after the value (a trailing
// comment, CR) is ignored.
var directivePattern = regexp.MustCompile(`(?i)^\s*(#?)\s*WaylandEnable\s*=\s*(true|false)\b`)

// Directive is the single line a rewrite inserts below [daemon].
type Directive struct {
	Target session.Type
	Active bool // false writes the line commented out
}

// DirectiveFor returns the directive that selects target on next login.
// Only X11 needs an active line; Wayland is GDM's default.
func DirectiveFor(target session.Type) Directive {
	return Directive{Target: target, Active: target == session.TypeX11}
}

// Line renders the directive.
func (d Directive) Line() string {
	if d.Active {
		return DirectiveKey + "=false"
	}
	return "# " + DirectiveKey + "=false"
}

// IsDirective reports whether line is a WaylandEnable directive.
func IsDirective(line string) bool {
	return directivePattern.MatchString(line)
}

// Rewrite returns a copy of doc where every WaylandEnable line is removed and
// exactly one directive for target is inserted directly below [daemon].
// Rewrite is idempotent: Rewrite(Rewrite(d, t), t) equals Rewrite(d, t).
func Rewrite(doc Document, target session.Type) (Document, error) {
	kept := make([]string, 0, len(doc.lines)+1)
	for _, line := range doc.lines {
		if IsDirective(line) {
			continue
		}
		kept = append(kept, line)
	}

	header, err := findDaemonSection(kept)
	if err != nil {
		return Document{}, err
	}

	// Keep CRLF documents uniform.
	line := DirectiveFor(target).Line()
	if strings.HasSuffix(kept[header], "\r") {
		line += "\r"
	}

	out := make([]string, 0, len(kept)+1)
	out = append(out, kept[:header+1]...)
	out = append(out, line)
	out = append(out, kept[header+1:]...)

	return Document{lines: out, trailingNewline: true}, nil
}

// findDaemonSection returns the index of the single [daemon] header.
func findDaemonSection(lines []string) (int, error) {
	index := -1
	for i, line := range lines {
		if !isDaemonHeader(line) {
			continue
		}
		if index >= 0 {
			return -1, &ConfigError{
				Kind:    DuplicateSection,
				Message: "more than one " + DaemonSection + " section",
			}
		}
		index = i
	}
	if index < 0 {
		return -1, &ConfigError{
			Kind:    SectionNotFound,
			Message: "no " + DaemonSection + " section",
		}
	}
	return index, nil
}

func isDaemonHeader(line string) bool {
	return strings.TrimSpace(line) == DaemonSection
}

// DirectiveCount reports how many active and commented directive lines doc holds.
func DirectiveCount(doc Document) (active, commented int) {
	for _, line := range doc.lines {
		m := directivePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if m[1] == "#" {
			commented++
		} else {
			active++
		}
	}
	return active, commented
}

// Pending returns the session type GDM will offer on next login according to
// doc: an active WaylandEnable=false under [daemon] selects X11, anything
// else leaves GDM on its Wayland default.
func Pending(doc Document) session.Type {
	inDaemon := false
	pending := session.TypeWayland

	for _, line := range doc.lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			inDaemon = trimmed == DaemonSection
			continue
		}
		if !inDaemon {
			continue
		}
		m := directivePattern.FindStringSubmatch(line)
		if m == nil || m[1] == "#" {
			continue
		}
		if strings.EqualFold(m[2], "false") {
			pending = session.TypeX11
		} else {
			pending = session.TypeWayland
		}
	}
	return pending
}
