// Package session detects the windowing type (X11 or Wayland) of the active
// login session. Probes query systemd-logind either through the loginctl
// command or directly over the system D-Bus, and degrade to Undefined when
// the answer cannot be determined.
package session
