// Package toggle orchestrates a session-type switch: probe the active
// session, rewrite the GDM config for the opposite type, and apply it.
// It exposes status for host UIs and never renders anything itself.
package toggle
