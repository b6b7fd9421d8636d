// Package apply writes a rewritten GDM configuration with elevated privileges
// and restarts the display manager. Content is always passed as bytes on
// standard input or written directly, never embedded in a shell command line.
package apply
