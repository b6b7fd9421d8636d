// Package gdmconf reads and rewrites the GDM daemon configuration
// (/etc/gdm/custom.conf). Documents are line-oriented and round-trip
// byte-exactly; Rewrite toggles the WaylandEnable directive without
// touching any other line.
package gdmconf
