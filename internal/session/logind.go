package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	logindBusName   = "org.freedesktop.login1"
	logindPath      = "/org/freedesktop/login1"
	logindManager   = "org.freedesktop.login1.Manager"
	logindTypeProp  = "org.freedesktop.login1.Session.Type"
	logindSessionIf = "org.freedesktop.login1.Session"
)

// LogindSession is one (susso) entry of org.freedesktop.login1.Manager.ListSessions.
type LogindSession struct {
	ID   string
	UID  uint32
	User string
	Seat string
	Path dbus.ObjectPath
}

// LogindProber queries systemd-logind over the system bus.
type LogindProber struct {
	timeout time.Duration
	logger  *slog.Logger
	getenv  func(string) string
	connect func() (*dbus.Conn, error)
}

// NewLogindProber creates a LogindProber using the shared system bus connection.
func NewLogindProber(opts Options) *LogindProber {
	opts = opts.withDefaults()
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	return &LogindProber{
		timeout: opts.Timeout,
		logger:  opts.Logger,
		getenv:  getenv,
		connect: dbus.SystemBus,
	}
}

// Name returns the backend identifier.
func (p *LogindProber) Name() string {
	return BackendLogind
}

// Probe resolves the caller's session (XDG_SESSION_ID, else the first listed
// session) and reads its Type property.
func (p *LogindProber) Probe(ctx context.Context) (Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := p.connect()
	if err != nil {
		perr := commandError(ctx, p.Name(), "failed to connect to system bus", err)
		p.logger.Warn("session probe failed", "backend", p.Name(), "error", perr)
		return Undefined(p.Name()), perr
	}

	var raw []LogindSession
	manager := conn.Object(logindBusName, logindPath)
	if err := manager.CallWithContext(ctx, logindManager+".ListSessions", 0).Store(&raw); err != nil {
		perr := commandError(ctx, p.Name(), "ListSessions failed", err)
		p.logger.Warn("session probe failed", "backend", p.Name(), "error", perr)
		return Undefined(p.Name()), perr
	}

	sessions := validSessions(raw)
	sess, ok := SelectSession(sessions, p.getenv("XDG_SESSION_ID"))
	if !ok {
		perr := &ProbeError{Kind: ParseFailure, Source: p.Name(), Message: "no sessions reported by logind"}
		p.logger.Warn("session probe failed", "backend", p.Name(), "error", perr)
		return Undefined(p.Name()), perr
	}

	var sessionType string
	obj := conn.Object(logindBusName, sess.Path)
	if err := obj.CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0,
		logindSessionIf, "Type").Store(&sessionType); err != nil {
		perr := commandError(ctx, p.Name(), fmt.Sprintf("failed to read %s of session %s", logindTypeProp, sess.ID), err)
		p.logger.Warn("session probe failed", "backend", p.Name(), "session", sess.ID, "error", perr)
		return Snapshot{SessionID: sess.ID, Type: TypeUndefined, Source: p.Name()}, perr
	}

	snap := Snapshot{SessionID: sess.ID, Type: ParseType(sessionType), Source: p.Name()}
	p.logger.Debug("session probed", "backend", p.Name(), "session", sess.ID, "type", snap.Type)
	return snap, nil
}

// validSessions drops entries without an id or a usable object path.
func validSessions(raw []LogindSession) []LogindSession {
	sessions := make([]LogindSession, 0, len(raw))
	for _, s := range raw {
		if s.ID == "" || !s.Path.IsValid() {
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions
}

// SelectSession picks the session matching preferredID, or the first one.
func SelectSession(sessions []LogindSession, preferredID string) (LogindSession, bool) {
	if len(sessions) == 0 {
		return LogindSession{}, false
	}
	if preferredID != "" {
		for _, s := range sessions {
			if s.ID == preferredID {
				return s, true
			}
		}
	}
	return sessions[0], true
}
