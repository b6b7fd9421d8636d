package session

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner returns canned output keyed by the joined command line.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	block   bool
	calls   []string
}

func (r *fakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	r.calls = append(r.calls, key)

	if r.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err, ok := r.errs[key]; ok {
		return nil, err
	}
	return []byte(r.outputs[key]), nil
}

const sampleListing = `SESSION  UID USER  SEAT  TTY
      2 1000 alice seat0 tty2

1 sessions listed.
`

func TestLoginctlProber_Wayland(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"loginctl":                        sampleListing,
		"loginctl show-session 2 -p Type": "Type=wayland\n",
	}}
	p := NewLoginctlProber(Options{Runner: runner})

	snap, err := p.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2", snap.SessionID)
	assert.Equal(t, TypeWayland, snap.Type)
	assert.Equal(t, BackendLoginctl, snap.Source)
	assert.Len(t, runner.calls, 2)
}

func TestLoginctlProber_X11(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"loginctl":                        sampleListing,
		"loginctl show-session 2 -p Type": "Type=x11\n",
	}}
	p := NewLoginctlProber(Options{Runner: runner})

	snap, err := p.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TypeX11, snap.Type)
}

func TestLoginctlProber_UnrecognisedTypeIsUndefined(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"loginctl":                        sampleListing,
		"loginctl show-session 2 -p Type": "Type=tty\n",
	}}
	p := NewLoginctlProber(Options{Runner: runner})

	snap, err := p.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TypeUndefined, snap.Type)
}

func TestLoginctlProber_ParseFailure(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"loginctl": "No sessions.\n",
	}}
	p := NewLoginctlProber(Options{Runner: runner})

	snap, err := p.Probe(context.Background())
	require.Error(t, err)
	assert.Equal(t, TypeUndefined, snap.Type)
	assert.ErrorIs(t, err, ErrParseFailure)
	assert.Len(t, runner.calls, 1, "show-session must not run without a session id")
}

func TestLoginctlProber_LaunchFailure(t *testing.T) {
	runner := &fakeRunner{errs: map[string]error{
		"loginctl": &exec.Error{Name: "loginctl", Err: exec.ErrNotFound},
	}}
	p := NewLoginctlProber(Options{Runner: runner})

	snap, err := p.Probe(context.Background())
	require.Error(t, err)
	assert.Equal(t, TypeUndefined, snap.Type)
	assert.ErrorIs(t, err, ErrLaunchFailed)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoginctlProber_ShowSessionFailureKeepsID(t *testing.T) {
	runner := &fakeRunner{
		outputs: map[string]string{"loginctl": sampleListing},
		errs:    map[string]error{"loginctl show-session 2 -p Type": errors.New("exit status 1")},
	}
	p := NewLoginctlProber(Options{Runner: runner})

	snap, err := p.Probe(context.Background())
	require.Error(t, err)
	assert.Equal(t, "2", snap.SessionID)
	assert.Equal(t, TypeUndefined, snap.Type)
	assert.ErrorIs(t, err, ErrLaunchFailed)
}

func TestLoginctlProber_Timeout(t *testing.T) {
	runner := &fakeRunner{block: true}
	p := NewLoginctlProber(Options{Runner: runner, Timeout: 10 * time.Millisecond})

	snap, err := p.Probe(context.Background())
	require.Error(t, err)
	assert.Equal(t, TypeUndefined, snap.Type)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestParseSessionListing(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{"standard", sampleListing, "2", false},
		{"no leading whitespace", "SESSION UID\n17 1000 bob\n", "17", false},
		{"header only", "SESSION UID USER\n", "", true},
		{"empty", "", "", true},
		{"non numeric", "SESSION UID\nc1 1000 bob\n", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseSessionListing(tt.output)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrParseFailure)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestEnvProber(t *testing.T) {
	env := map[string]string{"XDG_SESSION_TYPE": "x11", "XDG_SESSION_ID": "5"}
	p := NewEnvProber(Options{Getenv: func(k string) string { return env[k] }})

	snap, err := p.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TypeX11, snap.Type)
	assert.Equal(t, "5", snap.SessionID)
	assert.Equal(t, BackendEnv, snap.Source)

	env["XDG_SESSION_TYPE"] = "tty"
	snap, err = p.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TypeUndefined, snap.Type)
}

func TestNewProber(t *testing.T) {
	for _, backend := range []string{"", BackendLoginctl, BackendLogind, BackendEnv} {
		p, err := NewProber(backend, Options{})
		require.NoError(t, err, backend)
		if backend == "" {
			assert.Equal(t, BackendLoginctl, p.Name())
		} else {
			assert.Equal(t, backend, p.Name())
		}
	}

	_, err := NewProber("xdotool", Options{})
	assert.Error(t, err)
}

func TestSelectSession(t *testing.T) {
	sessions := []LogindSession{
		{ID: "c1", Path: "/org/freedesktop/login1/session/c1"},
		{ID: "3", Path: "/org/freedesktop/login1/session/_33"},
	}

	s, ok := SelectSession(sessions, "3")
	require.True(t, ok)
	assert.Equal(t, "3", s.ID)

	s, ok = SelectSession(sessions, "")
	require.True(t, ok)
	assert.Equal(t, "c1", s.ID)

	s, ok = SelectSession(sessions, "missing")
	require.True(t, ok)
	assert.Equal(t, "c1", s.ID)

	_, ok = SelectSession(nil, "3")
	assert.False(t, ok)
}

func TestValidSessions(t *testing.T) {
	raw := []LogindSession{
		{ID: "", Path: "/org/freedesktop/login1/session/x"},
		{ID: "4", Path: "not-a-path"},
		{ID: "5", Path: "/org/freedesktop/login1/session/_35"},
	}
	got := validSessions(raw)
	require.Len(t, got, 1)
	assert.Equal(t, "5", got[0].ID)
}
