// Package journal keeps an append-only JSONL record of toggle attempts.
package journal

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/gdmswitch/internal/session"
)

// Event records one toggle attempt.
type Event struct {
	ID        string       `json:"id" yaml:"id"`
	Timestamp int64        `json:"timestamp" yaml:"timestamp"`
	SessionID string       `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	From      session.Type `json:"from" yaml:"from"`
	To        session.Type `json:"to" yaml:"to"`
	State     string       `json:"state" yaml:"state"` // terminal controller state, e.g. "done", "apply-failed"
	Error     string       `json:"error,omitempty" yaml:"error,omitempty"`
	DryRun    bool         `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
}

// NewEvent creates an Event with a fresh ULID and the current time.
func NewEvent(from, to session.Type) (Event, error) {
	now := time.Now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:        id.String(),
		Timestamp: now.Unix(),
		From:      from,
		To:        to,
	}, nil
}

// Time returns the event timestamp.
func (e Event) Time() time.Time {
	return time.Unix(e.Timestamp, 0)
}

// Failed reports whether the attempt ended in an error.
func (e Event) Failed() bool {
	return e.Error != ""
}
