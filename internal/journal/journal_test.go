package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/gdmswitch/internal/session"
)

func TestOpen_WritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.jsonl")

	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "gdmswitch_schema_version")
	assert.Equal(t, path, j.Path())
}

func TestJournal_RecordAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")

	j, err := Open(path)
	require.NoError(t, err)

	e1, err := NewEvent(session.TypeWayland, session.TypeX11)
	require.NoError(t, err)
	e1.State = "done"
	e2, err := NewEvent(session.TypeX11, session.TypeWayland)
	require.NoError(t, err)
	e2.State = "apply-failed"
	e2.Error = "write failed"

	require.NoError(t, j.Record(e1))
	require.NoError(t, j.Record(e2))
	require.NoError(t, j.Close())

	events, err := Load(path)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, e1.ID, events[0].ID)
	assert.Equal(t, session.TypeX11, events[0].To)
	assert.False(t, events[0].Failed())
	assert.True(t, events[1].Failed())
	assert.NotEqual(t, events[0].ID, events[1].ID)
}

func TestJournal_ReopenDoesNotDuplicateHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")

	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	e, err := NewEvent(session.TypeWayland, session.TypeX11)
	require.NoError(t, err)
	require.NoError(t, j.Record(e))
	require.NoError(t, j.Close())

	events, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestJournal_RecordAfterClose(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "journal.jsonl"))
	require.NoError(t, err)
	require.NoError(t, j.Close())
	require.NoError(t, j.Close())

	assert.ErrorIs(t, j.Record(Event{ID: "x"}), ErrClosed)
}

func TestLoad_MissingFile(t *testing.T) {
	events, err := Load(filepath.Join(t.TempDir(), "missing.jsonl"))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestLoad_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	content := `{"gdmswitch_schema_version":1,"created_at":1}
{not json
{"id":"01HX","timestamp":1700000000,"from":"wayland","to":"x11","state":"done"}
{"timestamp":1700000001}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	events, err := Load(path)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, session.TypeWayland, events[0].From)
}

func TestLoad_FutureSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"gdmswitch_schema_version":99,"created_at":1}`+"\n"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestTail(t *testing.T) {
	events := []Event{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	got := Tail(events, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)

	assert.Len(t, Tail(events, 0), 3)
	assert.Empty(t, Tail(nil, 5))
}
