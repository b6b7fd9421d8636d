package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SchemaVersion is the current journal schema version.
const SchemaVersion = 1

// ErrClosed is returned when operations are attempted on a closed journal.
var ErrClosed = errors.New("journal is closed")

// header is the first line of the JSONL file.
type header struct {
	SchemaVersion int   `json:"gdmswitch_schema_version"`
	CreatedAt     int64 `json:"created_at"`
}

// Journal appends events to a JSONL file.
type Journal struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	closed bool
}

// Open opens or creates the journal at path, creating parent directories.
func Open(path string) (*Journal, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}

	j := &Journal{path: path, file: file}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.Size() == 0 {
		if err := j.writeLine(header{SchemaVersion: SchemaVersion, CreatedAt: time.Now().Unix()}); err != nil {
			file.Close()
			return nil, err
		}
	}

	return j, nil
}

// Path returns the journal file path.
func (j *Journal) Path() string {
	return j.path
}

// Record appends an event and syncs it to disk.
func (j *Journal) Record(e Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return ErrClosed
	}
	if err := j.writeLine(e); err != nil {
		return err
	}
	return j.file.Sync()
}

func (j *Journal) writeLine(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = j.file.Write(append(data, '\n'))
	return err
}

// Close releases the file handle.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	j.closed = true
	return j.file.Close()
}

// Load reads all events from the journal at path, oldest first.
// A missing file yields no events. Malformed lines are skipped.
func Load(path string) ([]Event, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var events []Event
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		if lineNum == 1 {
			var h header
			if err := json.Unmarshal(line, &h); err == nil && h.SchemaVersion > 0 {
				if h.SchemaVersion > SchemaVersion {
					return nil, fmt.Errorf("unsupported schema version %d (max: %d)", h.SchemaVersion, SchemaVersion)
				}
				continue
			}
		}

		var e Event
		if err := json.Unmarshal(line, &e); err != nil || e.ID == "" {
			continue
		}
		events = append(events, e)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading journal: %w", err)
	}
	return events, nil
}

// Tail returns the last n events (all when n <= 0), newest first.
func Tail(events []Event, n int) []Event {
	out := make([]Event, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		out = append(out, events[i])
		if n > 0 && len(out) == n {
			break
		}
	}
	return out
}
