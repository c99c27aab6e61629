package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/PolarWolf314/provenv/internal/configs"
)

// TimestampFormat is RFC3339 with microseconds, always UTC.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Entry is one run.
type Entry struct {
	Timestamp string `json:"ts"`
	RunID     string `json:"run"`
	Operation string `json:"op"`

	// Shell is the rendered dialect, for init.
	Shell string `json:"shell,omitempty"`

	Documents   int `json:"documents"`
	Failed      int `json:"failed"`
	Variables   int `json:"variables"`
	PathEntries int `json:"path_entries"`

	// Disabled is the reason secrets were skipped, without values.
	Disabled string `json:"disabled,omitempty"`
}

// NewEntry starts an entry for op with a fresh run id.
func NewEntry(op string) Entry {
	return Entry{
		Operation: op,
		RunID:     uuid.New().String(),
	}
}

// LogPath returns the run log location.
func LogPath() string {
	return filepath.Join(configs.ProvenvSettings.StateDir, "runs.jsonl")
}

// Log appends entry to the run log. Errors are swallowed.
func Log(entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}
	if entry.RunID == "" {
		entry.RunID = uuid.New().String()
	}

	logPath := LogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries. A missing log yields no entries.
func ReadEntries() ([]Entry, error) {
	data, err := os.ReadFile(LogPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseEntries(data)
}

// ParseEntries parses JSON Lines. Malformed lines are skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}
