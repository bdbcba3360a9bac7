// Package runlog keeps an append-only CSV record of commands that changed or
// closed the books.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Actions written by the CLI.
const (
	ActionClose      = "close"
	ActionImport     = "import"
	ActionJournalAdd = "journal_add"
)

// Statuses of a run.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Entry is one row in the run log.
type Entry struct {
	RunID      uuid.UUID
	Timestamp  time.Time
	Action     string
	Status     string
	Entries    int
	Details    string
	CommitHash string
}

// Header is the CSV header for run-log.csv.
var Header = []string{"run_id", "timestamp", "action", "status", "entries", "details", "commit_hash"}

const (
	numFields     = 7
	logDir        = "logs"
	logFile       = "run-log.csv"
	colRunID      = 0
	colTimestamp  = 1
	colAction     = 2
	colStatus     = 3
	colEntries    = 4
	colDetails    = 5
	colCommitHash = 6
)

// NewEntry starts an entry with a fresh run ID.
func NewEntry(action string, now time.Time) Entry {
	return Entry{RunID: uuid.New(), Timestamp: now.UTC(), Action: action, Status: StatusOK}
}

// Path returns the run log location inside repoRoot.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, logDir, logFile)
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colRunID] = e.RunID.String()
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colAction] = e.Action
	row[colStatus] = e.Status
	row[colEntries] = strconv.Itoa(e.Entries)
	row[colDetails] = e.Details
	row[colCommitHash] = e.CommitHash
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	id, err := uuid.Parse(record[colRunID])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing run_id %q: %w", record[colRunID], err)
	}
	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	n, err := strconv.Atoi(record[colEntries])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing entries %q: %w", record[colEntries], err)
	}

	return Entry{
		RunID:      id,
		Timestamp:  ts,
		Action:     record[colAction],
		Status:     record[colStatus],
		Entries:    n,
		Details:    record[colDetails],
		CommitHash: record[colCommitHash],
	}, nil
}

// Append writes entries to logs/run-log.csv, creating the file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Join(repoRoot, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(repoRoot)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from logs/run-log.csv, or nil if there is none.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(Path(repoRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Last returns the most recent entry for action.
func Last(entries []Entry, action string) (Entry, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Action == action {
			return entries[i], true
		}
	}
	return Entry{}, false
}
