// =============================================================================
// EDI Order Translator - Process Log
// =============================================================================
//
// This module keeps the operator-facing audit trail of each run. Entries
// are collected in a Buffer that the router passes through and returns from
// every processing step. At defined checkpoints the buffer is flushed to
// the log file of the entry's calendar day.
//
// ENTRY FORMAT:
//   [2024-05-17 08:30:00] Chedraui met: ORD1.INF - Chedraui order
//
// FLUSH SEMANTICS:
//   A flush appends only the entries added since the previous flush, so an
//   entry is written exactly once no matter how many checkpoints a run has.
//
// =============================================================================

package processlog

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/ginjaninja78/edi-order-translator/internal/storage"
)

const (
	// TimestampLayout formats the bracketed entry timestamp.
	TimestampLayout = "2006-01-02 15:04:05"

	// DayLayout formats the date in the log file name.
	DayLayout = "2006-01-02"
)

// =============================================================================
// ENTRIES AND BUFFER
// =============================================================================

// Entry is one line of the process log.
type Entry struct {
	Time    time.Time
	Message string
}

// String renders the entry as "[YYYY-MM-DD HH:MM:SS] message".
func (e Entry) String() string {
	return "[" + e.Time.Format(TimestampLayout) + "] " + e.Message
}

// Buffer is the in-memory log of one run. It is a value: every operation
// returns the updated buffer and leaves the receiver untouched.
type Buffer struct {
	entries []Entry
	flushed int
}

// Add returns a buffer with one more entry.
func (b Buffer) Add(at time.Time, message string) Buffer {
	entries := make([]Entry, len(b.entries), len(b.entries)+1)
	copy(entries, b.entries)
	b.entries = append(entries, Entry{Time: at, Message: message})
	return b
}

// Addf is Add with fmt.Sprintf formatting.
func (b Buffer) Addf(at time.Time, format string, args ...any) Buffer {
	return b.Add(at, fmt.Sprintf(format, args...))
}

// Entries returns every entry of the run.
func (b Buffer) Entries() []Entry {
	return b.entries
}

// Pending returns the entries not flushed yet.
func (b Buffer) Pending() []Entry {
	return b.entries[b.flushed:]
}

// Len returns the number of entries of the run.
func (b Buffer) Len() int {
	return len(b.entries)
}

// markFlushed returns the buffer with every entry flushed.
func (b Buffer) markFlushed() Buffer {
	b.flushed = len(b.entries)
	return b
}

// =============================================================================
// JOURNAL
// =============================================================================

// Journal writes buffers to one log file per calendar day.
type Journal struct {
	store  storage.FileStore
	dir    string
	prefix string
}

// NewJournal creates a journal writing process_log_YYYY-MM-DD.txt files
// into dir.
func NewJournal(store storage.FileStore, dir string) *Journal {
	return &Journal{store: store, dir: dir, prefix: "process_log_"}
}

// Path returns the log file for the day of t.
func (j *Journal) Path(t time.Time) string {
	return path.Join(j.dir, j.prefix+t.Format(DayLayout)+".txt")
}

// Flush appends the pending entries of b to their day files.
//
// PARAMETERS:
//   - b: The run buffer.
//
// RETURNS:
//   - The buffer with every entry marked as flushed. On error the input
//     buffer is returned unchanged so the entries are retried at the next
//     checkpoint.
//   - An error if a log file cannot be written.
func (j *Journal) Flush(b Buffer) (Buffer, error) {
	pending := b.Pending()
	if len(pending) == 0 {
		return b, nil
	}

	// Group by day while keeping the entry order inside each file.
	var days []string
	byDay := make(map[string]*strings.Builder)
	for _, e := range pending {
		p := j.Path(e.Time)
		sb, ok := byDay[p]
		if !ok {
			sb = &strings.Builder{}
			byDay[p] = sb
			days = append(days, p)
		}
		sb.WriteString(e.String())
		sb.WriteString("\n")
	}

	for _, p := range days {
		if err := j.store.Append(p, []byte(byDay[p].String())); err != nil {
			return b, fmt.Errorf("failed to flush process log: %w", err)
		}
	}

	return b.markFlushed(), nil
}
