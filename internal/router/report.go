package router

import (
	"fmt"
	"strings"
	"time"

	"github.com/ginjaninja78/edi-order-translator/internal/translator"
	"github.com/ginjaninja78/edi-order-translator/internal/validation"
)

// Outcome is what the router did with one intake file.
type Outcome string

const (
	// OutcomeTranslated: artifact written, file moved to processed.
	OutcomeTranslated Outcome = "translated"

	// OutcomeLocked: an artifact was pending, file moved to error.
	OutcomeLocked Outcome = "locked"

	// OutcomeMalformed: one line or less, file left in intake.
	OutcomeMalformed Outcome = "malformed"

	// OutcomeUnclassified: unknown header code, file moved to processed.
	OutcomeUnclassified Outcome = "unclassified"

	// OutcomeFailed: translation or I/O failure. Files that fail
	// translation are moved to error.
	OutcomeFailed Outcome = "failed"
)

// Outcomes lists every outcome in report order.
func Outcomes() []Outcome {
	return []Outcome{OutcomeTranslated, OutcomeLocked, OutcomeMalformed, OutcomeUnclassified, OutcomeFailed}
}

// FileResult is the outcome of one intake file.
type FileResult struct {
	// File is the base name of the intake file.
	File string

	// Partner is Unclassified until the header code is read.
	Partner translator.Partner

	Outcome Outcome

	// Orders and Items are filled when a translator ran.
	Orders int
	Items  int

	// Rejected lists the data rows the translator skipped.
	Rejected []*validation.RowError

	// Err is the cause of a failed outcome, or a move error.
	Err error

	Duration time.Duration
}

// Report summarizes one batch run.
type Report struct {
	// RunID identifies the run in the structured logs.
	RunID string

	Started  time.Time
	Finished time.Time

	Files []FileResult

	// LogEntries is the number of process log entries of the run.
	LogEntries int
}

// Count returns the number of files with the given outcome.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, f := range r.Files {
		if f.Outcome == o {
			n++
		}
	}
	return n
}

// Summary renders the per-outcome counts on one line.
func (r *Report) Summary() string {
	parts := make([]string, 0, len(Outcomes()))
	for _, o := range Outcomes() {
		parts = append(parts, fmt.Sprintf("%s=%d", o, r.Count(o)))
	}
	return fmt.Sprintf("%d files: %s", len(r.Files), strings.Join(parts, " "))
}
