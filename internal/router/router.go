// =============================================================================
// EDI Order Translator - Router
// =============================================================================
//
// This module orchestrates one batch run over the intake folder. Every file
// is handled on its own; a failure never stops the loop.
//
// ROUTING PIPELINE (per file):
//   1. Artifact-lock guard: a pending artifact quarantines the file
//   2. Read the non-empty lines; one line or less is a malformed file
//   3. Classify the header code
//   4. Dispatch to the partner translator
//   5. Write the artifact
//   6. Move the file to the processed folder
//
// PROCESS LOG CHECKPOINTS:
//   The buffer is flushed after the guard decision, after the malformed-file
//   decision, after the processing decision, and once more when the run ends.
//
// CONCURRENCY:
//   None. The artifact is a single-slot mailbox: once one file produces it,
//   every later file of the same run is quarantined by the guard.
//
// =============================================================================

package router

import (
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/ginjaninja78/edi-order-translator/internal/artifact"
	"github.com/ginjaninja78/edi-order-translator/internal/config"
	"github.com/ginjaninja78/edi-order-translator/internal/csvparser"
	"github.com/ginjaninja78/edi-order-translator/internal/processlog"
	"github.com/ginjaninja78/edi-order-translator/internal/storage"
	"github.com/ginjaninja78/edi-order-translator/internal/translator"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrQueueEmpty is returned when the intake folder holds no input files.
var ErrQueueEmpty = errors.New("no input files found")

// =============================================================================
// ROUTER STRUCTURE
// =============================================================================

// Router runs the intake folder through the partner translators.
type Router struct {
	store    storage.FileStore
	dirs     config.StorageConfig
	artifact *artifact.Writer
	journal  *processlog.Journal
	registry *translator.Registry
	logger   *zap.Logger

	now      func() time.Time
	newRunID func() string
}

// Option customizes a Router.
type Option func(*Router)

// WithClock replaces the wall clock used for log timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Router.
//
// PARAMETERS:
//   - store:    The filesystem holding the intake, processed and error folders.
//   - dirs:     Folder names and the intake pattern.
//   - writer:   The artifact writer; its Exists is the lock probe.
//   - journal:  The process log journal.
//   - registry: The partner translators.
func New(
	store storage.FileStore,
	dirs config.StorageConfig,
	writer *artifact.Writer,
	journal *processlog.Journal,
	registry *translator.Registry,
	opts ...Option,
) *Router {
	r := &Router{
		store:    store,
		dirs:     dirs,
		artifact: writer,
		journal:  journal,
		registry: registry,
		logger:   zap.NewNop(),
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// =============================================================================
// BATCH RUN
// =============================================================================

// Run processes every intake file once, in name order.
//
// RETURNS:
//   - The run report with one FileResult per intake file.
//   - ErrQueueEmpty when there is nothing to process, or an error when the
//     intake folder cannot be scanned. Per-file failures are only reported.
func (r *Router) Run() (*Report, error) {
	files, err := r.store.List(r.dirs.IntakeDir, r.dirs.IntakePattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan intake: %w", err)
	}
	if len(files) == 0 {
		r.logger.Error("no input files",
			zap.String("dir", r.dirs.IntakeDir),
			zap.String("pattern", r.dirs.IntakePattern))
		return nil, fmt.Errorf("%s/%s: %w", r.dirs.IntakeDir, r.dirs.IntakePattern, ErrQueueEmpty)
	}

	report := &Report{
		RunID:   r.newRunID(),
		Started: r.now(),
	}
	logger := r.logger.With(zap.String("run_id", report.RunID))
	logger.Info("run started", zap.Int("files", len(files)))

	var buf processlog.Buffer
	for _, file := range files {
		var result FileResult
		start := r.now()
		result, buf = r.processFile(logger, file, buf)
		result.Duration = r.now().Sub(start)
		report.Files = append(report.Files, result)
	}

	buf = r.flush(logger, buf)
	report.Finished = r.now()
	report.LogEntries = buf.Len()

	logger.Info("run finished",
		zap.Int("translated", report.Count(OutcomeTranslated)),
		zap.Int("locked", report.Count(OutcomeLocked)),
		zap.Int("malformed", report.Count(OutcomeMalformed)),
		zap.Int("unclassified", report.Count(OutcomeUnclassified)),
		zap.Int("failed", report.Count(OutcomeFailed)))

	return report, nil
}

// =============================================================================
// PER-FILE PROCESSING
// =============================================================================

// processFile routes one intake file. The process log buffer is passed in
// and the updated buffer is returned.
func (r *Router) processFile(logger *zap.Logger, file string, buf processlog.Buffer) (FileResult, processlog.Buffer) {
	name := path.Base(file)
	logger = logger.With(zap.String("file", name))
	logger.Info("processing file")

	result := FileResult{File: name}

	// =========================================================================
	// STEP 1: ARTIFACT-LOCK GUARD
	// =========================================================================

	locked, err := r.artifact.Exists()
	if err != nil {
		logger.Error("lock probe failed", zap.Error(err))
		buf = buf.Addf(r.now(), "Error: %s - could not check %s: %v", name, r.artifact.Path(), err)
		result.Outcome, result.Err = OutcomeFailed, err
		return result, r.flush(logger, buf)
	}
	if locked {
		artifactName := path.Base(r.artifact.Path())
		logger.Warn("artifact pending, quarantining file", zap.String("artifact", r.artifact.Path()))
		buf = buf.Addf(r.now(),
			"Error: %s - %s exists in %s. Moving to %s. Process the file in the ERP EDI Transaction Load Routine or delete the file to generate %s again",
			name, artifactName, path.Dir(r.artifact.Path()), r.dirs.ErrorDir, artifactName)
		buf = r.flush(logger, buf)

		result.Outcome = OutcomeLocked
		result.Err = r.moveTo(logger, file, r.dirs.ErrorDir)
		if result.Err != nil {
			buf = buf.Addf(r.now(), "Error: %s - could not move to %s: %v", name, r.dirs.ErrorDir, result.Err)
		}
		return result, buf
	}

	// =========================================================================
	// STEP 2: READ AND MALFORMED-FILE CHECK
	// =========================================================================

	lines, err := r.store.ReadLines(file)
	if err != nil {
		logger.Error("read failed", zap.Error(err))
		buf = buf.Addf(r.now(), "Error: %s - could not be read: %v", name, err)
		result.Outcome, result.Err = OutcomeFailed, err
		return result, r.flush(logger, buf)
	}

	order := csvparser.NewOrderFile(name, lines)
	if !order.HasData() {
		logger.Warn("file has no data", zap.Int("lines", len(lines)))
		buf = buf.Addf(r.now(), "Error: %s has no data or only one line.", name)
		result.Outcome = OutcomeMalformed
		return result, r.flush(logger, buf)
	}

	// =========================================================================
	// STEP 3: CLASSIFY
	// =========================================================================

	code := order.HeaderCode()
	partner := translator.Classify(code)
	result.Partner = partner

	if partner == translator.Unclassified {
		logger.Warn("no partner matches header code", zap.String("code", code))
		buf = buf.Addf(r.now(), "No conditions met: %s", name)

		result.Outcome = OutcomeUnclassified
		if result.Err = r.moveTo(logger, file, r.dirs.ProcessedDir); result.Err != nil {
			buf = buf.Addf(r.now(), "Error: %s - could not move to %s: %v", name, r.dirs.ProcessedDir, result.Err)
		} else {
			buf = buf.Addf(r.now(), "Moved to %s: %s - No file has been generated.", r.dirs.ProcessedDir, name)
		}
		return result, r.flush(logger, buf)
	}

	logger = logger.With(zap.Stringer("partner", partner))
	buf = buf.Addf(r.now(), "%s met: %s - %s order", partner, name, partner)

	// =========================================================================
	// STEP 4: TRANSLATE
	// =========================================================================

	t, err := r.registry.Lookup(partner)
	if err != nil {
		return r.fail(logger, file, err, result, buf)
	}

	translation, err := t.Translate(order.Lines)
	if translation != nil {
		result.Orders = translation.Orders
		result.Items = translation.Items
		result.Rejected = translation.Rejected
		for _, rowErr := range translation.Rejected {
			logger.Warn("row skipped", zap.Int("row", rowErr.Row), zap.String("rule", rowErr.Rule), zap.String("reason", rowErr.Message))
			buf = buf.Addf(r.now(), "Warning: %s - %s", name, rowErr.Error())
		}
	}
	if err != nil {
		return r.fail(logger, file, err, result, buf)
	}

	// =========================================================================
	// STEP 5: WRITE ARTIFACT
	// =========================================================================

	if err := r.artifact.Write(translation.Document); err != nil {
		return r.fail(logger, file, err, result, buf)
	}
	logger.Info("artifact written",
		zap.String("artifact", r.artifact.Path()),
		zap.Int("orders", translation.Orders),
		zap.Int("items", translation.Items))

	// =========================================================================
	// STEP 6: ARCHIVE
	// =========================================================================

	result.Outcome = OutcomeTranslated
	if result.Err = r.moveTo(logger, file, r.dirs.ProcessedDir); result.Err != nil {
		// The artifact holds this file's orders. Left in intake, the next run's
		// guard would quarantine it as if it had never been translated.
		logger.Warn("translated file left in intake", zap.String("artifact", r.artifact.Path()))
		buf = buf.Addf(r.now(),
			"Warning: %s - File has been generated %s but %s could not be moved to %s: %v. The orders are in %s; move %s to %s by hand and do not process it again.",
			name, path.Base(r.artifact.Path()), name, r.dirs.ProcessedDir, result.Err,
			path.Base(r.artifact.Path()), name, r.dirs.ProcessedDir)
		return result, r.flush(logger, buf)
	}

	buf = buf.Addf(r.now(), "Processed successfully: %s - Moved to %s - File has been generated %s.",
		name, r.dirs.ProcessedDir, path.Base(r.artifact.Path()))
	return result, r.flush(logger, buf)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// fail quarantines a file whose translation did not produce an artifact.
func (r *Router) fail(logger *zap.Logger, file string, cause error, result FileResult, buf processlog.Buffer) (FileResult, processlog.Buffer) {
	name := path.Base(file)
	logger.Error("translation failed", zap.Error(cause))

	result.Outcome = OutcomeFailed
	result.Err = cause

	if err := r.moveTo(logger, file, r.dirs.ErrorDir); err != nil {
		result.Err = errors.Join(cause, err)
		buf = buf.Addf(r.now(), "Translation failed: %s - %v. Could not move to %s: %v", name, cause, r.dirs.ErrorDir, err)
		return result, r.flush(logger, buf)
	}

	buf = buf.Addf(r.now(), "Translation failed: %s - %v. Moved to %s.", name, cause, r.dirs.ErrorDir)
	return result, r.flush(logger, buf)
}

// moveTo moves file into dir, keeping its name.
func (r *Router) moveTo(logger *zap.Logger, file, dir string) error {
	target := path.Join(dir, path.Base(file))
	if err := r.store.Move(file, target); err != nil {
		logger.Error("move failed", zap.String("target", target), zap.Error(err))
		return err
	}
	logger.Debug("file moved", zap.String("target", target))
	return nil
}

// flush writes the pending log entries. A failed flush keeps them pending
// for the next checkpoint.
func (r *Router) flush(logger *zap.Logger, buf processlog.Buffer) processlog.Buffer {
	next, err := r.journal.Flush(buf)
	if err != nil {
		logger.Error("process log flush failed", zap.Error(err))
		return buf
	}
	return next
}
