package router

import (
	"errors"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/edi-order-translator/internal/artifact"
	"github.com/ginjaninja78/edi-order-translator/internal/config"
	"github.com/ginjaninja78/edi-order-translator/internal/processlog"
	"github.com/ginjaninja78/edi-order-translator/internal/storage"
	"github.com/ginjaninja78/edi-order-translator/internal/translator"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var runTime = time.Date(2024, 5, 17, 8, 30, 0, 0, time.UTC)

const logPath = "translate_log/process_log_2024-05-17.txt"

// countingTranslator records how often Translate is called.
type countingTranslator struct {
	translator.Translator
	calls int
}

func (c *countingTranslator) Translate(lines []string) (*translator.Translation, error) {
	c.calls++
	return c.Translator.Translate(lines)
}

type fixture struct {
	store   *storage.Store
	router  *Router
	counter *countingTranslator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := config.Default()
	store := storage.NewMemory()
	counter := &countingTranslator{Translator: translator.NewChedraui()}

	r := New(
		store,
		cfg.Storage,
		artifact.NewWriter(store, cfg.Artifact.Path, 0),
		processlog.NewJournal(store, cfg.Storage.LogDir),
		translator.NewRegistry(counter),
		WithClock(func() time.Time { return runTime }),
	)
	r.newRunID = func() string { return "run-1" }

	return &fixture{store: store, router: r, counter: counter}
}

func (f *fixture) write(t *testing.T, name string, lines ...string) {
	t.Helper()
	require.NoError(t, f.store.WriteAll(name, []byte(strings.Join(lines, "\n")+"\n")))
}

func (f *fixture) exists(t *testing.T, name string) bool {
	t.Helper()
	ok, err := f.store.Exists(name)
	require.NoError(t, err)
	return ok
}

func (f *fixture) read(t *testing.T, name string) string {
	t.Helper()
	data, err := afero.ReadFile(f.store.Fs(), name)
	require.NoError(t, err)
	return string(data)
}

func chedrauiRow(order, article, units, amount, multiplier string) string {
	fields := make([]string, 15)
	fields[0] = order
	fields[2] = "SUB"
	fields[3] = "SUB2"
	fields[5] = article
	fields[8] = units
	fields[10] = amount
	fields[14] = multiplier
	return strings.Join(fields, ",")
}

func TestRunEmptyQueue(t *testing.T) {
	f := newFixture(t)
	f.write(t, "translate/notes.txt", "026850 002", chedrauiRow("O1", "A1", "1", "1", "1"))

	report, err := f.router.Run()
	assert.ErrorIs(t, err, ErrQueueEmpty)
	assert.Nil(t, report)
	assert.False(t, f.exists(t, logPath))
	assert.True(t, f.exists(t, "translate/notes.txt"))
}

func TestRunTranslatesChedrauiFile(t *testing.T) {
	f := newFixture(t)
	lines := []string{
		"026850 002,CHEDRAUI",
		chedrauiRow("O1", "A1", "2", "25", "6"),
		"",
		chedrauiRow("O1", "A1", "1", "25", "3"),
	}
	f.write(t, "translate/A.INF", lines...)

	report, err := f.router.Run()
	require.NoError(t, err)
	require.Len(t, report.Files, 1)

	res := report.Files[0]
	assert.Equal(t, OutcomeTranslated, res.Outcome)
	assert.Equal(t, translator.Chedraui, res.Partner)
	assert.Equal(t, 1, res.Orders)
	assert.Equal(t, 1, res.Items)
	assert.NoError(t, res.Err)
	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, 1, f.counter.calls)

	assert.False(t, f.exists(t, "translate/A.INF"))
	assert.True(t, f.exists(t, "translate_process/A.INF"))

	want, err := translator.NewChedraui().Translate([]string{lines[0], lines[1], lines[3]})
	require.NoError(t, err)
	assert.Equal(t, want.Document.String(), f.read(t, config.DefaultArtifactPath))
	assert.Contains(t, f.read(t, config.DefaultArtifactPath), "000000015PZ")

	info, err := f.store.Fs().Stat(config.DefaultArtifactPath)
	require.NoError(t, err)
	assert.Equal(t, artifact.DefaultMode, info.Mode().Perm())

	assert.Equal(t,
		"[2024-05-17 08:30:00] Chedraui met: A.INF - Chedraui order\n"+
			"[2024-05-17 08:30:00] Processed successfully: A.INF - Moved to translate_process - File has been generated 850_EXP.CIM.\n",
		f.read(t, logPath))
	assert.Equal(t, 2, report.LogEntries)
}

func TestRunPendingArtifactQuarantinesEveryFile(t *testing.T) {
	f := newFixture(t)
	f.write(t, config.DefaultArtifactPath, "PENDING")
	f.write(t, "translate/A.INF", "026850 002", chedrauiRow("O1", "A1", "1", "1", "1"))
	f.write(t, "translate/B.INF", "026850 002", chedrauiRow("O2", "A1", "1", "1", "1"))

	report, err := f.router.Run()
	require.NoError(t, err)

	assert.Equal(t, 2, report.Count(OutcomeLocked))
	assert.Equal(t, 0, f.counter.calls)
	assert.True(t, f.exists(t, "translate_error/A.INF"))
	assert.True(t, f.exists(t, "translate_error/B.INF"))
	assert.Equal(t, "PENDING\n", f.read(t, config.DefaultArtifactPath))

	log := f.read(t, logPath)
	assert.Contains(t, log, "Error: A.INF - 850_EXP.CIM exists in data_in. Moving to translate_error.")
	assert.Contains(t, log, "Error: B.INF - 850_EXP.CIM exists in data_in.")
	assert.Contains(t, log, "EDI Transaction Load Routine or delete the file to generate 850_EXP.CIM again")
}

func TestRunFirstArtifactLocksLaterFiles(t *testing.T) {
	f := newFixture(t)
	f.write(t, "translate/A.INF", "026850 002", chedrauiRow("O1", "A1", "1", "1", "1"))
	f.write(t, "translate/B.INF", "026850 002", chedrauiRow("O2", "A1", "1", "1", "1"))

	report, err := f.router.Run()
	require.NoError(t, err)
	require.Len(t, report.Files, 2)

	assert.Equal(t, "A.INF", report.Files[0].File)
	assert.Equal(t, OutcomeTranslated, report.Files[0].Outcome)
	assert.Equal(t, "B.INF", report.Files[1].File)
	assert.Equal(t, OutcomeLocked, report.Files[1].Outcome)
	assert.Equal(t, 1, f.counter.calls)

	assert.True(t, f.exists(t, "translate_process/A.INF"))
	assert.True(t, f.exists(t, "translate_error/B.INF"))
	assert.Contains(t, f.read(t, config.DefaultArtifactPath), "O1")
}

func TestRunMalformedFileStaysInIntake(t *testing.T) {
	f := newFixture(t)
	f.write(t, "translate/ONE.INF", "026850 002", "", "")

	report, err := f.router.Run()
	require.NoError(t, err)

	assert.Equal(t, OutcomeMalformed, report.Files[0].Outcome)
	assert.True(t, f.exists(t, "translate/ONE.INF"))
	assert.Equal(t, 0, f.counter.calls)
	assert.Equal(t, "[2024-05-17 08:30:00] Error: ONE.INF has no data or only one line.\n", f.read(t, logPath))
}

func TestRunUnclassifiedFile(t *testing.T) {
	f := newFixture(t)
	f.write(t, "translate/X.INF", "999999 999,UNKNOWN", "a,b,c")

	report, err := f.router.Run()
	require.NoError(t, err)

	res := report.Files[0]
	assert.Equal(t, OutcomeUnclassified, res.Outcome)
	assert.Equal(t, translator.Unclassified, res.Partner)
	assert.True(t, f.exists(t, "translate_process/X.INF"))
	assert.False(t, f.exists(t, config.DefaultArtifactPath))
	assert.Equal(t, 0, f.counter.calls)
	assert.Contains(t, f.read(t, logPath), "No conditions met: X.INF")
}

func TestRunTranslationFailureIsIsolated(t *testing.T) {
	f := newFixture(t)
	f.write(t, "translate/A.INF", "026850 002", chedrauiRow("O1", "A1", "0", "10", "1"))
	f.write(t, "translate/B.INF", "007850 001", chedrauiRow("O2", "A1", "1", "1", "1"))
	f.write(t, "translate/C.INF", "026850 002", chedrauiRow("O3", "A1", "1", "1", "1"))

	report, err := f.router.Run()
	require.NoError(t, err)
	require.Len(t, report.Files, 3)

	assert.Equal(t, OutcomeFailed, report.Files[0].Outcome)
	assert.ErrorIs(t, report.Files[0].Err, translator.ErrZeroUnits)
	assert.True(t, f.exists(t, "translate_error/A.INF"))

	assert.Equal(t, OutcomeFailed, report.Files[1].Outcome)
	assert.Equal(t, translator.Nadro, report.Files[1].Partner)
	assert.ErrorIs(t, report.Files[1].Err, translator.ErrNoTranslator)
	assert.True(t, f.exists(t, "translate_error/B.INF"))

	assert.Equal(t, OutcomeTranslated, report.Files[2].Outcome)
	assert.True(t, f.exists(t, "translate_process/C.INF"))
	assert.Contains(t, f.read(t, config.DefaultArtifactPath), "O3")

	log := f.read(t, logPath)
	assert.Contains(t, log, "Translation failed: A.INF - ")
	assert.Contains(t, log, "Moved to translate_error.")
	assert.Contains(t, log, "Nadro met: B.INF - Nadro order")
	assert.NotContains(t, log, "Processed successfully: A.INF")
}

// stuckStore refuses moves into one folder.
type stuckStore struct {
	*storage.Store
	dir string
}

func (s stuckStore) Move(from, to string) error {
	if path.Dir(to) == s.dir {
		return errors.New("permission denied")
	}
	return s.Store.Move(from, to)
}

func TestRunArchiveFailureKeepsTranslatedOutcome(t *testing.T) {
	cfg := config.Default()
	mem := storage.NewMemory()
	store := stuckStore{Store: mem, dir: cfg.Storage.ProcessedDir}

	r := New(
		store,
		cfg.Storage,
		artifact.NewWriter(store, cfg.Artifact.Path, 0),
		processlog.NewJournal(store, cfg.Storage.LogDir),
		translator.NewRegistry(translator.NewChedraui()),
		WithClock(func() time.Time { return runTime }),
	)
	require.NoError(t, mem.WriteAll("translate/A.INF", []byte("026850 002\n"+chedrauiRow("O1", "A1", "1", "1", "1")+"\n")))

	report, err := r.Run()
	require.NoError(t, err)

	res := report.Files[0]
	assert.Equal(t, OutcomeTranslated, res.Outcome)
	assert.Error(t, res.Err)

	ok, err := mem.Exists("translate/A.INF")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := afero.ReadFile(mem.Fs(), logPath)
	require.NoError(t, err)
	log := string(data)
	assert.Contains(t, log, "Warning: A.INF - File has been generated 850_EXP.CIM but A.INF could not be moved to translate_process: permission denied.")
	assert.Contains(t, log, "do not process it again.")
	assert.NotContains(t, log, "Processed successfully")
}

func TestRunLogsSkippedRows(t *testing.T) {
	f := newFixture(t)
	f.write(t, "translate/A.INF", "026850 002", "bad,row", chedrauiRow("O1", "A1", "1", "1", "1"))

	report, err := f.router.Run()
	require.NoError(t, err)

	res := report.Files[0]
	assert.Equal(t, OutcomeTranslated, res.Outcome)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 2, res.Rejected[0].Row)
	assert.Contains(t, f.read(t, logPath), "Warning: A.INF - row 2")
}

func TestRunWritesEachEntryOnce(t *testing.T) {
	f := newFixture(t)
	f.write(t, "translate/A.INF", "026850 002", chedrauiRow("O1", "A1", "1", "1", "1"))
	f.write(t, "translate/B.INF", "026850 002")
	f.write(t, "translate/C.INF", "123", "x")

	report, err := f.router.Run()
	require.NoError(t, err)

	log := strings.TrimSuffix(f.read(t, logPath), "\n")
	assert.Len(t, strings.Split(log, "\n"), report.LogEntries)
	assert.Equal(t, 1, strings.Count(log, "Chedraui met: A.INF"))
}

func TestReportSummary(t *testing.T) {
	r := &Report{Files: []FileResult{
		{Outcome: OutcomeTranslated},
		{Outcome: OutcomeLocked},
		{Outcome: OutcomeLocked},
	}}

	assert.Equal(t, 2, r.Count(OutcomeLocked))
	assert.Equal(t, "3 files: translated=1 locked=2 malformed=0 unclassified=0 failed=0", r.Summary())
}
