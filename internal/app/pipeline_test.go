package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/printwatch/internal/adapters/archive"
	"github.com/bft-labs/printwatch/internal/adapters/fs"
	"github.com/bft-labs/printwatch/internal/domain"
	"github.com/bft-labs/printwatch/internal/ports"
)

// fakeDispatcher records jobs instead of running an executable.
type fakeDispatcher struct {
	mu       sync.Mutex
	jobs     []domain.PrintJob
	exitCode int
	err      error
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, job domain.PrintJob) (domain.DispatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	if f.err != nil {
		return domain.DispatchResult{ExitCode: -1}, f.err
	}
	return domain.DispatchResult{ExitCode: f.exitCode, Duration: time.Millisecond}, nil
}

func (f *fakeDispatcher) Documents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, j := range f.jobs {
		out = append(out, filepath.Base(j.DocumentPath))
	}
	return out
}

type fakeLedger struct {
	entries []ports.LedgerEntry
	err     error
}

func (f *fakeLedger) Record(ctx context.Context, e ports.LedgerEntry) error {
	f.entries = append(f.entries, e)
	return f.err
}

func (f *fakeLedger) Recent(ctx context.Context, limit int) ([]ports.LedgerEntry, error) {
	return f.entries, nil
}

type fakePages map[string]int

func (f fakePages) PageCount(path string) (int, error) {
	n, ok := f[filepath.Base(path)]
	if !ok {
		return 0, errors.New("not a pdf")
	}
	return n, nil
}

var testTime = time.Date(2024, 3, 1, 14, 5, 9, 0, time.Local)

func newTestPipeline(t *testing.T, retention ports.RetentionPolicy, d ports.Dispatcher, sink ports.ProgressSink, opts ...PipelineOption) (*Pipeline, string) {
	t.Helper()
	staging := filepath.Join(t.TempDir(), "temp_etiquetas")
	p := NewPipeline(PipelineConfig{
		Printer:    "Zebra",
		Executable: "/opt/reader/acro",
		StagingDir: staging,
	}, archive.NewUnpacker(mockLogger{}), d, retention, sink, mockLogger{}, opts...)
	return p, staging
}

func TestPipeline_ArchiveRetention(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "Etiquetas - 1.zip")
	writeZip(t, zipPath, map[string]string{
		"label.pdf":   "%PDF-label",
		"invoice.pdf": "%PDF-invoice",
		"readme.txt":  "hello",
	})

	d := &fakeDispatcher{}
	sink := &recordingSink{}
	ledger := &fakeLedger{}
	retention := fs.NewArchiveRetention(mockLogger{}).WithClock(func() time.Time { return testTime })
	p, staging := newTestPipeline(t, retention, d, sink, WithLedger(ledger))

	err := p.Handle(context.Background(), domain.NewArchiveEvent(dir, "Etiquetas - 1.zip", testTime))
	require.NoError(t, err)

	assert.Equal(t, []string{"invoice.pdf", "label.pdf"}, d.Documents())
	for _, j := range d.jobs {
		assert.Equal(t, "Zebra", j.Printer)
		assert.Equal(t, "/opt/reader/acro", j.Executable)
	}

	processed := filepath.Join(staging, fs.ProcessedDirName)
	assert.FileExists(t, filepath.Join(processed, "label_20240301_140509.pdf"))
	assert.FileExists(t, filepath.Join(processed, "invoice_20240301_140509.pdf"))
	assert.NoFileExists(t, filepath.Join(staging, "label.pdf"))
	assert.FileExists(t, filepath.Join(staging, "readme.txt"))
	assert.FileExists(t, zipPath)

	assert.Equal(t, 1, sink.Count("Extracted 3 files to: "))
	assert.Equal(t, 2, sink.Count("Sending to print: "))
	assert.Equal(t, 2, sink.Count("Moved to processed as: "))

	require.Len(t, ledger.entries, 2)
	assert.Equal(t, "invoice.pdf", ledger.entries[0].Document)
	assert.Equal(t, filepath.Join(processed, "invoice_20240301_140509.pdf"), ledger.entries[0].FinalPath)
	assert.NotEmpty(t, ledger.entries[0].ArchiveID)
}

func TestPipeline_EphemeralRetention(t *testing.T) {
	dir := t.TempDir()
	writeZip(t, filepath.Join(dir, "Etiquetas - 2.zip"), map[string]string{
		"a.pdf": "%PDF-a",
	})

	d := &fakeDispatcher{}
	sink := &recordingSink{}
	p, staging := newTestPipeline(t, fs.NewEphemeralRetention(mockLogger{}), d, sink)

	// Leftovers from an earlier run are wiped before extraction.
	require.NoError(t, os.MkdirAll(staging, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staging, "stale.pdf"), []byte("x"), 0o644))

	err := p.Handle(context.Background(), domain.NewArchiveEvent(dir, "Etiquetas - 2.zip", testTime))
	require.NoError(t, err)

	assert.Equal(t, []string{"a.pdf"}, d.Documents())
	assert.NoDirExists(t, staging)
	assert.Zero(t, sink.Count("Moved to processed as: "))
	assert.Equal(t, 1, sink.Count("Finished Etiquetas - 2.zip: 1 documents sent (ephemeral retention)"))
}

func TestPipeline_NoDocuments(t *testing.T) {
	dir := t.TempDir()
	writeZip(t, filepath.Join(dir, "Etiquetas - 3.zip"), map[string]string{
		"notes.txt":      "x",
		"deep/inner.pdf": "%PDF",
	})

	d := &fakeDispatcher{}
	sink := &recordingSink{}
	p, _ := newTestPipeline(t, fs.NewArchiveRetention(mockLogger{}), d, sink)

	err := p.Handle(context.Background(), domain.NewArchiveEvent(dir, "Etiquetas - 3.zip", testTime))
	require.NoError(t, err)
	assert.Empty(t, d.Documents())
	assert.Equal(t, 1, sink.Count("No PDF documents found in Etiquetas - 3.zip"))
}

func TestPipeline_CorruptArchive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Etiquetas - bad.zip"), []byte("not a zip"), 0o644))

	d := &fakeDispatcher{}
	p, _ := newTestPipeline(t, fs.NewArchiveRetention(mockLogger{}), d, &recordingSink{})

	err := p.Handle(context.Background(), domain.NewArchiveEvent(dir, "Etiquetas - bad.zip", testTime))
	assert.ErrorIs(t, err, domain.ErrArchive)
	assert.Empty(t, d.Documents())
}

func TestPipeline_StagingNotCreatable(t *testing.T) {
	dir := t.TempDir()
	writeZip(t, filepath.Join(dir, "Etiquetas - 4.zip"), map[string]string{"a.pdf": "%PDF-a"})
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("file"), 0o644))

	tests := []struct {
		name      string
		retention ports.RetentionPolicy
	}{
		{"archive", fs.NewArchiveRetention(mockLogger{})},
		{"ephemeral", fs.NewEphemeralRetention(mockLogger{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDispatcher{}
			p := NewPipeline(PipelineConfig{
				Printer:    "Zebra",
				Executable: "/opt/reader/acro",
				StagingDir: filepath.Join(blocker, "staging"),
			}, archive.NewUnpacker(mockLogger{}), d, tt.retention, &recordingSink{}, mockLogger{})

			err := p.Handle(context.Background(), domain.NewArchiveEvent(dir, "Etiquetas - 4.zip", testTime))
			assert.ErrorIs(t, err, domain.ErrArchive)
			assert.Empty(t, d.Documents())
		})
	}
}

func TestPipeline_DispatchFailureAbortsBatch(t *testing.T) {
	dir := t.TempDir()
	writeZip(t, filepath.Join(dir, "Etiquetas - 4.zip"), map[string]string{
		"a.pdf": "%PDF-a",
		"b.pdf": "%PDF-b",
	})

	d := &fakeDispatcher{err: domain.Wrap(domain.ErrDispatch, "launch", os.ErrNotExist)}
	p, staging := newTestPipeline(t, fs.NewEphemeralRetention(mockLogger{}), d, &recordingSink{})

	err := p.Handle(context.Background(), domain.NewArchiveEvent(dir, "Etiquetas - 4.zip", testTime))
	assert.ErrorIs(t, err, domain.ErrDispatch)
	assert.Equal(t, []string{"a.pdf"}, d.Documents())

	// Finish did not run, so the staging contents are still there.
	assert.FileExists(t, filepath.Join(staging, "b.pdf"))
}

func TestPipeline_NonZeroExitContinues(t *testing.T) {
	dir := t.TempDir()
	writeZip(t, filepath.Join(dir, "Etiquetas - 5.zip"), map[string]string{
		"a.pdf": "%PDF-a",
		"b.pdf": "%PDF-b",
	})

	d := &fakeDispatcher{exitCode: 1}
	sink := &recordingSink{}
	ledger := &fakeLedger{err: errors.New("disk full")}
	p, _ := newTestPipeline(t, fs.NewArchiveRetention(mockLogger{}), d, sink, WithLedger(ledger))

	err := p.Handle(context.Background(), domain.NewArchiveEvent(dir, "Etiquetas - 5.zip", testTime))
	require.NoError(t, err)
	assert.Len(t, d.Documents(), 2)
	assert.Equal(t, 2, sink.Count("Print executable exited with status 1"))
	assert.Len(t, ledger.entries, 2)
	assert.Equal(t, 1, ledger.entries[0].ExitCode)
}

func TestPipeline_PageCounts(t *testing.T) {
	dir := t.TempDir()
	writeZip(t, filepath.Join(dir, "Etiquetas - 6.zip"), map[string]string{
		"a.pdf": "%PDF-a",
		"b.pdf": "%PDF-b",
	})

	sink := &recordingSink{}
	p, staging := newTestPipeline(t, fs.NewEphemeralRetention(mockLogger{}), &fakeDispatcher{}, sink,
		WithPageCounter(fakePages{"a.pdf": 3}))

	err := p.Handle(context.Background(), domain.NewArchiveEvent(dir, "Etiquetas - 6.zip", testTime))
	require.NoError(t, err)

	assert.Contains(t, sink.Lines(), "Sending to print: "+filepath.Join(staging, "a.pdf")+" (3 pages)")
	assert.Contains(t, sink.Lines(), "Sending to print: "+filepath.Join(staging, "b.pdf"))
}
