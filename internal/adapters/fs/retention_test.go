package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/printwatch/internal/domain"
	"github.com/bft-labs/printwatch/pkg/log"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewRetention(t *testing.T) {
	p, err := NewRetention("archive", log.NewNoopLogger())
	require.NoError(t, err)
	assert.Equal(t, RetentionArchive, p.Name())

	p, err = NewRetention("ephemeral", log.NewNoopLogger())
	require.NoError(t, err)
	assert.Equal(t, RetentionEphemeral, p.Name())

	_, err = NewRetention("shred", log.NewNoopLogger())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestArchiveRetention_RenamesWithTimestamp(t *testing.T) {
	staging := filepath.Join(t.TempDir(), "staging")
	at := time.Date(2024, 3, 1, 14, 5, 9, 0, time.Local)
	r := NewArchiveRetention(log.NewNoopLogger()).WithClock(fixedClock(at))

	require.NoError(t, r.Prepare(staging))
	assert.DirExists(t, filepath.Join(staging, ProcessedDirName))

	doc := filepath.Join(staging, "label.pdf")
	require.NoError(t, os.WriteFile(doc, []byte("label"), 0o644))

	rec, err := r.AfterDispatch(staging, doc)
	require.NoError(t, err)
	require.NotNil(t, rec)

	want := filepath.Join(staging, ProcessedDirName, "label_20240301_140509.pdf")
	assert.Equal(t, want, rec.FinalPath)
	assert.Equal(t, "label.pdf", rec.OriginalName)
	assert.Equal(t, at, rec.Timestamp)
	assert.FileExists(t, want)
	assert.NoFileExists(t, doc)

	require.NoError(t, r.Finish(staging))
	assert.DirExists(t, staging)
}

func TestArchiveRetention_SameSecondCollisionOverwrites(t *testing.T) {
	staging := filepath.Join(t.TempDir(), "staging")
	at := time.Date(2024, 3, 1, 14, 5, 9, 0, time.Local)
	r := NewArchiveRetention(log.NewNoopLogger()).WithClock(fixedClock(at))
	require.NoError(t, r.Prepare(staging))

	doc := filepath.Join(staging, "label.pdf")
	require.NoError(t, os.WriteFile(doc, []byte("first"), 0o644))
	first, err := r.AfterDispatch(staging, doc)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(doc, []byte("second"), 0o644))
	second, err := r.AfterDispatch(staging, doc)
	require.NoError(t, err)

	assert.Equal(t, first.FinalPath, second.FinalPath)
	data, err := os.ReadFile(second.FinalPath)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Join(staging, ProcessedDirName))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestArchiveRetention_RenameFailure(t *testing.T) {
	staging := filepath.Join(t.TempDir(), "staging")
	r := NewArchiveRetention(log.NewNoopLogger())
	require.NoError(t, r.Prepare(staging))

	_, err := r.AfterDispatch(staging, filepath.Join(staging, "missing.pdf"))
	assert.ErrorIs(t, err, domain.ErrFileSystem)
}

func TestPrepare_StagingNotCreatable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("file"), 0o644))
	staging := filepath.Join(blocker, "staging")

	tests := []struct {
		name   string
		policy interface{ Prepare(string) error }
	}{
		{"archive", NewArchiveRetention(log.NewNoopLogger())},
		{"ephemeral", NewEphemeralRetention(log.NewNoopLogger())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Prepare(staging)
			assert.ErrorIs(t, err, domain.ErrArchive)
			assert.NotErrorIs(t, err, domain.ErrFileSystem)
		})
	}
}

func TestEphemeralRetention_WipesBeforeAndAfter(t *testing.T) {
	staging := filepath.Join(t.TempDir(), "staging")
	require.NoError(t, os.MkdirAll(filepath.Join(staging, "old"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staging, "leftover.pdf"), []byte("x"), 0o644))

	r := NewEphemeralRetention(log.NewNoopLogger())
	require.NoError(t, r.Prepare(staging))

	entries, err := os.ReadDir(staging)
	require.NoError(t, err)
	assert.Empty(t, entries)

	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		doc := filepath.Join(staging, name)
		require.NoError(t, os.WriteFile(doc, []byte(name), 0o644))
		rec, err := r.AfterDispatch(staging, doc)
		require.NoError(t, err)
		assert.Nil(t, rec)
		assert.FileExists(t, doc)
	}

	require.NoError(t, r.Finish(staging))
	assert.NoDirExists(t, staging)
}

func TestEphemeralRetention_FinishOnMissingDir(t *testing.T) {
	r := NewEphemeralRetention(log.NewNoopLogger())
	assert.NoError(t, r.Finish(filepath.Join(t.TempDir(), "never-created")))
}
