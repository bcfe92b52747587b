package domain

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Match(t *testing.T) {
	f := DefaultFilter()

	tests := []struct {
		name string
		want bool
	}{
		{"Etiquetas - 2024-03-01.zip", true},
		{"Etiquetas - .zip", true},
		{"etiquetas - 2024.zip", false},
		{"Etiquetas - 2024.ZIP", false},
		{"Etiquetas-2024.zip", false},
		{"Etiquetas - 2024.zip.part", false},
		{"Otros - 2024.zip", false},
		{"Etiquetas - 2024.pdf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Match(tt.name))
		})
	}
}

func TestSnapshot_NewArrivals(t *testing.T) {
	baseline := NewSnapshot([]string{
		"Etiquetas - old.zip",
		"notes.txt",
	})
	current := NewSnapshot([]string{
		"Etiquetas - old.zip",
		"notes.txt",
		"Etiquetas - b.zip",
		"Etiquetas - a.zip",
		"report.zip",
		"Etiquetas - c.zip.crdownload",
	})

	got := current.NewArrivals(baseline, DefaultFilter())

	assert.ElementsMatch(t, []string{"Etiquetas - a.zip", "Etiquetas - b.zip"}, got)
	assert.NotContains(t, got, "Etiquetas - old.zip")
}

func TestSnapshot_Diff_IgnoresRemovals(t *testing.T) {
	baseline := NewSnapshot([]string{"a", "b"})
	current := NewSnapshot([]string{"b", "c"})

	assert.Equal(t, []string{"c"}, current.Diff(baseline))
	assert.Empty(t, baseline.Diff(baseline))
}

func TestSnapshot_EmptyBaseline(t *testing.T) {
	current := NewSnapshot([]string{"Etiquetas - x.zip"})

	assert.Equal(t, []string{"Etiquetas - x.zip"}, current.NewArrivals(nil, DefaultFilter()))
	assert.Equal(t, 1, current.Len())
}

func TestNewArchiveEvent(t *testing.T) {
	at := time.Date(2024, 3, 1, 14, 5, 9, 0, time.UTC)
	e1 := NewArchiveEvent("/downloads", "Etiquetas - 1.zip", at)
	e2 := NewArchiveEvent("/downloads", "Etiquetas - 1.zip", at)

	assert.Equal(t, filepath.Join("/downloads", "Etiquetas - 1.zip"), e1.ArchivePath)
	assert.Equal(t, "Etiquetas - 1.zip", e1.Name())
	assert.Equal(t, at, e1.DetectedAt)
	assert.NotEmpty(t, e1.ID)
	assert.NotEqual(t, e1.ID, e2.ID)
}

func TestProcessedName(t *testing.T) {
	at := time.Date(2024, 3, 1, 14, 5, 9, 0, time.Local)

	assert.Equal(t, "label_20240301_140509.pdf", ProcessedName("label.pdf", at))
	assert.Equal(t, "label.v2_20240301_140509.pdf", ProcessedName("label.v2.pdf", at))
	assert.Equal(t, "README_20240301_140509", ProcessedName("README", at))

	// Same name within the same second collides.
	assert.Equal(t, ProcessedName("label.pdf", at), ProcessedName("label.pdf", at.Add(500*time.Millisecond)))
}

func TestWrapAndKind(t *testing.T) {
	cause := fs.ErrPermission
	err := Wrap(ErrFileSystem, "list /downloads", cause)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileSystem)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Equal(t, ErrFileSystem, Kind(err))
	assert.Contains(t, err.Error(), "list /downloads")

	assert.NoError(t, Wrap(ErrArchive, "noop", nil))
	assert.Nil(t, Kind(errors.New("plain")))
}
