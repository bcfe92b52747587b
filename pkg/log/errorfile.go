package log

import (
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Error file rotation defaults.
const (
	DefaultErrorFileMaxSizeMB  = 10
	DefaultErrorFileMaxBackups = 3
)

// NewErrorFile returns a size-rotated writer for path.
// Zero limits fall back to the defaults above.
func NewErrorFile(path string, maxSizeMB, maxBackups int) io.Writer {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultErrorFileMaxSizeMB
	}
	if maxBackups <= 0 {
		maxBackups = DefaultErrorFileMaxBackups
	}
	// lumberjack creates the file lazily; make sure the directory exists so the
	// first error is not lost.
	_ = os.MkdirAll(filepath.Dir(path), 0o755)

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		LocalTime:  true,
	}
}
