package log

import "time"

// Logger is the structured logger printwatch writes through.
// The application layer only sees this interface; ZerologAdapter and
// NoopLogger are the two implementations.
type Logger interface {
	// Debug logs per-document detail: early polls, archived paths, wipes.
	Debug(msg string, fields ...Field)

	// Info logs watch start and stop and each processed archive.
	Info(msg string, fields ...Field)

	// Warn logs problems that do not stop printing, such as a non-zero exit
	// status or a history write that failed.
	Warn(msg string, fields ...Field)

	// Error logs failures that end an archive or the watch loop.
	// The rotating error file receives only this level.
	Error(msg string, fields ...Field)
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value interface{}
}

// Keys shared by every log line about the same archive or document, so one
// archive can be followed through the watcher, the pipeline and the adapters.
const (
	KeyArchiveID = "archive_id"
	KeyArchive   = "archive"
	KeyDocument  = "document"
	KeyPrinter   = "printer"
	KeyDir       = "dir"
)

// ArchiveID tags a line with the ID of the archive being processed.
func ArchiveID(id string) Field {
	return Field{Key: KeyArchiveID, Value: id}
}

// Archive tags a line with the archive path.
func Archive(path string) Field {
	return Field{Key: KeyArchive, Value: path}
}

// Document tags a line with a document path or name.
func Document(path string) Field {
	return Field{Key: KeyDocument, Value: path}
}

// Printer tags a line with the target printer.
func Printer(name string) Field {
	return Field{Key: KeyPrinter, Value: name}
}

// Dir tags a line with the watched directory.
func Dir(path string) Field {
	return Field{Key: KeyDir, Value: path}
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field with key "error".
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// Any is used for values with no dedicated constructor, such as the
// resolved configuration dumped at debug level.
func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
