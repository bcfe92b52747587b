// Package domain contains the core value objects and error kinds for printwatch.
//
// This package is the innermost layer. It has no dependencies on the file
// system, the print executable or logging, and contains only the rules that
// decide what counts as a new archive and how printed documents are named.
//
// # Values
//
//   - [Filter]: the archive naming convention ("Etiquetas - *.zip")
//   - [Snapshot]: a point-in-time directory listing used for snapshot diffs
//   - [ArchiveEvent]: a newly arrived archive, consumed immediately
//   - [PrintJob]: one document bound for one printer
//   - [DispatchResult]: the raw outcome of running the print executable
//   - [ProcessedRecord]: where a printed document ended up under archive retention
//
// # Errors
//
// Failures are classified by wrapping one of [ErrConfiguration], [ErrArchive],
// [ErrDispatch] or [ErrFileSystem]. Callers check them with errors.Is.
package domain
