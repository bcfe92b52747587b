package ports

// ProgressSink receives human-readable status lines from the watcher.
// Report must not block the caller.
type ProgressSink interface {
	Report(line string)
}

// PageCounter reports how many pages a document has.
type PageCounter interface {
	PageCount(path string) (int, error)
}
