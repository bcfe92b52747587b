// Package printwatch provides an embeddable watcher that prints the documents
// inside label archives as soon as they land in a directory.
//
// A [Service] polls a directory for files matching "Etiquetas - *.zip". Each
// new archive is unpacked into a staging directory, every top-level PDF is
// handed to a print-capable executable, and the staging directory is then
// treated according to the retention policy. Files already present when the
// service starts are never printed.
//
// # Basic Usage
//
//	svc, err := printwatch.New(printwatch.Config{
//	    WatchDir:   "/home/op/Downloads",
//	    Printer:    "Zebra ZD420",
//	    Executable: "/opt/reader/acro",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := svc.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	for line := range svc.Feed().Lines() {
//	    fmt.Println(line)
//	}
//	if err := svc.Wait(); err != nil {
//	    log.Printf("monitoring stopped: %v", err)
//	}
//
// # Failures
//
// By default the first failing archive stops monitoring: [Service.Wait]
// returns the error and the state becomes [StateFailed]. Set
// Config.IsolateFailures to report the failure and keep watching instead.
// Errors are classified with errors.Is against [ErrConfiguration],
// [ErrArchive], [ErrDispatch] and [ErrFileSystem].
//
// # Retention
//
// [RetentionArchive] moves every printed document into staging/processed with
// a YYYYMMDD_HHMMSS suffix and never deletes anything. [RetentionEphemeral]
// wipes the staging directory before each extraction and after each batch.
//
// # Lifecycle States
//
//	Stopped -> Starting -> Watching -> Stopping -> Stopped
//	                   \-> Failed (monitoring error or shutdown timeout)
package printwatch
