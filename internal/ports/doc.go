// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// # Port Interfaces
//
//   - [Unpacker]: Extracts an archive into a staging directory
//   - [Dispatcher]: Runs the print executable for one document
//   - [RetentionPolicy]: Decides what happens to staging content after printing
//   - [ProgressSink]: Receives human-readable progress lines
//   - [Ledger]: Records dispatched documents (optional)
//   - [PageCounter]: Counts pages for progress lines (optional)
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with the zip
// reader, os/exec, the local file system, pdfcpu and sqlite.
package ports
