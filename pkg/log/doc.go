// Package log provides the logging abstraction used across printwatch.
//
// Components log through the [Logger] interface with typed [Field] values.
// [ZerologAdapter] backs it with zerolog; [NoopLogger] discards everything
// and is what library users get unless they pass a logger.
//
// Errors can also be kept on disk: [NewErrorFile] returns a size-rotated
// writer that only receives error-level events, so an operator can inspect
// what stopped the watcher after the console is gone.
//
//	logger := log.New(log.Options{ErrorFile: "printwatch-errors.log"})
//	logger.Info("watching", log.Dir(dir))
package log
