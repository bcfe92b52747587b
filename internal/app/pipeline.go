package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bft-labs/printwatch/internal/domain"
	"github.com/bft-labs/printwatch/internal/ports"
)

// PipelineConfig contains the fixed inputs of the per-archive pipeline.
type PipelineConfig struct {
	Printer    string
	Executable string
	StagingDir string
}

// Pipeline unpacks one archive, prints its documents and applies the retention
// policy. Every step runs sequentially on the caller's goroutine.
type Pipeline struct {
	config     PipelineConfig
	unpacker   ports.Unpacker
	dispatcher ports.Dispatcher
	retention  ports.RetentionPolicy
	sink       ports.ProgressSink
	logger     ports.Logger

	pages  ports.PageCounter
	ledger ports.Ledger
	now    func() time.Time
}

// PipelineOption configures optional pipeline collaborators.
type PipelineOption func(*Pipeline)

// WithPageCounter adds page counts to the "sending to print" lines.
func WithPageCounter(pc ports.PageCounter) PipelineOption {
	return func(p *Pipeline) { p.pages = pc }
}

// WithLedger records every dispatched document.
func WithLedger(l ports.Ledger) PipelineOption {
	return func(p *Pipeline) { p.ledger = l }
}

// NewPipeline creates a pipeline with the given dependencies.
func NewPipeline(
	config PipelineConfig,
	unpacker ports.Unpacker,
	dispatcher ports.Dispatcher,
	retention ports.RetentionPolicy,
	sink ports.ProgressSink,
	logger ports.Logger,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		config:     config,
		unpacker:   unpacker,
		dispatcher: dispatcher,
		retention:  retention,
		sink:       sink,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle runs the whole pipeline for one archive. The first failing step
// aborts the rest, including Finish, and its error is returned unchanged.
func (p *Pipeline) Handle(ctx context.Context, ev domain.ArchiveEvent) error {
	staging := p.config.StagingDir

	if err := p.retention.Prepare(staging); err != nil {
		return err
	}

	files, err := p.unpacker.Unpack(ctx, ev.ArchivePath, staging)
	if err != nil {
		return err
	}
	p.sink.Report(fmt.Sprintf("Extracted %d files to: %s", len(files), staging))

	docs, err := p.unpacker.SelectDocuments(staging)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		p.sink.Report(fmt.Sprintf("No PDF documents found in %s", ev.Name()))
	}

	for _, doc := range docs {
		if err := p.print(ctx, ev, doc); err != nil {
			return err
		}
	}

	if err := p.retention.Finish(staging); err != nil {
		return err
	}
	p.sink.Report(fmt.Sprintf("Finished %s: %d documents sent (%s retention)", ev.Name(), len(docs), p.retention.Name()))

	p.logger.Info("archive processed",
		ports.ArchiveID(ev.ID),
		ports.Archive(ev.ArchivePath),
		ports.Int("documents", len(docs)),
		ports.String("retention", p.retention.Name()),
	)
	return nil
}

func (p *Pipeline) print(ctx context.Context, ev domain.ArchiveEvent, doc string) error {
	p.sink.Report(p.sendingLine(doc))

	job := domain.PrintJob{
		DocumentPath: doc,
		Printer:      p.config.Printer,
		Executable:   p.config.Executable,
	}
	result, err := p.dispatcher.Dispatch(ctx, job)
	if err != nil {
		return err
	}
	if !result.OK() {
		p.sink.Report(fmt.Sprintf("Print executable exited with status %d for %s", result.ExitCode, filepath.Base(doc)))
	}

	rec, err := p.retention.AfterDispatch(p.config.StagingDir, doc)
	if err != nil {
		return err
	}
	finalPath := ""
	if rec != nil {
		finalPath = rec.FinalPath
		p.sink.Report(fmt.Sprintf("Moved to processed as: %s", rec.FinalPath))
	}

	p.record(ctx, ev, job, result, finalPath)
	return nil
}

func (p *Pipeline) sendingLine(doc string) string {
	if p.pages == nil {
		return fmt.Sprintf("Sending to print: %s", doc)
	}
	n, err := p.pages.PageCount(doc)
	if err != nil {
		p.logger.Warn("page count failed", ports.Document(doc), ports.Err(err))
		return fmt.Sprintf("Sending to print: %s", doc)
	}
	return fmt.Sprintf("Sending to print: %s (%d pages)", doc, n)
}

func (p *Pipeline) record(ctx context.Context, ev domain.ArchiveEvent, job domain.PrintJob, result domain.DispatchResult, finalPath string) {
	if p.ledger == nil {
		return
	}
	err := p.ledger.Record(ctx, ports.LedgerEntry{
		ArchiveID:    ev.ID,
		ArchivePath:  ev.ArchivePath,
		Document:     filepath.Base(job.DocumentPath),
		Printer:      job.Printer,
		ExitCode:     result.ExitCode,
		Duration:     result.Duration,
		FinalPath:    finalPath,
		DispatchedAt: p.now(),
	})
	if err != nil {
		p.logger.Warn("history ledger write failed", ports.Document(job.DocumentPath), ports.Err(err))
	}
}
