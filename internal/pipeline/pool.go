package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AnSingh1/DoorDetection/constants"
	"github.com/AnSingh1/DoorDetection/internal/common"
	"github.com/AnSingh1/DoorDetection/internal/entity"
	"github.com/AnSingh1/DoorDetection/internal/ingest"
	"github.com/AnSingh1/DoorDetection/internal/repository"
)

// DocumentOutcome is the per-document result of a batch run: either the
// ordered frame results or the document's own error. One document's failure
// never aborts its siblings.
type DocumentOutcome struct {
	Filename string
	Results  []entity.DetectionResult
	Err      error
}

// Pool executes the pipeline runs of a batch concurrently, bounded by a
// fixed worker count, with a per-document timeout.
type Pool struct {
	pipe    *Pipeline
	logger  *slog.Logger
	workers int
	timeout time.Duration
	journal *repository.Journal
}

type Option func(*Pool)

func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithDocumentTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithJournal records each document run in the job journal.
func WithJournal(j *repository.Journal) Option {
	return func(p *Pool) {
		p.journal = j
	}
}

func NewPool(pipe *Pipeline, logger *slog.Logger, opts ...Option) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pool{
		pipe:    pipe,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run processes all documents of one batch and returns outcomes in input
// order. The batch ID rides in the context so every stage logs it without
// threading it through signatures.
func (p *Pool) Run(ctx context.Context, batchID uuid.UUID, docs []ingest.SourceDocument) []DocumentOutcome {
	ctx = common.WithBatchID(ctx, batchID.String())
	outcomes := make([]DocumentOutcome, len(docs))

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := p.workers
	if workers > len(docs) {
		workers = len(docs)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range jobs {
				outcomes[idx] = p.runOne(ctx, batchID, docs[idx])
			}
		}(i + 1)
	}

	for idx := range docs {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

func (p *Pool) runOne(ctx context.Context, batchID uuid.UUID, doc ingest.SourceDocument) DocumentOutcome {
	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var jobID uuid.UUID
	if p.journal != nil {
		id, err := p.journal.Start(runCtx, batchID, doc.Filename)
		if err == nil {
			jobID = id
		}
	}

	results, err := p.pipe.ProcessDocument(runCtx, doc)

	if p.journal != nil && jobID != uuid.Nil {
		out := repository.Outcome{
			Status:   constants.JobStatusOK,
			Frames:   len(results),
			Boxes:    countBoxes(results),
			Duration: time.Since(start),
		}
		if err != nil {
			out.Status = constants.JobStatusFailed
			out.ErrorMessage = err.Error()
		}
		if ferr := p.journal.Finish(context.WithoutCancel(runCtx), jobID, out); ferr != nil {
			p.logger.Warn("journal finish failed", "job_id", jobID, "error", ferr)
		}
	}

	if err != nil {
		p.logger.Error("document failed",
			"request_id", common.RequestIDFromContext(runCtx),
			"batch_id", common.BatchIDFromContext(runCtx),
			"filename", doc.Filename,
			"error", err,
		)
		return DocumentOutcome{Filename: doc.Filename, Err: err}
	}

	p.logger.Info("document processed",
		"request_id", common.RequestIDFromContext(runCtx),
		"batch_id", common.BatchIDFromContext(runCtx),
		"filename", doc.Filename,
		"frames", len(results),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return DocumentOutcome{Filename: doc.Filename, Results: results}
}

func countBoxes(results []entity.DetectionResult) int {
	n := 0
	for _, r := range results {
		n += len(r.Boxes)
	}
	return n
}
