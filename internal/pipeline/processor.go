package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/pdf-extractor/constants"
	"github.com/joseph-ayodele/pdf-extractor/internal/common"
	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
)

// FileOutcome is the per-file result of a pass.
type FileOutcome struct {
	Index       int                   `json:"index"`
	FileID      string                `json:"fileId"`
	FileName    string                `json:"fileName"`
	Status      constants.FileStatus  `json:"status"`
	Record      *entity.Record        `json:"record,omitempty"`
	Failure     constants.FailureKind `json:"failure,omitempty"`
	Error       string                `json:"error,omitempty"`
	RawResponse string                `json:"rawResponse,omitempty"`
	ElapsedMS   int64                 `json:"elapsedMs"`
}

// Progress is reported after every finished file, success or not.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

func newProgress(completed, total int) Progress {
	p := Progress{Completed: completed, Total: total}
	if total > 0 {
		p.Percent = completed * 100 / total
	}
	return p
}

// PassReport summarises one run over the queue.
type PassReport struct {
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Outcomes  []FileOutcome    `json:"outcomes"`
	Records   []*entity.Record `json:"-"`
	ElapsedMS int64            `json:"elapsedMs"`
}

// Hooks observe a pass while it runs. Either may be nil. OnOutcome is called in
// queue order; OnProgress is called as files finish.
type Hooks struct {
	OnProgress func(Progress)
	OnOutcome  func(FileOutcome)
}

// Processor runs the extraction stage over a list of files.
type Processor struct {
	Logger    *slog.Logger
	Extractor Extractor

	workers     int
	fileTimeout time.Duration
}

type Option func(*Processor)

// WithWorkers bounds how many files are extracted at once. One means strictly
// sequential.
func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithFileTimeout(d time.Duration) Option {
	return func(p *Processor) {
		if d > 0 {
			p.fileTimeout = d
		}
	}
}

func NewProcessor(logger *slog.Logger, extractor Extractor, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		Logger:    logger,
		Extractor: extractor,
		workers:   1,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Processor) Workers() int { return p.workers }

// Run extracts every file with cfg. A failing file never stops the pass;
// successful records come back in input order.
func (p *Processor) Run(ctx context.Context, files []entity.UploadedFile, cfg entity.ParserConfig, hooks Hooks) PassReport {
	start := time.Now()
	total := len(files)
	report := PassReport{Total: total, Outcomes: make([]FileOutcome, 0, total)}
	if total == 0 {
		return report
	}
	p.Logger.Info("pipeline.pass.start", "files", total, "schema_id", cfg.ID, "workers", p.workers)

	results := make(chan FileOutcome)
	jobs := make(chan int)

	workers := min(p.workers, total)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range jobs {
				results <- p.processOne(ctx, workerID, idx, files[idx], cfg)
			}
		}(w)
	}
	go func() {
		for i := range files {
			jobs <- i
		}
		close(jobs)
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	// Reorder buffer: outcomes are released to the caller in queue order.
	pending := map[int]FileOutcome{}
	next, completed := 0, 0
	for out := range results {
		completed++
		if hooks.OnProgress != nil {
			hooks.OnProgress(newProgress(completed, total))
		}
		pending[out.Index] = out
		for {
			o, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			report.Outcomes = append(report.Outcomes, o)
			if o.Status == constants.FileStatusOK {
				report.Succeeded++
				report.Records = append(report.Records, o.Record)
			} else {
				report.Failed++
			}
			if hooks.OnOutcome != nil {
				hooks.OnOutcome(o)
			}
		}
	}

	report.ElapsedMS = time.Since(start).Milliseconds()
	p.Logger.Info("pipeline.pass.done",
		"files", total,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"elapsed_ms", report.ElapsedMS,
	)
	return report
}

func (p *Processor) processOne(ctx context.Context, workerID, idx int, file entity.UploadedFile, cfg entity.ParserConfig) FileOutcome {
	start := time.Now()
	out := FileOutcome{Index: idx, FileID: file.ID, FileName: file.Name}

	fctx := common.WithLogger(ctx, p.Logger.With("file", file.Name, "worker_id", workerID))
	if p.fileTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(fctx, p.fileTimeout)
		defer cancel()
	}

	ext, err := p.Extractor.Extract(fctx, file, cfg)
	out.ElapsedMS = time.Since(start).Milliseconds()
	if err != nil {
		out.Status = constants.FileStatusFailed
		out.Failure, out.RawResponse = ClassifyFailure(err)
		out.Error = err.Error()
		p.Logger.Error("pipeline.file.failed", "file", file.Name, "failure", string(out.Failure), "error", err)
		return out
	}
	out.Status = constants.FileStatusOK
	out.Record = ext.Record
	p.Logger.Info("pipeline.file.ok", "file", file.Name, "record_id", ext.Record.ID, "elapsed_ms", out.ElapsedMS)
	return out
}
