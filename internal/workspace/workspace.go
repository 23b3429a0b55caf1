package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/joseph-ayodele/pdf-extractor/constants"
	"github.com/joseph-ayodele/pdf-extractor/internal/common"
	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
	"github.com/joseph-ayodele/pdf-extractor/internal/export"
	"github.com/joseph-ayodele/pdf-extractor/internal/pipeline"
	"github.com/joseph-ayodele/pdf-extractor/internal/results"
	"github.com/joseph-ayodele/pdf-extractor/internal/schema"
	"github.com/joseph-ayodele/pdf-extractor/internal/upload"
)

// State is what a client polls while a pass runs.
type State struct {
	Running    bool                 `json:"running"`
	SchemaID   string               `json:"schemaId,omitempty"`
	Progress   pipeline.Progress    `json:"progress"`
	LastReport *pipeline.PassReport `json:"lastReport,omitempty"`
}

// Workspace is the single-user session: schemas, the upload queue, the result
// list and at most one running pass.
type Workspace struct {
	Schemas   *schema.Service
	Queue     *upload.Queue
	Results   *results.Store
	Renderer  *results.Renderer
	Exporter  *export.Service
	Processor *pipeline.Processor

	logger *slog.Logger
	notes  *notifier

	mu         sync.Mutex
	selectedID string
	running    bool
	schemaID   string
	progress   pipeline.Progress
	lastReport *pipeline.PassReport
	wg         sync.WaitGroup
}

// New wires a workspace. The resume schema is selected initially.
func New(
	schemas *schema.Service,
	queue *upload.Queue,
	store *results.Store,
	renderer *results.Renderer,
	exporter *export.Service,
	proc *pipeline.Processor,
	logger *slog.Logger,
) *Workspace {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workspace{
		Schemas:    schemas,
		Queue:      queue,
		Results:    store,
		Renderer:   renderer,
		Exporter:   exporter,
		Processor:  proc,
		logger:     logger,
		notes:      &notifier{now: time.Now},
		selectedID: schema.ResumeID,
	}
}

// Select makes id the schema used by the next pass.
func (w *Workspace) Select(id string) (entity.ParserConfig, error) {
	cfg, err := w.Schemas.Get(id)
	if err != nil {
		return entity.ParserConfig{}, err
	}
	w.mu.Lock()
	w.selectedID = id
	w.mu.Unlock()
	w.logger.Info("workspace.schema.selected", "schema_id", id)
	return cfg, nil
}

// Selected returns the selected schema, falling back to the resume built-in
// when the selection was deleted.
func (w *Workspace) Selected() entity.ParserConfig {
	w.mu.Lock()
	id := w.selectedID
	w.mu.Unlock()

	cfg, err := w.Schemas.Get(id)
	if err != nil {
		cfg, _ = w.Schemas.Get(schema.ResumeID)
		w.mu.Lock()
		w.selectedID = schema.ResumeID
		w.mu.Unlock()
	}
	return cfg
}

// AddFiles admits candidates to the queue and queues notifications for the
// client.
func (w *Workspace) AddFiles(candidates []upload.Candidate) upload.AddReport {
	report := w.Queue.Add(candidates)

	var wrongType, tooLarge []string
	for _, rej := range report.Rejected {
		switch rej.Reason {
		case upload.RejectNotPDF:
			wrongType = append(wrongType, rej.Name)
		case upload.RejectTooLarge:
			tooLarge = append(tooLarge, rej.Name)
		}
	}
	if len(wrongType) > 0 {
		w.notes.push(LevelError, "Wrong file type", "Please upload PDF files: "+strings.Join(wrongType, ", "))
	}
	if len(tooLarge) > 0 {
		w.notes.push(LevelError, "File too large", "These files exceed the 10MB limit: "+strings.Join(tooLarge, ", "))
	}
	if dups := report.Duplicates(); len(dups) > 0 {
		w.notes.push(LevelInfo, "Already queued", strings.Join(dups, ", "))
	}
	if n := len(report.Added); n > 0 {
		w.notes.push(LevelSuccess, "Files added", fmt.Sprintf("Added %d file(s)", n))
	}
	return report
}

// StartPass runs the queued files through the selected schema in the
// background. It fails with ErrConflict when the queue is empty or a pass is
// already running. The pass is detached from ctx and always runs to the end.
func (w *Workspace) StartPass(ctx context.Context) (State, error) {
	cfg := w.Selected()

	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return State{}, common.NewAppError("PASS_RUNNING", "a processing pass is already running", common.ErrConflict)
	}
	files := w.Queue.List()
	if len(files) == 0 {
		w.mu.Unlock()
		w.notes.push(LevelError, "No files", "Upload PDF files first")
		return State{}, common.NewAppError("QUEUE_EMPTY", "no files queued", common.ErrConflict)
	}
	w.running = true
	w.schemaID = cfg.ID
	w.progress = pipeline.Progress{Total: len(files)}
	state := w.stateLocked()
	w.mu.Unlock()

	w.logger.Info("workspace.pass.start", "files", len(files), "schema_id", cfg.ID)

	passCtx := context.WithoutCancel(ctx)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.runPass(passCtx, files, cfg)
	}()
	return state, nil
}

func (w *Workspace) runPass(ctx context.Context, files []entity.UploadedFile, cfg entity.ParserConfig) {
	for _, f := range files {
		w.Queue.SetStatus(f.ID, constants.FileStatusRunning)
	}

	report := w.Processor.Run(ctx, files, cfg, pipeline.Hooks{
		OnProgress: func(p pipeline.Progress) {
			w.mu.Lock()
			w.progress = p
			w.mu.Unlock()
		},
		OnOutcome: func(o pipeline.FileOutcome) {
			w.Queue.SetStatus(o.FileID, o.Status)
			if o.Status == constants.FileStatusOK {
				w.Results.Append(o.Record)
				w.notes.push(LevelSuccess, "Processed", "Finished extracting: "+o.FileName)
				return
			}
			w.notes.push(LevelError, "Processing failed", fmt.Sprintf("%s: %s: %s", o.FileName, o.Failure, o.Error))
		},
	})

	// Files uploaded while the pass ran stay queued for the next one.
	for _, f := range files {
		w.Queue.Remove(f.ID)
	}

	w.mu.Lock()
	w.running = false
	w.progress = pipeline.Progress{}
	w.lastReport = &report
	w.mu.Unlock()

	w.logger.Info("workspace.pass.done",
		"schema_id", cfg.ID,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"elapsed_ms", report.ElapsedMS,
	)
}

// Wait blocks until a running pass finishes or ctx ends.
func (w *Workspace) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Workspace) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

func (w *Workspace) stateLocked() State {
	s := State{Running: w.running, Progress: w.progress, LastReport: w.lastReport}
	if w.running {
		s.SchemaID = w.schemaID
	}
	return s
}

func (w *Workspace) Notifications() []Notification {
	return w.notes.drain()
}

// Lookup resolves a schema id for rendering and import.
func (w *Workspace) Lookup(id string) (entity.ParserConfig, bool) {
	cfg, err := w.Schemas.Get(id)
	return cfg, err == nil
}

// Table renders the current result list.
func (w *Workspace) Table() results.Table {
	return w.Renderer.Build(w.Results.List(), w.Lookup)
}

// FieldText returns the copy text of one field of one result.
func (w *Workspace) FieldText(recordID, key string) (string, error) {
	rec, ok := w.Results.Get(recordID)
	if !ok {
		return "", common.NewAppError("NOT_FOUND", "result "+recordID+" not found", common.ErrNotFound)
	}
	text, ok := w.Renderer.FieldText(rec, key)
	if !ok {
		return "", common.NewAppError("NOT_FOUND", fmt.Sprintf("result %s has no field %q", recordID, key), common.ErrNotFound)
	}
	return text, nil
}

func (w *Workspace) ClearResults() int {
	n := w.Results.Clear()
	w.logger.Info("workspace.results.cleared", "count", n)
	return n
}

// Export serializes every current result. export.ErrNothingToExport is
// returned for an empty list.
func (w *Workspace) Export(f export.Format) (export.Artifact, error) {
	return w.Exporter.Export(f, w.Results.List())
}
