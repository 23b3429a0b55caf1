package upload

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/pdf-extractor/constants"
	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
)

// RejectReason explains why a candidate never entered the queue.
type RejectReason string

const (
	RejectNotPDF    RejectReason = "not a PDF"
	RejectTooLarge  RejectReason = "exceeds 10MB limit"
	RejectDuplicate RejectReason = "duplicate file name"
)

// Candidate is a file offered to the queue.
type Candidate struct {
	Name     string
	MimeType string
	Data     []byte
}

type Rejection struct {
	Name   string       `json:"name"`
	Reason RejectReason `json:"reason"`
}

// AddReport is the outcome of one Add call.
type AddReport struct {
	Added    []entity.UploadedFile `json:"added"`
	Rejected []Rejection           `json:"rejected"`
	Warnings []string              `json:"warnings,omitempty"`
}

// Duplicates lists names rejected because they were already queued or
// repeated within the batch.
func (r AddReport) Duplicates() []string {
	var out []string
	for _, rej := range r.Rejected {
		if rej.Reason == RejectDuplicate {
			out = append(out, rej.Name)
		}
	}
	return out
}

// Queue is the ordered list of documents waiting for a processing pass.
// Admission checks run locally; nothing here touches the network.
type Queue struct {
	mu      sync.Mutex
	items   []entity.UploadedFile
	logger  *slog.Logger
	inspect func([]byte) (int, error)
	now     func() time.Time
}

func NewQueue(logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{logger: logger, inspect: InspectPDF, now: time.Now}
}

// Add filters candidates to PDFs within the size ceiling whose names are not
// already queued, and enqueues the rest in order.
func (q *Queue) Add(candidates []Candidate) AddReport {
	q.mu.Lock()
	defer q.mu.Unlock()

	report := AddReport{Added: []entity.UploadedFile{}, Rejected: []Rejection{}}
	names := make(map[string]struct{}, len(q.items)+len(candidates))
	for _, it := range q.items {
		names[it.Name] = struct{}{}
	}

	for _, c := range candidates {
		size := int64(len(c.Data))
		switch {
		case !constants.IsPDFMime(c.MimeType):
			report.Rejected = append(report.Rejected, Rejection{Name: c.Name, Reason: RejectNotPDF})
			continue
		case size > constants.MaxUploadBytes:
			report.Rejected = append(report.Rejected, Rejection{Name: c.Name, Reason: RejectTooLarge})
			continue
		}
		if _, dup := names[c.Name]; dup {
			report.Rejected = append(report.Rejected, Rejection{Name: c.Name, Reason: RejectDuplicate})
			continue
		}
		names[c.Name] = struct{}{}

		file := entity.UploadedFile{
			ID:       uuid.New().String(),
			Name:     c.Name,
			MimeType: c.MimeType,
			Size:     size,
			Status:   constants.FileStatusQueued,
			AddedAt:  q.now().UTC(),
			Data:     c.Data,
		}
		if pages, err := q.inspect(c.Data); err != nil {
			report.Warnings = append(report.Warnings, c.Name+": "+err.Error())
		} else {
			file.Pages = pages
		}
		q.items = append(q.items, file)
		report.Added = append(report.Added, file)
	}

	q.logger.Info("upload.queue.add",
		"added", len(report.Added),
		"rejected", len(report.Rejected),
		"queued", len(q.items),
	)
	return report
}

// Remove drops one queued file; false when the id is unknown.
func (q *Queue) Remove(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	before := len(q.items)
	q.items = slices.DeleteFunc(q.items, func(f entity.UploadedFile) bool { return f.ID == id })
	return len(q.items) != before
}

func (q *Queue) Clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
}

// List returns a snapshot in queue order.
func (q *Queue) List() []entity.UploadedFile {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.items)
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// SetStatus updates the lifecycle state of a queued file.
func (q *Queue) SetStatus(id string, status constants.FileStatus) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.items {
		if q.items[i].ID == id {
			q.items[i].Status = status
			return true
		}
	}
	return false
}
