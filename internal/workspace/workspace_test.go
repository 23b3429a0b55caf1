package workspace

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/pdf-extractor/constants"
	"github.com/joseph-ayodele/pdf-extractor/internal/common"
	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
	"github.com/joseph-ayodele/pdf-extractor/internal/export"
	"github.com/joseph-ayodele/pdf-extractor/internal/llm"
	"github.com/joseph-ayodele/pdf-extractor/internal/pipeline"
	"github.com/joseph-ayodele/pdf-extractor/internal/results"
	"github.com/joseph-ayodele/pdf-extractor/internal/schema"
	"github.com/joseph-ayodele/pdf-extractor/internal/upload"
)

func newTestWorkspace(gen llm.Generator) *Workspace {
	proc := pipeline.NewProcessor(nil, pipeline.NewExtractStage(gen, false, nil))
	return New(
		schema.NewService(nil),
		upload.NewQueue(nil),
		results.NewStore(),
		results.NewRenderer("zh-CN"),
		export.NewService(common.ExportConfig{}, nil),
		proc,
		nil,
	)
}

// resumeGenerator answers with a resume object, failing for "b.pdf".
func resumeGenerator() llm.Generator {
	return llm.GeneratorFunc(func(_ context.Context, req llm.GenerateRequest) (string, error) {
		if req.Document.Name == "b.pdf" {
			return "", fmt.Errorf("service unavailable: %w", common.ErrUpstream)
		}
		return fmt.Sprintf(`{"name":%q,"education":["MIT"],"companies":[]}`, req.Document.Name), nil
	})
}

func candidates(names ...string) []upload.Candidate {
	out := make([]upload.Candidate, len(names))
	for i, n := range names {
		out[i] = upload.Candidate{Name: n, MimeType: constants.MimePDF, Data: []byte("%PDF-1.4")}
	}
	return out
}

func waitPass(t *testing.T, w *Workspace) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, w.Wait(ctx))
}

func TestStartPass_EmptyQueue(t *testing.T) {
	w := newTestWorkspace(resumeGenerator())
	_, err := w.StartPass(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConflict))
	assert.Equal(t, "QUEUE_EMPTY", common.ErrorCode(err))
}

func TestStartPass_ProcessesQueue(t *testing.T) {
	w := newTestWorkspace(resumeGenerator())
	report := w.AddFiles(candidates("a.pdf", "b.pdf", "c.pdf"))
	require.Len(t, report.Added, 3)

	ctx, cancel := context.WithCancel(context.Background())
	state, err := w.StartPass(ctx)
	require.NoError(t, err)
	assert.True(t, state.Running)
	assert.Equal(t, schema.ResumeID, state.SchemaID)
	assert.Equal(t, 3, state.Progress.Total)
	cancel() // a pass is detached from the request that started it

	waitPass(t, w)

	final := w.State()
	assert.False(t, final.Running)
	assert.Equal(t, pipeline.Progress{}, final.Progress)
	require.NotNil(t, final.LastReport)
	assert.Equal(t, 2, final.LastReport.Succeeded)
	assert.Equal(t, 1, final.LastReport.Failed)

	assert.Zero(t, w.Queue.Len())
	recs := w.Results.List()
	require.Len(t, recs, 2)
	assert.Equal(t, "a.pdf", recs[0].FileName)
	assert.Equal(t, "c.pdf", recs[1].FileName)
	assert.Equal(t, schema.ResumeID, recs[0].SchemaID)

	notes := w.Notifications()
	var titles []string
	for _, n := range notes {
		titles = append(titles, n.Title)
	}
	assert.Equal(t, []string{"Files added", "Processed", "Processing failed", "Processed"}, titles)
	failure := notes[2].Message
	assert.Contains(t, failure, "b.pdf")
	assert.Contains(t, failure, string(constants.FailureUpstream))
	assert.Contains(t, failure, "service unavailable")
	assert.Empty(t, w.Notifications(), "notifications drain")
}

func TestStartPass_RejectsSecondPass(t *testing.T) {
	release := make(chan struct{})
	gen := llm.GeneratorFunc(func(context.Context, llm.GenerateRequest) (string, error) {
		<-release
		return `{"name":"x"}`, nil
	})
	w := newTestWorkspace(gen)
	w.AddFiles(candidates("a.pdf"))

	_, err := w.StartPass(context.Background())
	require.NoError(t, err)

	w.AddFiles(candidates("late.pdf"))
	_, err = w.StartPass(context.Background())
	require.Error(t, err)
	assert.Equal(t, "PASS_RUNNING", common.ErrorCode(err))

	close(release)
	waitPass(t, w)

	queued := w.Queue.List()
	require.Len(t, queued, 1)
	assert.Equal(t, "late.pdf", queued[0].Name)
}

func TestAddFiles_Notifications(t *testing.T) {
	w := newTestWorkspace(resumeGenerator())
	w.AddFiles([]upload.Candidate{
		{Name: "photo.png", MimeType: "image/png", Data: []byte{1}},
		{Name: "big.pdf", MimeType: constants.MimePDF, Data: make([]byte, constants.MaxUploadBytes+1)},
	})

	notes := w.Notifications()
	require.Len(t, notes, 2)
	assert.Equal(t, LevelError, notes[0].Level)
	assert.Contains(t, notes[0].Message, "photo.png")
	assert.Contains(t, notes[1].Message, "big.pdf")
}

func TestSelect(t *testing.T) {
	w := newTestWorkspace(resumeGenerator())
	assert.Equal(t, schema.ResumeID, w.Selected().ID)

	_, err := w.Select("nope")
	assert.True(t, errors.Is(err, common.ErrNotFound))

	custom, err := w.Schemas.Create("Contracts", []entity.Field{{Key: "party", Type: constants.FieldText}})
	require.NoError(t, err)
	_, err = w.Select(custom.ID)
	require.NoError(t, err)
	assert.Equal(t, custom.ID, w.Selected().ID)

	require.NoError(t, w.Schemas.Delete(custom.ID))
	assert.Equal(t, schema.ResumeID, w.Selected().ID)
}

func TestResultsAndExport(t *testing.T) {
	w := newTestWorkspace(resumeGenerator())

	_, err := w.Export(export.FormatJSON)
	assert.ErrorIs(t, err, export.ErrNothingToExport)

	w.AddFiles(candidates("a.pdf"))
	_, err = w.StartPass(context.Background())
	require.NoError(t, err)
	waitPass(t, w)

	table := w.Table()
	require.Len(t, table.Groups, 1)
	assert.Equal(t, "a.pdf", table.Groups[0].Rows[0].Cells["name"])
	assert.Equal(t, "MIT", table.Groups[0].Rows[0].Cells["education"])

	rec := w.Results.List()[0]
	text, err := w.FieldText(rec.ID, "education")
	require.NoError(t, err)
	assert.Equal(t, "MIT", text)
	_, err = w.FieldText("missing", "education")
	assert.True(t, errors.Is(err, common.ErrNotFound))

	art, err := w.Export(export.FormatCSV)
	require.NoError(t, err)
	assert.Contains(t, art.FileName, "extraction_results_")

	assert.Equal(t, 1, w.ClearResults())
	assert.Zero(t, w.Results.Count())
}
