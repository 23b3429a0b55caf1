package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/pdf-extractor/internal/app"
	"github.com/joseph-ayodele/pdf-extractor/internal/common"
	"github.com/joseph-ayodele/pdf-extractor/internal/export"
	"github.com/joseph-ayodele/pdf-extractor/internal/llm"
	"github.com/joseph-ayodele/pdf-extractor/internal/schema"
)

func newBatchApp(t *testing.T, gen llm.Generator) *app.App {
	t.Helper()
	a, err := app.NewWithGenerator(&common.Config{
		Pipeline: common.PipelineConfig{Workers: 1},
		Export:   common.ExportConfig{Locale: "en-US"},
	}, gen, nil)
	require.NoError(t, err)
	return a
}

func pdfDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "in")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("%PDF-1.4 "+n), 0o644))
	}
	return dir
}

func TestRun_AllFilesFail(t *testing.T) {
	down := llm.GeneratorFunc(func(context.Context, llm.GenerateRequest) (string, error) {
		return "", fmt.Errorf("quota exceeded: %w", common.ErrUpstream)
	})
	dir := pdfDir(t, "a.pdf", "b.pdf")
	out := filepath.Join(t.TempDir(), "results.json")

	var stdout bytes.Buffer
	code := run(context.Background(), newBatchApp(t, down), batchOptions{
		Dir: dir, Out: out, Format: export.FormatJSON, SchemaID: schema.ResumeID,
	}, &stdout, nil)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "- Files queued: 2\n")
	assert.Contains(t, stdout.String(), "- Extracted: 0\n")
	assert.Contains(t, stdout.String(), "- Failures: 2\n")
	assert.Contains(t, stdout.String(), "- Output: none\n")
	assert.NoFileExists(t, out)
}

func TestRun_WritesExport(t *testing.T) {
	gen := llm.GeneratorFunc(func(_ context.Context, req llm.GenerateRequest) (string, error) {
		if req.Document.Name == "b.pdf" {
			return "", fmt.Errorf("timeout: %w", common.ErrUpstream)
		}
		return fmt.Sprintf(`{"name":%q,"education":[],"companies":[]}`, req.Document.Name), nil
	})
	dir := pdfDir(t, "a.pdf", "b.pdf", "notes.txt")
	out := filepath.Join(t.TempDir(), "results.json")

	var stdout bytes.Buffer
	code := run(context.Background(), newBatchApp(t, gen), batchOptions{
		Dir: dir, Out: out, Format: export.FormatJSON, SchemaID: schema.ResumeID,
	}, &stdout, nil)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "- Extracted: 1\n")
	assert.Contains(t, stdout.String(), "- Failures: 1\n")
	assert.Contains(t, stdout.String(), "- Output: "+out+"\n")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"fileName": "a.pdf"`)
}

func TestRun_UnknownSchema(t *testing.T) {
	var stdout bytes.Buffer
	code := run(context.Background(), newBatchApp(t, llm.GeneratorFunc(nil)), batchOptions{
		Dir: pdfDir(t, "a.pdf"), Format: export.FormatJSON, SchemaID: "nope",
	}, &stdout, nil)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
}
