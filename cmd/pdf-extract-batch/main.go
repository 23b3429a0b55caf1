package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joseph-ayodele/pdf-extractor/internal/app"
	"github.com/joseph-ayodele/pdf-extractor/internal/common"
	"github.com/joseph-ayodele/pdf-extractor/internal/export"
	"github.com/joseph-ayodele/pdf-extractor/internal/ingest"
	"github.com/joseph-ayodele/pdf-extractor/internal/schema"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

type batchOptions struct {
	Dir      string
	Out      string
	Format   export.Format
	SchemaID string
	Hidden   bool
}

func main() {
	var (
		dir         = flag.String("dir", "", "directory to read PDFs from (required)")
		out         = flag.String("out", "", "output file path (optional, defaults to the parent directory)")
		format      = flag.String("format", "xlsx", "output format: "+strings.Join(export.Formats(), "|"))
		schemaID    = flag.String("schema", schema.ResumeID, "schema id to extract with")
		schemasFile = flag.String("schemas-file", "", "YAML file with extra schemas (overrides SCHEMAS_FILE)")
		workers     = flag.Int("workers", 0, "files extracted at once (overrides PIPELINE_WORKERS)")
		hidden      = flag.Bool("hidden", false, "include hidden files and folders")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if !slices.Contains(export.Formats(), *format) {
		printError("Error: --format must be one of %s\n", strings.Join(export.Formats(), ", "))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *schemasFile != "" {
		cfg.Schemas.File = *schemasFile
	}
	if *workers > 0 {
		cfg.Pipeline.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialise", "error", err)
		os.Exit(1)
	}

	os.Exit(run(ctx, a, batchOptions{
		Dir:      *dir,
		Out:      *out,
		Format:   export.Format(*format),
		SchemaID: *schemaID,
		Hidden:   *hidden,
	}, os.Stdout, logger))
}

// run processes every PDF under opts.Dir and writes one export file. The
// summary is always printed once the pass has finished; the exit code is
// non-zero when nothing could be exported.
func run(ctx context.Context, a *app.App, opts batchOptions, stdout io.Writer, logger *slog.Logger) int {
	if logger == nil {
		logger = slog.Default()
	}
	ws := a.Workspace

	if _, err := ws.Select(opts.SchemaID); err != nil {
		logger.Error("unknown schema", "schema_id", opts.SchemaID, "error", err)
		return 1
	}

	candidates, _, stats, err := ingest.ScanDirectory(opts.Dir, !opts.Hidden, logger)
	if err != nil {
		logger.Error("failed to scan directory", "error", err)
		return 1
	}
	report := ws.AddFiles(candidates)
	for _, rej := range report.Rejected {
		logger.Warn("file skipped", "name", rej.Name, "reason", string(rej.Reason))
	}
	if len(report.Added) == 0 {
		logger.Error("no PDF files to process", "dir", opts.Dir, "matched", stats.Matched)
		return 1
	}

	if _, err := ws.StartPass(ctx); err != nil {
		logger.Error("failed to start pass", "error", err)
		return 1
	}
	if err := ws.Wait(ctx); err != nil {
		logger.Error("pass interrupted", "error", err)
		return 1
	}

	state := ws.State()
	succeeded, failed := 0, 0
	var elapsed time.Duration
	if state.LastReport != nil {
		succeeded, failed = state.LastReport.Succeeded, state.LastReport.Failed
		elapsed = time.Duration(state.LastReport.ElapsedMS) * time.Millisecond
	}

	output, code := writeExport(ws.Export, opts, logger)

	logger.Info("batch processing complete",
		"files_queued", len(report.Added),
		"succeeded", succeeded,
		"failed", failed,
		"output_file", output)

	fmt.Fprintf(stdout, "Batch processing complete!\n")
	fmt.Fprintf(stdout, "- Files queued: %d\n", len(report.Added))
	fmt.Fprintf(stdout, "- Extracted: %d\n", succeeded)
	fmt.Fprintf(stdout, "- Failures: %d\n", failed)
	fmt.Fprintf(stdout, "- Elapsed: %s\n", elapsed)
	if output == "" {
		fmt.Fprintf(stdout, "- Output: none\n")
	} else {
		fmt.Fprintf(stdout, "- Output: %s\n", output)
	}
	return code
}

func writeExport(exportFn func(export.Format) (export.Artifact, error), opts batchOptions, logger *slog.Logger) (string, int) {
	art, err := exportFn(opts.Format)
	if errors.Is(err, export.ErrNothingToExport) {
		logger.Error("no records extracted, nothing written")
		return "", 1
	}
	if err != nil {
		logger.Error("failed to export results", "error", err)
		return "", 1
	}

	out := opts.Out
	if out == "" {
		out = filepath.Join(filepath.Dir(filepath.Clean(opts.Dir)), art.FileName)
	}
	if err := os.WriteFile(out, art.Data, 0o644); err != nil {
		logger.Error("failed to write output file", "error", err)
		return "", 1
	}
	return out, 0
}
