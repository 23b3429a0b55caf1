package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/pdf-extractor/internal/common"
	"github.com/joseph-ayodele/pdf-extractor/internal/export"
	"github.com/joseph-ayodele/pdf-extractor/internal/llm"
	"github.com/joseph-ayodele/pdf-extractor/internal/llm/provider"
	"github.com/joseph-ayodele/pdf-extractor/internal/pipeline"
	"github.com/joseph-ayodele/pdf-extractor/internal/results"
	"github.com/joseph-ayodele/pdf-extractor/internal/schema"
	"github.com/joseph-ayodele/pdf-extractor/internal/upload"
	"github.com/joseph-ayodele/pdf-extractor/internal/workspace"
)

// App is the wired object graph shared by the daemon and the batch command.
type App struct {
	Workspace *workspace.Workspace
	Extractor pipeline.Extractor
}

// New builds the configured model client and wires everything around it.
func New(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*App, error) {
	gen, err := provider.New(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	return NewWithGenerator(cfg, gen, logger)
}

// NewWithGenerator wires the app around an existing generator.
func NewWithGenerator(cfg *common.Config, gen llm.Generator, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	schemas := schema.NewService(logger)
	if cfg.Schemas.File != "" {
		configs, err := schema.LoadFile(cfg.Schemas.File)
		if err != nil {
			return nil, fmt.Errorf("load schemas file: %w", err)
		}
		if err := schemas.Import(configs); err != nil {
			return nil, fmt.Errorf("import schemas: %w", err)
		}
	}

	stage := pipeline.NewExtractStage(gen, cfg.LLM.StrictSchema, logger)
	proc := pipeline.NewProcessor(logger, stage,
		pipeline.WithWorkers(cfg.Pipeline.Workers),
		pipeline.WithFileTimeout(cfg.Pipeline.ProcessTimeout),
	)

	ws := workspace.New(
		schemas,
		upload.NewQueue(logger),
		results.NewStore(),
		results.NewRenderer(cfg.Export.Locale),
		export.NewService(cfg.Export, logger),
		proc,
		logger,
	)
	logger.Info("app.ready",
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
		"workers", proc.Workers(),
		"schemas", len(schemas.List()),
	)
	return &App{Workspace: ws, Extractor: stage}, nil
}
