package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/pdf-extractor/constants"
	"github.com/joseph-ayodele/pdf-extractor/internal/common"
	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
	"github.com/joseph-ayodele/pdf-extractor/internal/llm"
)

// Extraction is the product of one successful stage run.
type Extraction struct {
	Record     *entity.Record
	Raw        string
	Strategy   llm.Strategy
	Violations []string
}

// InvalidRecordError is returned in strict mode when the recovered object does
// not match the schema.
type InvalidRecordError struct {
	Violations []string
	Raw        string
}

func (e *InvalidRecordError) Error() string {
	return "record does not match schema: " + strings.Join(e.Violations, "; ")
}

func (e *InvalidRecordError) Unwrap() error {
	return common.ErrValidation
}

// Extractor turns one document into a record for a schema.
type Extractor interface {
	Extract(ctx context.Context, file entity.UploadedFile, cfg entity.ParserConfig) (*Extraction, error)
}

// ExtractStage builds the prompt, calls the model once, recovers JSON from its
// answer and checks it against the schema.
type ExtractStage struct {
	Logger    *slog.Logger
	Generator llm.Generator
	Strict    bool
}

func NewExtractStage(gen llm.Generator, strict bool, logger *slog.Logger) *ExtractStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStage{Logger: logger, Generator: gen, Strict: strict}
}

// Extract runs the stage. Errors are *llm.UnparseableError, *InvalidRecordError
// or an upstream failure wrapping common.ErrUpstream.
func (s *ExtractStage) Extract(ctx context.Context, file entity.UploadedFile, cfg entity.ParserConfig) (*Extraction, error) {
	start := time.Now()
	logger := common.LoggerFromContext(ctx, s.Logger)

	raw, err := s.Generator.Generate(ctx, llm.GenerateRequest{
		Prompt: llm.BuildExtractionPrompt(cfg),
		Document: llm.Document{
			Name:     file.Name,
			MimeType: file.MimeType,
			Data:     file.Data,
		},
	})
	if err != nil {
		logger.Error("extract.generate.failed", "file", file.Name, "error", err)
		return nil, common.WrapError(err, "generate")
	}

	obj, strategy, err := llm.RecoverJSON(raw)
	if err != nil {
		logger.Error("extract.recover.failed", "file", file.Name, "raw_chars", len(raw))
		return nil, err
	}
	if strategy != llm.StrategyDirect {
		logger.Warn("extract.recover.fallback", "file", file.Name, "strategy", string(strategy))
	}

	var violations []string
	if vErr := llm.ValidateAgainstSchema(llm.BuildRecordJSONSchema(cfg), obj); vErr != nil {
		violations = llm.SchemaViolations(vErr)
		if s.Strict {
			logger.Error("extract.schema_validation_failed", "file", file.Name, "violations", violations)
			return nil, &InvalidRecordError{Violations: violations, Raw: raw}
		}
		logger.Warn("extract.schema_validation_lenient", "file", file.Name, "violations", len(violations))
	}

	rec := entity.NewRecord(uuid.New().String(), file.Name, cfg.ID)
	llm.NormalizeAndSanitize(cfg, obj, rec, logger)

	logger.Info("extract.ok",
		"file", file.Name,
		"record_id", rec.ID,
		"schema_id", cfg.ID,
		"strategy", string(strategy),
		"issues", len(rec.Issues),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &Extraction{Record: rec, Raw: raw, Strategy: strategy, Violations: violations}, nil
}

// ClassifyFailure maps a stage error to the failure kind reported for the file
// and, where there is one, the raw model answer.
func ClassifyFailure(err error) (constants.FailureKind, string) {
	var ue *llm.UnparseableError
	if errors.As(err, &ue) {
		return constants.FailureUnparseable, ue.Raw
	}
	var ie *InvalidRecordError
	if errors.As(err, &ie) {
		return constants.FailureInvalid, ie.Raw
	}
	return constants.FailureUpstream, ""
}
